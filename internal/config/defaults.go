package config

const (
	defaultDataDir            = "~/.local/share/theramuse/data"
	defaultLogDir             = "~/.local/share/theramuse/logs"
	defaultSearchBaseURL      = "https://api.rx.theramuse.net/api/youtube/search"
	defaultSearchTimeout      = 10
	defaultSearchMaxResults   = 25
	defaultMinDurationSeconds = 120
	defaultMaxDurationSeconds = 600
	defaultBanditLambda       = 1.0
	defaultBanditSigma2       = 1.0
	defaultBanditDecay        = 0.98
	defaultBanditTopN         = 5
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

func defaultBackupURLs() []string {
	return []string{
		"https://api.theramuse.org/api/youtube/search",
		"https://youtube-v2-api.rx.theramuse.net/search",
		"https://theramuse-youtube-api.onrender.com/search",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Search: Search{
			BaseURL:            defaultSearchBaseURL,
			BackupURLs:         defaultBackupURLs(),
			TimeoutSeconds:     defaultSearchTimeout,
			MaxResults:         defaultSearchMaxResults,
			MinDurationSeconds: defaultMinDurationSeconds,
			MaxDurationSeconds: defaultMaxDurationSeconds,
		},
		Bandit: Bandit{
			Lambda: defaultBanditLambda,
			Sigma2: defaultBanditSigma2,
			Decay:  defaultBanditDecay,
			TopN:   defaultBanditTopN,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
