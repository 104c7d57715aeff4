package musicsearch

import "strings"

// Filter screens raw search results down to individual therapy-appropriate
// songs. Duration bounds are in seconds; zero disables the bound.
type Filter struct {
	MinDuration int
	MaxDuration int
}

var childrenKeywords = []string{
	"kids", "children", "baby", "babies", "toddler", "nursery",
	"lullaby", "kids songs", "children songs", "baby songs",
	"cartoon", "animated", "disney", "cocomelon", "super simple songs",
	"little baby bum", "mother goose", "pinkfong", "blippi",
	"peppa pig", "paw patrol", "mickey mouse", "elmo", "sesame street",
}

var nonMusicKeywords = []string{
	"reel", "shorts", "#shorts", "#short", "vertical video", "tiktok",
	"playlist", "full playlist", "compilation", "medley",
	"dance challenge", "challenge ", "viral", "meme",
	"tutorial", "how to", "making of", "behind the scenes",
	"reaction", "review", "trailer",
	"funny", "fail", "cringe", "asmr", "storytime", "podcast", "audiobook",
	"full album", "complete album", "dj set", "live set",
}

var nonMusicChannels = []string{
	"topic", "cnn", "bbc", "npr", "pbs", "shorts", "clips", "reels",
}

// KeepSong reports whether a result looks like an individual song. Spoken or
// ambient categories relax the keyword screen since frequency and nature
// content legitimately matches words like "sounds".
func (f Filter) KeepSong(s Song, allowSpoken bool) bool {
	title := strings.ToLower(s.Title)
	if title == "" {
		return false
	}
	description := strings.ToLower(s.Description)
	channel := strings.ToLower(s.Channel)
	url := strings.ToLower(s.URL)

	if strings.Contains(url, "shorts/") || strings.Contains(url, "tiktok.com") {
		return false
	}
	if strings.Contains(url, "list=") {
		return false
	}
	if s.VideoID() == "" {
		return false
	}

	if !allowSpoken {
		for _, kw := range nonMusicKeywords {
			if strings.Contains(title, kw) || strings.Contains(description, kw) {
				return false
			}
		}
		for _, kw := range nonMusicChannels {
			if strings.Contains(channel, kw) {
				return false
			}
		}
	} else {
		for _, kw := range []string{"#short", "shorts", "tiktok", "reel"} {
			if strings.Contains(title, kw) {
				return false
			}
		}
	}

	duration := s.Duration.Seconds()
	if duration > 0 {
		if f.MinDuration > 0 && duration < f.MinDuration {
			return false
		}
		if f.MaxDuration > 0 && duration > f.MaxDuration {
			return false
		}
	}
	return true
}

// IsChildrenContent flags nursery and cartoon material, screened out for
// adult therapy categories.
func IsChildrenContent(s Song) bool {
	title := strings.ToLower(s.Title)
	description := strings.ToLower(s.Description)
	channel := strings.ToLower(s.Channel)
	for _, kw := range childrenKeywords {
		if strings.Contains(title, kw) || strings.Contains(description, kw) || strings.Contains(channel, kw) {
			return true
		}
	}
	return false
}

var locationRejects = []string{
	"punjabi", "hindi", "bollywood", "tamil", "telugu", "marathi",
	"punjab", "mumbai", "delhi", "karachi",
}

var banglaKeywords = []string{
	"bangla", "bengali", "bangladesh", "dhaka", "dhakaiya",
	"bangla gaan", "bangla music", "bangla song",
	"bengali song", "bengali music", "dhaka music",
	"bangla band", "bangla pop", "bangla rock",
	"runa laila", "sabina yasmin", "ayub bachchu", "andrew kishore",
	"habib", "fuad", "arnob", "shironamhin", "warfaze", "artcell",
	"miles", "aurthohin", "chirkut", "tahsan", "subir nandi",
	"pohela boishakh", "noboborsho", "ekushey",
}

// MatchesLocation reports whether a result is plausibly tied to the given
// place. Bengali script in the title or description counts as a match since
// regional uploads rarely romanize their metadata.
func MatchesLocation(s Song, location string) bool {
	if location == "" {
		return true
	}
	title := strings.ToLower(s.Title)
	description := strings.ToLower(s.Description)
	channel := strings.ToLower(s.Channel)

	for _, bad := range locationRejects {
		if strings.Contains(title, bad) || strings.Contains(description, bad) || strings.Contains(channel, bad) {
			return false
		}
	}

	loc := strings.ToLower(location)
	if strings.Contains(title, loc) || strings.Contains(description, loc) || strings.Contains(channel, loc) {
		return true
	}
	for _, kw := range banglaKeywords {
		if strings.Contains(title, kw) || strings.Contains(description, kw) || strings.Contains(channel, kw) {
			return true
		}
	}
	return hasBengaliScript(s.Title) || hasBengaliScript(s.Description)
}

func hasBengaliScript(s string) bool {
	for _, r := range s {
		if r >= 0x0980 && r <= 0x09FF {
			return true
		}
	}
	return false
}

// Dedup tracks video IDs already handed out within a single recommendation
// request so the same video never appears in two categories.
type Dedup struct {
	seen map[string]bool
}

// NewDedup creates an empty request-scoped dedup set.
func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]bool)}
}

// Admit records the song's video ID and reports whether it was new. Songs
// without an ID are never admitted.
func (d *Dedup) Admit(s Song) bool {
	id := s.VideoID()
	if id == "" {
		return false
	}
	if d.seen[id] {
		return false
	}
	d.seen[id] = true
	return true
}

// Size returns the number of admitted videos.
func (d *Dedup) Size() int {
	return len(d.seen)
}
