package musicsearch

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Song is a single music search result. The upstream service is loose about
// field types, so duration and id tolerate several shapes.
type Song struct {
	Title       string   `json:"title"`
	URL         string   `json:"url,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	Description string   `json:"description,omitempty"`
	Duration    Duration `json:"duration,omitempty"`
	RawID       VideoID  `json:"id,omitempty"`
	Fallback    bool     `json:"fallback,omitempty"`
}

// VideoID returns the video identifier, preferring the URL over the raw id
// field since backup endpoints disagree about which is populated.
func (s Song) VideoID() string {
	if s.URL != "" {
		if idx := strings.Index(s.URL, "watch?v="); idx >= 0 {
			id := s.URL[idx+len("watch?v="):]
			if amp := strings.Index(id, "&"); amp >= 0 {
				id = id[:amp]
			}
			return id
		}
		parts := strings.Split(strings.TrimRight(s.URL, "/"), "/")
		return parts[len(parts)-1]
	}
	return string(s.RawID)
}

// VideoID accepts either a bare string or the nested {"videoId": ...} object
// some endpoints return.
type VideoID string

func (v *VideoID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = VideoID(s)
		return nil
	}
	var nested struct {
		VideoID string `json:"videoId"`
	}
	if err := json.Unmarshal(data, &nested); err == nil {
		*v = VideoID(nested.VideoID)
		return nil
	}
	*v = ""
	return nil
}

// Duration is a video length in seconds. Endpoints report it as a number, a
// digit string, ISO 8601 (PT3M30S), HH:MM:SS or MM:SS; unparseable values
// decode to zero rather than failing the whole result set.
type Duration int

func (d *Duration) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Duration(int(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = Duration(parseDurationString(s))
		return nil
	}
	*d = 0
	return nil
}

// Seconds reports the duration in seconds, zero when unknown.
func (d Duration) Seconds() int {
	return int(d)
}

var (
	isoDurationRe  = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
	hhmmssRe       = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})$`)
	mmssDurationRe = regexp.MustCompile(`^(\d+):(\d{2})$`)
)

func parseDurationString(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if m := isoDurationRe.FindStringSubmatch(s); m != nil {
		return atoiDefault(m[1])*3600 + atoiDefault(m[2])*60 + atoiDefault(m[3])
	}
	if m := hhmmssRe.FindStringSubmatch(s); m != nil {
		return atoiDefault(m[1])*3600 + atoiDefault(m[2])*60 + atoiDefault(m[3])
	}
	if m := mmssDurationRe.FindStringSubmatch(s); m != nil {
		return atoiDefault(m[1])*60 + atoiDefault(m[2])
	}
	return 0
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
