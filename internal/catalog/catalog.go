package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"theramuse/internal/profile"
)

// Category is one therapy search category derived from a patient profile.
// Key identifies the bandit arm, Query is the primary search term and
// Fallbacks are tried in order when the primary yields too few results.
type Category struct {
	Key            string
	Query          string
	Fallbacks      []string
	Target         int
	FilterChildren bool
	AllowSpoken    bool
	LocationHint   string
	Description    string
}

const defaultTarget = 5

// Nostalgia returns the formative listening window for a birth year. The
// window spans ages ten through thirty, the period autobiographical music
// memory anchors to. A zero birth year gets a generic modern window.
func Nostalgia(birthYear int) (start, end int) {
	if birthYear == 0 {
		return 1990, 2010
	}
	return birthYear + 10, birthYear + 30
}

// Generation describes the musical era a birth cohort grew up with.
type Generation struct {
	AgeGroup        string   `json:"age_group"`
	MusicalContext  string   `json:"musical_context"`
	TherapeuticRaga []string `json:"therapeutic_ragas"`
	Focus           string   `json:"focus"`
}

type cohort struct {
	start, end int
	gen        Generation
}

var cohorts = []cohort{
	{1931, 1955, Generation{
		AgeGroup:        "Born 1931-1955",
		MusicalContext:  "Rabindra Sangeet, Nazrul Geeti, Baul, early film scores",
		TherapeuticRaga: []string{"Yaman", "Bageshri", "Desh", "Khamaj", "Bhairavi"},
		Focus:           "calmness, patriotic connection, spiritual grounding, rest, healing",
	}},
	{1956, 1965, Generation{
		AgeGroup:        "Born 1956-1965",
		MusicalContext:  "Band Revolution, Folk-Pop Fusion",
		TherapeuticRaga: []string{"Kafi", "Pahadi", "Bhairavi"},
		Focus:           "peace, tranquility, holistic healing, emotional balance",
	}},
	{1966, 1980, Generation{
		AgeGroup:        "Born 1966-1980",
		MusicalContext:  "Rock, Electro-Fusion, Indie Pop",
		TherapeuticRaga: []string{"Darbari Kanada", "Durga", "Jogiya", "Maand"},
		Focus:           "emotional balance, stability, focus, resilience, stress management",
	}},
	{1981, 1995, Generation{
		AgeGroup:        "Born 1981-1995",
		MusicalContext:  "Hip-Hop, EDM, Global Fusion",
		TherapeuticRaga: []string{"Keeravani", "Charukeshi", "Gauri", "Hamsadhwani"},
		Focus:           "upliftment, attention, optimism, relaxation, mental fatigue",
	}},
}

// GenerationFor maps a birth year onto its musical cohort. Years outside the
// known cohorts get a generic context.
func GenerationFor(birthYear int) Generation {
	for _, c := range cohorts {
		if birthYear >= c.start && birthYear <= c.end {
			return c.gen
		}
	}
	return Generation{
		AgeGroup:        "Unknown",
		MusicalContext:  "General therapeutic music",
		TherapeuticRaga: []string{"Yaman", "Bageshri", "Desh"},
		Focus:           "general wellness",
	}
}

var keySanitizer = regexp.MustCompile(`[^a-z0-9_]+`)
var underscoreRuns = regexp.MustCompile(`_+`)

// SanitizeKey reduces a query string to a stable lowercase identifier usable
// as an arm key.
func SanitizeKey(s string) string {
	k := strings.ToLower(s)
	k = keySanitizer.ReplaceAllString(k, "_")
	k = underscoreRuns.ReplaceAllString(k, "_")
	return strings.Trim(k, "_")
}

var titleCaser = cases.Title(language.English)

// ForProfile derives the ordered category list for a patient. Ordering is
// deterministic for a given profile: the bandit records candidates by
// retrieval position, so two runs over the same profile must agree.
func ForProfile(p *profile.Profile, condition profile.Condition) []Category {
	switch condition {
	case profile.ConditionDownSyndrome:
		return downSyndromeCategories()
	case profile.ConditionADHD:
		return adhdCategories()
	default:
		return dementiaCategories(p)
	}
}

func dementiaCategories(p *profile.Profile) []Category {
	start, end := Nostalgia(p.BirthYear)
	window := fmt.Sprintf("%d-%d", start, end)
	var cats []Category

	if p.BirthplaceCountry != "" {
		cats = append(cats, locationCategory("birthplace_country", p.BirthplaceCountry, p.FavoriteGenres, window, start))
	}
	if p.BirthplaceCity != "" {
		cats = append(cats, locationCategory("birthplace_city", p.BirthplaceCity, p.FavoriteGenres, window, start))
	}

	if len(p.Instruments) > 0 {
		instruments := p.Instruments
		if len(instruments) > 5 {
			instruments = instruments[:5]
		}
		c := Category{
			Key:    "instruments",
			Query:  instruments[0] + " song",
			Target: defaultTarget,
		}
		for _, instrument := range instruments[1:] {
			c.Fallbacks = append(c.Fallbacks, instrument+" song")
		}
		cats = append(cats, c)
	}

	if p.FavoriteSeason != "" {
		cats = append(cats, Category{
			Key:   "seasonal",
			Query: p.FavoriteSeason + " relaxing music",
			Fallbacks: []string{
				p.FavoriteSeason + " music",
				p.FavoriteSeason + " vibes",
				p.FavoriteSeason + " playlist",
				"spring songs collection",
				"beautiful spring music",
				"spring instrumental music",
			},
			Target: defaultTarget,
		})
	}

	if len(p.NaturalElements) > 0 {
		elements := p.NaturalElements
		if len(elements) > 5 {
			elements = elements[:5]
		}
		c := Category{
			Key:         "natural_elements",
			Query:       elements[0] + " relaxing music",
			Target:      defaultTarget,
			AllowSpoken: true,
		}
		for _, element := range elements {
			c.Fallbacks = append(c.Fallbacks,
				element+" music",
				element+" sounds",
				element+" ambient",
			)
		}
		c.Fallbacks = append(c.Fallbacks,
			"rain sounds for sleeping",
			"nature sounds rain",
			"rain and thunder sounds",
		)
		cats = append(cats, c)
	}

	if genre := p.FavoriteGenre(); genre != "" {
		cats = append(cats, Category{
			Key:   "favorite_genre",
			Query: genre + " best songs official",
			Fallbacks: []string{
				genre + " songs",
				genre + " playlist",
				"best " + genre + " songs",
				"top " + genre + " tracks",
				"classic " + genre + " hits",
			},
			Target: defaultTarget,
		})
	}

	if p.FavoriteMusician != "" {
		musician := titleCaser.String(p.FavoriteMusician)
		cats = append(cats, Category{
			Key:   "favorite_musician",
			Query: musician + " best songs official",
			Fallbacks: []string{
				musician + " greatest hits official",
				musician + " official",
				"best " + musician,
				musician + " greatest hits",
				musician + " playlist",
			},
			Target: defaultTarget,
		})
	}

	if len(p.PreferredLanguages) > 0 && len(p.FavoriteGenres) > 0 {
		languages := p.PreferredLanguages
		if len(languages) > 3 {
			languages = languages[:3]
		}
		genres := p.FavoriteGenres
		if len(genres) > 2 {
			genres = genres[:2]
		}
		var queries []string
		for _, lang := range languages {
			for _, genre := range genres {
				queries = append(queries, fmt.Sprintf("%s %s %s song", lang, genre, window))
			}
		}
		cats = append(cats, Category{
			Key:       "preferred_languages",
			Query:     queries[0],
			Fallbacks: queries[1:],
			Target:    defaultTarget,
		})
	}

	cats = append(cats, clinicalCategories(p.Clinical)...)

	if len(p.Big5Scores) > 0 {
		if genres := PersonalityGenres(p.Big5Scores); len(genres) > 0 {
			c := Category{
				Key:            "big5_scores_songs",
				Query:          genres[0] + " song",
				Target:         defaultTarget,
				FilterChildren: true,
			}
			limit := len(genres)
			if limit > 5 {
				limit = 5
			}
			for _, genre := range genres[1:limit] {
				c.Fallbacks = append(c.Fallbacks, genre+" song")
			}
			c.Fallbacks = append(c.Fallbacks, "Piano song", "Spring song", "Rain song")
			cats = append(cats, c)
		}
	}

	return cats
}

func locationCategory(key, place string, genres []string, window string, start int) Category {
	limit := len(genres)
	if limit > 3 {
		limit = 3
	}
	var queries []string
	for _, genre := range genres[:limit] {
		queries = append(queries,
			fmt.Sprintf("%s %s songs %s", place, genre, window),
			fmt.Sprintf("%s %s music %s", place, genre, window),
			fmt.Sprintf("%s %s songs", place, genre),
		)
	}
	if len(queries) == 0 {
		queries = append(queries, place+" songs "+window)
	}
	queries = append(queries,
		fmt.Sprintf("Bangla song %d", start),
		fmt.Sprintf("Bengali song %d", start),
		"Popular Bangla song",
		"Bangla modern song",
	)
	return Category{
		Key:          key,
		Query:        queries[0],
		Fallbacks:    queries[1:],
		Target:       defaultTarget,
		LocationHint: place,
	}
}

// Therapeutic artist and frequency queries for memory and sleep assessment
// flags. All true flags become their own category.
var therapeuticQueries = map[string][]string{
	"difficulty_sleeping": {
		"estas tonne song",
		"432 hz music",
		"hypnosis music",
		"829 hz music",
		"Pere Andre Farah",
		"Classical Music to Make Your Brain Shut Up",
		"barber beat music",
		"Vaporwave music",
		"Khruangbin",
		"Hermanos Gutiérrez",
		"Clint Mansell",
		"State azure",
	},
	"trouble_remembering": {
		"estas tonne song",
		"Classical Music to Make Your Brain Shut Up",
		"829 hz music",
		"Khruangbin",
		"Hermanos Gutiérrez",
		"Pere Andre Farah",
	},
	"forgets_everyday_things": {
		"estas tonne song",
		"Classical Music to Make Your Brain Shut Up",
		"829 hz music",
		"Khruangbin",
		"Hermanos Gutiérrez",
		"Pere Andre Farah",
	},
	"difficulty_recalling_old_memories": {
		"estas tonne song",
		"Classical Music to Make Your Brain Shut Up",
		"829 hz music",
		"Khruangbin",
		"Hermanos Gutiérrez",
		"Pere Andre Farah",
	},
	"memory_worse_than_year_ago": {
		"estas tonne song",
		"Classical Music to Make Your Brain Shut Up",
		"829 hz music",
		"Khruangbin",
		"Hermanos Gutiérrez",
		"Pere Andre Farah",
	},
	"visited_mental_health_professional": {
		"relax saxophone",
		"Khruangbin",
	},
}

func clinicalCategories(c profile.Clinical) []Category {
	flags := []struct {
		key    string
		set    bool
		target int
	}{
		{"difficulty_sleeping", c.DifficultySleeping, defaultTarget},
		{"trouble_remembering", c.TroubleRemembering, defaultTarget},
		{"forgets_everyday_things", c.ForgetsEverydayThings, defaultTarget},
		{"difficulty_recalling_old_memories", c.DifficultyRecallingOldMemories, defaultTarget},
		{"memory_worse_than_year_ago", c.MemoryWorseThanYearAgo, defaultTarget},
		{"visited_mental_health_professional", c.VisitedMentalHealthProfessional, 2},
	}
	var cats []Category
	for _, f := range flags {
		if !f.set {
			continue
		}
		queries := therapeuticQueries[f.key]
		cats = append(cats, Category{
			Key:            f.key,
			Query:          queries[0],
			Fallbacks:      queries[1:],
			Target:         f.target,
			FilterChildren: true,
		})
	}
	return cats
}

func downSyndromeCategories() []Category {
	queries := []string{
		"Theta (4–8 Hz) brainwave entrainment",
		"40 Hz Stimulation music",
		"432 Hz Music",
		"528 Hz Music",
		"40–60 BPM rhythm",
		"sensory integration music therapy",
		"relaxing music for autism children",
	}
	keys := map[string]string{
		"Theta (4–8 Hz) brainwave entrainment": "theta_brainwave_4_8hz",
		"40 Hz Stimulation music":              "stimulation_40hz",
		"432 Hz Music":                         "432hz_healing",
		"528 Hz Music":                         "528hz_miracle",
		"40–60 BPM rhythm":                     "rhythm_40_60bpm",
		"sensory integration music therapy":    "sensory_integration",
		"relaxing music for autism children":   "autism_relaxing",
	}
	return fixedCategories(queries, keys, "Down Syndrome therapy music")
}

func adhdCategories() []Category {
	queries := []string{
		"Alpha range (8–12 Hz) brainwave entrainment",
		"40 Hz (Gamma–Beta border)",
		"3333 Hz - Pure Binaural Beat Frequency",
		"binaural beats focus 40 hz",
		"barber beat music",
		"Khruangbin",
		"Vaporwave music",
		"Hermanos Gutiérrez",
		"estas tonne song",
		"432 hz music",
		"829 hz music",
		"Pere Andre Farah",
		"Classical Music to Make Your Brain Shut Up",
		"State azure song",
		"Clint Mansell",
	}
	keys := map[string]string{
		"Alpha range (8–12 Hz) brainwave entrainment": "alpha_brainwave_entrainment",
		"40 Hz (Gamma–Beta border)":                   "gamma_beta_border_40hz",
		"3333 Hz - Pure Binaural Beat Frequency":      "pure_binaural_3333hz",
		"binaural beats focus 40 hz":                  "binaural_focus_40hz",
		"barber beat music":                           "barber_beat_music",
		"Khruangbin":                                  "khruangbin_music",
		"Vaporwave music":                             "vaporwave_focus",
		"Hermanos Gutiérrez":                          "hermanos_gutierrez",
		"estas tonne song":                            "estas_tonne_guitar",
		"432 hz music":                                "432hz_healing",
		"829 hz music":                                "829hz_therapy",
		"Pere Andre Farah":                            "pere_andre_farah",
		"Classical Music to Make Your Brain Shut Up":  "classical_brain_focus",
		"State azure song":                            "modular_synth_music",
		"Clint Mansell":                               "clint_mansell_compositions",
	}
	return fixedCategories(queries, keys, "ADHD therapy music")
}

func fixedCategories(queries []string, keys map[string]string, descPrefix string) []Category {
	cats := make([]Category, 0, len(queries))
	for _, q := range queries {
		key, ok := keys[q]
		if !ok {
			key = SanitizeKey(q)
		}
		cats = append(cats, Category{
			Key:         key,
			Query:       q,
			Target:      defaultTarget,
			AllowSpoken: true,
			Description: descPrefix + ": " + q,
		})
	}
	return cats
}
