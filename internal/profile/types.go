package profile

import "strings"

// Condition identifies the clinical condition a recommendation request
// targets. It selects both the category catalog and the bandit scope.
type Condition string

const (
	ConditionDementia     Condition = "dementia"
	ConditionDownSyndrome Condition = "down_syndrome"
	ConditionADHD         Condition = "adhd"
)

// ParseCondition normalizes and validates a condition string.
func ParseCondition(raw string) (Condition, bool) {
	switch Condition(strings.ToLower(strings.TrimSpace(raw))) {
	case ConditionDementia:
		return ConditionDementia, true
	case ConditionDownSyndrome:
		return ConditionDownSyndrome, true
	case ConditionADHD:
		return ConditionADHD, true
	default:
		return "", false
	}
}

// Trait names one of the Big Five personality dimensions.
type Trait string

const (
	TraitOpenness          Trait = "openness"
	TraitConscientiousness Trait = "conscientiousness"
	TraitExtraversion      Trait = "extraversion"
	TraitAgreeableness     Trait = "agreeableness"
	TraitNeuroticism       Trait = "neuroticism"
)

// Traits lists the Big Five dimensions in canonical order.
func Traits() []Trait {
	return []Trait{
		TraitOpenness,
		TraitConscientiousness,
		TraitExtraversion,
		TraitAgreeableness,
		TraitNeuroticism,
	}
}

// ItemPair holds the two questionnaire responses backing one trait: a
// directly keyed item and a reverse keyed item, both on a 1-7 scale.
type ItemPair struct {
	Direct  float64 `json:"direct"`
	Reverse float64 `json:"reverse"`
}

// Clinical holds the memory and sleep assessment indicators gathered by the
// dementia intake form.
type Clinical struct {
	DifficultySleeping              bool `json:"difficulty_sleeping"`
	TroubleRemembering              bool `json:"trouble_remembering"`
	ForgetsEverydayThings           bool `json:"forgets_everyday_things"`
	DifficultyRecallingOldMemories  bool `json:"difficulty_recalling_old_memories"`
	MemoryWorseThanYearAgo          bool `json:"memory_worse_than_year_ago"`
	VisitedMentalHealthProfessional bool `json:"visited_mental_health_professional"`
}

// Profile is the typed form of the loosely structured patient_info blob the
// web layer submits. Parse is the single translation boundary between that
// loose input and the strict numeric context the bandit requires.
type Profile struct {
	Name               string
	Age                int
	BirthYear          int
	BirthplaceCountry  string
	BirthplaceCity     string
	Instruments        []string
	FavoriteGenres     []string
	FavoriteMusician   string
	FavoriteSeason     string
	NaturalElements    []string
	PreferredLanguages []string
	Big5Scores         map[Trait]float64
	Clinical           Clinical

	// Raw retains the original blob for audit persistence.
	Raw map[string]any
}

// FavoriteGenre returns the first favorite genre, if any.
func (p *Profile) FavoriteGenre() string {
	if len(p.FavoriteGenres) == 0 {
		return ""
	}
	return p.FavoriteGenres[0]
}
