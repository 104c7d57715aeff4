package profile

import (
	"fmt"
	"strings"

	"theramuse/internal/services"
)

// Parse converts the loose patient_info blob into a typed Profile. Unknown
// keys are ignored; known keys tolerate the input shapes the intake forms
// have historically produced (genre as string, comma list, or array).
func Parse(raw map[string]any, condition Condition) (*Profile, error) {
	p := &Profile{
		Name:               stringField(raw, "name"),
		Age:                intField(raw, "age"),
		BirthYear:          intField(raw, "birth_year"),
		BirthplaceCountry:  stringField(raw, "birthplace_country"),
		BirthplaceCity:     stringField(raw, "birthplace_city"),
		Instruments:        stringList(raw["instruments"]),
		FavoriteGenres:     genreList(raw["favorite_genre"]),
		FavoriteMusician:   stringField(raw, "favorite_musician"),
		FavoriteSeason:     stringField(raw, "favorite_season"),
		NaturalElements:    stringList(raw["natural_elements"]),
		PreferredLanguages: stringList(raw["preferred_languages"]),
		Clinical: Clinical{
			DifficultySleeping:              boolField(raw, "difficulty_sleeping"),
			TroubleRemembering:              boolField(raw, "trouble_remembering"),
			ForgetsEverydayThings:           boolField(raw, "forgets_everyday_things"),
			DifficultyRecallingOldMemories:  boolField(raw, "difficulty_recalling_old_memories"),
			MemoryWorseThanYearAgo:          boolField(raw, "memory_worse_than_year_ago"),
			VisitedMentalHealthProfessional: boolField(raw, "visited_mental_health_professional"),
		},
		Raw: raw,
	}

	scores, err := big5Scores(raw)
	if err != nil {
		return nil, err
	}
	p.Big5Scores = scores

	if err := p.validate(condition); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) validate(condition Condition) error {
	if condition == "" {
		return services.Wrap(services.ErrValidation, "profile", "validate", "condition is required", nil)
	}
	// Genre-driven categories only exist on the dementia path; the fixed
	// catalogs for the other conditions need no genre input.
	if condition == ConditionDementia && len(p.FavoriteGenres) == 0 {
		return services.Wrap(services.ErrValidation, "profile", "validate",
			"at least one favorite genre is required for dementia recommendations", nil)
	}
	for trait, score := range p.Big5Scores {
		if score < 1 || score > 7 {
			return services.Wrap(services.ErrValidation, "profile", "validate",
				fmt.Sprintf("big five score for %s out of 1-7 range: %g", trait, score), nil)
		}
	}
	return nil
}

// big5Scores reads either precomputed big5_scores or raw big5_responses
// item pairs, preferring explicit scores when both are present.
func big5Scores(raw map[string]any) (map[Trait]float64, error) {
	if scores, ok := raw["big5_scores"].(map[string]any); ok {
		out := make(map[Trait]float64, len(scores))
		for _, trait := range Traits() {
			if v, ok := floatValue(scores[string(trait)]); ok {
				out[trait] = v
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	responses, ok := raw["big5_responses"].(map[string]any)
	if !ok {
		return nil, nil
	}
	pairs := make(map[Trait]ItemPair, len(responses))
	for _, trait := range Traits() {
		entry, ok := responses[string(trait)].(map[string]any)
		if !ok {
			continue
		}
		direct, okD := floatValue(entry["direct"])
		reverse, okR := floatValue(entry["reverse"])
		if !okD || !okR {
			return nil, services.Wrap(services.ErrValidation, "profile", "parse",
				fmt.Sprintf("big five responses for %s must include numeric direct and reverse items", trait), nil)
		}
		pairs[trait] = ItemPair{Direct: direct, Reverse: reverse}
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	return ScoreBig5(pairs)
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intField(raw map[string]any, key string) int {
	if v, ok := floatValue(raw[key]); ok {
		return int(v)
	}
	return 0
}

func boolField(raw map[string]any, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true") || v == "1"
	case float64:
		return v != 0
	default:
		return false
	}
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(list))
		for _, s := range list {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case string:
		trimmed := strings.TrimSpace(list)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	default:
		return nil
	}
}

// genreList accepts an array, a single string, or a comma separated string,
// matching the shapes the intake form has produced over time.
func genreList(v any) []string {
	if s, ok := v.(string); ok && strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return stringList(v)
}
