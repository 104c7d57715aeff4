package catalog_test

import (
	"reflect"
	"strings"
	"testing"

	"theramuse/internal/catalog"
	"theramuse/internal/profile"
)

func dementiaProfile() *profile.Profile {
	return &profile.Profile{
		Name:              "Mary",
		Age:               78,
		BirthYear:         1948,
		BirthplaceCountry: "Bangladesh",
		BirthplaceCity:    "Dhaka",
		Instruments:       []string{"piano"},
		FavoriteGenres:    []string{"folk"},
		FavoriteMusician:  "nina simone",
		FavoriteSeason:    "spring",
		NaturalElements:   []string{"rain"},
		Big5Scores: map[profile.Trait]float64{
			profile.TraitOpenness: 6,
		},
		Clinical: profile.Clinical{DifficultySleeping: true},
	}
}

func TestNostalgiaWindow(t *testing.T) {
	start, end := catalog.Nostalgia(1948)
	if start != 1958 || end != 1978 {
		t.Fatalf("window = %d-%d, want 1958-1978", start, end)
	}
	start, end = catalog.Nostalgia(0)
	if start != 1990 || end != 2010 {
		t.Fatalf("default window = %d-%d, want 1990-2010", start, end)
	}
}

func TestGenerationFor(t *testing.T) {
	gen := catalog.GenerationFor(1948)
	if gen.AgeGroup != "Born 1931-1955" {
		t.Errorf("cohort = %q, want Born 1931-1955", gen.AgeGroup)
	}
	if len(gen.TherapeuticRaga) != 5 {
		t.Errorf("raga count = %d, want 5", len(gen.TherapeuticRaga))
	}
	gen = catalog.GenerationFor(1910)
	if gen.AgeGroup != "Unknown" {
		t.Errorf("out of range cohort = %q, want Unknown", gen.AgeGroup)
	}
}

func TestDementiaCategoriesDeterministic(t *testing.T) {
	p := dementiaProfile()
	first := catalog.ForProfile(p, profile.ConditionDementia)
	second := catalog.ForProfile(p, profile.ConditionDementia)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same profile produced different category lists")
	}
}

func TestDementiaCategoryKeys(t *testing.T) {
	cats := catalog.ForProfile(dementiaProfile(), profile.ConditionDementia)
	want := []string{
		"birthplace_country",
		"birthplace_city",
		"instruments",
		"seasonal",
		"natural_elements",
		"favorite_genre",
		"favorite_musician",
		"difficulty_sleeping",
		"big5_scores_songs",
	}
	var got []string
	for _, c := range cats {
		got = append(got, c.Key)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("category keys = %v, want %v", got, want)
	}
}

func TestDementiaCategoriesSkipMissingFields(t *testing.T) {
	p := dementiaProfile()
	p.BirthplaceCity = ""
	p.FavoriteMusician = ""
	p.Clinical = profile.Clinical{}
	cats := catalog.ForProfile(p, profile.ConditionDementia)
	for _, c := range cats {
		switch c.Key {
		case "birthplace_city", "favorite_musician", "difficulty_sleeping":
			t.Errorf("category %q present despite missing profile field", c.Key)
		}
	}
}

func TestLocationQueriesUseNostalgiaWindow(t *testing.T) {
	cats := catalog.ForProfile(dementiaProfile(), profile.ConditionDementia)
	if cats[0].Key != "birthplace_country" {
		t.Fatalf("first category = %q", cats[0].Key)
	}
	if cats[0].Query != "Bangladesh folk songs 1958-1978" {
		t.Errorf("primary query = %q", cats[0].Query)
	}
	if cats[0].LocationHint != "Bangladesh" {
		t.Errorf("location hint = %q", cats[0].LocationHint)
	}
}

func TestMusicianNameTitleCased(t *testing.T) {
	cats := catalog.ForProfile(dementiaProfile(), profile.ConditionDementia)
	for _, c := range cats {
		if c.Key == "favorite_musician" {
			if !strings.HasPrefix(c.Query, "Nina Simone") {
				t.Errorf("musician query = %q, want Nina Simone prefix", c.Query)
			}
			return
		}
	}
	t.Fatal("favorite_musician category missing")
}

func TestClinicalTargets(t *testing.T) {
	p := dementiaProfile()
	p.Clinical = profile.Clinical{
		DifficultySleeping:              true,
		VisitedMentalHealthProfessional: true,
	}
	cats := catalog.ForProfile(p, profile.ConditionDementia)
	targets := map[string]int{}
	for _, c := range cats {
		targets[c.Key] = c.Target
	}
	if targets["difficulty_sleeping"] != 5 {
		t.Errorf("difficulty_sleeping target = %d, want 5", targets["difficulty_sleeping"])
	}
	if targets["visited_mental_health_professional"] != 2 {
		t.Errorf("visited_mental_health_professional target = %d, want 2", targets["visited_mental_health_professional"])
	}
}

func TestFixedCatalogs(t *testing.T) {
	adhd := catalog.ForProfile(&profile.Profile{}, profile.ConditionADHD)
	if len(adhd) != 15 {
		t.Fatalf("adhd categories = %d, want 15", len(adhd))
	}
	if adhd[0].Key != "alpha_brainwave_entrainment" {
		t.Errorf("first adhd key = %q", adhd[0].Key)
	}

	ds := catalog.ForProfile(&profile.Profile{}, profile.ConditionDownSyndrome)
	if len(ds) != 7 {
		t.Fatalf("down syndrome categories = %d, want 7", len(ds))
	}
	if ds[0].Key != "theta_brainwave_4_8hz" {
		t.Errorf("first down syndrome key = %q", ds[0].Key)
	}
	for _, c := range ds {
		if !c.AllowSpoken {
			t.Errorf("category %q should allow spoken content", c.Key)
		}
	}
}

func TestSanitizeKey(t *testing.T) {
	cases := map[string]string{
		"432 Hz Music":        "432_hz_music",
		"Hermanos Gutiérrez":  "hermanos_guti_rrez",
		"  odd -- key!  ":     "odd_key",
		"already_clean_key":   "already_clean_key",
		"Multiple   spaces x": "multiple_spaces_x",
	}
	for in, want := range cases {
		if got := catalog.SanitizeKey(in); got != want {
			t.Errorf("SanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPersonalityGenresDeterministic(t *testing.T) {
	scores := map[profile.Trait]float64{
		profile.TraitOpenness:          6,
		profile.TraitConscientiousness: 3,
		profile.TraitExtraversion:      1,
		profile.TraitAgreeableness:     7,
		profile.TraitNeuroticism:       4,
	}
	first := catalog.PersonalityGenres(scores)
	second := catalog.PersonalityGenres(scores)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same scores produced different genre lists")
	}
	if first[0] != "Art Rock" {
		t.Errorf("first genre = %q, want Art Rock (openness walked first)", first[0])
	}
	seen := map[string]bool{}
	for _, g := range first {
		if seen[g] {
			t.Errorf("duplicate genre %q", g)
		}
		seen[g] = true
	}
}

func TestPersonalityGenresDedup(t *testing.T) {
	// Conscientiousness 5-7 and agreeableness 5-7 both list Orchestral.
	scores := map[profile.Trait]float64{
		profile.TraitConscientiousness: 6,
		profile.TraitAgreeableness:     6,
	}
	genres := catalog.PersonalityGenres(scores)
	count := 0
	for _, g := range genres {
		if g == "Orchestral" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Orchestral appears %d times, want 1", count)
	}
}
