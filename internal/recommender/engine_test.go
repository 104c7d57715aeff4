package recommender_test

import (
	"context"
	"errors"
	"testing"

	"theramuse/internal/musicsearch"
	"theramuse/internal/recommender"
	"theramuse/internal/services"
	"theramuse/internal/testsupport"
)

func adhdRequest() map[string]any {
	return map[string]any{
		"name": "Alex",
		"age":  12,
	}
}

func dementiaRequest() map[string]any {
	return map[string]any{
		"name":               "Mary",
		"age":                78,
		"birth_year":         1948,
		"birthplace_country": "Bangladesh",
		"instruments":        []any{"piano"},
		"favorite_genre":     []any{"folk"},
	}
}

func newEngine(t *testing.T, searcher musicsearch.Searcher) *recommender.Engine {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return recommender.New(cfg, st, searcher, nil)
}

func TestRecommendADHD(t *testing.T) {
	stub := &testsupport.StubSearcher{
		Default: []musicsearch.Song{
			testsupport.SongFixture("v1", "Alpha Focus Session", 300),
			testsupport.SongFixture("v2", "Gamma Concentration", 280),
		},
	}
	engine := newEngine(t, stub)

	payload, err := engine.Recommend(context.Background(), adhdRequest(), "adhd", "p-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if payload.SessionID == "" {
		t.Fatal("missing session id")
	}
	if payload.Condition != "adhd" || payload.Method != "adhd_therapy_v2" {
		t.Fatalf("condition/method = %q/%q", payload.Condition, payload.Method)
	}
	if len(payload.Categories) != 15 {
		t.Fatalf("categories = %d, want 15", len(payload.Categories))
	}
	if payload.PatientContext["therapy_focus"] == "" {
		t.Fatal("missing therapy focus echo")
	}

	// Every appearance of a stub song consumes it from the dedup set, so
	// totals never exceed the distinct result count.
	if payload.TotalSongs != 2 {
		t.Fatalf("total songs = %d, want 2 (deduped)", payload.TotalSongs)
	}

	sum := 0
	for key, cat := range payload.Categories {
		if cat.Count != len(cat.Songs) {
			t.Fatalf("category %s count mismatch", key)
		}
		sum += cat.Count
	}
	if sum != payload.TotalSongs {
		t.Fatalf("total songs %d != category sum %d", payload.TotalSongs, sum)
	}
}

func TestRecommendDementiaEcho(t *testing.T) {
	stub := &testsupport.StubSearcher{}
	engine := newEngine(t, stub)

	payload, err := engine.Recommend(context.Background(), dementiaRequest(), "dementia", "p-2")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if payload.PatientContext["nostalgia_window"] != "1958-1978" {
		t.Fatalf("nostalgia window = %v", payload.PatientContext["nostalgia_window"])
	}
	if payload.PatientContext["birth_year"] != 1948 {
		t.Fatalf("birth year = %v", payload.PatientContext["birth_year"])
	}
}

func TestRecommendDegradesWhenSearchDown(t *testing.T) {
	stub := &testsupport.StubSearcher{Err: errors.New("endpoints down")}
	engine := newEngine(t, stub)

	payload, err := engine.Recommend(context.Background(), adhdRequest(), "adhd", "")
	if err != nil {
		t.Fatalf("Recommend should degrade, got error: %v", err)
	}
	if payload.TotalSongs != 0 {
		t.Fatalf("total songs = %d, want 0", payload.TotalSongs)
	}
	if len(payload.Categories) != 15 {
		t.Fatalf("degraded payload lost categories: %d", len(payload.Categories))
	}
	for key, cat := range payload.Categories {
		if len(cat.Songs) != 0 {
			t.Fatalf("category %s should be empty", key)
		}
	}
}

func TestRecommendRejectsInvalidInput(t *testing.T) {
	engine := newEngine(t, &testsupport.StubSearcher{})

	_, err := engine.Recommend(context.Background(), adhdRequest(), "anxiety", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("unknown condition error = %v, want ErrValidation", err)
	}

	// Dementia requires at least one favorite genre.
	_, err = engine.Recommend(context.Background(), map[string]any{"name": "X"}, "dementia", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("invalid profile error = %v, want ErrValidation", err)
	}
}

func TestRecommendRespectsTopN(t *testing.T) {
	var songs []musicsearch.Song
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		songs = append(songs, testsupport.SongFixture(id, "Track "+id, 300))
	}
	stub := &testsupport.StubSearcher{Default: songs}

	cfg := testsupport.NewConfig(t, testsupport.WithTopN(3))
	st := testsupport.MustOpenStore(t, cfg)
	engine := recommender.New(cfg, st, stub, nil)

	payload, err := engine.Recommend(context.Background(), adhdRequest(), "adhd", "")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for key, cat := range payload.Categories {
		if len(cat.Songs) > 3 {
			t.Fatalf("category %s selected %d songs, want <= 3", key, len(cat.Songs))
		}
	}
}
