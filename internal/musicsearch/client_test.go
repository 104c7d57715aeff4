package musicsearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"theramuse/internal/musicsearch"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := musicsearch.New("", nil, 0); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "piano song" {
			t.Fatalf("unexpected query parameter: %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("videoCategoryId") != "10" {
			t.Fatalf("missing music category parameter: %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title":"Moonlight Sonata","url":"https://www.youtube.com/watch?v=abc123","duration":240}]`))
	}))
	t.Cleanup(server.Close)

	client, err := musicsearch.New(server.URL, nil, time.Second)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	songs, err := client.Search(context.Background(), "piano song", musicsearch.SearchOptions{MaxResults: 5})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Moonlight Sonata" {
		t.Fatalf("unexpected response: %#v", songs)
	}
	if songs[0].Duration.Seconds() != 240 {
		t.Fatalf("duration = %d, want 240", songs[0].Duration.Seconds())
	}
}

func TestSearchRegionInference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("region") != "BD" || r.URL.Query().Get("language") != "bn" {
			t.Fatalf("expected BD/bn region hints, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client, err := musicsearch.New(server.URL, nil, time.Second)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Search(context.Background(), "Bangladesh folk songs", musicsearch.SearchOptions{RegionFilter: true}); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
}

func TestSearchFallsBackToBackupEndpoint(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(primary.Close)

	backupHits := 0
	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupHits++
		_, _ = w.Write([]byte(`[{"title":"Backup Result","url":"https://www.youtube.com/watch?v=xyz"}]`))
	}))
	t.Cleanup(backup.Close)

	client, err := musicsearch.New(primary.URL, []string{backup.URL}, time.Second)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	songs, err := client.Search(context.Background(), "anything", musicsearch.SearchOptions{})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Backup Result" {
		t.Fatalf("unexpected response: %#v", songs)
	}
	if backupHits != 1 {
		t.Fatalf("backup hit %d times, want 1", backupHits)
	}
}

func TestSearchAllEndpointsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := musicsearch.New(server.URL, nil, time.Second, musicsearch.WithMaxRetries(1))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Search(context.Background(), "anything", musicsearch.SearchOptions{}); err == nil {
		t.Fatal("expected error when all endpoints fail")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client, err := musicsearch.New("https://example.com", nil, time.Second)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Search(context.Background(), "  ", musicsearch.SearchOptions{}); err == nil {
		t.Fatal("expected error for empty query")
	}
}
