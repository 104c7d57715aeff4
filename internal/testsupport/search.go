package testsupport

import (
	"context"

	"theramuse/internal/musicsearch"
)

// StubSearcher serves canned results keyed by query, or a fixed error.
type StubSearcher struct {
	Results map[string][]musicsearch.Song
	Default []musicsearch.Song
	Err     error
	Queries []string
}

func (s *StubSearcher) Search(_ context.Context, query string, _ musicsearch.SearchOptions) ([]musicsearch.Song, error) {
	s.Queries = append(s.Queries, query)
	if s.Err != nil {
		return nil, s.Err
	}
	if songs, ok := s.Results[query]; ok {
		return songs, nil
	}
	return s.Default, nil
}

// SongFixture builds a plausible search result for tests.
func SongFixture(id, title string, duration int) musicsearch.Song {
	return musicsearch.Song{
		Title:    title,
		URL:      "https://www.youtube.com/watch?v=" + id,
		Channel:  "Test Channel",
		Duration: musicsearch.Duration(duration),
	}
}
