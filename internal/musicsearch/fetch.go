package musicsearch

import (
	"context"
	"log/slog"

	"theramuse/internal/catalog"
)

// Fetcher retrieves the candidate songs for a category. It walks the
// category's primary query and fallbacks in order until the target count is
// reached, applying the content filter and the request-scoped dedup set.
type Fetcher struct {
	searcher   Searcher
	filter     Filter
	maxResults int
	logger     *slog.Logger
}

// NewFetcher wires a searcher with filtering defaults.
func NewFetcher(searcher Searcher, filter Filter, maxResults int, logger *slog.Logger) *Fetcher {
	if maxResults <= 0 {
		maxResults = 25
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{searcher: searcher, filter: filter, maxResults: maxResults, logger: logger}
}

// Result is the outcome of fetching one category.
type Result struct {
	Songs       []Song
	QueriesUsed []string
}

// FetchCategory gathers up to cat.Target songs. Transport failures on
// individual queries degrade to trying the next query; the returned error is
// non-nil only when every query failed and nothing was retrieved, so the
// caller can surface the category as unavailable without aborting the
// request.
func (f *Fetcher) FetchCategory(ctx context.Context, cat catalog.Category, dedup *Dedup) (Result, error) {
	queries := make([]string, 0, len(cat.Fallbacks)+1)
	queries = append(queries, cat.Query)
	queries = append(queries, cat.Fallbacks...)

	var result Result
	var lastErr error
	failures := 0

	for _, query := range queries {
		if len(result.Songs) >= cat.Target {
			break
		}
		if err := ctx.Err(); err != nil {
			if len(result.Songs) > 0 {
				return result, nil
			}
			return result, err
		}

		songs, err := f.searcher.Search(ctx, query, SearchOptions{
			MaxResults:   f.maxResults,
			RegionFilter: cat.LocationHint != "",
		})
		if err != nil {
			failures++
			lastErr = err
			f.logger.Warn("search query failed",
				slog.String("category", cat.Key),
				slog.String("query", query),
				slog.String("error", err.Error()))
			continue
		}

		added := 0
		for _, song := range songs {
			if len(result.Songs) >= cat.Target {
				break
			}
			if !f.filter.KeepSong(song, cat.AllowSpoken) {
				continue
			}
			if cat.FilterChildren && IsChildrenContent(song) {
				continue
			}
			if cat.LocationHint != "" && !MatchesLocation(song, cat.LocationHint) {
				continue
			}
			if !dedup.Admit(song) {
				continue
			}
			result.Songs = append(result.Songs, song)
			added++
		}
		if added > 0 {
			result.QueriesUsed = append(result.QueriesUsed, query)
		}
	}

	if len(result.Songs) == 0 && failures == len(queries) && lastErr != nil {
		return result, lastErr
	}
	return result, nil
}
