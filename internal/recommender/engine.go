package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"theramuse/internal/bandit"
	"theramuse/internal/catalog"
	"theramuse/internal/config"
	"theramuse/internal/features"
	"theramuse/internal/musicsearch"
	"theramuse/internal/profile"
	"theramuse/internal/services"
	"theramuse/internal/store"
)

// Engine orchestrates recommendation and feedback requests: profile parsing,
// feature derivation, candidate retrieval, bandit scoring and persistence.
type Engine struct {
	cfg     *config.Config
	store   *store.Store
	fetcher *musicsearch.Fetcher
	policy  *bandit.Policy
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandSource fixes the policy's random source, used by tests that need
// reproducible draws.
func WithRandSource(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.policy = bandit.NewPolicy(e.cfg.Bandit.Sigma2, e.cfg.Bandit.Decay, rng, e.logger)
	}
}

// New assembles an engine from its collaborators.
func New(cfg *config.Config, st *store.Store, searcher musicsearch.Searcher, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	filter := musicsearch.Filter{
		MinDuration: cfg.Search.MinDurationSeconds,
		MaxDuration: cfg.Search.MaxDurationSeconds,
	}
	engine := &Engine{
		cfg:     cfg,
		store:   st,
		fetcher: musicsearch.NewFetcher(searcher, filter, cfg.Search.MaxResults, logger),
		policy:  bandit.NewPolicy(cfg.Bandit.Sigma2, cfg.Bandit.Decay, nil, logger),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

var methodByCondition = map[profile.Condition]string{
	profile.ConditionDementia:     "dementia_therapy_v2.1",
	profile.ConditionDownSyndrome: "down_syndrome_therapy_v2",
	profile.ConditionADHD:         "adhd_therapy_v2",
}

var therapyFocus = map[profile.Condition]string{
	profile.ConditionDownSyndrome: "calming sensory music with theta waves and therapeutic frequencies",
	profile.ConditionADHD:         "concentration, focus, attention enhancement with binaural beats",
}

// Recommend runs the full recommendation pipeline for one patient. Candidate
// retrieval failures degrade to empty categories; persistence failures and
// invalid profiles abort the request.
func (e *Engine) Recommend(ctx context.Context, patientInfo map[string]any, conditionRaw, patientID string) (*Payload, error) {
	condition, ok := profile.ParseCondition(conditionRaw)
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "recommender", "recommend",
			fmt.Sprintf("unknown condition %q", conditionRaw), nil)
	}
	p, err := profile.Parse(patientInfo, condition)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "recommender", "recommend", "invalid patient profile", err)
	}

	contextVec := features.Derive(p, condition)
	categories := catalog.ForProfile(p, condition)
	dedup := musicsearch.NewDedup()

	payload := &Payload{
		SessionID:      "therapy_" + uuid.NewString(),
		PatientID:      patientID,
		Condition:      string(condition),
		PatientContext: e.contextEcho(p, condition),
		Categories:     make(map[string]CategoryResult, len(categories)),
		Method:         methodByCondition[condition],
		GeneratedAt:    time.Now().Format(time.RFC3339),
	}

	var rows []store.RecommendationRow
	for _, cat := range categories {
		result, fetchErr := e.fetcher.FetchCategory(ctx, cat, dedup)
		if fetchErr != nil {
			wrapped := services.Wrap(services.ErrCandidateSource, "recommender", "fetch category", cat.Key, fetchErr)
			e.logger.Warn("category degraded to empty", slog.String("category", cat.Key), slog.String("error", wrapped.Error()))
		}

		selected := e.selectSongs(ctx, condition, cat, result.Songs, contextVec)
		queries := result.QueriesUsed
		if len(queries) == 0 {
			queries = []string{cat.Query}
		}
		payload.Categories[cat.Key] = CategoryResult{
			Query:       queries,
			Songs:       selected,
			Count:       len(selected),
			Description: cat.Description,
		}
		payload.TotalSongs += len(selected)

		for rank, s := range selected {
			rows = append(rows, store.RecommendationRow{
				Category:    cat.Key,
				Query:       queries[0],
				SongTitle:   s.Title,
				VideoID:     s.VideoID(),
				Channel:     s.Channel,
				Description: s.Description,
				Rank:        rank + 1,
			})
		}
	}

	if err := e.attachStats(ctx, payload); err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(contextVec.Slice())
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "recommender", "recommend", "encode context snapshot", err)
	}

	session := store.Session{
		SessionID:       payload.SessionID,
		PatientID:       patientID,
		Condition:       string(condition),
		Method:          payload.Method,
		TotalSongs:      payload.TotalSongs,
		ExplorationRate: payload.BanditStats.ExplorationRate,
		ContextFeatures: string(snapshot),
	}
	if err := e.store.SaveSession(ctx, session, rows); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "recommender", "save session", payload.SessionID, err)
	}
	if patientID != "" {
		info, marshalErr := json.Marshal(patientInfo)
		if marshalErr != nil {
			info = []byte("{}")
		}
		if err := e.store.UpsertPatient(ctx, patientID, p.Name, p.Age, p.BirthYear, string(condition), string(info)); err != nil {
			return nil, services.Wrap(services.ErrPersistence, "recommender", "upsert patient", patientID, err)
		}
	}

	if path, exportErr := e.exportSnapshot(payload); exportErr != nil {
		e.logger.Warn("recommendation snapshot export failed", slog.String("error", exportErr.Error()))
	} else {
		e.logger.Info("recommendation snapshot exported", slog.String("path", path))
	}

	return payload, nil
}

// selectSongs scores the category's arm once and keeps the top N candidates.
// Candidates of one category share the arm's sampled score, so ranking
// preserves retrieval order within the category while draws vary across
// categories.
func (e *Engine) selectSongs(ctx context.Context, condition profile.Condition, cat catalog.Category, songs []musicsearch.Song, contextVec features.Vector) []musicsearch.Song {
	if len(songs) == 0 {
		return nil
	}

	arm := e.loadArm(ctx, string(condition), cat.Key)
	w := e.policy.SampleWeights(arm)
	score := bandit.Score(w, contextVec.Slice())

	scores := make([]float64, len(songs))
	for i := range scores {
		scores[i] = score
	}
	topN := e.cfg.Bandit.TopN
	selected := make([]musicsearch.Song, 0, len(songs))
	for _, idx := range bandit.Rank(scores, topN) {
		selected = append(selected, songs[idx])
	}
	return selected
}

// loadArm fetches persisted arm state, falling back to a fresh prior when
// the arm is untrained or its stored blob cannot be decoded.
func (e *Engine) loadArm(ctx context.Context, scope, category string) *bandit.Arm {
	blob, err := e.store.LoadArm(ctx, scope, category)
	if err != nil {
		e.logger.Warn("arm load failed, scoring with prior",
			slog.String("scope", scope), slog.String("category", category), slog.String("error", err.Error()))
		return bandit.NewArm(category, features.Dim, e.cfg.Bandit.Lambda)
	}
	if blob == nil {
		return bandit.NewArm(category, features.Dim, e.cfg.Bandit.Lambda)
	}
	arm, err := bandit.UnmarshalArm(category, blob)
	if err != nil {
		e.logger.Warn("arm state corrupt, scoring with prior",
			slog.String("scope", scope), slog.String("category", category), slog.String("error", err.Error()))
		return bandit.NewArm(category, features.Dim, e.cfg.Bandit.Lambda)
	}
	return arm
}

func (e *Engine) attachStats(ctx context.Context, payload *Payload) error {
	interactions, totalReward, err := e.store.ScopeStats(ctx, payload.Condition)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "recommender", "scope stats", payload.Condition, err)
	}
	stats := BanditStats{
		Interactions:    interactions,
		ExplorationRate: bandit.ExplorationRate(interactions),
	}
	if interactions > 0 {
		stats.AvgReward = totalReward / float64(interactions)
	}
	payload.BanditStats = stats
	return nil
}

func (e *Engine) contextEcho(p *profile.Profile, condition profile.Condition) map[string]any {
	if condition != profile.ConditionDementia {
		return map[string]any{
			"condition":     string(condition),
			"therapy_focus": therapyFocus[condition],
		}
	}
	start, end := catalog.Nostalgia(p.BirthYear)
	return map[string]any{
		"birth_year":           p.BirthYear,
		"nostalgia_window":     fmt.Sprintf("%d-%d", start, end),
		"generational_context": catalog.GenerationFor(p.BirthYear),
	}
}

// exportSnapshot writes the payload to a timestamped JSON file in the data
// directory. Failures are reported to the caller for logging only; the
// recommendation flow never depends on the snapshot.
func (e *Engine) exportSnapshot(payload *Payload) (string, error) {
	now := time.Now()
	// {condition}_{timestamp}_{date} is the established name contract;
	// collectors glob on the trailing date segment even though the
	// timestamp already carries it.
	name := fmt.Sprintf("theramuse_recommendations_%s_%s_%s.json",
		payload.Condition, now.Format("20060102150405"), now.Format("20060102"))
	path := filepath.Join(e.cfg.Paths.DataDir, name)

	blob, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// Analytics exposes stored aggregate metrics.
func (e *Engine) Analytics(ctx context.Context) (*store.Analytics, error) {
	analytics, err := e.store.GetAnalytics(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "recommender", "analytics", "", err)
	}
	return analytics, nil
}
