// Package api maps JSON action envelopes onto the recommendation engine.
// Callers write one request object to stdin and read one response object
// from stdout; this package owns the envelope shapes and the dispatch.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"theramuse/internal/config"
	"theramuse/internal/musicsearch"
	"theramuse/internal/recommender"
	"theramuse/internal/report"
	"theramuse/internal/services"
	"theramuse/internal/store"
)

// Request is the envelope accepted on stdin. DBPath overrides the configured
// database location for one invocation. ModelPath is accepted for caller
// compatibility and ignored; arm state lives in the database.
type Request struct {
	Action    string         `json:"action"`
	Data      map[string]any `json:"data"`
	DBPath    string         `json:"db_path,omitempty"`
	ModelPath string         `json:"model_path,omitempty"`
}

// ErrorResponse is the envelope returned for any failed action.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler executes requests against a configured engine.
type Handler struct {
	cfg    *config.Config
	logger *slog.Logger
	opts   []recommender.Option
}

// NewHandler builds a Handler. The logger must not be nil.
func NewHandler(cfg *config.Config, logger *slog.Logger, opts ...recommender.Option) *Handler {
	return &Handler{cfg: cfg, logger: logger, opts: opts}
}

// Handle dispatches one request and returns the response body. The returned
// error is for the caller's exit status; the body already carries the error
// envelope when err is non-nil.
func (h *Handler) Handle(ctx context.Context, req Request) (any, error) {
	result, err := h.dispatch(ctx, req)
	if err != nil {
		h.logger.Error("action failed",
			slog.String("action", req.Action), slog.String("error", err.Error()))
		return ErrorResponse{Error: err.Error()}, err
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, req Request) (any, error) {
	if req.Action == "export" {
		// Export renders caller-supplied material and needs no database.
		return h.handleExport(req)
	}

	st, err := h.openStore(req.DBPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	engine, err := h.newEngine(st)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case "recommend":
		return h.handleRecommend(ctx, engine, req)
	case "feedback":
		return h.handleFeedback(ctx, engine, req)
	case "analytics":
		return h.handleAnalytics(ctx, engine)
	default:
		return nil, services.Wrap(services.ErrValidation, "api", "dispatch",
			fmt.Sprintf("unsupported action %q", req.Action), nil)
	}
}

func (h *Handler) openStore(override string) (*store.Store, error) {
	if err := h.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	path := h.cfg.DatabasePath()
	if override != "" {
		path = override
	}
	return store.OpenPath(h.cfg, path)
}

func (h *Handler) newEngine(st *store.Store) (*recommender.Engine, error) {
	searcher, err := musicsearch.New(
		h.cfg.Search.BaseURL,
		h.cfg.Search.BackupURLs,
		time.Duration(h.cfg.Search.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		return nil, err
	}
	return recommender.New(h.cfg, st, searcher, h.logger, h.opts...), nil
}

func (h *Handler) handleRecommend(ctx context.Context, engine *recommender.Engine, req Request) (any, error) {
	condition, _ := req.Data["condition"].(string)
	if condition == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "recommend",
			"condition is required", nil)
	}
	patientInfo, _ := req.Data["patient_info"].(map[string]any)
	if patientInfo == nil {
		patientInfo = map[string]any{}
	}
	patientID, _ := req.Data["patient_id"].(string)

	payload, err := engine.Recommend(ctx, patientInfo, condition, patientID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"recommendations": payload}, nil
}

func (h *Handler) handleFeedback(ctx context.Context, engine *recommender.Engine, req Request) (any, error) {
	sessionID, _ := req.Data["session_id"].(string)
	patientID, _ := req.Data["patient_id"].(string)
	condition, _ := req.Data["condition"].(string)
	feedbackType, _ := req.Data["feedback_type"].(string)
	if sessionID == "" || patientID == "" || condition == "" || feedbackType == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "feedback",
			"session_id, patient_id, condition and feedback_type are required", nil)
	}

	song, _ := req.Data["song"].(map[string]any)
	title, _ := song["title"].(string)
	category, _ := song["category"].(string)
	patientInfo, _ := req.Data["patient_info"].(map[string]any)

	err := engine.RecordFeedback(ctx, recommender.FeedbackRequest{
		SessionID:    sessionID,
		PatientID:    patientID,
		Condition:    condition,
		Category:     category,
		SongTitle:    title,
		VideoID:      songVideoID(song),
		FeedbackType: feedbackType,
		PatientInfo:  patientInfo,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"status": "ok"}, nil
}

// songVideoID tolerates both the flat id string and the nested search result
// shape {"id": {"videoId": "..."}}.
func songVideoID(song map[string]any) string {
	switch id := song["id"].(type) {
	case string:
		return id
	case map[string]any:
		if v, ok := id["videoId"].(string); ok {
			return v
		}
	}
	if v, ok := song["video_id"].(string); ok {
		return v
	}
	return ""
}

func (h *Handler) handleAnalytics(ctx context.Context, engine *recommender.Engine) (any, error) {
	analytics, err := engine.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"analytics": analytics}, nil
}

func (h *Handler) handleExport(req Request) (any, error) {
	format, _ := req.Data["format"].(string)
	patientInfo, _ := req.Data["patient_info"].(map[string]any)
	recommendations, _ := req.Data["recommendations"].(map[string]any)
	big5, _ := req.Data["big5_scores"].(map[string]any)

	export, err := report.Generate(format, report.Input{
		PatientInfo:     patientInfo,
		Recommendations: recommendations,
		Big5Scores:      big5,
	})
	if err != nil {
		return nil, err
	}
	return export, nil
}

// IsValidationError reports whether err came from bad caller input rather
// than an internal failure.
func IsValidationError(err error) bool {
	return errors.Is(err, services.ErrValidation)
}
