package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"theramuse/internal/bandit"
	"theramuse/internal/features"
	"theramuse/internal/profile"
	"theramuse/internal/services"
	"theramuse/internal/store"
)

// FeedbackRequest is one feedback event from a caller.
type FeedbackRequest struct {
	SessionID    string
	PatientID    string
	Condition    string
	Category     string
	SongTitle    string
	VideoID      string
	FeedbackType string
	PatientInfo  map[string]any
}

// RecordFeedback maps the feedback to a reward, replays the scoring context
// and applies the bandit update atomically with the feedback event record.
func (e *Engine) RecordFeedback(ctx context.Context, req FeedbackRequest) error {
	condition, ok := profile.ParseCondition(req.Condition)
	if !ok {
		return services.Wrap(services.ErrValidation, "recommender", "feedback",
			fmt.Sprintf("unknown condition %q", req.Condition), nil)
	}
	if req.Category == "" {
		return services.Wrap(services.ErrValidation, "recommender", "feedback", "category is required", nil)
	}
	reward, err := bandit.Reward(req.FeedbackType)
	if err != nil {
		return services.Wrap(services.ErrValidation, "recommender", "feedback", "", err)
	}

	contextVec, err := e.feedbackContext(ctx, req, condition)
	if err != nil {
		return err
	}
	snapshot, err := json.Marshal(contextVec.Slice())
	if err != nil {
		return services.Wrap(services.ErrPersistence, "recommender", "feedback", "encode context snapshot", err)
	}

	rec := store.FeedbackRecord{
		PatientID:       req.PatientID,
		SessionID:       req.SessionID,
		Condition:       string(condition),
		Category:        req.Category,
		SongTitle:       req.SongTitle,
		VideoID:         req.VideoID,
		Reward:          reward,
		FeedbackType:    req.FeedbackType,
		ContextFeatures: string(snapshot),
	}

	err = e.store.ApplyFeedback(ctx, rec, func(existing []byte) (store.ArmUpdate, error) {
		arm := bandit.NewArm(req.Category, features.Dim, e.cfg.Bandit.Lambda)
		if existing != nil {
			restored, unmarshalErr := bandit.UnmarshalArm(req.Category, existing)
			if unmarshalErr != nil {
				e.logger.Warn("arm state corrupt, resetting to prior",
					slog.String("category", req.Category), slog.String("error", unmarshalErr.Error()))
			} else {
				arm = restored
			}
		}

		e.policy.Update(arm, contextVec.Slice(), reward)

		state, marshalErr := bandit.MarshalArm(arm)
		if marshalErr != nil {
			return store.ArmUpdate{}, fmt.Errorf("encode arm state: %w", marshalErr)
		}
		return store.ArmUpdate{
			State:           state,
			Interactions:    arm.Interactions,
			TotalReward:     arm.TotalReward,
			AvgReward:       arm.AverageReward(),
			ExplorationRate: bandit.ExplorationRate(arm.Interactions),
		}, nil
	})
	if err != nil {
		return services.Wrap(services.ErrPersistence, "recommender", "apply feedback", req.Category, err)
	}

	e.logger.Info("feedback recorded",
		slog.String("condition", string(condition)),
		slog.String("category", req.Category),
		slog.String("feedback_type", req.FeedbackType),
		slog.Float64("reward", reward))
	return nil
}

// feedbackContext resolves the context vector for an update. The stored
// session snapshot wins so the update uses exactly what scoring saw; without
// a session the profile is re-derived, and as a last resort a zero vector
// keeps the rank-1 precision update while contributing no directional shift.
func (e *Engine) feedbackContext(ctx context.Context, req FeedbackRequest, condition profile.Condition) (features.Vector, error) {
	var zero features.Vector

	if req.SessionID != "" {
		session, err := e.store.GetSession(ctx, req.SessionID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return zero, err
			}
			return zero, services.Wrap(services.ErrPersistence, "recommender", "load session", req.SessionID, err)
		}
		if session.ContextFeatures != "" {
			var values []float64
			if err := json.Unmarshal([]byte(session.ContextFeatures), &values); err == nil {
				if vec, ok := features.FromSlice(values); ok {
					return vec, nil
				}
			}
			e.logger.Warn("stored context snapshot unusable, re-deriving",
				slog.String("session_id", req.SessionID))
		}
	}

	if len(req.PatientInfo) > 0 {
		p, err := profile.Parse(req.PatientInfo, condition)
		if err != nil {
			return zero, services.Wrap(services.ErrValidation, "recommender", "feedback", "invalid patient profile", err)
		}
		return features.Derive(p, condition), nil
	}

	e.logger.Warn("feedback without session context or profile, using zero context")
	return zero, nil
}
