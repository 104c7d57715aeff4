package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ArmUpdate carries the new serialized arm state plus its counters, written
// back alongside the feedback event.
type ArmUpdate struct {
	State           []byte
	Interactions    int64
	TotalReward     float64
	AvgReward       float64
	ExplorationRate float64
}

// FeedbackRecord is one feedback event to persist with an arm update.
type FeedbackRecord struct {
	PatientID       string
	SessionID       string
	Condition       string
	Category        string
	SongTitle       string
	VideoID         string
	Reward          float64
	FeedbackType    string
	ContextFeatures string
}

// LoadArm fetches the serialized state for (scope, category). A nil blob
// with nil error means the arm has never been trained.
func (s *Store) LoadArm(ctx context.Context, scope, category string) ([]byte, error) {
	var state string
	err := s.db.QueryRowContext(ctx,
		"SELECT state FROM bandit_arms WHERE scope = ? AND category = ?",
		scope, category,
	).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load arm %s/%s: %w", scope, category, err)
	}
	return []byte(state), nil
}

// ApplyFeedback performs the atomic read-modify-write for one arm: the
// current state is read inside an immediate transaction, fn produces the
// updated state, and the arm row, feedback event and stats snapshot commit
// together or not at all. The rank-1 update is not safe against lost
// writes, so a mutex serializes goroutines within the process and a file
// lock serializes across processes; the transaction takes the write lock
// up front so it never deadlocks upgrading from a read.
func (s *Store) ApplyFeedback(ctx context.Context, rec FeedbackRecord, fn func(existing []byte) (ArmUpdate, error)) error {
	s.armMu.Lock()
	defer s.armMu.Unlock()

	if err := s.armLock.Lock(); err != nil {
		return fmt.Errorf("acquire arm lock %s: %w", s.lockPath, err)
	}
	defer func() { _ = s.armLock.Unlock() }()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if err := retryOnBusy(ctx, func() error {
		_, execErr := conn.ExecContext(ctx, "BEGIN IMMEDIATE")
		return execErr
	}); err != nil {
		return fmt.Errorf("begin feedback tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	var existing []byte
	var state string
	err = conn.QueryRowContext(ctx,
		"SELECT state FROM bandit_arms WHERE scope = ? AND category = ?",
		rec.Condition, rec.Category,
	).Scan(&state)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		existing = nil
	case err != nil:
		return fmt.Errorf("read arm %s/%s: %w", rec.Condition, rec.Category, err)
	default:
		existing = []byte(state)
	}

	update, err := fn(existing)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = conn.ExecContext(ctx,
		`INSERT INTO bandit_arms (scope, category, state, n_interactions, total_reward, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(scope, category) DO UPDATE SET
            state = excluded.state,
            n_interactions = excluded.n_interactions,
            total_reward = excluded.total_reward,
            updated_at = excluded.updated_at`,
		rec.Condition, rec.Category, string(update.State),
		update.Interactions, update.TotalReward, now, now,
	)
	if err != nil {
		return fmt.Errorf("write arm %s/%s: %w", rec.Condition, rec.Category, err)
	}

	_, err = conn.ExecContext(ctx,
		`INSERT INTO therapy_feedback (
            patient_id, session_id, condition, category, song_title,
            video_id, reward, feedback_type, context_features, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PatientID,
		nullableString(rec.SessionID),
		rec.Condition,
		rec.Category,
		rec.SongTitle,
		nullableString(rec.VideoID),
		rec.Reward,
		rec.FeedbackType,
		rec.ContextFeatures,
		now,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	_, err = conn.ExecContext(ctx,
		`INSERT INTO bandit_stats (condition, category, n_interactions, total_reward, avg_reward, exploration_rate, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Condition, rec.Category,
		update.Interactions, update.TotalReward, update.AvgReward, update.ExplorationRate,
		now,
	)
	if err != nil {
		return fmt.Errorf("insert bandit stats: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit feedback: %w", err)
	}
	committed = true
	return nil
}

// ArmSummary is the aggregate state of one trained arm.
type ArmSummary struct {
	Scope        string
	Category     string
	Interactions int64
	TotalReward  float64
}

// ListArms returns all trained arms for a scope ordered by category.
func (s *Store) ListArms(ctx context.Context, scope string) ([]ArmSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scope, category, n_interactions, total_reward
         FROM bandit_arms WHERE scope = ? ORDER BY category`,
		scope,
	)
	if err != nil {
		return nil, fmt.Errorf("list arms: %w", err)
	}
	defer rows.Close()

	var arms []ArmSummary
	for rows.Next() {
		var arm ArmSummary
		if err := rows.Scan(&arm.Scope, &arm.Category, &arm.Interactions, &arm.TotalReward); err != nil {
			return nil, fmt.Errorf("scan arm: %w", err)
		}
		arms = append(arms, arm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate arms: %w", err)
	}
	return arms, nil
}

// ScopeStats aggregates interaction counters across every arm in a scope,
// reported in the recommendation payload's bandit_stats block.
func (s *Store) ScopeStats(ctx context.Context, scope string) (interactions int64, totalReward float64, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(n_interactions), 0), COALESCE(SUM(total_reward), 0) FROM bandit_arms WHERE scope = ?",
		scope,
	).Scan(&interactions, &totalReward)
	if err != nil {
		return 0, 0, fmt.Errorf("scope stats: %w", err)
	}
	return interactions, totalReward, nil
}
