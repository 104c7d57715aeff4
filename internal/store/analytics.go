package store

import (
	"context"
	"fmt"
)

// ConditionReward summarizes feedback outcomes for one condition.
type ConditionReward struct {
	Condition string  `json:"condition"`
	AvgReward float64 `json:"avg_reward"`
	Count     int64   `json:"count"`
}

// Analytics is the aggregate view over all stored therapy activity.
type Analytics struct {
	TotalSessions      int64             `json:"total_sessions"`
	TotalFeedback      int64             `json:"total_feedback"`
	TotalPatients      int64             `json:"total_patients"`
	RewardsByCondition []ConditionReward `json:"rewards_by_condition"`
}

// GetAnalytics computes totals and per-condition reward averages.
func (s *Store) GetAnalytics(ctx context.Context) (*Analytics, error) {
	var analytics Analytics

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM therapy_sessions").Scan(&analytics.TotalSessions); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM therapy_feedback").Scan(&analytics.TotalFeedback); err != nil {
		return nil, fmt.Errorf("count feedback: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT patient_id) FROM patients").Scan(&analytics.TotalPatients); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT condition, AVG(reward), COUNT(*)
         FROM therapy_feedback GROUP BY condition ORDER BY condition`,
	)
	if err != nil {
		return nil, fmt.Errorf("rewards by condition: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reward ConditionReward
		if err := rows.Scan(&reward.Condition, &reward.AvgReward, &reward.Count); err != nil {
			return nil, fmt.Errorf("scan condition reward: %w", err)
		}
		analytics.RewardsByCondition = append(analytics.RewardsByCondition, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate condition rewards: %w", err)
	}
	return &analytics, nil
}
