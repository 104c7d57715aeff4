package recommender

import (
	"encoding/json"

	"theramuse/internal/musicsearch"
)

// QueryEcho reports which search queries produced a category's songs. It
// marshals as a bare string when only one query was used, matching the shape
// downstream consumers already parse.
type QueryEcho []string

func (q QueryEcho) MarshalJSON() ([]byte, error) {
	switch len(q) {
	case 0:
		return json.Marshal("")
	case 1:
		return json.Marshal(q[0])
	default:
		return json.Marshal([]string(q))
	}
}

// CategoryResult is one scored category in the recommendation payload.
type CategoryResult struct {
	Query       QueryEcho          `json:"query"`
	Songs       []musicsearch.Song `json:"songs"`
	Count       int                `json:"count"`
	Description string             `json:"description,omitempty"`
}

// BanditStats summarizes the learning state for the payload's condition
// scope.
type BanditStats struct {
	Interactions    int64   `json:"n_interactions"`
	AvgReward       float64 `json:"avg_reward"`
	ExplorationRate float64 `json:"exploration_rate"`
}

// Payload is the full recommendation response.
type Payload struct {
	SessionID      string                    `json:"session_id"`
	PatientID      string                    `json:"patient_id,omitempty"`
	Condition      string                    `json:"condition"`
	PatientContext map[string]any            `json:"patient_context"`
	Categories     map[string]CategoryResult `json:"categories"`
	TotalSongs     int                       `json:"total_songs"`
	BanditStats    BanditStats               `json:"bandit_stats"`
	Method         string                    `json:"method"`
	GeneratedAt    string                    `json:"generated_at"`
}
