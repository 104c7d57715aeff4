package bandit

import (
	"fmt"
	"strings"
)

// Feedback types accepted from callers. Skip is neutral so repeated skips
// cannot drag a posterior negative without an explicit dislike.
var rewardMap = map[string]float64{
	"like":          1.0,
	"neutral":       0.0,
	"skip":          0.0,
	"dislike":       -1.0,
	"inappropriate": -1.0,
}

// Reward maps a feedback type to its scalar reward. Unknown types are
// rejected rather than defaulting to zero, so a typo in a caller cannot
// silently record a no-op observation.
func Reward(feedbackType string) (float64, error) {
	reward, ok := rewardMap[strings.ToLower(strings.TrimSpace(feedbackType))]
	if !ok {
		return 0, fmt.Errorf("unknown feedback type %q", feedbackType)
	}
	return reward, nil
}
