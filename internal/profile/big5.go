package profile

import (
	"fmt"

	"theramuse/internal/services"
)

// ScoreBig5 computes trait scores from paired questionnaire items. Each
// trait combines a direct item with a reverse keyed item on a 1-7 scale:
//
//	score = (direct + (8 - reverse)) / 2
//
// A respondent answering 4 on every item therefore scores exactly 4.0 on
// every trait.
func ScoreBig5(pairs map[Trait]ItemPair) (map[Trait]float64, error) {
	scores := make(map[Trait]float64, len(pairs))
	for trait, pair := range pairs {
		if pair.Direct < 1 || pair.Direct > 7 || pair.Reverse < 1 || pair.Reverse > 7 {
			return nil, services.Wrap(services.ErrValidation, "profile", "score-big5",
				fmt.Sprintf("%s items out of 1-7 range: direct=%g reverse=%g", trait, pair.Direct, pair.Reverse), nil)
		}
		scores[trait] = (pair.Direct + (8 - pair.Reverse)) / 2
	}
	return scores, nil
}
