package ads

import (
	"time"
)

// Score tier boundaries in days and the bonuses applied on top. The values
// are fixed design constants; the score is a relative ranking signal, not
// a normalized metric, and has no upper bound.
const (
	scoreUnknownStart = 30
	originalBonus     = 20
	variantBonus      = 15
)

type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Run assigns each ad a performance score and recomputes its
// duration-in-days as of now. Longer-running ads score higher, originals
// get a flat bonus, and cluster representatives earn a bonus per variant.
func (s *Scorer) Run(ads []*Ad, variantCounts map[string]int, now time.Time) {
	for _, ad := range ads {
		score := scoreUnknownStart
		if ad.StartDate != nil {
			ad.DurationDays = int(now.Sub(*ad.StartDate).Hours() / 24)
			switch {
			case ad.DurationDays >= 90:
				score = 100
			case ad.DurationDays >= 60:
				score = 80
			case ad.DurationDays >= 30:
				score = 60
			case ad.DurationDays >= 14:
				score = 40
			default:
				score = 20
			}
		}
		if ad.IsOriginal {
			score += originalBonus
		}
		score += variantBonus * variantCounts[ad.ID]
		ad.Score = score
	}
}
