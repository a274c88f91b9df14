// internal/segment/classifier.go
package segment

import (
	"github.com/planwise/buyouts-forecast/internal/domain"
)

// Thresholds are the externally overridable knobs of the rule chain.
type Thresholds struct {
	ContRatio float64 // hit ratio at or above which demand is continuous
	MinHits   int     // below this many hits a SKU is a buy-out candidate
}

// Rule pairs a regime label with its matching predicate.
type Rule struct {
	Regime domain.Regime
	Match  func(Stats) bool
}

// Rules returns the classification chain in priority order. Order is
// significant: the first matching rule wins, the last rule always matches.
func Rules(t Thresholds) []Rule {
	return []Rule{
		{
			// Too sparse or too low-volume to model.
			Regime: domain.RegimeTrueBuyOut,
			Match: func(s Stats) bool {
				return s.Hits <= 2 || s.TotalQty < 10
			},
		},
		{
			// Sparse historically but active in every recent month.
			Regime: domain.RegimeEmergingBuyOut,
			Match: func(s Stats) bool {
				return s.Hits < t.MinHits && s.TailActive
			},
		},
		{
			// Demand present almost every period.
			Regime: domain.RegimeHighRunRate,
			Match: func(s Stats) bool {
				return s.HitRatio >= t.ContRatio
			},
		},
		{
			// Regular but short, low-variance bursts.
			Regime: domain.RegimeSeasonalBuyOut,
			Match: func(s Stats) bool {
				return s.Hits >= 4 && s.Hits <= 9 && s.MaxOverMedian() <= 3 && s.MaxRun <= 3
			},
		},
		{
			// Rare, highly variable demand.
			Regime: domain.RegimeSpikeDrivenBuyOut,
			Match: func(s Stats) bool {
				return s.Hits >= 1 && s.Hits <= 3 && s.MaxOverMedian() > 3
			},
		},
		{
			Regime: domain.RegimeIntermittentBuyOut,
			Match:  func(Stats) bool { return true },
		},
	}
}

// Classifier assigns exactly one regime per SKU per run.
type Classifier struct {
	rules []Rule
}

func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{rules: Rules(t)}
}

// Classify walks the rule chain top-down and returns the first match.
// Assignment is total: the catch-all rule guarantees a label.
func (c *Classifier) Classify(st Stats) domain.Regime {
	for _, r := range c.rules {
		if r.Match(st) {
			return r.Regime
		}
	}
	// unreachable, the last rule always matches
	return domain.RegimeIntermittentBuyOut
}
