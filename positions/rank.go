package positions

import (
	"math"
	"sort"
)

// RankMetric selects the ordering applied to screened results.
type RankMetric int

const (
	// ByRiskReward orders best reward-to-risk first: ascending risk carried
	// per unit of reward, +Inf (loss-only curves) last.
	ByRiskReward RankMetric = iota
	// ByProbability orders highest profit probability first.
	ByProbability
)

// Rank returns a new, stably sorted slice; ties keep enumeration order. The
// input is never mutated.
func Rank(results []Result, metric RankMetric) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)

	switch metric {
	case ByProbability:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Probability > ranked[j].Probability
		})
	default:
		sort.SliceStable(ranked, func(i, j int) bool {
			ri, rj := ranked[i].RiskReward, ranked[j].RiskReward
			if math.IsNaN(ri) {
				return false
			}
			if math.IsNaN(rj) {
				return true
			}
			return ri < rj
		})
	}
	return ranked
}

// FilterByProbability keeps results at or above the floor.
func FilterByProbability(results []Result, minProbability float64) []Result {
	var kept []Result
	for _, r := range results {
		if r.Probability >= minProbability {
			kept = append(kept, r)
		}
	}
	return kept
}
