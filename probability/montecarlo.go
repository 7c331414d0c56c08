package probability

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// DefaultPaths is the simulation count used when a caller passes paths <= 0.
const DefaultPaths = 10000

// MonteCarloProbability estimates P[payoff(S_T) > 0] by simulating terminal
// prices directly from the lognormal distribution. It is a cross-check for
// ProfitProbability, not part of the screening hot path; results for the
// same seed are reproducible.
func MonteCarloProbability(payoff PayoffFunc, m Model, paths int, seed uint64) float64 {
	if paths <= 0 {
		paths = DefaultPaths
	}
	rng := rand.New(rand.NewSource(seed))

	profitCount := 0
	for i := 0; i < paths; i++ {
		if payoff(m.samplePrice(rng)) > 0 {
			profitCount++
		}
	}
	return float64(profitCount) / float64(paths)
}

// ValueAtRisk returns the loss not exceeded with the given confidence level
// (e.g. 0.95), estimated from simulated terminal payoffs. Positive values are
// losses.
func ValueAtRisk(payoff PayoffFunc, m Model, confidence float64, paths int, seed uint64) float64 {
	if paths <= 0 {
		paths = DefaultPaths
	}
	rng := rand.New(rand.NewSource(seed))

	losses := make([]float64, paths)
	for i := range losses {
		losses[i] = -payoff(m.samplePrice(rng))
	}
	sort.Float64s(losses)

	idx := int(float64(paths) * confidence)
	if idx >= paths {
		idx = paths - 1
	}
	return losses[idx]
}

func (m Model) samplePrice(rng *rand.Rand) float64 {
	return m.Spot * math.Exp(m.drift()+m.stddev()*rng.NormFloat64())
}
