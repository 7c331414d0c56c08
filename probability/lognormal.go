// Package probability estimates profit probabilities and risk metrics for
// option strategies under a lognormal terminal-price model.
package probability

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// MinPrice is the low edge of the evaluated terminal-price domain. The
	// high edge is 2*Spot. Tail mass outside the domain is dropped, so
	// results are approximate for very wide payoff distributions.
	MinPrice = 0.01

	numSamples       = 1000
	integrationSteps = 1000
)

// Abramowitz & Stegun 7.1.26 rational approximation, max abs error ~1.5e-7.
const (
	asA1 = 0.254829592
	asA2 = -0.284496736
	asA3 = 1.421413741
	asA4 = -1.453152027
	asA5 = 1.061405429
	asP  = 0.3275911
)

// Phi is the standard normal CDF computed with the Abramowitz-Stegun
// approximation rather than math.Erf, to match reference outputs.
func Phi(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x) / math.Sqrt2

	t := 1.0 / (1.0 + asP*x)
	y := 1.0 - (((((asA5*t+asA4)*t)+asA3)*t+asA2)*t+asA1)*t*math.Exp(-x*x)

	return 0.5 * (1.0 + sign*y)
}

// PayoffFunc is a strategy's net payoff as a function of terminal price.
type PayoffFunc func(terminalPrice float64) float64

// Model is the risk-neutral geometric Brownian motion terminal distribution:
// ln(S_T) ~ Normal(ln(Spot) + (Rate - Sigma^2/2)*Years, Sigma*sqrt(Years)).
type Model struct {
	Spot  float64
	Years float64
	Rate  float64
	Sigma float64
}

func (m Model) drift() float64 {
	return (m.Rate - 0.5*m.Sigma*m.Sigma) * m.Years
}

func (m Model) stddev() float64 {
	return m.Sigma * math.Sqrt(m.Years)
}

// ZScore standardizes a terminal price against the lognormal distribution.
func (m Model) ZScore(price float64) float64 {
	return (math.Log(price/m.Spot) - m.drift()) / m.stddev()
}

// Density is the lognormal PDF of the terminal price.
func (m Model) Density() distuv.LogNormal {
	return distuv.LogNormal{
		Mu:    math.Log(m.Spot) + m.drift(),
		Sigma: m.stddev(),
	}
}

// grid returns n evenly spaced prices from MinPrice to 2*Spot, endpoints
// included.
func (m Model) grid(n int) []float64 {
	lo, hi := MinPrice, 2*m.Spot
	step := (hi - lo) / float64(n-1)
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = lo + float64(i)*step
	}
	return prices
}

// ProfitProbability estimates P[payoff(S_T) > 0].
//
// The payoff sign is sampled on a 1000-point grid. A curve positive
// everywhere returns exactly 1, negative everywhere exactly 0. With one or
// two sign changes the probability comes from the closed-form normal CDF of
// the standardized break-even prices; the two-boundary case detects whether
// the profitable region lies inside or outside the breakpoints from the sign
// at the lowest sample. Three or more sign changes fall back to trapezoidal
// integration of the lognormal density over the profitable region.
func ProfitProbability(payoff PayoffFunc, m Model) float64 {
	prices := m.grid(numSamples)

	profitable := make([]bool, len(prices))
	allProfit, anyProfit := true, false
	for i, p := range prices {
		profitable[i] = payoff(p) > 0
		if profitable[i] {
			anyProfit = true
		} else {
			allProfit = false
		}
	}

	if allProfit {
		return 1.0
	}
	if !anyProfit {
		return 0.0
	}

	var boundaries []float64
	for i := 1; i < len(prices); i++ {
		if profitable[i] != profitable[i-1] {
			boundaries = append(boundaries, prices[i])
		}
	}

	switch len(boundaries) {
	case 1:
		z := m.ZScore(boundaries[0])
		if profitable[0] {
			return Phi(z)
		}
		return 1.0 - Phi(z)
	case 2:
		inner := Phi(m.ZScore(boundaries[1])) - Phi(m.ZScore(boundaries[0]))
		if profitable[0] {
			// Profitable outside the breakpoints.
			return 1.0 - inner
		}
		return inner
	default:
		return integrateProfitMass(payoff, m)
	}
}

// integrateProfitMass integrates pdf(S_T) * 1[payoff(S_T) > 0] over the
// evaluated domain with the composite trapezoidal rule.
func integrateProfitMass(payoff PayoffFunc, m Model) float64 {
	density := m.Density()
	xs := m.grid(integrationSteps + 1)
	h := xs[1] - xs[0]

	f := func(x float64) float64 {
		if payoff(x) > 0 {
			return density.Prob(x)
		}
		return 0
	}

	sum := 0.5 * (f(xs[0]) + f(xs[len(xs)-1]))
	for _, x := range xs[1 : len(xs)-1] {
		sum += f(x)
	}
	return math.Min(1.0, math.Max(0.0, sum*h))
}

// RiskReward summarizes the sampled payoff curve as |maxLoss| / maxProfit,
// the risk carried per unit of attainable reward. Lower is better. A curve
// that can lose but never profit returns +Inf; a flat zero curve returns 0.
func RiskReward(payoff PayoffFunc, m Model) float64 {
	prices := m.grid(numSamples)
	payoffs := make([]float64, len(prices))
	for i, p := range prices {
		payoffs[i] = payoff(p)
	}

	maxProfit, _ := stats.Max(payoffs)
	maxLoss, _ := stats.Min(payoffs)

	if maxProfit == 0 {
		if maxLoss < 0 {
			return math.Inf(1)
		}
		return 0
	}
	return math.Abs(maxLoss / maxProfit)
}
