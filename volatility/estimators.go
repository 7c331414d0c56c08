// Package volatility estimates annualized volatility from daily quote bars.
// Estimates are a fallback for callers that have history but no sigma.
package volatility

import (
	"math"

	"github.com/condorscan/condorscan/chain"
)

const tradingDays = 252

// GarmanKlass computes the Garman-Klass estimator over the trailing window of
// days bars, annualized. Returns 0 when the window is empty.
func GarmanKlass(h chain.QuoteHistory, days int) float64 {
	bars := h.Tail(days)
	if len(bars) == 0 {
		return 0
	}

	sum := 0.0
	for _, bar := range bars {
		if bar.Low <= 0 || bar.Open <= 0 {
			return 0
		}
		hl := 0.5 * math.Pow(math.Log(bar.High/bar.Low), 2)
		co := (2*math.Log(2) - 1) * math.Pow(math.Log(bar.Close/bar.Open), 2)
		sum += hl - co
	}

	return math.Sqrt(sum / float64(len(bars)) * tradingDays)
}

// Parkinson computes the Parkinson high-low range estimator over the trailing
// window, annualized. Returns 0 when the window is empty.
func Parkinson(h chain.QuoteHistory, days int) float64 {
	bars := h.Tail(days)
	if len(bars) == 0 {
		return 0
	}

	sum := 0.0
	for _, bar := range bars {
		if bar.Low <= 0 {
			return 0
		}
		hl := math.Log(bar.High / bar.Low)
		sum += hl * hl
	}

	return math.Sqrt(sum / (4 * math.Log(2) * float64(len(bars))) * tradingDays)
}

// Estimate is the default sigma fallback: Garman-Klass over a one-month
// window, Parkinson when open prices are unusable.
func Estimate(h chain.QuoteHistory) float64 {
	const window = 21
	if v := GarmanKlass(h, window); v > 0 {
		return v
	}
	return Parkinson(h, window)
}
