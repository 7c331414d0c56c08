package probability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/condorscan/condorscan/models"
)

func TestMonteCarloProbability(t *testing.T) {
	m := testModel()

	t.Run("agrees with the closed form for a single breakeven", func(t *testing.T) {
		s := mustStrategy(t, leg(t, models.Call, models.Buy, 100, 5))

		analytic := ProfitProbability(s.NetPayoff, m)
		simulated := MonteCarloProbability(s.NetPayoff, m, 200000, 42)

		assert.InDelta(t, analytic, simulated, 0.01)
	})

	t.Run("agrees with the closed form for an iron condor", func(t *testing.T) {
		s := mustStrategy(t,
			leg(t, models.Call, models.Sell, 110, 3),
			leg(t, models.Call, models.Buy, 120, 1),
			leg(t, models.Put, models.Sell, 90, 3),
			leg(t, models.Put, models.Buy, 80, 1),
		)

		analytic := ProfitProbability(s.NetPayoff, m)
		simulated := MonteCarloProbability(s.NetPayoff, m, 200000, 7)

		assert.InDelta(t, analytic, simulated, 0.01)
	})

	t.Run("same seed reproduces the estimate", func(t *testing.T) {
		s := mustStrategy(t, leg(t, models.Put, models.Sell, 95, 2))

		a := MonteCarloProbability(s.NetPayoff, m, 10000, 99)
		b := MonteCarloProbability(s.NetPayoff, m, 10000, 99)
		assert.Equal(t, a, b)
	})
}

func TestValueAtRisk(t *testing.T) {
	m := testModel()

	t.Run("bought option loss is capped at the premium", func(t *testing.T) {
		s := mustStrategy(t, leg(t, models.Call, models.Buy, 100, 5))

		v := ValueAtRisk(s.NetPayoff, m, 0.99, 50000, 1)
		assert.LessOrEqual(t, v, 5.0+1e-9)
		assert.Greater(t, v, 0.0)
	})

	t.Run("condor loss is capped at width minus credit", func(t *testing.T) {
		s := mustStrategy(t,
			leg(t, models.Call, models.Sell, 110, 3),
			leg(t, models.Call, models.Buy, 120, 1),
			leg(t, models.Put, models.Sell, 90, 3),
			leg(t, models.Put, models.Buy, 80, 1),
		)

		v := ValueAtRisk(s.NetPayoff, m, 0.99, 50000, 1)
		assert.LessOrEqual(t, v, 6.0+1e-9)
	})
}
