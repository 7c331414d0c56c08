package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condorscan/condorscan/chain"
	"github.com/condorscan/condorscan/positions"
)

func testTable(t *testing.T) *chain.Table {
	t.Helper()
	table, err := chain.NewTable(
		[]string{"80", "90", "100", "110", "120"},
		[]string{"20.5", "11.0", "4.8", "1.6", "0.4"},
		[]string{"21.0", "11.5", "5.2", "1.9", "0.6"},
		[]string{"0.3", "1.2", "4.6", "10.8", "20.2"},
		[]string{"0.5", "1.5", "5.0", "11.3", "20.8"},
	)
	require.NoError(t, err)
	return table
}

func testResults() []positions.Result {
	return []positions.Result{
		{
			Candidate:   positions.Candidate{ShortCall: 3, LongCall: 4, ShortPut: 1, LongPut: 0},
			Seq:         0,
			Probability: 0.84512345,
			RiskReward:  1.23456789,
		},
		{
			Candidate:   positions.Candidate{ShortCall: 2, LongCall: 3, ShortPut: 2, LongPut: 1},
			Seq:         1,
			Probability: 0.5,
			RiskReward:  math.Inf(1),
		},
	}
}

func TestRows(t *testing.T) {
	rows, err := Rows(testResults(), testTable(t))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	t.Run("metrics have four decimals, prices two", func(t *testing.T) {
		assert.Equal(t, "1.2346", rows[0].RiskRewardRatio)
		assert.Equal(t, "0.8451", rows[0].ProbabilityOfProfit)
		assert.Equal(t, "110.00", rows[0].CallSellStrike)
		assert.Equal(t, "120.00", rows[0].CallBuyStrike)
		assert.Equal(t, "90.00", rows[0].PutSellStrike)
		assert.Equal(t, "80.00", rows[0].PutBuyStrike)
	})

	t.Run("short legs price at the ask, long legs at the bid", func(t *testing.T) {
		assert.Equal(t, "1.90", rows[0].CallSellPrice)  // call ask col 3
		assert.Equal(t, "0.40", rows[0].CallBuyPrice)   // call bid col 4
		assert.Equal(t, "1.50", rows[0].PutSellPrice)   // put ask col 1
		assert.Equal(t, "0.30", rows[0].PutBuyPrice)    // put bid col 0
	})

	t.Run("infinite ratios survive formatting", func(t *testing.T) {
		assert.Equal(t, "+Inf", rows[1].RiskRewardRatio)
	})

	t.Run("unresolvable index fails", func(t *testing.T) {
		bad := []positions.Result{{Candidate: positions.Candidate{ShortCall: 99}}}
		_, err := Rows(bad, testTable(t))
		assert.ErrorIs(t, err, chain.ErrMalformedCell)
	})
}

func TestCSVRoundTrip(t *testing.T) {
	rows, err := Rows(testResults(), testTable(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	t.Run("header matches the export contract", func(t *testing.T) {
		header := strings.SplitN(buf.String(), "\n", 2)[0]
		assert.Equal(t,
			"Risk Reward Ratio,Probability of Profit,"+
				"Call_Sell_Strike,Call_Buy_Strike,Put_Sell_Strike,Put_Buy_Strike,"+
				"Call_Sell_Price,Call_Buy_Price,Put_Sell_Price,Put_Buy_Price",
			strings.TrimRight(header, "\r"))
	})

	t.Run("re-parsing reproduces strikes and rounded metrics", func(t *testing.T) {
		back, err := ReadCSV(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Len(t, back, 2)

		parsed, err := back[0].Parse()
		require.NoError(t, err)

		assert.InDelta(t, 1.23456789, parsed.RiskReward, 1e-4)
		assert.InDelta(t, 0.84512345, parsed.Probability, 1e-4)
		assert.Equal(t, [4]float64{110, 120, 90, 80}, parsed.Strikes)
		assert.Equal(t, [4]float64{1.9, 0.4, 1.5, 0.3}, parsed.Prices)

		inf, err := back[1].Parse()
		require.NoError(t, err)
		assert.True(t, math.IsInf(inf.RiskReward, 1))
	})
}

func TestRenderTop(t *testing.T) {
	rows, err := Rows(testResults(), testTable(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderTop(&buf, rows, 1)

	out := buf.String()
	assert.Contains(t, out, "1.2346")
	assert.NotContains(t, out, "+Inf")

	// n larger than the row count renders everything.
	buf.Reset()
	RenderTop(&buf, rows, 10)
	assert.Contains(t, buf.String(), "+Inf")
}
