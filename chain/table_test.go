package chain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableValidate(t *testing.T) {
	t.Run("accepts a rectangular table", func(t *testing.T) {
		_, err := NewTable(
			[]string{"90", "100"},
			[]string{"11.0", "5.0"},
			[]string{"11.5", "5.5"},
			[]string{"0.9", "4.0"},
			[]string{"1.1", "4.5"},
		)
		assert.NoError(t, err)
	})

	t.Run("rejects an empty table", func(t *testing.T) {
		_, err := NewTable(nil, nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		_, err := NewTable(
			[]string{"90", "100"},
			[]string{"11.0"},
			[]string{"11.5", "5.5"},
			[]string{"0.9", "4.0"},
			[]string{"1.1", "4.5"},
		)
		assert.ErrorIs(t, err, ErrRaggedTable)
	})
}

func TestCellAccess(t *testing.T) {
	table, err := NewTable(
		[]string{"90", "100"},
		[]string{"11.0", " 5.0 "},
		[]string{"11.5", "5.5"},
		[]string{"0.9", "n/a"},
		[]string{"1.1", "NaN"},
	)
	require.NoError(t, err)

	t.Run("parses well-formed cells", func(t *testing.T) {
		v, err := table.StrikeAt(1)
		require.NoError(t, err)
		assert.Equal(t, 100.0, v)

		// Whitespace is tolerated.
		v, err = table.CallBidAt(1)
		require.NoError(t, err)
		assert.Equal(t, 5.0, v)
	})

	t.Run("malformed cell is a typed error", func(t *testing.T) {
		_, err := table.PutBidAt(1)
		assert.ErrorIs(t, err, ErrMalformedCell)
	})

	t.Run("NaN cells are malformed", func(t *testing.T) {
		_, err := table.PutAskAt(1)
		assert.ErrorIs(t, err, ErrMalformedCell)
	})

	t.Run("out of range index is a typed error", func(t *testing.T) {
		_, err := table.StrikeAt(7)
		assert.ErrorIs(t, err, ErrMalformedCell)
	})
}

func TestLoadCSV(t *testing.T) {
	t.Run("transposes row-per-entry input", func(t *testing.T) {
		src := strings.Join([]string{
			"strike,call_bid,call_ask,put_bid,put_ask",
			"90,11.0,11.5,0.9,1.1",
			"100,5.0,5.5,4.0,4.5",
			"110,1.8,2.1,10.0,10.6",
		}, "\n")

		table, err := LoadCSV(strings.NewReader(src))
		require.NoError(t, err)

		assert.Equal(t, 3, table.Columns())
		v, err := table.CallAskAt(2)
		require.NoError(t, err)
		assert.Equal(t, 2.1, v)
		v, err = table.PutBidAt(0)
		require.NoError(t, err)
		assert.Equal(t, 0.9, v)
	})

	t.Run("empty input fails validation", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader("strike,call_bid,call_ask,put_bid,put_ask\n"))
		assert.Error(t, err)
	})
}

func TestLoadHistoryCSV(t *testing.T) {
	src := strings.Join([]string{
		"date,open,high,low,close,volume",
		"2026-08-27,100,102,99,101,1000",
		"2026-08-28,101,103,100,102,1200",
	}, "\n")

	h, err := LoadHistoryCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, h.Days, 2)
	assert.Equal(t, 102.0, h.Days[1].Close)

	assert.Len(t, h.Tail(1), 1)
	assert.Len(t, h.Tail(10), 2)
	assert.Equal(t, "2026-08-28", h.Tail(1)[0].Date)
}
