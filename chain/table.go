// Package chain holds the options-chain table supplied by the caller and its
// CSV ingestion. Rows are named fields, not positional indices; the schema is
// validated once at load time.
package chain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmptyTable  = errors.New("chain table has no entries")
	ErrRaggedTable = errors.New("chain table rows have unequal lengths")
)

// ErrMalformedCell wraps a cell that failed to parse as a price. The screener
// skips the single candidate touching it and keeps going.
var ErrMalformedCell = errors.New("malformed cell value")

// Table is the column-oriented options chain: one named row per semantic
// field, one column per chain entry. Cells stay raw strings so a bad cell
// costs one candidate at evaluation time, not the whole load.
type Table struct {
	Strikes []string
	CallBid []string
	CallAsk []string
	PutBid  []string
	PutAsk  []string
}

// NewTable builds and validates a table from its five rows.
func NewTable(strikes, callBid, callAsk, putBid, putAsk []string) (*Table, error) {
	t := &Table{
		Strikes: strikes,
		CallBid: callBid,
		CallAsk: callAsk,
		PutBid:  putBid,
		PutAsk:  putAsk,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the rectangular shape once at ingestion.
func (t *Table) Validate() error {
	n := len(t.Strikes)
	if n == 0 {
		return ErrEmptyTable
	}
	for name, row := range map[string][]string{
		"call_bid": t.CallBid,
		"call_ask": t.CallAsk,
		"put_bid":  t.PutBid,
		"put_ask":  t.PutAsk,
	} {
		if len(row) != n {
			return fmt.Errorf("%w: %s has %d cells, want %d", ErrRaggedTable, name, len(row), n)
		}
	}
	return nil
}

// Columns is the number of chain entries.
func (t *Table) Columns() int {
	return len(t.Strikes)
}

func (t *Table) StrikeAt(i int) (float64, error)  { return parseCell(t.Strikes, "strike", i) }
func (t *Table) CallBidAt(i int) (float64, error) { return parseCell(t.CallBid, "call_bid", i) }
func (t *Table) CallAskAt(i int) (float64, error) { return parseCell(t.CallAsk, "call_ask", i) }
func (t *Table) PutBidAt(i int) (float64, error)  { return parseCell(t.PutBid, "put_bid", i) }
func (t *Table) PutAskAt(i int) (float64, error)  { return parseCell(t.PutAsk, "put_ask", i) }

func parseCell(row []string, name string, i int) (float64, error) {
	if i < 0 || i >= len(row) {
		return 0, fmt.Errorf("%w: %s[%d] out of range", ErrMalformedCell, name, i)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %s[%d]=%q", ErrMalformedCell, name, i, row[i])
	}
	return v, nil
}
