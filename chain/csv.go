package chain

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// entryRow is one chain entry as it appears in the source CSV, one line per
// strike.
type entryRow struct {
	Strike  string `csv:"strike"`
	CallBid string `csv:"call_bid"`
	CallAsk string `csv:"call_ask"`
	PutBid  string `csv:"put_bid"`
	PutAsk  string `csv:"put_ask"`
}

// LoadCSV reads a row-per-entry chain CSV and transposes it into the
// column-oriented Table.
func LoadCSV(r io.Reader) (*Table, error) {
	var rows []entryRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("reading chain csv: %w", err)
	}

	t := &Table{
		Strikes: make([]string, len(rows)),
		CallBid: make([]string, len(rows)),
		CallAsk: make([]string, len(rows)),
		PutBid:  make([]string, len(rows)),
		PutAsk:  make([]string, len(rows)),
	}
	for i, row := range rows {
		t.Strikes[i] = row.Strike
		t.CallBid[i] = row.CallBid
		t.CallAsk[i] = row.CallAsk
		t.PutBid[i] = row.PutBid
		t.PutAsk[i] = row.PutAsk
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
