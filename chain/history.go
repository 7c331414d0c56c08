package chain

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// DayBar is one daily quote bar of the underlying.
type DayBar struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int     `csv:"volume"`
}

// QuoteHistory is a chronological series of daily bars, oldest first. It
// feeds the historical volatility estimators.
type QuoteHistory struct {
	Days []DayBar
}

// LoadHistoryCSV reads daily bars from CSV.
func LoadHistoryCSV(r io.Reader) (QuoteHistory, error) {
	var days []DayBar
	if err := gocsv.Unmarshal(r, &days); err != nil {
		return QuoteHistory{}, fmt.Errorf("reading history csv: %w", err)
	}
	return QuoteHistory{Days: days}, nil
}

// Tail returns the most recent n bars, or all bars when fewer exist.
func (h QuoteHistory) Tail(n int) []DayBar {
	if n >= len(h.Days) {
		return h.Days
	}
	return h.Days[len(h.Days)-n:]
}
