// Package report turns screened results into the flat export format and a
// terminal rendering.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/condorscan/condorscan/chain"
	"github.com/condorscan/condorscan/positions"
)

// Row is one exported result. Metrics carry 4 decimal places, strikes and
// prices 2; values stay strings so the on-disk format is exact.
type Row struct {
	RiskRewardRatio     string `csv:"Risk Reward Ratio"`
	ProbabilityOfProfit string `csv:"Probability of Profit"`
	CallSellStrike      string `csv:"Call_Sell_Strike"`
	CallBuyStrike       string `csv:"Call_Buy_Strike"`
	PutSellStrike       string `csv:"Put_Sell_Strike"`
	PutBuyStrike        string `csv:"Put_Buy_Strike"`
	CallSellPrice       string `csv:"Call_Sell_Price"`
	CallBuyPrice        string `csv:"Call_Buy_Price"`
	PutSellPrice        string `csv:"Put_Sell_Price"`
	PutBuyPrice         string `csv:"Put_Buy_Price"`
}

// Rows resolves each result's stored indices back to the source table and
// formats one export row per result. Inputs are not mutated.
func Rows(results []positions.Result, table *chain.Table) ([]Row, error) {
	rows := make([]Row, 0, len(results))
	for _, res := range results {
		c := res.Candidate

		row := Row{
			RiskRewardRatio:     strconv.FormatFloat(res.RiskReward, 'f', 4, 64),
			ProbabilityOfProfit: strconv.FormatFloat(res.Probability, 'f', 4, 64),
		}

		for _, field := range []struct {
			out  *string
			read func(int) (float64, error)
			idx  int
		}{
			{&row.CallSellStrike, table.StrikeAt, c.ShortCall},
			{&row.CallBuyStrike, table.StrikeAt, c.LongCall},
			{&row.PutSellStrike, table.StrikeAt, c.ShortPut},
			{&row.PutBuyStrike, table.StrikeAt, c.LongPut},
			{&row.CallSellPrice, table.CallAskAt, c.ShortCall},
			{&row.CallBuyPrice, table.CallBidAt, c.LongCall},
			{&row.PutSellPrice, table.PutAskAt, c.ShortPut},
			{&row.PutBuyPrice, table.PutBidAt, c.LongPut},
		} {
			v, err := field.read(field.idx)
			if err != nil {
				return nil, fmt.Errorf("resolving exported cell: %w", err)
			}
			*field.out = strconv.FormatFloat(v, 'f', 2, 64)
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCSV writes rows with the export header.
func WriteCSV(w io.Writer, rows []Row) error {
	return gocsv.Marshal(&rows, w)
}

// ReadCSV parses a previously exported file back into rows.
func ReadCSV(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ParsedRow holds the numeric values of one export row.
type ParsedRow struct {
	RiskReward  float64
	Probability float64
	Strikes     [4]float64 // call sell, call buy, put sell, put buy
	Prices      [4]float64
}

// Parse re-parses a row's formatted fields.
func (r Row) Parse() (ParsedRow, error) {
	var p ParsedRow
	var err error

	if p.RiskReward, err = strconv.ParseFloat(r.RiskRewardRatio, 64); err != nil {
		return p, fmt.Errorf("risk reward ratio: %w", err)
	}
	if p.Probability, err = strconv.ParseFloat(r.ProbabilityOfProfit, 64); err != nil {
		return p, fmt.Errorf("probability of profit: %w", err)
	}

	for i, raw := range []string{r.CallSellStrike, r.CallBuyStrike, r.PutSellStrike, r.PutBuyStrike} {
		if p.Strikes[i], err = strconv.ParseFloat(raw, 64); err != nil {
			return p, fmt.Errorf("strike %d: %w", i, err)
		}
	}
	for i, raw := range []string{r.CallSellPrice, r.CallBuyPrice, r.PutSellPrice, r.PutBuyPrice} {
		if p.Prices[i], err = strconv.ParseFloat(raw, 64); err != nil {
			return p, fmt.Errorf("price %d: %w", i, err)
		}
	}
	return p, nil
}
