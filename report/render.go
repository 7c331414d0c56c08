package report

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTop writes the first n rows as a terminal table.
func RenderTop(w io.Writer, rows []Row, n int) {
	if n > len(rows) {
		n = len(rows)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Risk Reward Ratio", "Probability of Profit",
		"Call_Sell_Strike", "Call_Buy_Strike", "Put_Sell_Strike", "Put_Buy_Strike",
		"Call_Sell_Price", "Call_Buy_Price", "Put_Sell_Price", "Put_Buy_Price",
	})
	for _, row := range rows[:n] {
		table.Append([]string{
			row.RiskRewardRatio, row.ProbabilityOfProfit,
			row.CallSellStrike, row.CallBuyStrike, row.PutSellStrike, row.PutBuyStrike,
			row.CallSellPrice, row.CallBuyPrice, row.PutSellPrice, row.PutBuyPrice,
		})
	}
	table.Render()
}
