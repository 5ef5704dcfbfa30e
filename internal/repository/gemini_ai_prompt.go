package repository

import (
	"fmt"
	"strings"

	"golang-quant/internal/dto"
	"golang-quant/pkg/utils"
)

func (r *geminiAIRepository) promptNarrateBacktest(req dto.BacktestRequest, summary dto.PerformanceSummary) string {
	var b strings.Builder

	b.WriteString("You are an investment analyst. Summarize the following portfolio backtest result ")
	b.WriteString("in at most four sentences of plain English. Mention the strategy, the headline return, ")
	b.WriteString("the risk figures, and one caveat. Do not invent numbers.\n\n")

	fmt.Fprintf(&b, "Strategy: %s\n", req.Strategy)
	fmt.Fprintf(&b, "Universe: %s\n", strings.Join(req.Tickers, ", "))
	fmt.Fprintf(&b, "Window: %s to %s (%d steps)\n",
		utils.FormatDate(summary.StartDate), utils.FormatDate(summary.EndDate), summary.Steps)
	fmt.Fprintf(&b, "Start balance: %.2f, end balance: %.2f\n", summary.StartBalance, summary.EndBalance)
	fmt.Fprintf(&b, "Total return: %s\n", utils.FormatPercentage(summary.TotalReturn))
	fmt.Fprintf(&b, "CAGR: %s\n", utils.FormatPercentage(summary.CAGR))
	fmt.Fprintf(&b, "Annualized volatility: %s\n", utils.FormatPercentage(summary.AnnualizedStd))
	if summary.SharpeRatio != nil {
		fmt.Fprintf(&b, "Sharpe ratio: %.2f\n", *summary.SharpeRatio)
	} else {
		b.WriteString("Sharpe ratio: undefined (zero variance)\n")
	}
	fmt.Fprintf(&b, "Maximum drawdown: %s\n", utils.FormatPercentage(summary.MaxDrawdown))

	return b.String()
}
