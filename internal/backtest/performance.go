package backtest

import (
	"fmt"
	"math"

	"golang-quant/internal/dto"
)

// Annualization factors by return sampling frequency.
var annFactors = map[string]float64{
	"Y": 1,
	"M": 12,
	"D": 252,
}

// Summarize reduces a completed equity curve to its headline
// statistics. It reads the curve only; freq names how the return
// series was sampled.
func Summarize(curve Curve, freq string) (dto.PerformanceSummary, error) {
	annFactor, ok := annFactors[freq]
	if !ok {
		return dto.PerformanceSummary{}, fmt.Errorf("unsupported sampling freq: %s", freq)
	}
	if len(curve) == 0 {
		return dto.PerformanceSummary{}, fmt.Errorf("empty equity curve")
	}

	first := curve[0]
	last := curve[len(curve)-1]

	summary := dto.PerformanceSummary{
		StartBalance: first.TotalBalance,
		EndBalance:   last.TotalBalance,
		Steps:        len(curve),
		StartDate:    first.Date,
		EndDate:      last.Date,
	}
	summary.TotalReturn = last.TotalBalance/first.TotalBalance - 1

	years := last.Date.Sub(first.Date).Hours() / 24 / 365.25
	if years > 0 {
		summary.CAGR = math.Pow(last.TotalBalance/first.TotalBalance, 1/years) - 1
	}

	var returns []float64
	for _, row := range curve {
		if row.TotalReturn != nil {
			returns = append(returns, *row.TotalReturn)
		}
	}

	mean := meanOf(returns)
	std := sampleStd(returns, mean)
	summary.AnnualizedMean = mean * annFactor
	summary.AnnualizedStd = std * math.Sqrt(annFactor)
	if summary.AnnualizedStd != 0 {
		sharpe := summary.AnnualizedMean / summary.AnnualizedStd
		summary.SharpeRatio = &sharpe
	}

	summary.MaxDrawdown = maxDrawdown(curve)
	return summary, nil
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 denominator standard deviation; zero when fewer
// than two observations exist.
func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// maxDrawdown is the most negative deviation of the balance from its
// running maximum.
func maxDrawdown(curve Curve) float64 {
	var mdd float64
	runningMax := math.Inf(-1)
	for _, row := range curve {
		if row.TotalBalance > runningMax {
			runningMax = row.TotalBalance
		}
		dd := row.TotalBalance/runningMax - 1
		if dd < mdd {
			mdd = dd
		}
	}
	return mdd
}

// Points flattens the curve into the persistence and API shape.
func (c Curve) Points() []dto.EquityPoint {
	points := make([]dto.EquityPoint, 0, len(c))
	for _, row := range c {
		p := dto.EquityPoint{
			Date:    row.Date,
			Balance: row.TotalBalance,
			Held:    row.Held,
		}
		if row.TotalReturn != nil {
			p.Return = *row.TotalReturn
		}
		points = append(points, p)
	}
	return points
}
