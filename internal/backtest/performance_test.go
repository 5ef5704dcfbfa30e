package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func curveOf(balances ...float64) Curve {
	var curve Curve
	for i, b := range balances {
		row := CurveRow{
			Date:         date(2020, 1, 1).AddDate(0, i, 0),
			TotalBalance: b,
		}
		if i > 0 {
			r := b/balances[i-1] - 1
			row.TotalReturn = &r
		}
		curve = append(curve, row)
	}
	return curve
}

func TestSummarize_MaxDrawdown(t *testing.T) {
	summary, err := Summarize(curveOf(100, 120, 90, 130), "M")

	assert.NoError(t, err)
	assert.InDelta(t, -0.25, summary.MaxDrawdown, 1e-9)
}

func TestSummarize_SharpeNilOnZeroVariance(t *testing.T) {
	summary, err := Summarize(curveOf(100, 100, 100), "M")

	assert.NoError(t, err)
	assert.Zero(t, summary.AnnualizedStd)
	assert.Nil(t, summary.SharpeRatio)
}

func TestSummarize_CAGR(t *testing.T) {
	curve := Curve{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), TotalBalance: 10000},
		{Date: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), TotalBalance: 14400},
	}
	r := 0.44
	curve[1].TotalReturn = &r

	summary, err := Summarize(curve, "Y")

	assert.NoError(t, err)
	// 44% over two years compounds to roughly 20% a year
	assert.InDelta(t, 0.2, summary.CAGR, 1e-3)
	assert.InDelta(t, 0.44, summary.TotalReturn, 1e-9)
}

func TestSummarize_EmptyCurve(t *testing.T) {
	_, err := Summarize(Curve{}, "M")
	assert.Error(t, err)
}

func TestSummarize_UnknownFreq(t *testing.T) {
	_, err := Summarize(curveOf(100, 110), "W")
	assert.Error(t, err)
}

func TestCurve_Points(t *testing.T) {
	curve := curveOf(100, 110)
	curve[1].Held = []string{"AAA"}

	points := curve.Points()

	assert.Len(t, points, 2)
	assert.Zero(t, points[0].Return)
	assert.InDelta(t, 0.10, points[1].Return, 1e-9)
	assert.Equal(t, []string{"AAA"}, points[1].Held)
}
