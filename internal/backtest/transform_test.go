package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"golang-quant/internal/model"
)

func TestAddMovingAverages(t *testing.T) {
	panel := AddMovingAverages(Panel{seriesOf("AAA", 10, 20, 30, 40)}, 2)

	s := panel[0]
	// first row dropped: the 2-step mean is undefined there
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{15, 25, 35}, s.MA[2])
	assert.Equal(t, []float64{20, 30, 40}, s.Close)
}

func TestAddIntervalReturns(t *testing.T) {
	panel := AddIntervalReturns(Panel{seriesOf("AAA", 100, 110, 121)}, []int{1})

	s := panel[0]
	assert.Equal(t, 2, s.Len())
	assert.InDelta(t, 0.10, s.IntervalReturns[1][0], 1e-9)
	assert.InDelta(t, 0.10, s.IntervalReturns[1][1], 1e-9)
}

func TestAddAvgScore(t *testing.T) {
	panel := AddIntervalReturns(Panel{seriesOf("AAA", 100, 110, 121)}, []int{1})
	panel, err := AddAvgScore(panel, []int{1})

	assert.NoError(t, err)
	assert.InDelta(t, 0.10, panel[0].AvgScore[0], 1e-9)
}

func TestAddAvgScore_MissingColumn(t *testing.T) {
	_, err := AddAvgScore(Panel{seriesOf("AAA", 100, 110)}, []int{3})
	assert.Error(t, err)
}

func TestAlignByDateIntersection(t *testing.T) {
	a := seriesOf("AAA", 1, 2, 3)
	b := &Series{
		Symbol: "BBB",
		Dates:  []time.Time{a.Dates[0], a.Dates[2]},
		Close:  []float64{10, 30},
		Dividends: []float64{0, 0},
	}

	panel, err := AlignByDateIntersection(Panel{a, b})
	assert.NoError(t, err)

	assert.Equal(t, 2, panel[0].Len())
	assert.Equal(t, 2, panel[1].Len())
	assert.Equal(t, panel[0].Dates, panel[1].Dates)
	assert.Equal(t, []float64{1, 3}, panel[0].Close)
}

func TestAlignByDateIntersection_NoCommonDates(t *testing.T) {
	a := seriesOf("AAA", 1)
	b := &Series{Symbol: "BBB", Dates: []time.Time{date(2020, 1, 1)}, Close: []float64{10}, Dividends: []float64{0}}

	_, err := AlignByDateIntersection(Panel{a, b})
	assert.Error(t, err)
}

func TestFilterPeriodEnds_MonthEndSumsDividends(t *testing.T) {
	candles := []model.Candle{
		{Symbol: "AAA", Date: date(2024, 1, 10), Close: 100, Dividends: 1},
		{Symbol: "AAA", Date: date(2024, 1, 31), Close: 105, Dividends: 2},
		{Symbol: "AAA", Date: date(2024, 2, 5), Close: 110, Dividends: 0},
		{Symbol: "AAA", Date: date(2024, 2, 28), Close: 115, Dividends: 3},
	}

	panel, err := FilterPeriodEnds(Panel{NewSeries("AAA", candles)}, SampleMonthEnd)
	assert.NoError(t, err)

	s := panel[0]
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{105, 115}, s.Close)
	assert.Equal(t, []float64{3, 3}, s.Dividends)
}

func TestFilterPeriodEnds_UnknownOption(t *testing.T) {
	_, err := FilterPeriodEnds(Panel{seriesOf("AAA", 1)}, "week_end")
	assert.Error(t, err)
}

func TestSliceByDate(t *testing.T) {
	s := seriesOf("AAA", 1, 2, 3, 4)
	start := s.Dates[1]
	end := s.Dates[2]

	panel := SliceByDate(Panel{s}, &start, &end)
	assert.Equal(t, []float64{2, 3}, panel[0].Close)
}

func TestSelectRowsByIntervalWithEnds(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		interval int
		want     []float64
	}{
		{name: "last row always kept", closes: []float64{1, 2, 3, 4, 5}, interval: 2, want: []float64{1, 3, 5}},
		{name: "last row appended when off-interval", closes: []float64{1, 2, 3, 4}, interval: 2, want: []float64{1, 3, 4}},
		{name: "interval one keeps everything", closes: []float64{1, 2, 3}, interval: 1, want: []float64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel, err := SelectRowsByIntervalWithEnds(Panel{seriesOf("AAA", tt.closes...)}, tt.interval)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, panel[0].Close)
		})
	}
}

func TestSelectRowsByIntervalWithEnds_InvalidInterval(t *testing.T) {
	_, err := SelectRowsByIntervalWithEnds(Panel{seriesOf("AAA", 1)}, 0)
	assert.Error(t, err)
}
