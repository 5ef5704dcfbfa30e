package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"golang-quant/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seriesOf builds a daily series starting Jan 2 2024 from closes.
func seriesOf(symbol string, closes ...float64) *Series {
	var candles []model.Candle
	for i, c := range closes {
		candles = append(candles, model.Candle{
			Symbol: symbol,
			Date:   date(2024, 1, 2).AddDate(0, 0, i),
			Close:  c,
		})
	}
	return NewSeries(symbol, candles)
}

func TestEqualWeight_TwoAssetRebalanceEveryStep(t *testing.T) {
	panel := Panel{
		seriesOf("AAA", 100, 110),
		seriesOf("BBB", 50, 55),
	}

	strategy := NewEqualWeightStrategy(10000, 1)
	curve, err := strategy.Run(panel)

	assert.NoError(t, err)
	assert.Len(t, curve, 2)

	step0 := curve[0]
	assert.Nil(t, step0.TotalReturn)
	assert.Equal(t, 10000.0, step0.TotalBalance)
	assert.True(t, step0.Rebalanced)
	assert.Equal(t, []float64{5000, 5000}, step0.NextBalances)

	step1 := curve[1]
	assert.InDelta(t, 0.10, *step1.Returns[0], 1e-9)
	assert.InDelta(t, 0.10, *step1.Returns[1], 1e-9)
	assert.InDelta(t, 5500, step1.EndBalances[0], 1e-9)
	assert.InDelta(t, 5500, step1.EndBalances[1], 1e-9)
	assert.InDelta(t, 11000, step1.TotalBalance, 1e-9)
	assert.InDelta(t, 0.10, *step1.TotalReturn, 1e-9)
	assert.True(t, step1.Rebalanced)
	assert.InDelta(t, 5500, step1.NextBalances[0], 1e-9)
	assert.InDelta(t, 5500, step1.NextBalances[1], 1e-9)
}

func TestEqualWeight_DriftsBetweenRebalances(t *testing.T) {
	panel := Panel{
		seriesOf("AAA", 100, 120, 120),
		seriesOf("BBB", 100, 100, 100),
	}

	strategy := NewEqualWeightStrategy(10000, 2)
	curve, err := strategy.Run(panel)
	assert.NoError(t, err)

	// step 1 is not a rebalance step, so balances drift
	assert.False(t, curve[1].Rebalanced)
	assert.InDelta(t, 6000, curve[1].NextBalances[0], 1e-9)
	assert.InDelta(t, 5000, curve[1].NextBalances[1], 1e-9)

	// step 2 rebalances back to equal shares
	assert.True(t, curve[2].Rebalanced)
	assert.InDelta(t, 5500, curve[2].NextBalances[0], 1e-9)
	assert.InDelta(t, 5500, curve[2].NextBalances[1], 1e-9)
}

func TestEqualWeight_DegenerateSeries(t *testing.T) {
	strategy := NewEqualWeightStrategy(10000, 1)

	empty, err := strategy.Run(Panel{seriesOf("AAA")})
	assert.NoError(t, err)
	assert.Empty(t, empty)

	single, err := strategy.Run(Panel{seriesOf("AAA", 100)})
	assert.NoError(t, err)
	assert.Len(t, single, 1)
	assert.Equal(t, 10000.0, single[0].TotalBalance)
}

func TestEqualWeight_ZeroIntervalRejected(t *testing.T) {
	panel := Panel{seriesOf("AAA", 100, 110)}

	_, err := NewEqualWeightStrategy(10000, 0).Run(panel)
	assert.ErrorContains(t, err, "rebalance interval")

	_, err = NewEqualWeightStrategy(10000, -1).Run(panel)
	assert.ErrorContains(t, err, "rebalance interval")
}

func TestRun_UnalignedPanelFailsFast(t *testing.T) {
	panel := Panel{
		seriesOf("AAA", 100, 110, 120),
		seriesOf("BBB", 50, 55),
	}

	strategy := NewEqualWeightStrategy(10000, 1)
	_, err := strategy.Run(panel)
	assert.ErrorContains(t, err, "unaligned panel")
}

func withScores(s *Series, maWindow int, ma []float64, scores []float64) *Series {
	s.MA = map[int][]float64{maWindow: ma}
	s.AvgScore = scores
	return s
}

func TestGTAA_FilteredSlotHoldsCash(t *testing.T) {
	// BBB scores higher but trades below its moving average, so its
	// slot sits in cash.
	panel := Panel{
		withScores(seriesOf("AAA", 100, 110), 2, []float64{90, 95}, []float64{0.05, 0.05}),
		withScores(seriesOf("BBB", 50, 45), 2, []float64{60, 60}, []float64{0.20, 0.20}),
	}

	strategy := NewGTAAStrategy(10000, 2, 2)
	curve, err := strategy.Run(panel)
	assert.NoError(t, err)
	assert.Len(t, curve, 2)

	step0 := curve[0]
	assert.Equal(t, []string{"AAA"}, step0.Held)
	assert.Equal(t, []float64{5000}, step0.NextBalances)
	assert.InDelta(t, 5000, step0.Cash, 1e-9)

	// only the held slot accrues AAA's +10%; cash stays flat
	step1 := curve[1]
	assert.InDelta(t, 5500, step1.EndBalances[0], 1e-9)
	assert.InDelta(t, 10500, step1.TotalBalance, 1e-9)
	assert.InDelta(t, 0.05, *step1.TotalReturn, 1e-9)
}

func TestGTAA_TopNSelection(t *testing.T) {
	panel := Panel{
		withScores(seriesOf("AAA", 100, 100), 2, []float64{90, 90}, []float64{0.01, 0.01}),
		withScores(seriesOf("BBB", 100, 100), 2, []float64{90, 90}, []float64{0.30, 0.30}),
		withScores(seriesOf("CCC", 100, 100), 2, []float64{90, 90}, []float64{0.20, 0.20}),
	}

	strategy := NewGTAAStrategy(9000, 2, 2)
	curve, err := strategy.Run(panel)
	assert.NoError(t, err)

	assert.Equal(t, []string{"BBB", "CCC"}, curve[0].Held)
	assert.Zero(t, curve[0].Cash)
}

func TestGTAA_TieBreakPrefersPanelOrder(t *testing.T) {
	// identical scores everywhere: the first-listed assets win the
	// ranked slots
	panel := Panel{
		withScores(seriesOf("AAA", 100, 100), 2, []float64{90, 90}, []float64{0.10, 0.10}),
		withScores(seriesOf("BBB", 100, 100), 2, []float64{90, 90}, []float64{0.10, 0.10}),
		withScores(seriesOf("CCC", 100, 100), 2, []float64{90, 90}, []float64{0.10, 0.10}),
	}

	strategy := NewGTAAStrategy(9000, 2, 2)
	curve, err := strategy.Run(panel)
	assert.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB"}, curve[0].Held)
}

func TestGTAA_MissingColumnsFail(t *testing.T) {
	strategy := NewGTAAStrategy(10000, 1, 200)
	_, err := strategy.Run(Panel{seriesOf("AAA", 100, 110)})
	assert.Error(t, err)
}
