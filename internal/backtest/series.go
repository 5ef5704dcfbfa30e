package backtest

import (
	"sort"
	"time"

	"golang-quant/internal/model"
)

// Series is one asset's sampled price history plus the derived columns
// the strategies read. All column slices are parallel to Dates.
type Series struct {
	Symbol          string
	Dates           []time.Time
	Close           []float64
	Dividends       []float64
	MA              map[int][]float64
	IntervalReturns map[int][]float64
	AvgScore        []float64
}

// Panel is the ordered multi-asset universe. Order is significant: it
// is the tie-break order for score ranking.
type Panel []*Series

// NewSeries builds a series from raw candles, sorted by date ascending.
func NewSeries(symbol string, candles []model.Candle) *Series {
	sorted := make([]model.Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	s := &Series{Symbol: symbol}
	for _, c := range sorted {
		s.Dates = append(s.Dates, c.Date)
		s.Close = append(s.Close, c.Close)
		s.Dividends = append(s.Dividends, c.Dividends)
	}
	return s
}

func (s *Series) Len() int { return len(s.Dates) }

// selectRows keeps only the given row indices, in order, across every
// parallel column.
func (s *Series) selectRows(idxs []int) *Series {
	out := &Series{Symbol: s.Symbol}
	out.Dates = make([]time.Time, 0, len(idxs))
	out.Close = make([]float64, 0, len(idxs))
	out.Dividends = make([]float64, 0, len(idxs))

	if s.MA != nil {
		out.MA = make(map[int][]float64, len(s.MA))
	}
	if s.IntervalReturns != nil {
		out.IntervalReturns = make(map[int][]float64, len(s.IntervalReturns))
	}

	for _, i := range idxs {
		out.Dates = append(out.Dates, s.Dates[i])
		out.Close = append(out.Close, s.Close[i])
		out.Dividends = append(out.Dividends, s.Dividends[i])
		if s.AvgScore != nil {
			out.AvgScore = append(out.AvgScore, s.AvgScore[i])
		}
	}
	for w, col := range s.MA {
		picked := make([]float64, 0, len(idxs))
		for _, i := range idxs {
			picked = append(picked, col[i])
		}
		out.MA[w] = picked
	}
	for n, col := range s.IntervalReturns {
		picked := make([]float64, 0, len(idxs))
		for _, i := range idxs {
			picked = append(picked, col[i])
		}
		out.IntervalReturns[n] = picked
	}
	return out
}

func rangeIdxs(from, n int) []int {
	idxs := make([]int, 0, n-from)
	for i := from; i < n; i++ {
		idxs = append(idxs, i)
	}
	return idxs
}
