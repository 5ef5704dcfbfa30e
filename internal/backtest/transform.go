package backtest

import (
	"fmt"
	"time"
)

// Period-end sampling options.
const (
	SampleMonthStart = "month_start"
	SampleMonthEnd   = "month_end"
	SampleYearStart  = "year_start"
	SampleYearEnd    = "year_end"
)

// AddMovingAverages appends rolling means of the close column for each
// window and drops the leading rows where the longest window is not
// yet defined.
func AddMovingAverages(p Panel, windows ...int) Panel {
	maxWindow := 0
	for _, w := range windows {
		if w > maxWindow {
			maxWindow = w
		}
	}

	out := make(Panel, 0, len(p))
	for _, s := range p {
		d := s.selectRows(rangeIdxs(0, s.Len()))
		d.MA = make(map[int][]float64, len(windows))
		for _, w := range windows {
			d.MA[w] = rollingMean(s.Close, w)
		}
		if maxWindow > 0 && d.Len() >= maxWindow {
			d = d.selectRows(rangeIdxs(maxWindow-1, d.Len()))
		} else if maxWindow > 0 {
			d = d.selectRows(nil)
		}
		out = append(out, d)
	}
	return out
}

func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// FilterPeriodEnds samples each series down to one row per calendar
// bucket: the first or last trading day of the month or year. The
// kept row's dividend becomes the bucket's dividend sum.
func FilterPeriodEnds(p Panel, option string) (Panel, error) {
	out := make(Panel, 0, len(p))
	for _, s := range p {
		filtered, err := filterSeriesPeriodEnds(s, option)
		if err != nil {
			return nil, err
		}
		out = append(out, filtered)
	}
	return out, nil
}

func filterSeriesPeriodEnds(s *Series, option string) (*Series, error) {
	var bucket func(t time.Time) string
	var keepFirst bool

	switch option {
	case SampleMonthStart, SampleMonthEnd:
		bucket = func(t time.Time) string { return t.Format("2006-01") }
		keepFirst = option == SampleMonthStart
	case SampleYearStart, SampleYearEnd:
		bucket = func(t time.Time) string { return t.Format("2006") }
		keepFirst = option == SampleYearStart
	default:
		return nil, fmt.Errorf("unsupported sampling option: %s", option)
	}

	var idxs []int
	sums := make(map[int]float64)
	lastBucket := ""
	for i := 0; i < s.Len(); i++ {
		b := bucket(s.Dates[i])
		if b != lastBucket {
			idxs = append(idxs, i)
			lastBucket = b
		} else if !keepFirst {
			idxs[len(idxs)-1] = i
		}
		sums[len(idxs)-1] += s.Dividends[i]
	}

	out := s.selectRows(idxs)
	for pos := range idxs {
		out.Dividends[pos] = sums[pos]
	}
	return out, nil
}

// AddIntervalReturns appends trailing n-step simple returns for each
// interval and drops the leading rows where the longest interval is
// undefined.
func AddIntervalReturns(p Panel, intervals []int) Panel {
	maxInterval := 0
	for _, n := range intervals {
		if n > maxInterval {
			maxInterval = n
		}
	}

	out := make(Panel, 0, len(p))
	for _, s := range p {
		d := s.selectRows(rangeIdxs(0, s.Len()))
		d.IntervalReturns = make(map[int][]float64, len(intervals))
		for _, n := range intervals {
			col := make([]float64, s.Len())
			for i := n; i < s.Len(); i++ {
				col[i] = s.Close[i]/s.Close[i-n] - 1
			}
			d.IntervalReturns[n] = col
		}
		if maxInterval > 0 && d.Len() > maxInterval {
			d = d.selectRows(rangeIdxs(maxInterval, d.Len()))
		} else if maxInterval > 0 {
			d = d.selectRows(nil)
		}
		out = append(out, d)
	}
	return out
}

// AddAvgScore appends the mean of the given trailing interval returns
// as the momentum score column.
func AddAvgScore(p Panel, intervals []int) (Panel, error) {
	out := make(Panel, 0, len(p))
	for _, s := range p {
		d := s.selectRows(rangeIdxs(0, s.Len()))
		d.AvgScore = make([]float64, d.Len())
		for i := 0; i < d.Len(); i++ {
			var sum float64
			for _, n := range intervals {
				col, ok := d.IntervalReturns[n]
				if !ok {
					return nil, fmt.Errorf("series %s has no %d-step return column", s.Symbol, n)
				}
				sum += col[i]
			}
			d.AvgScore[i] = sum / float64(len(intervals))
		}
		out = append(out, d)
	}
	return out, nil
}

// AlignByDateIntersection keeps only the dates every series in the
// panel shares, so all series end up with identical date indices.
func AlignByDateIntersection(p Panel) (Panel, error) {
	if len(p) == 0 {
		return p, nil
	}

	counts := make(map[time.Time]int)
	for _, s := range p {
		for _, d := range s.Dates {
			counts[d]++
		}
	}

	common := make(map[time.Time]bool)
	for d, c := range counts {
		if c == len(p) {
			common[d] = true
		}
	}
	if len(common) == 0 {
		return nil, fmt.Errorf("no common dates across %d series", len(p))
	}

	out := make(Panel, 0, len(p))
	for _, s := range p {
		var idxs []int
		for i, d := range s.Dates {
			if common[d] {
				idxs = append(idxs, i)
			}
		}
		out = append(out, s.selectRows(idxs))
	}
	return out, nil
}

// SliceByDate keeps rows within [start, end]; nil bounds are open.
func SliceByDate(p Panel, start, end *time.Time) Panel {
	out := make(Panel, 0, len(p))
	for _, s := range p {
		var idxs []int
		for i, d := range s.Dates {
			if start != nil && d.Before(*start) {
				continue
			}
			if end != nil && d.After(*end) {
				continue
			}
			idxs = append(idxs, i)
		}
		out = append(out, s.selectRows(idxs))
	}
	return out
}

// SelectRowsByIntervalWithEnds keeps every interval-th row and always
// keeps the first and last row.
func SelectRowsByIntervalWithEnds(p Panel, interval int) (Panel, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", interval)
	}

	out := make(Panel, 0, len(p))
	for _, s := range p {
		n := s.Len()
		if n == 0 {
			out = append(out, s.selectRows(nil))
			continue
		}
		var idxs []int
		for i := 0; i < n; i += interval {
			idxs = append(idxs, i)
		}
		if idxs[len(idxs)-1] != n-1 {
			idxs = append(idxs, n-1)
		}
		out = append(out, s.selectRows(idxs))
	}
	return out, nil
}
