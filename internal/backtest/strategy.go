package backtest

import (
	"fmt"
	"time"
)

// Strategy replays a prepared, date-aligned panel into an equity curve.
type Strategy interface {
	Name() string
	Run(panel Panel) (Curve, error)
}

// CurveRow is one simulated step. Returns and TotalReturn are nil at
// step 0, where no prior close exists.
type CurveRow struct {
	Date         time.Time  `json:"date"`
	Symbols      []string   `json:"symbols"`
	Closes       []float64  `json:"closes"`
	Returns      []*float64 `json:"returns"`
	EndBalances  []float64  `json:"end_balances"`
	NextBalances []float64  `json:"next_balances"`
	Held         []string   `json:"held"`
	Cash         float64    `json:"cash"`
	TotalBalance float64    `json:"total_balance"`
	TotalReturn  *float64   `json:"total_return"`
	Rebalanced   bool       `json:"rebalanced"`
}

// Curve is the ordered equity curve of one run.
type Curve []CurveRow

// validateAlignment enforces the simulator precondition: every series
// must carry an identical date index of equal length. Silently
// truncating here would corrupt the date alignment, so this fails
// fast instead.
func validateAlignment(panel Panel) error {
	if len(panel) == 0 {
		return nil
	}
	base := panel[0]
	for _, s := range panel[1:] {
		if s.Len() != base.Len() {
			return fmt.Errorf("unaligned panel: %s has %d rows, %s has %d",
				base.Symbol, base.Len(), s.Symbol, s.Len())
		}
		for i := range base.Dates {
			if !s.Dates[i].Equal(base.Dates[i]) {
				return fmt.Errorf("unaligned panel: %s and %s differ at row %d (%s vs %s)",
					base.Symbol, s.Symbol, i,
					base.Dates[i].Format("2006-01-02"), s.Dates[i].Format("2006-01-02"))
			}
		}
	}
	return nil
}

func stepReturns(panel Panel, i int) []*float64 {
	returns := make([]*float64, len(panel))
	for a, s := range panel {
		r := s.Close[i]/s.Close[i-1] - 1
		returns[a] = &r
	}
	return returns
}
