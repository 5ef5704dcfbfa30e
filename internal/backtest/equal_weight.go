package backtest

import (
	"fmt"

	"golang-quant/internal/dto"
)

// EqualWeightStrategy splits capital evenly across the whole universe
// and rebalances back to equal shares every RebalanceInterval steps,
// drifting buy-and-hold in between.
type EqualWeightStrategy struct {
	StartBalance      float64
	RebalanceInterval int
}

func NewEqualWeightStrategy(startBalance float64, rebalanceInterval int) *EqualWeightStrategy {
	return &EqualWeightStrategy{StartBalance: startBalance, RebalanceInterval: rebalanceInterval}
}

func (s *EqualWeightStrategy) Name() string { return dto.StrategyEqualWeight }

// state carried step to step: only the prior closes, the capital
// assigned to each asset for the coming step, and the prior total.
type equalWeightState struct {
	prevClose    []float64
	nextBalances []float64
	prevTotal    float64
}

func (s *EqualWeightStrategy) Run(panel Panel) (Curve, error) {
	if s.RebalanceInterval <= 0 {
		return nil, fmt.Errorf("rebalance interval must be positive, got %d", s.RebalanceInterval)
	}
	if err := validateAlignment(panel); err != nil {
		return nil, err
	}
	if len(panel) == 0 || panel[0].Len() == 0 {
		return Curve{}, nil
	}

	nAssets := len(panel)
	symbols := make([]string, nAssets)
	for a, sr := range panel {
		symbols[a] = sr.Symbol
	}

	steps := panel[0].Len()
	curve := make(Curve, 0, steps)
	var st equalWeightState

	for i := 0; i < steps; i++ {
		closes := make([]float64, nAssets)
		for a, sr := range panel {
			closes[a] = sr.Close[i]
		}

		row := CurveRow{
			Date:    panel[0].Dates[i],
			Symbols: symbols,
			Closes:  closes,
			Held:    symbols,
		}

		if i == 0 {
			row.Returns = make([]*float64, nAssets)
			row.EndBalances = make([]float64, nAssets)
			row.TotalBalance = s.StartBalance
			row.Rebalanced = true
			row.NextBalances = equalSplit(s.StartBalance, nAssets)
		} else {
			row.Returns = stepReturns(panel, i)
			row.EndBalances = make([]float64, nAssets)
			for a := range panel {
				row.EndBalances[a] = st.nextBalances[a] * (1 + *row.Returns[a])
				row.TotalBalance += row.EndBalances[a]
			}
			tr := row.TotalBalance/st.prevTotal - 1
			row.TotalReturn = &tr

			row.Rebalanced = i%s.RebalanceInterval == 0
			if row.Rebalanced {
				row.NextBalances = equalSplit(row.TotalBalance, nAssets)
			} else {
				row.NextBalances = append([]float64(nil), row.EndBalances...)
			}
		}

		curve = append(curve, row)
		st = equalWeightState{
			prevClose:    closes,
			nextBalances: row.NextBalances,
			prevTotal:    row.TotalBalance,
		}
	}

	return curve, nil
}

func equalSplit(total float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = total / float64(n)
	}
	return out
}
