package backtest

import (
	"fmt"
	"sort"

	"golang-quant/internal/dto"
	"golang-quant/pkg/utils"
)

// GTAAStrategy ranks the universe by momentum score each step, takes
// the top N, and holds only the picks trading at or above their moving
// average; slots failing the filter sit in cash. It rebalances every
// step.
type GTAAStrategy struct {
	StartBalance float64
	Top          int
	MAWindow     int
}

func NewGTAAStrategy(startBalance float64, top, maWindow int) *GTAAStrategy {
	return &GTAAStrategy{StartBalance: startBalance, Top: top, MAWindow: maWindow}
}

func (s *GTAAStrategy) Name() string { return dto.StrategyGTAA }

type heldSlot struct {
	symbol string
	asset  int
}

// state carried step to step: the slots held through the step (only
// those accrue returns), the capital assigned to each slot, the cash
// residual, and the prior total.
type gtaaState struct {
	prevClose    []float64
	held         []heldSlot
	nextBalances []float64
	cash         float64
	prevTotal    float64
}

func (s *GTAAStrategy) Run(panel Panel) (Curve, error) {
	if err := validateAlignment(panel); err != nil {
		return nil, err
	}
	if len(panel) == 0 || panel[0].Len() == 0 {
		return Curve{}, nil
	}

	symbols := make([]string, len(panel))
	for a, sr := range panel {
		symbols[a] = sr.Symbol
	}

	for _, sr := range panel {
		if len(sr.AvgScore) != sr.Len() {
			return nil, fmt.Errorf("series %s has no momentum score column", sr.Symbol)
		}
		if len(sr.MA[s.MAWindow]) != sr.Len() {
			return nil, fmt.Errorf("series %s has no %d-step moving average column", sr.Symbol, s.MAWindow)
		}
	}

	steps := panel[0].Len()
	curve := make(Curve, 0, steps)
	var st gtaaState

	for i := 0; i < steps; i++ {
		closes := make([]float64, len(panel))
		scores := make([]float64, len(panel))
		mas := make([]float64, len(panel))
		for a, sr := range panel {
			closes[a] = sr.Close[i]
			scores[a] = sr.AvgScore[i]
			mas[a] = sr.MA[s.MAWindow][i]
		}

		nextHeld := s.selectHeld(symbols, closes, scores, mas)

		row := CurveRow{
			Date:    panel[0].Dates[i],
			Symbols: symbols,
			Closes:  closes,
		}

		if i == 0 {
			row.Returns = make([]*float64, len(panel))
			row.TotalBalance = s.StartBalance
			row.Rebalanced = true
		} else {
			row.Returns = stepReturns(panel, i)
			row.EndBalances = make([]float64, len(st.held))
			for slot, h := range st.held {
				row.EndBalances[slot] = st.nextBalances[slot] * (1 + *row.Returns[h.asset])
				row.TotalBalance += row.EndBalances[slot]
			}
			row.TotalBalance += st.cash
			tr := row.TotalBalance/st.prevTotal - 1
			row.TotalReturn = &tr
			row.Rebalanced = true
		}

		slotBalance := utils.RoundTo(row.TotalBalance/float64(s.Top), 1)
		row.NextBalances = make([]float64, len(nextHeld))
		row.Held = make([]string, len(nextHeld))
		for slot, h := range nextHeld {
			row.NextBalances[slot] = slotBalance
			row.Held[slot] = h.symbol
		}
		row.Cash = slotBalance * float64(s.Top-len(nextHeld))

		curve = append(curve, row)
		st = gtaaState{
			prevClose:    closes,
			held:         nextHeld,
			nextBalances: row.NextBalances,
			cash:         row.Cash,
			prevTotal:    row.TotalBalance,
		}
	}

	return curve, nil
}

// selectHeld ranks assets by score descending with a stable sort, so
// ties break by original panel order, first encountered wins. The top
// N picks are then filtered to those closing at or above their moving
// average.
func (s *GTAAStrategy) selectHeld(symbols []string, closes, scores, mas []float64) []heldSlot {
	order := make([]int, len(symbols))
	for a := range order {
		order[a] = a
	}
	sort.SliceStable(order, func(x, y int) bool {
		return scores[order[x]] > scores[order[y]]
	})

	top := s.Top
	if top > len(order) {
		top = len(order)
	}

	var held []heldSlot
	for _, a := range order[:top] {
		if closes[a] >= mas[a] {
			held = append(held, heldSlot{symbol: symbols[a], asset: a})
		}
	}
	return held
}
