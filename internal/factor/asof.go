package factor

import (
	"sort"

	"golang-quant/internal/model"
)

// PricedRow is a fundamentals row with the as-of close attached:
// the latest close at or before the row's period end.
type PricedRow struct {
	model.Fundamental
	Price *float64
}

type pricePoint struct {
	date  int64
	close float64
}

// AttachPrices joins the price panel onto the fundamentals batch,
// backward with exact matches allowed, strictly per symbol. Rows whose
// symbol has no bar at or before period end get a nil price. Output is
// id-for-id with the input batch.
func AttachPrices(funds []model.Fundamental, candles []model.Candle) []PricedRow {
	bySymbol := make(map[string][]pricePoint)
	for _, c := range candles {
		bySymbol[c.Symbol] = append(bySymbol[c.Symbol], pricePoint{date: c.Date.Unix(), close: c.Close})
	}
	for _, points := range bySymbol {
		sort.Slice(points, func(i, j int) bool { return points[i].date < points[j].date })
	}

	out := make([]PricedRow, len(funds))
	for i, f := range funds {
		out[i] = PricedRow{Fundamental: f}

		points := bySymbol[f.Symbol]
		if len(points) == 0 {
			continue
		}

		target := f.PeriodEnd.Unix()
		// first bar strictly after period_end; the one before it is the match
		idx := sort.Search(len(points), func(j int) bool { return points[j].date > target })
		if idx == 0 {
			continue
		}
		price := points[idx-1].close
		out[i].Price = &price
	}
	return out
}
