package factor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"golang-quant/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bar(symbol string, d time.Time, close float64) model.Candle {
	return model.Candle{Symbol: symbol, Timeframe: "1d", Date: d, Close: close}
}

func fund(symbol string, periodEnd time.Time) model.Fundamental {
	return model.Fundamental{Symbol: symbol, Freq: model.FreqAnnual, PeriodEnd: periodEnd}
}

func TestAttachPrices(t *testing.T) {
	candles := []model.Candle{
		bar("AAA", date(2024, 1, 1), 10),
		bar("AAA", date(2024, 1, 15), 12),
		bar("AAA", date(2024, 2, 1), 14),
	}

	tests := []struct {
		name      string
		periodEnd time.Time
		want      *float64
	}{
		{
			name:      "backward match picks latest bar at or before",
			periodEnd: date(2024, 1, 20),
			want:      ptr(12),
		},
		{
			name:      "exact date match is valid",
			periodEnd: date(2024, 1, 1),
			want:      ptr(10),
		},
		{
			name:      "period before all bars attaches nil",
			periodEnd: date(2023, 12, 31),
			want:      nil,
		},
		{
			name:      "period after all bars picks the last bar",
			periodEnd: date(2024, 3, 1),
			want:      ptr(14),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := AttachPrices([]model.Fundamental{fund("AAA", tt.periodEnd)}, candles)
			assert.Len(t, out, 1)
			assertPtrEqual(t, tt.want, out[0].Price)
		})
	}
}

func TestAttachPrices_NoCrossSymbolLeakage(t *testing.T) {
	funds := []model.Fundamental{
		fund("AAA", date(2024, 1, 20)),
		fund("BBB", date(2024, 1, 20)),
	}
	candles := []model.Candle{
		bar("AAA", date(2024, 1, 15), 12),
	}

	out := AttachPrices(funds, candles)

	assert.Len(t, out, 2)
	assertPtrEqual(t, ptr(12), out[0].Price)
	assert.Nil(t, out[1].Price, "symbol without bars must not borrow another symbol's price")
}

func TestAttachPrices_UnsortedBars(t *testing.T) {
	candles := []model.Candle{
		bar("AAA", date(2024, 2, 1), 14),
		bar("AAA", date(2024, 1, 1), 10),
		bar("AAA", date(2024, 1, 15), 12),
	}

	out := AttachPrices([]model.Fundamental{fund("AAA", date(2024, 1, 16))}, candles)
	assertPtrEqual(t, ptr(12), out[0].Price)
}

func ptr(v float64) *float64 { return &v }

func assertPtrEqual(t *testing.T, want, got *float64) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	if assert.NotNil(t, got) {
		assert.InDelta(t, *want, *got, 1e-9)
	}
}
