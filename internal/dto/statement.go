package dto

import "time"

// StatementTable maps a provider line-item label to its values keyed by
// period end date. Absent (label, period) pairs mean the provider did
// not report that item for that period.
type StatementTable map[string]map[time.Time]float64

// Value returns the reported value for label at period, and whether it
// was reported at all.
func (t StatementTable) Value(label string, period time.Time) (float64, bool) {
	byPeriod, ok := t[label]
	if !ok {
		return 0, false
	}
	v, ok := byPeriod[period]
	return v, ok
}

// Set records one reported value, allocating the inner map on first use.
func (t StatementTable) Set(label string, period time.Time, value float64) {
	byPeriod, ok := t[label]
	if !ok {
		byPeriod = make(map[time.Time]float64)
		t[label] = byPeriod
	}
	byPeriod[period] = value
}

// StatementSet bundles the three financial statements fetched for one
// symbol at one reporting frequency.
type StatementSet struct {
	Symbol   string         `json:"symbol"`
	Freq     string         `json:"freq"`
	Currency string         `json:"currency"`
	Income   StatementTable `json:"income"`
	Balance  StatementTable `json:"balance"`
	CashFlow StatementTable `json:"cash_flow"`
}

func NewStatementSet(symbol, freq string) StatementSet {
	return StatementSet{
		Symbol:   symbol,
		Freq:     freq,
		Income:   make(StatementTable),
		Balance:  make(StatementTable),
		CashFlow: make(StatementTable),
	}
}

// IsEmpty reports whether no statement carries any values.
func (s StatementSet) IsEmpty() bool {
	return len(s.Income) == 0 && len(s.Balance) == 0 && len(s.CashFlow) == 0
}
