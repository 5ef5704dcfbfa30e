package dto

import "time"

const (
	StrategyEqualWeight = "equal_weight"
	StrategyGTAA        = "gtaa"
)

// BacktestRequest defines the parameters for running one simulation.
type BacktestRequest struct {
	Name              string   `json:"name"`
	Strategy          string   `json:"strategy" validate:"required,oneof=equal_weight gtaa"`
	Tickers           []string `json:"tickers" validate:"required,min=1,dive,required"`
	StartDate         string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate           string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	StartBalance      float64  `json:"start_balance" validate:"omitempty,gt=0"`
	SampleFreq        string   `json:"sample_freq" validate:"omitempty,oneof=D M Y"`
	RebalanceInterval int      `json:"rebalance_interval" validate:"omitempty,min=1"`
	Top               int      `json:"top" validate:"omitempty,min=1"`
	MAWindow          int      `json:"ma_window" validate:"omitempty,min=2"`
	ScoreIntervals    []int    `json:"score_intervals" validate:"omitempty,dive,min=1"`
	Narrate           bool     `json:"narrate"`
}

// EquityPoint is one step of the simulated equity curve.
type EquityPoint struct {
	Date    time.Time `json:"date"`
	Balance float64   `json:"balance"`
	Return  float64   `json:"return"`
	Held    []string  `json:"held"`
}

// PerformanceSummary aggregates the equity curve into the usual
// headline statistics. Sharpe is nil when the return series has zero
// variance.
type PerformanceSummary struct {
	StartBalance   float64   `json:"start_balance"`
	EndBalance     float64   `json:"end_balance"`
	TotalReturn    float64   `json:"total_return"`
	CAGR           float64   `json:"cagr"`
	AnnualizedMean float64   `json:"annualized_mean"`
	AnnualizedStd  float64   `json:"annualized_std"`
	SharpeRatio    *float64  `json:"sharpe_ratio"`
	MaxDrawdown    float64   `json:"max_drawdown"`
	Steps          int       `json:"steps"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
}

// BacktestResponse wraps a persisted run for the HTTP API.
type BacktestResponse struct {
	RunID     uint               `json:"run_id"`
	Request   BacktestRequest    `json:"request"`
	Curve     []EquityPoint      `json:"curve"`
	Summary   PerformanceSummary `json:"summary"`
	Narrative *string            `json:"narrative,omitempty"`
}
