package dto

// SymbolError records one symbol that failed during a batch run.
type SymbolError struct {
	Symbol string `json:"symbol"`
	Err    string `json:"err"`
}

// BatchResult summarizes a batch ingestion: how many symbols were
// attempted, how many rows landed, and which symbols failed. A batch
// with failures is still a success for the symbols that went through.
type BatchResult struct {
	Processed int           `json:"processed"`
	Upserted  int           `json:"upserted"`
	Failures  []SymbolError `json:"failures"`
}

func (r *BatchResult) AddFailure(symbol string, err error) {
	r.Failures = append(r.Failures, SymbolError{Symbol: symbol, Err: err.Error()})
}

func (r *BatchResult) Merge(other BatchResult) {
	r.Processed += other.Processed
	r.Upserted += other.Upserted
	r.Failures = append(r.Failures, other.Failures...)
}

type IngestPricesParam struct {
	Symbols   []string `json:"symbols"`
	Timeframe string   `json:"timeframe"`
	Range     string   `json:"range"`
}

type IngestFundamentalsParam struct {
	Symbols []string `json:"symbols"`
	Freq    string   `json:"freq"`
}
