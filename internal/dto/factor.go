package dto

// GetFactorsRequest is the HTTP query surface for reading factors.
type GetFactorsRequest struct {
	Symbols []string `query:"symbols" validate:"required,min=1"`
	Freq    string   `query:"freq" validate:"omitempty,oneof=annual quarterly"`
	Start   string   `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End     string   `query:"end" validate:"omitempty,datetime=2006-01-02"`
	Limit   int      `query:"limit" validate:"omitempty,min=1,max=10000"`
}

// CalculateFactorsParam scopes a factor recalculation.
type CalculateFactorsParam struct {
	Symbols []string `json:"symbols"`
	Freq    string   `json:"freq"`
}
