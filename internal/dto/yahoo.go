package dto

import "encoding/json"

// YahooChartResponse is the v8 chart API payload.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp []int64 `json:"timestamp"`
			Events    *struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// YahooTimeseriesValue is one reported datapoint in the
// fundamentals-timeseries API.
type YahooTimeseriesValue struct {
	AsOfDate      string `json:"asOfDate"`
	PeriodType    string `json:"periodType"`
	CurrencyCode  string `json:"currencyCode"`
	ReportedValue struct {
		Raw *float64 `json:"raw"`
		Fmt string   `json:"fmt"`
	} `json:"reportedValue"`
}

// YahooTimeseriesResult carries a dynamic set of series keyed by the
// requested type names (e.g. "annualTotalRevenue"). Those keys are not
// known statically, so unmarshalling collects them into Series.
type YahooTimeseriesResult struct {
	Meta struct {
		Symbol []string `json:"symbol"`
		Type   []string `json:"type"`
	} `json:"meta"`
	Timestamp []int64
	Series    map[string][]*YahooTimeseriesValue
}

func (r *YahooTimeseriesResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Series = make(map[string][]*YahooTimeseriesValue)
	for key, msg := range raw {
		switch key {
		case "meta":
			if err := json.Unmarshal(msg, &r.Meta); err != nil {
				return err
			}
		case "timestamp":
			if err := json.Unmarshal(msg, &r.Timestamp); err != nil {
				return err
			}
		default:
			var values []*YahooTimeseriesValue
			if err := json.Unmarshal(msg, &values); err != nil {
				continue
			}
			r.Series[key] = values
		}
	}
	return nil
}

// YahooTimeseriesResponse is the fundamentals-timeseries API payload.
type YahooTimeseriesResponse struct {
	Timeseries struct {
		Result []YahooTimeseriesResult `json:"result"`
		Error  interface{}             `json:"error"`
	} `json:"timeseries"`
}

// YahooQuoteSummaryResponse is the v10 quoteSummary payload, limited to
// the modules the profile collector requests.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile *struct {
				Sector   *string `json:"sector"`
				Industry *string `json:"industry"`
				Country  *string `json:"country"`
			} `json:"assetProfile"`
			QuoteType *struct {
				QuoteType *string `json:"quoteType"`
				Exchange  *string `json:"exchange"`
			} `json:"quoteType"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}
