package api

// ListResponse wraps a collection
type ListResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}

// SpotDateResponse is the spot date for a trade date
type SpotDateResponse struct {
	TradeDate string `json:"tradeDate"`
	SpotDate  string `json:"spotDate"`
}

// BusinessDaysResponse counts KR business days in (from, to]
type BusinessDaysResponse struct {
	From         string `json:"from"`
	To           string `json:"to"`
	BusinessDays int    `json:"businessDays"`
}

// AddBusinessDaysResponse is the result of advancing a date
type AddBusinessDaysResponse struct {
	Date   string `json:"date"`
	Days   int    `json:"days"`
	Result string `json:"result"`
}

// AmountFormatResponse carries a rounded amount
type AmountFormatResponse struct {
	Currency  string  `json:"currency"`
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	Display   string  `json:"display,omitempty"`
}

// AmountValidateResponse reports whether an amount is acceptable
type AmountValidateResponse struct {
	Currency   string `json:"currency"`
	Value      string `json:"value"`
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized,omitempty"`
	Message    string `json:"message,omitempty"`
}
