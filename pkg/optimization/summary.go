// Package optimization provides shared data structures for optimization results.
package optimization

// Target asks for the highest purchase price whose monthly cash flow stays at
// or above MonthlyCashFlow. Zero bounds default to half and one and a half
// times the asking price.
type Target struct {
	MonthlyCashFlow float64 `json:"monthly_cash_flow" yaml:"monthlyCashFlow" mapstructure:"monthlyCashFlow"`
	MinPrice        float64 `json:"min_price,omitempty" yaml:"minPrice,omitempty" mapstructure:"minPrice"`
	MaxPrice        float64 `json:"max_price,omitempty" yaml:"maxPrice,omitempty" mapstructure:"maxPrice"`
	Tolerance       float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty" mapstructure:"tolerance"`
}

// Summary captures the result of a single optimization directive.
type Summary struct {
	Scope           string   `json:"scope"`
	TargetName      string   `json:"target_name"`
	Field           string   `json:"field"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	Floor           float64  `json:"floor"`
	CashFlow        float64  `json:"cash_flow"`
	Headroom        float64  `json:"headroom"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"original_display,omitempty"`
	ValueDisplay    string   `json:"value_display,omitempty"`
}
