// Package landtransfer computes provincial and municipal land transfer taxes
// from marginal-bracket schedules.
package landtransfer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Bracket applies RatePercent to the portion of the price above Threshold and
// below the next bracket's Threshold.
type Bracket struct {
	Threshold   float64 `yaml:"threshold" json:"threshold"`
	RatePercent float64 `yaml:"ratePercent" json:"rate_percent"`
}

// Rebate describes a first-time buyer refund. A zero PriceCeiling means the
// rebate is available at any price.
type Rebate struct {
	MaxAmount    float64 `yaml:"maxAmount" json:"max_amount"`
	PriceCeiling float64 `yaml:"priceCeiling,omitempty" json:"price_ceiling,omitempty"`
}

// Schedule is one jurisdiction's land transfer tax.
type Schedule struct {
	Name                 string    `yaml:"name" json:"name"`
	FixedFee             float64   `yaml:"fixedFee,omitempty" json:"fixed_fee,omitempty"`
	Brackets             []Bracket `yaml:"brackets" json:"brackets"`
	FirstTimeBuyerRebate Rebate    `yaml:"firstTimeBuyerRebate,omitempty" json:"first_time_buyer_rebate,omitempty"`
}

// Result is the tax owed to a single jurisdiction.
type Result struct {
	Jurisdiction string  `json:"jurisdiction"`
	Gross        float64 `json:"gross"`
	Rebate       float64 `json:"rebate"`
	Net          float64 `json:"net"`
}

// Validate checks that brackets start at zero and ascend.
func (s Schedule) Validate() error {
	if len(s.Brackets) == 0 {
		if s.FixedFee < 0 {
			return fmt.Errorf("schedule %s: negative fixed fee", s.Name)
		}
		return nil
	}
	if s.Brackets[0].Threshold != 0 {
		return fmt.Errorf("schedule %s: first bracket must start at 0, got %.2f", s.Name, s.Brackets[0].Threshold)
	}
	for i, b := range s.Brackets {
		if b.RatePercent < 0 {
			return fmt.Errorf("schedule %s: bracket %d has negative rate", s.Name, i)
		}
		if i > 0 && b.Threshold <= s.Brackets[i-1].Threshold {
			return fmt.Errorf("schedule %s: bracket %d threshold %.2f does not ascend", s.Name, i, b.Threshold)
		}
	}
	return nil
}

// Gross returns the tax before rebates, rounded to cents.
func (s Schedule) Gross(price float64) decimal.Decimal {
	p := decimal.NewFromFloat(price)
	total := decimal.NewFromFloat(s.FixedFee)
	if !p.IsPositive() {
		return decimal.Zero
	}

	for i, b := range s.Brackets {
		lower := decimal.NewFromFloat(b.Threshold)
		if p.LessThanOrEqual(lower) {
			break
		}
		upper := p
		if i+1 < len(s.Brackets) {
			next := decimal.NewFromFloat(s.Brackets[i+1].Threshold)
			upper = decimal.Min(p, next)
		}
		rate := decimal.NewFromFloat(b.RatePercent).Div(hundred)
		total = total.Add(upper.Sub(lower).Mul(rate))
	}
	return total.Round(2)
}

// Calculate returns the tax owed, with any first-time buyer rebate applied
// and the result floored at zero.
func (s Schedule) Calculate(price float64, firstTimeBuyer bool) Result {
	gross := s.Gross(price)
	rebate := decimal.Zero
	if firstTimeBuyer && s.eligible(price) {
		rebate = decimal.Min(gross, decimal.NewFromFloat(s.FirstTimeBuyerRebate.MaxAmount))
	}
	net := gross.Sub(rebate)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return Result{
		Jurisdiction: s.Name,
		Gross:        gross.InexactFloat64(),
		Rebate:       rebate.InexactFloat64(),
		Net:          net.InexactFloat64(),
	}
}

func (s Schedule) eligible(price float64) bool {
	if s.FirstTimeBuyerRebate.MaxAmount <= 0 {
		return false
	}
	return s.FirstTimeBuyerRebate.PriceCeiling <= 0 || price <= s.FirstTimeBuyerRebate.PriceCeiling
}

// Total sums the net amounts of several jurisdictions.
func Total(results ...Result) float64 {
	sum := decimal.Zero
	for _, r := range results {
		sum = sum.Add(decimal.NewFromFloat(r.Net))
	}
	return sum.InexactFloat64()
}
