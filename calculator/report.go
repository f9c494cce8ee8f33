package calculator

import (
	"github.com/rustyeddy/fincalc/amortize"
	"github.com/rustyeddy/fincalc/growth"
	"github.com/rustyeddy/fincalc/solve"
)

// Report is the rounded outcome of one calculation. Result holds one of
// the *Result types below, matching Kind.
type Report struct {
	Kind     Kind   `json:"kind"`
	Headline string `json:"headline"`
	Found    bool   `json:"found"`
	Result   any    `json:"result"`
}

type LoanResult struct {
	amortize.Quote
}

type MortgageResult struct {
	amortize.Quote
	HomePrice          float64 `json:"home_price"`
	DownPayment        float64 `json:"down_payment"`
	DownPaymentPercent float64 `json:"down_payment_percent"`
	MonthlyTax         float64 `json:"monthly_property_tax"`
	MonthlyInsurance   float64 `json:"monthly_insurance"`
	MonthlyHousingCost float64 `json:"monthly_housing_cost"`
}

type CompoundResult struct {
	Parameters growth.Parameters `json:"parameters"`
	growth.Result
	Projection []growth.YearRow `json:"projection,omitempty"`
}

type RateResult struct {
	Parameters growth.Parameters `json:"parameters"`
	Target     float64           `json:"target"`
	solve.Outcome
	RiskBand RiskBand `json:"risk_band"`
}

type TimeResult struct {
	Parameters growth.Parameters `json:"parameters"`
	Target     float64           `json:"target"`
	Search     string            `json:"search"`
	solve.Outcome
}
