package growth

import (
	"fmt"
	"math"

	"github.com/rustyeddy/fincalc/money"
)

// Parameters describe a lump sum plus a stream of equal contributions
// growing at a constant rate.
type Parameters struct {
	PresentValue         float64 `json:"present_value"`
	AnnualRatePercent    float64 `json:"annual_rate_percent"` // may be negative
	PeriodsPerYear       int     `json:"periods_per_year"`    // compounding frequency
	Years                float64 `json:"years"`
	PeriodicContribution float64 `json:"periodic_contribution"`
	ContributionsPerYear int     `json:"contributions_per_year"`
}

// Result decomposes a future value into what was put in and what it earned.
// TotalGrowth is negative when the rate is.
type Result struct {
	FutureValue        float64 `json:"future_value"`
	TotalContributions float64 `json:"total_contributions"`
	TotalGrowth        float64 `json:"total_growth"`
}

// Rounded returns r in cents. Growth is derived from the rounded figures so
// the reported numbers always add up.
func (r Result) Rounded(presentValue float64) Result {
	fv := money.RoundCents(r.FutureValue)
	contrib := money.RoundCents(r.TotalContributions)
	return Result{
		FutureValue:        fv,
		TotalContributions: contrib,
		TotalGrowth:        money.RoundCents(fv - money.RoundCents(presentValue) - contrib),
	}
}

// RatePerPeriod is the unit rate applied at each compounding.
func (p Parameters) RatePerPeriod() float64 {
	return money.PctToUnit(p.AnnualRatePercent) / float64(p.PeriodsPerYear)
}

func (p Parameters) check() {
	if p.PeriodsPerYear < 1 {
		panic(fmt.Sprintf("growth: periods per year must be at least 1, got %d", p.PeriodsPerYear))
	}
	if p.ContributionsPerYear < 1 {
		panic(fmt.Sprintf("growth: contributions per year must be at least 1, got %d", p.ContributionsPerYear))
	}
	if p.Years < 0 {
		panic(fmt.Sprintf("growth: years must not be negative, got %v", p.Years))
	}
	if p.RatePerPeriod() <= -1 {
		panic(fmt.Sprintf("growth: rate %v%% wipes out the balance in one period", p.AnnualRatePercent))
	}
}

// Compute evaluates the future value at full precision. It is the forward
// function the solvers iterate on, so it must stay free of side effects.
func Compute(p Parameters) Result {
	p.check()

	i := p.RatePerPeriod()
	n := p.Years * float64(p.PeriodsPerYear)
	perPeriod := p.PeriodicContribution * float64(p.ContributionsPerYear) / float64(p.PeriodsPerYear)

	var fvPrincipal, fvContrib float64
	if i == 0 {
		fvPrincipal = p.PresentValue
		fvContrib = perPeriod * n
	} else {
		factor := math.Pow(1+i, n)
		fvPrincipal = p.PresentValue * factor
		fvContrib = perPeriod * (factor - 1) / i
	}

	fv := fvPrincipal + fvContrib
	contributed := p.PeriodicContribution * float64(p.ContributionsPerYear) * p.Years

	return Result{
		FutureValue:        fv,
		TotalContributions: contributed,
		TotalGrowth:        fv - p.PresentValue - contributed,
	}
}

// FutureValue is Compute rounded to cents for reporting.
func FutureValue(p Parameters) Result {
	return Compute(p).Rounded(p.PresentValue)
}

// YearRow is the state of the investment at the end of a year.
type YearRow struct {
	Year          float64 `json:"year"`
	Balance       float64 `json:"balance"`
	Contributions float64 `json:"contributions"`
	Growth        float64 `json:"growth"`
}

// Project returns one row per whole year plus a final row for a fractional
// last year.
func Project(p Parameters) []YearRow {
	p.check()
	if p.Years <= 0 {
		return nil
	}

	var rows []YearRow
	at := func(y float64) {
		q := p
		q.Years = y
		r := FutureValue(q)
		rows = append(rows, YearRow{
			Year:          money.Round(y, 2),
			Balance:       r.FutureValue,
			Contributions: r.TotalContributions,
			Growth:        r.TotalGrowth,
		})
	}

	whole := int(math.Floor(p.Years))
	for y := 1; y <= whole; y++ {
		at(float64(y))
	}
	if p.Years > float64(whole) {
		at(p.Years)
	}
	return rows
}
