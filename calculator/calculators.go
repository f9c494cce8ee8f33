package calculator

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/fincalc/amortize"
	"github.com/rustyeddy/fincalc/config"
	"github.com/rustyeddy/fincalc/growth"
	"github.com/rustyeddy/fincalc/money"
	"github.com/rustyeddy/fincalc/solve"
	"github.com/rustyeddy/fincalc/validate"
)

const (
	maxTarget         = 1e15
	maxScheduleMonths = 1200
	maxTaxRate        = 10
	maxInsurance      = 1_000_000
	maxFrequency      = 365
	minBorrowed       = 0.01
	minTermYears      = 1.0 / 12
)

func (r *Registry) scheduleRule() validate.Rule {
	return validate.Rule{
		Field: "schedule", Label: "schedule months",
		Min: 0, Max: maxScheduleMonths, AllowZero: true, Integer: true,
		Default: float64(r.cfg.Output.ScheduleMonths),
	}
}

func (r *Registry) frequencyRules() []validate.Rule {
	return []validate.Rule{
		{Field: "compounding", Label: "compounding frequency", Min: 1, Max: maxFrequency, Integer: true, Default: 12},
		{Field: "contribution_frequency", Label: "contribution frequency", Min: 1, Max: maxFrequency, Integer: true, Default: 12},
	}
}

func (r *Registry) contributionRule(required bool) validate.Rule {
	return validate.Rule{
		Field: "contribution", Label: "contribution", Required: required,
		Min: 0, Max: r.cfg.Limits.MaxPrincipal, AllowZero: true,
	}
}

func (r *Registry) growthRateRule() validate.Rule {
	g := r.cfg.Limits.MaxGrowthRatePercent
	return validate.Rule{Field: "rate", Label: "annual rate", Required: true, Min: -g, Max: g, AllowZero: true}
}

func (r *Registry) startingRule() validate.Rule {
	return validate.Rule{
		Field: "principal", Label: "starting amount", Required: true,
		Min: 0, Max: r.cfg.Limits.MaxPrincipal, AllowZero: true,
	}
}

func frequencyFields() []Field {
	return []Field{
		{"compounding", "compounding periods per year (default 12)"},
		{"contribution_frequency", "contributions per year (default 12)"},
	}
}

func growthParams(v validate.Values) growth.Parameters {
	return growth.Parameters{
		PresentValue:         v.Float("principal"),
		AnnualRatePercent:    v.Float("rate"),
		PeriodsPerYear:       v.Int("compounding"),
		Years:                v.Float("years"),
		PeriodicContribution: v.Float("contribution"),
		ContributionsPerYear: v.Int("contribution_frequency"),
	}
}

func loanRules(lim config.LoanLimit, maxPrincipal float64, principalField, principalLabel string) []validate.Rule {
	return []validate.Rule{
		{Field: principalField, Label: principalLabel, Required: true, Min: minBorrowed, Max: maxPrincipal},
		{Field: "rate", Label: "annual rate", Required: true, Min: 0, Max: lim.MaxRatePercent, AllowZero: true},
		{Field: "years", Label: "term", Required: true, Min: 0, Max: lim.MaxTermYears},
	}
}

// checkTerm rejects terms shorter than one monthly payment period.
func checkTerm(v validate.Values) validate.Errors {
	if v.Float("years") < minTermYears {
		return validate.Errors{{Field: "years", Message: "term must be at least one month"}}
	}
	return nil
}

func (r *Registry) loanDef() Definition {
	return Definition{
		Kind:  Loan,
		Title: "Installment loan",
		Fields: []Field{
			{"type", "loan type: " + loanTypeList()},
			{"principal", "amount borrowed"},
			{"rate", "annual interest rate in percent"},
			{"years", "term in years"},
			{"schedule", "months of schedule to show, 0 for all"},
		},
		rules: func(raw map[string]string) ([]validate.Rule, validate.Errors) {
			var errs validate.Errors
			lt, err := loanType(raw)
			if err != nil {
				errs = append(errs, validate.FieldError{Field: "type", Message: err.Error()})
			}
			rules := loanRules(r.cfg.Limits.Loan(lt), r.cfg.Limits.MaxPrincipal, "principal", "loan amount")
			return append(rules, r.scheduleRule()), errs
		},
		compute: func(raw map[string]string, v validate.Values) (Report, error) {
			if errs := checkTerm(v); errs != nil {
				return Report{}, errs
			}
			lt, _ := loanType(raw)
			q := amortize.Amortize(amortize.LoanTerms{
				Principal:         v.Float("principal"),
				AnnualRatePercent: v.Float("rate"),
				TermYears:         v.Float("years"),
				Type:              lt,
			}, v.Int("schedule"))

			return Report{
				Kind: Loan,
				Headline: fmt.Sprintf("Monthly payment %s over %d payments, total interest %s",
					money.Format(q.MonthlyPayment), q.NumPayments, money.Format(q.TotalInterest)),
				Found:  true,
				Result: LoanResult{Quote: q},
			}, nil
		},
	}
}

func (r *Registry) mortgageDef() Definition {
	lim := r.cfg.Limits.Loan(amortize.Mortgage)
	return Definition{
		Kind:  Mortgage,
		Title: "Mortgage",
		Fields: []Field{
			{"home_price", "purchase price of the home"},
			{"down_payment", "cash paid up front"},
			{"rate", "annual interest rate in percent"},
			{"years", "term in years"},
			{"property_tax_rate", "yearly property tax in percent of the price"},
			{"annual_insurance", "yearly homeowner's insurance"},
			{"schedule", "months of schedule to show, 0 for all"},
		},
		rules: func(map[string]string) ([]validate.Rule, validate.Errors) {
			rules := loanRules(lim, r.cfg.Limits.MaxPrincipal, "home_price", "home price")
			return append(rules,
				validate.Rule{Field: "down_payment", Label: "down payment", Min: 0, Max: r.cfg.Limits.MaxPrincipal, AllowZero: true},
				validate.Rule{Field: "property_tax_rate", Label: "property tax rate", Min: 0, Max: maxTaxRate, AllowZero: true},
				validate.Rule{Field: "annual_insurance", Label: "annual insurance", Min: 0, Max: maxInsurance, AllowZero: true},
				r.scheduleRule(),
			), nil
		},
		compute: func(_ map[string]string, v validate.Values) (Report, error) {
			var errs validate.Errors
			price, down := v.Float("home_price"), v.Float("down_payment")
			switch {
			case down >= price:
				errs = append(errs, validate.FieldError{Field: "down_payment", Message: "down payment must be less than the home price"})
			case money.RoundCents(price-down) < minBorrowed:
				errs = append(errs, validate.FieldError{Field: "down_payment", Message: "down payment must leave at least $0.01 to borrow"})
			}
			errs = append(errs, checkTerm(v)...)
			if len(errs) > 0 {
				return Report{}, errs
			}

			q := amortize.Amortize(amortize.LoanTerms{
				Principal:         price - down,
				AnnualRatePercent: v.Float("rate"),
				TermYears:         v.Float("years"),
				Type:              amortize.Mortgage,
			}, v.Int("schedule"))

			tax := money.RoundCents(price * money.PctToUnit(v.Float("property_tax_rate")) / 12)
			ins := money.RoundCents(v.Float("annual_insurance") / 12)
			res := MortgageResult{
				Quote:              q,
				HomePrice:          money.RoundCents(price),
				DownPayment:        money.RoundCents(down),
				DownPaymentPercent: money.Round(money.UnitToPct(down/price), 2),
				MonthlyTax:         tax,
				MonthlyInsurance:   ins,
				MonthlyHousingCost: money.RoundCents(q.MonthlyPayment + tax + ins),
			}

			return Report{
				Kind: Mortgage,
				Headline: fmt.Sprintf("Monthly housing cost %s (principal and interest %s)",
					money.Format(res.MonthlyHousingCost), money.Format(q.MonthlyPayment)),
				Found:  true,
				Result: res,
			}, nil
		},
	}
}

func (r *Registry) compoundDef() Definition {
	return Definition{
		Kind:  Compound,
		Title: "Compound growth",
		Fields: append([]Field{
			{"principal", "starting amount"},
			{"rate", "annual rate of return in percent, may be negative"},
			{"years", "years invested"},
			{"contribution", "amount added each contribution period"},
		}, frequencyFields()...),
		rules: func(map[string]string) ([]validate.Rule, validate.Errors) {
			return append([]validate.Rule{
				r.startingRule(),
				r.growthRateRule(),
				{Field: "years", Label: "years", Required: true, Min: 0, Max: r.cfg.Limits.MaxYears},
				r.contributionRule(false),
			}, r.frequencyRules()...), nil
		},
		compute: func(_ map[string]string, v validate.Values) (Report, error) {
			p := growthParams(v)
			res := growth.FutureValue(p)

			return Report{
				Kind: Compound,
				Headline: fmt.Sprintf("Future value %s after %s years (growth %s)",
					money.Format(res.FutureValue), money.FormatYears(p.Years), money.Format(res.TotalGrowth)),
				Found: true,
				Result: CompoundResult{
					Parameters: p,
					Result:     res,
					Projection: growth.Project(p),
				},
			}, nil
		},
	}
}

func (r *Registry) rateDef() Definition {
	return Definition{
		Kind:  RequiredRate,
		Title: "Required rate of return",
		Fields: append([]Field{
			{"principal", "starting amount"},
			{"contribution", "amount added each contribution period"},
			{"years", "years until the target date"},
			{"target", "amount wanted at the target date"},
		}, frequencyFields()...),
		rules: func(map[string]string) ([]validate.Rule, validate.Errors) {
			return append([]validate.Rule{
				r.startingRule(),
				r.contributionRule(false),
				{Field: "years", Label: "years", Required: true, Min: 0, Max: r.cfg.Limits.MaxYears},
				{Field: "target", Label: "target", Required: true, Min: 0, Max: maxTarget},
			}, r.frequencyRules()...), nil
		},
		compute: func(_ map[string]string, v validate.Values) (Report, error) {
			p := growthParams(v)
			target := v.Float("target")
			opts := r.cfg.Solver.Rate
			out := solve.Rate(p, target, opts).Rounded(2)

			res := RateResult{Parameters: p, Target: money.RoundCents(target), Outcome: out}
			var headline string
			switch {
			case out.Found:
				res.RiskBand = ClassifyRate(out.Value)
				headline = fmt.Sprintf("Required rate %s a year (%s)", money.FormatPercent(out.Value), res.RiskBand)
			case out.Residual > 0:
				res.RiskBand = Conservative
				headline = fmt.Sprintf("Target is already met at %s a year", money.FormatPercent(opts.LowPercent))
			default:
				res.RiskBand = Unrealistic
				headline = fmt.Sprintf("Target needs more than %s a year", money.FormatPercent(opts.HighPercent))
			}

			return Report{Kind: RequiredRate, Headline: headline, Found: out.Found, Result: res}, nil
		},
	}
}

func (r *Registry) timeDef() Definition {
	return Definition{
		Kind:  TimeToTarget,
		Title: "Time to target",
		Fields: append([]Field{
			{"principal", "starting amount"},
			{"contribution", "amount added each contribution period"},
			{"rate", "annual rate of return in percent, may be negative"},
			{"target", "amount wanted"},
		}, frequencyFields()...),
		rules: func(map[string]string) ([]validate.Rule, validate.Errors) {
			return append([]validate.Rule{
				r.startingRule(),
				r.contributionRule(false),
				r.growthRateRule(),
				{Field: "target", Label: "target", Required: true, Min: 0, Max: maxTarget},
			}, r.frequencyRules()...), nil
		},
		compute: func(_ map[string]string, v validate.Values) (Report, error) {
			p := growthParams(v)
			target := v.Float("target")
			opts := r.cfg.Solver.Time

			var out solve.Outcome
			if r.cfg.Solver.TimeSearch == config.TimeSearchBisect {
				out = solve.RoundYears(p, target, solve.TimeBisect(p, target, opts), 2)
			} else {
				out = solve.RoundYears(p, target, solve.Time(p, target, opts), 1)
			}

			headline := fmt.Sprintf("Target reached in %s years", money.FormatYears(out.Value))
			if !out.Found {
				headline = fmt.Sprintf("Target not reached within %s years", money.FormatYears(opts.CeilingYears))
			}

			return Report{
				Kind:     TimeToTarget,
				Headline: headline,
				Found:    out.Found,
				Result: TimeResult{
					Parameters: p,
					Target:     money.RoundCents(target),
					Search:     r.cfg.Solver.TimeSearch,
					Outcome:    out,
				},
			}, nil
		},
	}
}

func loanType(raw map[string]string) (amortize.LoanType, error) {
	s := strings.TrimSpace(raw["type"])
	if s == "" {
		return amortize.Personal, nil
	}
	return amortize.ParseLoanType(s)
}

func loanTypeList() string {
	names := make([]string, 0, 4)
	for _, t := range amortize.LoanTypes() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
