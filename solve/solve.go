package solve

import (
	"math"

	"github.com/rustyeddy/fincalc/growth"
	"github.com/rustyeddy/fincalc/money"
)

// moneyTolerance is how close a future value must land to the target to
// count as a hit: half a cent.
const moneyTolerance = 0.005

// Outcome is the answer of a solver. Found=false means no value inside the
// search domain reaches the target; Value then holds the bound the search
// was pinned at. It is a normal result, not an error.
type Outcome struct {
	Found      bool    `json:"found"`
	Value      float64 `json:"value"` // annual rate in percent, or years
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"` // future value at Value minus target
}

// Rounded returns o with Value rounded to places and Residual to cents.
func (o Outcome) Rounded(places int32) Outcome {
	o.Value = money.Round(o.Value, places)
	o.Residual = money.RoundCents(o.Residual)
	return o
}

// RoundYears rounds the answer of a time search for display. A found time
// is rounded up, never down, so the reported years still reach target, and
// Residual is recomputed at the reported value.
func RoundYears(p growth.Parameters, target float64, o Outcome, places int32) Outcome {
	if !o.Found {
		return o.Rounded(places)
	}
	o.Value = money.RoundUp(o.Value, places)
	o.Residual = money.RoundCents(withYears(p, o.Value) - target)
	return o
}

func withRate(p growth.Parameters, pct float64) float64 {
	p.AnnualRatePercent = pct
	return growth.Compute(p).FutureValue
}

func withYears(p growth.Parameters, years float64) float64 {
	p.Years = years
	return growth.Compute(p).FutureValue
}

// RateOptions bound the rate search.
type RateOptions struct {
	LowPercent    float64 `json:"low_percent" yaml:"low_percent" toml:"low_percent"`
	HighPercent   float64 `json:"high_percent" yaml:"high_percent" toml:"high_percent"`
	Tolerance     float64 `json:"tolerance" yaml:"tolerance" toml:"tolerance"` // bracket width, unit rate
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations" toml:"max_iterations"`
}

// DefaultRateOptions searches 0.1%..50% to within 0.01 percentage points.
func DefaultRateOptions() RateOptions {
	return RateOptions{
		LowPercent:    0.1,
		HighPercent:   50,
		Tolerance:     0.0001,
		MaxIterations: 100,
	}
}

// Rate finds the constant annual rate at which p grows to target. The rate
// in p is ignored.
//
// Future value rises with the rate whenever the present value and the
// contributions are non-negative, so the root is bracketed by bisection.
// The bounds are checked first: a target below what the lowest rate already
// yields, or above what the highest rate can reach, is reported as not found
// with Value pinned to that bound.
func Rate(p growth.Parameters, target float64, opts RateOptions) Outcome {
	if target <= 0 {
		return Outcome{}
	}

	low, high := opts.LowPercent, opts.HighPercent

	fLow := withRate(p, low)
	if math.Abs(fLow-target) < moneyTolerance {
		return Outcome{Found: true, Value: low, Residual: fLow - target}
	}
	if fLow > target {
		return Outcome{Value: low, Residual: fLow - target}
	}

	fHigh := withRate(p, high)
	if math.Abs(fHigh-target) < moneyTolerance {
		return Outcome{Found: true, Value: high, Residual: fHigh - target}
	}
	if fHigh < target {
		return Outcome{Value: high, Residual: fHigh - target}
	}

	iter := 0
	for iter < opts.MaxIterations {
		iter++
		mid := (low + high) / 2
		f := withRate(p, mid)
		if math.Abs(f-target) < moneyTolerance {
			return Outcome{Found: true, Value: mid, Iterations: iter, Residual: f - target}
		}
		if f < target {
			low = mid
		} else {
			high = mid
		}
		if money.PctToUnit(high-low) < opts.Tolerance {
			break
		}
	}

	rate := (low + high) / 2
	return Outcome{
		Found:      true,
		Value:      rate,
		Iterations: iter,
		Residual:   withRate(p, rate) - target,
	}
}

// TimeOptions bound the time search.
type TimeOptions struct {
	StartYears    float64 `json:"start_years" yaml:"start_years" toml:"start_years"`
	StepYears     float64 `json:"step_years" yaml:"step_years" toml:"step_years"`
	CeilingYears  float64 `json:"ceiling_years" yaml:"ceiling_years" toml:"ceiling_years"`
	Tolerance     float64 `json:"tolerance" yaml:"tolerance" toml:"tolerance"` // years, bisection only
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations" toml:"max_iterations"`
}

// DefaultTimeOptions scans 1..100 years in tenths of a year.
func DefaultTimeOptions() TimeOptions {
	return TimeOptions{
		StartYears:    1,
		StepYears:     0.1,
		CeilingYears:  100,
		Tolerance:     1e-4,
		MaxIterations: 100,
	}
}

// Time finds how long p takes to grow to target. The years in p are ignored.
//
// Without contributions the answer is closed form. With contributions the
// years are scanned upward from StartYears in StepYears increments and the
// first value whose future value meets or exceeds the target is returned,
// so the answer is only good to one step.
func Time(p growth.Parameters, target float64, opts TimeOptions) Outcome {
	if target <= 0 {
		return Outcome{}
	}
	if p.PeriodicContribution == 0 {
		return closedForm(p, target, opts)
	}
	return scan(p, target, opts)
}

// TimeBisect is Time with the linear scan replaced by bisection over
// [0, CeilingYears], accurate to Tolerance years. It answers earlier than
// Time whenever the target falls between two scan steps or before
// StartYears. Negative rates fall back to the scan since the future value
// need not rise with time.
func TimeBisect(p growth.Parameters, target float64, opts TimeOptions) Outcome {
	if target <= 0 {
		return Outcome{}
	}
	if p.PeriodicContribution == 0 {
		return closedForm(p, target, opts)
	}
	if p.AnnualRatePercent < 0 {
		return scan(p, target, opts)
	}

	lo, hi := 0.0, opts.CeilingYears
	if f := withYears(p, lo); f >= target {
		return Outcome{Found: true, Value: 0, Residual: f - target}
	}
	fHi := withYears(p, hi)
	if fHi < target {
		return Outcome{Value: hi, Residual: fHi - target}
	}

	iter := 0
	for iter < opts.MaxIterations && hi-lo > opts.Tolerance {
		iter++
		mid := (lo + hi) / 2
		if withYears(p, mid) >= target {
			hi = mid
		} else {
			lo = mid
		}
	}

	return Outcome{
		Found:      true,
		Value:      hi,
		Iterations: iter,
		Residual:   withYears(p, hi) - target,
	}
}

// closedForm solves PV(1+r/m)^(m*t) = target for t.
func closedForm(p growth.Parameters, target float64, opts TimeOptions) Outcome {
	if target <= p.PresentValue {
		return Outcome{Found: true, Value: 0, Residual: p.PresentValue - target}
	}
	if p.PresentValue <= 0 || p.AnnualRatePercent <= 0 {
		return Outcome{}
	}

	m := float64(p.PeriodsPerYear)
	years := math.Log(target/p.PresentValue) / (m * math.Log1p(p.RatePerPeriod()))

	if years > opts.CeilingYears {
		return Outcome{
			Value:      opts.CeilingYears,
			Iterations: 1,
			Residual:   withYears(p, opts.CeilingYears) - target,
		}
	}
	return Outcome{
		Found:      true,
		Value:      years,
		Iterations: 1,
		Residual:   withYears(p, years) - target,
	}
}

// scan walks forward until the target is first met. Each candidate is an
// integer count of steps divided by steps-per-year, so 7.3 years is exactly
// 73/10 and not 1 + 63*0.1 = 7.300000000000001.
func scan(p growth.Parameters, target float64, opts TimeOptions) Outcome {
	scale := math.Round(1 / opts.StepYears)
	first := math.Round(opts.StartYears * scale)
	last := math.Round(opts.CeilingYears * scale)

	iter := 0
	for k := first; k <= last; k++ {
		iter++
		years := k / scale
		if f := withYears(p, years); f >= target {
			return Outcome{Found: true, Value: years, Iterations: iter, Residual: f - target}
		}
	}

	return Outcome{
		Value:      opts.CeilingYears,
		Iterations: iter,
		Residual:   withYears(p, opts.CeilingYears) - target,
	}
}
