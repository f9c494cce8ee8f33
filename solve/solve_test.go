package solve

import (
	"fmt"
	"math"
	"testing"

	"github.com/rustyeddy/fincalc/growth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annual(pv float64, years float64) growth.Parameters {
	return growth.Parameters{
		PresentValue:         pv,
		PeriodsPerYear:       1,
		Years:                years,
		ContributionsPerYear: 1,
	}
}

func saver(pv, monthly, rate float64) growth.Parameters {
	return growth.Parameters{
		PresentValue:         pv,
		AnnualRatePercent:    rate,
		PeriodsPerYear:       12,
		PeriodicContribution: monthly,
		ContributionsPerYear: 12,
	}
}

func TestRate_DoubleAndAHalfInTenYears(t *testing.T) {
	t.Parallel()

	out := Rate(annual(10000, 10), 50000, DefaultRateOptions())

	require.True(t, out.Found)
	assert.InDelta(t, 17.46, out.Value, 0.01)
	assert.Greater(t, out.Iterations, 0)
	assert.LessOrEqual(t, out.Iterations, 100)
}

func TestRate_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, rate := range []float64{0.5, 3.75, 8.25, 12, 27.3, 49} {
		rate := rate
		t.Run(fmt.Sprintf("%.2f", rate), func(t *testing.T) {
			t.Parallel()

			p := saver(2500, 150, rate)
			p.Years = 15
			target := growth.Compute(p).FutureValue

			out := Rate(p, target, DefaultRateOptions())
			require.True(t, out.Found)
			assert.InDelta(t, rate, out.Value, 0.01)
		})
	}
}

func TestRate_TargetAboveCeiling(t *testing.T) {
	t.Parallel()

	p := annual(10000, 10)
	best := withRate(p, 50)

	out := Rate(p, best*10, DefaultRateOptions())
	assert.False(t, out.Found)
	assert.Equal(t, 50.0, out.Value)
	assert.Less(t, out.Residual, 0.0)
	assert.Equal(t, 0, out.Iterations)
}

func TestRate_TargetBelowFloor(t *testing.T) {
	t.Parallel()

	out := Rate(annual(10000, 10), 5000, DefaultRateOptions())
	assert.False(t, out.Found)
	assert.Equal(t, 0.1, out.Value)
	assert.Greater(t, out.Residual, 0.0)
}

func TestRate_TargetExactlyAtBound(t *testing.T) {
	t.Parallel()

	p := annual(10000, 10)

	out := Rate(p, withRate(p, 0.1), DefaultRateOptions())
	assert.True(t, out.Found)
	assert.Equal(t, 0.1, out.Value)

	out = Rate(p, withRate(p, 50), DefaultRateOptions())
	assert.True(t, out.Found)
	assert.Equal(t, 50.0, out.Value)
}

func TestRate_NonPositiveTarget(t *testing.T) {
	t.Parallel()

	assert.False(t, Rate(annual(10000, 10), 0, DefaultRateOptions()).Found)
	assert.False(t, Rate(annual(10000, 10), -1, DefaultRateOptions()).Found)
}

func TestRate_IterationCeiling(t *testing.T) {
	t.Parallel()

	opts := DefaultRateOptions()
	opts.MaxIterations = 3

	out := Rate(annual(10000, 10), 50000, opts)
	assert.True(t, out.Found)
	assert.Equal(t, 3, out.Iterations)
	assert.NotZero(t, out.Residual)
}

func TestOutcome_Rounded(t *testing.T) {
	t.Parallel()

	o := Outcome{Found: true, Value: 17.461894, Iterations: 13, Residual: 12.34567}.Rounded(2)
	assert.Equal(t, 17.46, o.Value)
	assert.Equal(t, 12.35, o.Residual)
	assert.Equal(t, 13, o.Iterations)
	assert.True(t, o.Found)
}

func TestTime_ClosedForm(t *testing.T) {
	t.Parallel()

	p := annual(10000, 0)
	p.AnnualRatePercent = 7

	out := Time(p, 20000, DefaultTimeOptions())
	require.True(t, out.Found)
	assert.InDelta(t, math.Log(2)/math.Log(1.07), out.Value, 1e-12)
	assert.InDelta(t, 0, out.Residual, 1e-6)
}

func TestTime_ClosedFormRoundTrip(t *testing.T) {
	t.Parallel()

	p := saver(10000, 0, 7)
	p.Years = 12.5
	target := growth.Compute(p).FutureValue

	out := Time(p, target, DefaultTimeOptions())
	require.True(t, out.Found)
	assert.InDelta(t, 12.5, out.Value, 1e-9)
}

func TestTime_ClosedFormUnreachable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    growth.Parameters
	}{
		{"zero_rate", saver(10000, 0, 0)},
		{"negative_rate", saver(10000, 0, -3)},
		{"no_money", saver(0, 0, 7)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := Time(tt.p, 20000, DefaultTimeOptions())
			assert.False(t, out.Found)
		})
	}
}

func TestTime_ClosedFormBeyondCeiling(t *testing.T) {
	t.Parallel()

	p := annual(1, 0)
	p.AnnualRatePercent = 1

	out := Time(p, 1e6, DefaultTimeOptions())
	assert.False(t, out.Found)
	assert.Equal(t, 100.0, out.Value)
	assert.Less(t, out.Residual, 0.0)
}

func TestTime_AlreadyThere(t *testing.T) {
	t.Parallel()

	out := Time(saver(10000, 0, 5), 9000, DefaultTimeOptions())
	assert.True(t, out.Found)
	assert.Equal(t, 0.0, out.Value)
}

func TestTime_AlreadyThereWithoutGrowth(t *testing.T) {
	t.Parallel()

	for _, rate := range []float64{0, -3} {
		out := Time(saver(10000, 0, rate), 10000, DefaultTimeOptions())
		assert.True(t, out.Found, "rate %v", rate)
		assert.Equal(t, 0.0, out.Value)
		assert.Equal(t, 0.0, out.Residual)
	}
}

func TestRoundYears_ReportedTimeReachesTarget(t *testing.T) {
	t.Parallel()

	p := saver(5000, 100, 6)
	opts := DefaultTimeOptions()

	for target := 6000.0; target <= 40000; target += 37.5 {
		out := RoundYears(p, target, TimeBisect(p, target, opts), 2)
		require.True(t, out.Found, "target %v", target)

		q := p
		q.Years = out.Value
		reached := growth.Compute(q).FutureValue
		assert.GreaterOrEqual(t, reached, target, "target %v reported %v years", target, out.Value)
		assert.GreaterOrEqual(t, out.Residual, 0.0)
		assert.InDelta(t, reached-target, out.Residual, 0.005)
	}

	lump := saver(10000, 0, 7)
	lump.PeriodsPerYear = 1
	out := RoundYears(lump, 20000, Time(lump, 20000, opts), 1)
	assert.Equal(t, 10.3, out.Value)
	assert.Greater(t, out.Residual, 0.0)
}

func TestRoundYears_NotFound(t *testing.T) {
	t.Parallel()

	p := saver(0, 1, 1)
	raw := Time(p, 1e12, DefaultTimeOptions())
	out := RoundYears(p, 1e12, raw, 1)
	assert.False(t, out.Found)
	assert.Equal(t, 100.0, out.Value)
	assert.Equal(t, raw.Rounded(1), out)
}

func TestTime_ScanRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		years float64
		want  float64
	}{
		{7.3, 7.3},
		{7.35, 7.4},
		{23.01, 23.1},
		{1, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%.2f", tt.years), func(t *testing.T) {
			t.Parallel()

			p := saver(5000, 100, 6)
			p.Years = tt.years
			target := growth.Compute(p).FutureValue

			out := Time(p, target, DefaultTimeOptions())
			require.True(t, out.Found)
			assert.Equal(t, tt.want, out.Value)
			assert.InDelta(t, tt.years, out.Value, 0.1)
			assert.GreaterOrEqual(t, out.Residual, 0.0)
		})
	}
}

func TestTime_ScanFirstStepIsOneYear(t *testing.T) {
	t.Parallel()

	out := Time(saver(1000000, 10, 5), 10, DefaultTimeOptions())
	assert.True(t, out.Found)
	assert.Equal(t, 1.0, out.Value)
	assert.Equal(t, 1, out.Iterations)
}

func TestTime_ScanUnreachable(t *testing.T) {
	t.Parallel()

	out := Time(saver(0, 1, 1), 1e12, DefaultTimeOptions())
	assert.False(t, out.Found)
	assert.Equal(t, 100.0, out.Value)
	assert.Equal(t, 991, out.Iterations)
	assert.Less(t, out.Residual, 0.0)
}

func TestTime_ScanNegativeRate(t *testing.T) {
	t.Parallel()

	// Contributions outrun a mild loss.
	p := saver(1000, 500, -2)
	p.Years = 4
	target := growth.Compute(p).FutureValue

	out := Time(p, target, DefaultTimeOptions())
	require.True(t, out.Found)
	assert.InDelta(t, 4, out.Value, 0.1)
}

func TestTimeBisect(t *testing.T) {
	t.Parallel()

	p := saver(5000, 100, 6)
	p.Years = 7.35
	target := growth.Compute(p).FutureValue

	out := TimeBisect(p, target, DefaultTimeOptions())
	require.True(t, out.Found)
	assert.InDelta(t, 7.35, out.Value, 1e-3)
	assert.GreaterOrEqual(t, out.Residual, 0.0)
	assert.LessOrEqual(t, out.Iterations, 100)

	// Below the first scan step the scan says 1 year; bisection finds the real answer.
	p.Years = 0.25
	target = growth.Compute(p).FutureValue
	out = TimeBisect(p, target, DefaultTimeOptions())
	require.True(t, out.Found)
	assert.InDelta(t, 0.25, out.Value, 1e-3)
}

func TestTimeBisect_Fallbacks(t *testing.T) {
	t.Parallel()

	lump := saver(10000, 0, 7)
	assert.Equal(t, Time(lump, 20000, DefaultTimeOptions()), TimeBisect(lump, 20000, DefaultTimeOptions()))

	loss := saver(1000, 500, -2)
	assert.Equal(t, Time(loss, 20000, DefaultTimeOptions()), TimeBisect(loss, 20000, DefaultTimeOptions()))

	out := TimeBisect(saver(0, 1, 1), 1e12, DefaultTimeOptions())
	assert.False(t, out.Found)
	assert.Equal(t, 100.0, out.Value)

	assert.False(t, TimeBisect(lump, 0, DefaultTimeOptions()).Found)
}
