package amortize

import (
	"fmt"
	"math"

	"github.com/rustyeddy/fincalc/money"
)

// residue is the largest balance left after a payment that is treated as
// fully paid. Anything below half a cent is rounding noise.
const residue = 0.005

// MonthlyRate converts an annual percentage to a monthly unit rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return money.PctToUnit(annualRatePercent) / 12
}

// Periods returns the whole number of monthly payments needed for a term.
// A fractional final month counts as a payment, and any positive term has at
// least one.
func Periods(termYears float64) int {
	n := int(math.Ceil(termYears*12 - 1e-9))
	if n < 1 && termYears > 0 {
		return 1
	}
	return n
}

// Payment computes the fixed monthly installment for a loan.
//
//	payment = P * r(1+r)^n / ((1+r)^n - 1)
//
// With a zero rate the loan is straight-line: P/n. n need not be whole.
// The result is not rounded.
func Payment(principal, annualRatePercent, termYears float64) float64 {
	if principal <= 0 {
		panic(fmt.Sprintf("amortize: principal must be positive, got %v", principal))
	}
	if termYears <= 0 {
		panic(fmt.Sprintf("amortize: term must be positive, got %v", termYears))
	}
	if annualRatePercent < 0 {
		panic(fmt.Sprintf("amortize: rate must not be negative, got %v", annualRatePercent))
	}

	r := MonthlyRate(annualRatePercent)
	n := termYears * 12

	if r == 0 {
		return principal / n
	}

	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

// GenerateSchedule walks the loan month by month for at most periods months,
// stopping early once the balance is paid off.
//
// The walk itself runs at full precision. Reported rows are in cents: the
// principal of each row is the drop in the rounded balance, so the
// principal column of a complete schedule adds up to the rounded loan
// amount exactly, and interest is whatever is left of the rounded payment.
func GenerateSchedule(principal, monthlyRate, payment float64, periods int) Schedule {
	if principal <= 0 {
		panic(fmt.Sprintf("amortize: principal must be positive, got %v", principal))
	}
	if monthlyRate < 0 {
		panic(fmt.Sprintf("amortize: monthly rate must not be negative, got %v", monthlyRate))
	}
	if payment <= 0 {
		panic(fmt.Sprintf("amortize: payment must be positive, got %v", payment))
	}
	if periods < 0 {
		panic(fmt.Sprintf("amortize: periods must not be negative, got %d", periods))
	}
	if payment <= principal*monthlyRate {
		panic(fmt.Sprintf("amortize: payment %.2f does not cover interest %.2f", payment, principal*monthlyRate))
	}

	rows := make(Schedule, 0, periods)
	balance := principal
	reported := money.RoundCents(principal)

	for period := 1; period <= periods && balance > 0; period++ {
		interest := balance * monthlyRate
		pay := payment
		toPrincipal := pay - interest

		// Last payment: take exactly what is owed.
		if toPrincipal >= balance-residue {
			toPrincipal = balance
			pay = balance + interest
		}
		balance -= toPrincipal
		if balance < 0 {
			balance = 0
		}

		next := money.RoundCents(balance)
		rowPayment := money.RoundCents(pay)
		rowPrincipal := money.RoundCents(reported - next)

		rows = append(rows, PaymentRow{
			Period:    period,
			Payment:   rowPayment,
			Principal: rowPrincipal,
			Interest:  money.RoundCents(rowPayment - rowPrincipal),
			Balance:   next,
		})
		reported = next
	}

	return rows
}

// Amortize prices a loan and builds its schedule. sampleMonths > 0 keeps
// only the first sampleMonths rows; totals always cover the whole loan.
func Amortize(terms LoanTerms, sampleMonths int) Quote {
	payment := Payment(terms.Principal, terms.AnnualRatePercent, terms.TermYears)
	n := Periods(terms.TermYears)

	full := GenerateSchedule(terms.Principal, MonthlyRate(terms.AnnualRatePercent), payment, n)

	q := Quote{
		Terms:          terms,
		MonthlyPayment: money.RoundCents(payment),
		TotalPayment:   money.RoundCents(full.TotalPaid()),
		TotalInterest:  money.RoundCents(full.TotalInterest()),
		NumPayments:    len(full),
		Schedule:       full,
	}
	if sampleMonths > 0 && sampleMonths < len(full) {
		q.Schedule = full[:sampleMonths]
	}
	return q
}
