package amortize

import (
	"fmt"
	"strings"
)

// LoanType selects which limits the caller applies; the math is the same
// for every type.
type LoanType int

const (
	Personal LoanType = iota
	Auto
	Student
	Mortgage
)

var loanTypeNames = [...]string{"personal", "auto", "student", "mortgage"}

func (t LoanType) String() string {
	if t < 0 || int(t) >= len(loanTypeNames) {
		return fmt.Sprintf("LoanType(%d)", int(t))
	}
	return loanTypeNames[t]
}

// LoanTypes lists every loan type in declaration order.
func LoanTypes() []LoanType {
	return []LoanType{Personal, Auto, Student, Mortgage}
}

// ParseLoanType accepts the lower case name of a loan type.
func ParseLoanType(s string) (LoanType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range loanTypeNames {
		if name == s {
			return LoanType(i), nil
		}
	}
	return Personal, fmt.Errorf("unknown loan type %q", s)
}

func (t LoanType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *LoanType) UnmarshalText(b []byte) error {
	lt, err := ParseLoanType(string(b))
	if err != nil {
		return err
	}
	*t = lt
	return nil
}

// LoanTerms describes a fixed-rate, fixed-term installment loan.
type LoanTerms struct {
	Principal         float64  `json:"principal"`
	AnnualRatePercent float64  `json:"annual_rate_percent"` // 6.5 means 6.5%
	TermYears         float64  `json:"term_years"`
	Type              LoanType `json:"loan_type"`
}

// PaymentRow is one month of an amortization schedule. All amounts are
// rounded to cents.
type PaymentRow struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"remaining_balance"`
}

// Schedule is an ordered month-by-month amortization table.
type Schedule []PaymentRow

// TotalPrincipal sums the principal portions of every row.
func (s Schedule) TotalPrincipal() float64 {
	var sum float64
	for _, r := range s {
		sum += r.Principal
	}
	return sum
}

// TotalInterest sums the interest portions of every row.
func (s Schedule) TotalInterest() float64 {
	var sum float64
	for _, r := range s {
		sum += r.Interest
	}
	return sum
}

// TotalPaid sums every payment.
func (s Schedule) TotalPaid() float64 {
	var sum float64
	for _, r := range s {
		sum += r.Payment
	}
	return sum
}

// Quote is the reported result for a loan.
type Quote struct {
	Terms          LoanTerms `json:"terms"`
	MonthlyPayment float64   `json:"monthly_payment"`
	TotalPayment   float64   `json:"total_payment"`
	TotalInterest  float64   `json:"total_interest"`
	NumPayments    int       `json:"num_payments"`
	Schedule       Schedule  `json:"schedule,omitempty"`
}
