package calculator

import (
	"fmt"
	"strings"
)

// Kind names a calculator.
type Kind string

const (
	Loan         Kind = "loan"
	Mortgage     Kind = "mortgage"
	Compound     Kind = "compound"
	RequiredRate Kind = "required-rate"
	TimeToTarget Kind = "time-to-target"
)

// Kinds lists every calculator in display order.
func Kinds() []Kind {
	return []Kind{Loan, Mortgage, Compound, RequiredRate, TimeToTarget}
}

func (k Kind) String() string { return string(k) }

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown calculator %q", s)
}
