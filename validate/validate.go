package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rustyeddy/fincalc/money"
)

// Rule declares how one raw field is checked. Min and Max are inclusive and
// every rule sets both.
type Rule struct {
	Field     string
	Label     string
	Required  bool
	Min       float64
	Max       float64
	AllowZero bool
	Integer   bool
	Default   float64 // used when an optional field is absent
}

func (r Rule) name() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Field
}

// FieldError is one problem with one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors is every problem found in one pass over the input.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// For returns the errors reported against field.
func (e Errors) For(field string) []FieldError {
	var out []FieldError
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

func (e *Errors) add(field, format string, args ...any) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Values are the typed, range-checked numbers produced by Validate.
type Values map[string]float64

func (v Values) Float(field string) float64 {
	return v[field]
}

func (v Values) Int(field string) int {
	return int(math.Round(v[field]))
}

func (v Values) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Validate checks raw against rules. It never stops at the first problem:
// a missing required field, a value that does not parse, a fraction where
// a whole number is needed, a disallowed zero and an out of range value
// each add one FieldError, and the error returned (of type Errors) holds
// them all. Keys in raw without a rule are ignored.
func Validate(raw map[string]string, rules []Rule) (Values, error) {
	vals := make(Values, len(rules))
	var errs Errors

	for _, r := range rules {
		if r.Max < r.Min {
			panic(fmt.Sprintf("validate: rule %q has max %v below min %v", r.Field, r.Max, r.Min))
		}

		s, present := raw[r.Field]
		if !present || strings.TrimSpace(s) == "" {
			if r.Required {
				errs.add(r.Field, "%s is required", r.name())
				continue
			}
			vals[r.Field] = r.Default
			continue
		}

		x, err := money.Parse(s)
		if err != nil {
			errs.add(r.Field, "%s must be a number (%v)", r.name(), err)
			continue
		}

		ok := true
		if r.Integer && x != math.Trunc(x) {
			errs.add(r.Field, "%s must be a whole number", r.name())
			ok = false
		}
		if x == 0 && !r.AllowZero {
			errs.add(r.Field, "%s must not be zero", r.name())
			ok = false
		}
		if x < r.Min {
			errs.add(r.Field, "%s must be at least %s", r.name(), num(r.Min))
			ok = false
		}
		if x > r.Max {
			errs.add(r.Field, "%s must be at most %s", r.name(), num(r.Max))
			ok = false
		}
		if ok {
			vals[r.Field] = x
		}
	}

	if len(errs) > 0 {
		return vals, errs
	}
	return vals, nil
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
