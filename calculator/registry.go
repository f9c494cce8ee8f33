package calculator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/fincalc/config"
	"github.com/rustyeddy/fincalc/validate"
)

// Field describes one raw input a calculator reads.
type Field struct {
	Name  string
	Usage string
}

// Definition binds a calculator's inputs to the engine that answers it.
type Definition struct {
	Kind   Kind
	Title  string
	Fields []Field

	rules   func(raw map[string]string) ([]validate.Rule, validate.Errors)
	compute func(raw map[string]string, v validate.Values) (Report, error)
}

type Option func(*Registry)

// WithLogger sets the logger calculations are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// Registry is the fixed table of calculators. It is built once and only
// read afterwards, so one Registry may serve concurrent callers.
type Registry struct {
	cfg  config.Config
	defs map[Kind]Definition
	log  *slog.Logger
}

func NewRegistry(cfg *config.Config, opts ...Option) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Registry{cfg: *cfg, log: slog.Default()}
	for _, o := range opts {
		o(r)
	}

	r.defs = map[Kind]Definition{
		Loan:         r.loanDef(),
		Mortgage:     r.mortgageDef(),
		Compound:     r.compoundDef(),
		RequiredRate: r.rateDef(),
		TimeToTarget: r.timeDef(),
	}
	return r
}

func (r *Registry) Lookup(k Kind) (Definition, bool) {
	d, ok := r.defs[k]
	return d, ok
}

func (r *Registry) Kinds() []Kind {
	return Kinds()
}

// Run validates raw for calculator k and computes the rounded report.
// Bad input comes back as validate.Errors holding every problem found. An
// unreachable target is not an error: the report says Found=false.
func (r *Registry) Run(k Kind, raw map[string]string) (Report, error) {
	def, ok := r.defs[k]
	if !ok {
		return Report{}, fmt.Errorf("unknown calculator %q", k)
	}

	rules, errs := def.rules(raw)
	vals, err := validate.Validate(raw, rules)
	if err != nil {
		var verrs validate.Errors
		if !errors.As(err, &verrs) {
			return Report{}, err
		}
		errs = append(errs, verrs...)
	}
	if len(errs) > 0 {
		r.log.Debug("validation failed", "kind", k, "errors", len(errs))
		return Report{}, errs
	}

	rep, err := def.compute(raw, vals)
	if err != nil {
		r.log.Debug("calculation rejected", "kind", k, "err", err)
		return Report{}, err
	}

	r.log.Debug("calculation", "kind", k, "found", rep.Found, "headline", rep.Headline)
	return rep, nil
}
