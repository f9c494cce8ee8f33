package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rustyeddy/fincalc/amortize"
	"github.com/rustyeddy/fincalc/solve"
	"gopkg.in/yaml.v3"
)

// Config represents the complete calculator configuration
type Config struct {
	Solver  SolverConfig  `json:"solver" yaml:"solver" toml:"solver"`
	Limits  LimitsConfig  `json:"limits" yaml:"limits" toml:"limits"`
	Journal JournalConfig `json:"journal" yaml:"journal" toml:"journal"`
	Output  OutputConfig  `json:"output" yaml:"output" toml:"output"`
}

// Time search strategies.
const (
	TimeSearchLinear = "linear"
	TimeSearchBisect = "bisect"
)

// SolverConfig contains the search bounds of the rate and time solvers
type SolverConfig struct {
	Rate       solve.RateOptions `json:"rate" yaml:"rate" toml:"rate"`
	Time       solve.TimeOptions `json:"time" yaml:"time" toml:"time"`
	TimeSearch string            `json:"time_search" yaml:"time_search" toml:"time_search"` // "linear" or "bisect"
}

// LoanLimit caps the inputs accepted for one loan type
type LoanLimit struct {
	MaxRatePercent float64 `json:"max_rate_percent" yaml:"max_rate_percent" toml:"max_rate_percent"`
	MaxTermYears   float64 `json:"max_term_years" yaml:"max_term_years" toml:"max_term_years"`
}

// LimitsConfig contains the input ceilings enforced by the calculators
type LimitsConfig struct {
	MaxPrincipal         float64              `json:"max_principal" yaml:"max_principal" toml:"max_principal"`
	MaxYears             float64              `json:"max_years" yaml:"max_years" toml:"max_years"`
	MaxGrowthRatePercent float64              `json:"max_growth_rate_percent" yaml:"max_growth_rate_percent" toml:"max_growth_rate_percent"`
	Loans                map[string]LoanLimit `json:"loans" yaml:"loans" toml:"loans"`
}

// Loan returns the limit for t, falling back to the defaults for types the
// file does not mention.
func (l LimitsConfig) Loan(t amortize.LoanType) LoanLimit {
	if lim, ok := l.Loans[t.String()]; ok {
		return lim
	}
	return defaultLoanLimits()[t.String()]
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type string `json:"type" yaml:"type" toml:"type"` // "none", "csv" or "sqlite"
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

// OutputConfig contains presentation parameters
type OutputConfig struct {
	ScheduleMonths int  `json:"schedule_months" yaml:"schedule_months" toml:"schedule_months"`
	NoColor        bool `json:"no_color" yaml:"no_color" toml:"no_color"`
}

// LoadFromFile loads configuration from a file. The format follows the
// extension (.yaml/.yml, .toml, .json); anything else is tried as YAML and
// then JSON. Keys the file leaves out keep their default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		// Try YAML first, fall back to JSON
		if err = yaml.Unmarshal(data, cfg); err != nil {
			cfg = Default()
			if err = json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML, TOML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	r := c.Solver.Rate
	if r.LowPercent <= 0 || r.HighPercent <= r.LowPercent {
		return fmt.Errorf("solver.rate bounds must satisfy 0 < low_percent < high_percent")
	}
	if r.Tolerance <= 0 {
		return fmt.Errorf("solver.rate.tolerance must be positive")
	}
	if r.MaxIterations < 1 {
		return fmt.Errorf("solver.rate.max_iterations must be at least 1")
	}

	t := c.Solver.Time
	if t.StepYears <= 0 || t.StepYears > 1 {
		return fmt.Errorf("solver.time.step_years must be between 0 and 1")
	}
	if t.StartYears < 0 || t.CeilingYears <= t.StartYears {
		return fmt.Errorf("solver.time bounds must satisfy 0 <= start_years < ceiling_years")
	}
	if !wholeSteps(1, t.StepYears) {
		return fmt.Errorf("solver.time.step_years must divide a year evenly (0.1, 0.25, 0.5, ...)")
	}
	if !wholeSteps(t.StartYears, t.StepYears) || !wholeSteps(t.CeilingYears, t.StepYears) {
		return fmt.Errorf("solver.time start_years and ceiling_years must be multiples of step_years")
	}
	if t.Tolerance <= 0 {
		return fmt.Errorf("solver.time.tolerance must be positive")
	}
	if t.MaxIterations < 1 {
		return fmt.Errorf("solver.time.max_iterations must be at least 1")
	}
	if c.Solver.TimeSearch != TimeSearchLinear && c.Solver.TimeSearch != TimeSearchBisect {
		return fmt.Errorf("solver.time_search must be '%s' or '%s'", TimeSearchLinear, TimeSearchBisect)
	}

	if c.Limits.MaxPrincipal <= 0 {
		return fmt.Errorf("limits.max_principal must be positive")
	}
	if c.Limits.MaxYears <= 0 {
		return fmt.Errorf("limits.max_years must be positive")
	}
	if c.Limits.MaxGrowthRatePercent <= 0 || c.Limits.MaxGrowthRatePercent >= 100 {
		return fmt.Errorf("limits.max_growth_rate_percent must be between 0 and 100")
	}
	for name, lim := range c.Limits.Loans {
		if _, err := amortize.ParseLoanType(name); err != nil {
			return fmt.Errorf("limits.loans: %w", err)
		}
		if lim.MaxRatePercent <= 0 {
			return fmt.Errorf("limits.loans.%s.max_rate_percent must be positive", name)
		}
		if lim.MaxTermYears <= 0 {
			return fmt.Errorf("limits.loans.%s.max_term_years must be positive", name)
		}
	}

	switch c.Journal.Type {
	case "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal path required for %s type", c.Journal.Type)
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Output.ScheduleMonths < 0 {
		return fmt.Errorf("output.schedule_months must not be negative")
	}
	return nil
}

// wholeSteps reports whether span is a whole number of step-sized steps.
func wholeSteps(span, step float64) bool {
	n := span / step
	return math.Abs(n-math.Round(n)) < 1e-9*math.Max(1, math.Abs(n))
}

func defaultLoanLimits() map[string]LoanLimit {
	return map[string]LoanLimit{
		amortize.Personal.String(): {MaxRatePercent: 36, MaxTermYears: 7},
		amortize.Auto.String():     {MaxRatePercent: 25, MaxTermYears: 8},
		amortize.Student.String():  {MaxRatePercent: 15, MaxTermYears: 25},
		amortize.Mortgage.String(): {MaxRatePercent: 15, MaxTermYears: 40},
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Rate:       solve.DefaultRateOptions(),
			Time:       solve.DefaultTimeOptions(),
			TimeSearch: TimeSearchLinear,
		},
		Limits: LimitsConfig{
			MaxPrincipal:         100_000_000,
			MaxYears:             100,
			MaxGrowthRatePercent: 50,
			Loans:                defaultLoanLimits(),
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Output: OutputConfig{
			ScheduleMonths: 12,
		},
	}
}
