package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/fincalc/calculator"
	"github.com/rustyeddy/fincalc/id"
	"github.com/rustyeddy/fincalc/journal"
	"github.com/rustyeddy/fincalc/validate"
	"github.com/spf13/cobra"
)

var calcCommands = []struct {
	use     string
	kind    calculator.Kind
	example string
}{
	{"loan", calculator.Loan, "fincalc loan --type auto --principal 28000 --rate 7.9 --years 5"},
	{"mortgage", calculator.Mortgage, "fincalc mortgage --home-price 400000 --down-payment 80000 --rate 6.5 --years 30 --property-tax-rate 1.1"},
	{"compound", calculator.Compound, "fincalc compound --principal 10000 --rate 7 --years 10 --contribution 100"},
	{"rate", calculator.RequiredRate, "fincalc rate --principal 10000 --years 10 --target 50000"},
	{"time", calculator.TimeToTarget, "fincalc time --principal 5000 --contribution 200 --rate 6 --target 50000"},
}

func calculatorCommands(rc *rootConfig) []*cobra.Command {
	// Fields and titles do not depend on configuration.
	reg := calculator.NewRegistry(nil)

	cmds := make([]*cobra.Command, 0, len(calcCommands))
	for _, c := range calcCommands {
		def, _ := reg.Lookup(c.kind)
		cmds = append(cmds, newCalcCmd(rc, c.use, c.example, def))
	}
	return cmds
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func newCalcCmd(rc *rootConfig, use, example string, def calculator.Definition) *cobra.Command {
	values := make(map[string]*string, len(def.Fields))

	cmd := &cobra.Command{
		Use:     use,
		Short:   def.Title,
		Example: "  " + example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := map[string]string{}
			for _, f := range def.Fields {
				if cmd.Flags().Changed(flagName(f.Name)) {
					raw[f.Name] = *values[f.Name]
				}
			}
			return rc.runCalculation(cmd, def.Kind, raw)
		},
	}

	for _, f := range def.Fields {
		values[f.Name] = cmd.Flags().String(flagName(f.Name), "", f.Usage)
	}
	return cmd
}

func (rc *rootConfig) runCalculation(cmd *cobra.Command, kind calculator.Kind, raw map[string]string) error {
	reg := calculator.NewRegistry(rc.cfg, calculator.WithLogger(rc.log))
	out := rc.renderer(cmd)

	rep, err := reg.Run(kind, raw)
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		if rerr := out.ValidationErrors(verrs); rerr != nil {
			return rerr
		}
		return fmt.Errorf("invalid input: %d problem(s)", len(verrs))
	}
	if err != nil {
		return err
	}

	rc.record(kind, raw, rep)
	return out.Report(rep)
}

// record journals a finished calculation. A journal that cannot be written
// only costs a warning.
func (rc *rootConfig) record(kind calculator.Kind, raw map[string]string, rep calculator.Report) {
	if rc.cfg.Journal.Type == "none" {
		return
	}

	result, err := json.Marshal(rep.Result)
	if err != nil {
		rc.log.Warn("journal: encode result", "err", err)
		return
	}

	j, err := journal.Open(rc.cfg.Journal)
	if err != nil {
		rc.log.Warn("journal: open", "type", rc.cfg.Journal.Type, "path", rc.cfg.Journal.Path, "err", err)
		return
	}
	defer func() {
		if err := j.Close(); err != nil {
			rc.log.Warn("journal: close", "err", err)
		}
	}()

	rec := journal.Record{
		ID:        id.New(),
		Kind:      kind.String(),
		CreatedAt: time.Now().UTC(),
		Inputs:    raw,
		Result:    result,
		Headline:  rep.Headline,
		Found:     rep.Found,
	}
	if err := j.RecordCalculation(rec); err != nil {
		rc.log.Warn("journal: record", "id", rec.ID, "err", err)
		return
	}
	rc.log.Debug("journaled", "id", rec.ID, "kind", kind)
}
