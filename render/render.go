package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/rustyeddy/fincalc/amortize"
	"github.com/rustyeddy/fincalc/calculator"
	"github.com/rustyeddy/fincalc/journal"
	"github.com/rustyeddy/fincalc/money"
	"github.com/rustyeddy/fincalc/validate"
)

type Options struct {
	NoColor bool
	JSON    bool
}

// Renderer writes reports either as styled tables or as indented JSON.
type Renderer struct {
	w     io.Writer
	theme theme
	json  bool
}

func New(w io.Writer, opts Options) *Renderer {
	th := colorTheme()
	if opts.NoColor {
		th = plainTheme()
	}
	return &Renderer{w: w, theme: th, json: opts.JSON}
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) table(headers []string, rows [][]string, numeric func(col int) bool) string {
	th := r.theme
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(th.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return th.header
			case numeric != nil && numeric(col):
				return th.number
			default:
				return th.cell
			}
		})
	return t.Render()
}

func (r *Renderer) keyValues(pairs [][2]string) string {
	return r.table([]string{"Item", "Value"}, toRows(pairs), func(col int) bool { return col == 1 })
}

func (r *Renderer) print(blocks ...string) error {
	_, err := fmt.Fprintln(r.w, strings.Join(blocks, "\n\n"))
	return err
}

// Report writes one calculation.
func (r *Renderer) Report(rep calculator.Report) error {
	if r.json {
		return r.writeJSON(rep)
	}

	title := r.theme.title.Render(rep.Headline)
	if !rep.Found {
		title = r.theme.bad.Render(rep.Headline)
	}

	switch res := rep.Result.(type) {
	case calculator.LoanResult:
		return r.print(title, r.quoteSummary(res.Quote, nil), r.schedule(res.Schedule))
	case calculator.MortgageResult:
		extra := [][2]string{
			{"Home price", money.Format(res.HomePrice)},
			{"Down payment", money.Format(res.DownPayment) + " (" + money.FormatPercent(res.DownPaymentPercent) + ")"},
			{"Monthly property tax", money.Format(res.MonthlyTax)},
			{"Monthly insurance", money.Format(res.MonthlyInsurance)},
			{"Monthly housing cost", money.Format(res.MonthlyHousingCost)},
		}
		return r.print(title, r.quoteSummary(res.Quote, extra), r.schedule(res.Schedule))
	case calculator.CompoundResult:
		return r.print(title, r.keyValues([][2]string{
			{"Future value", money.Format(res.FutureValue)},
			{"Starting amount", money.Format(res.Parameters.PresentValue)},
			{"Total contributions", money.Format(res.TotalContributions)},
			{"Total growth", money.Format(res.TotalGrowth)},
			{"Annual rate", money.FormatPercent(res.Parameters.AnnualRatePercent)},
			{"Compounding per year", strconv.Itoa(res.Parameters.PeriodsPerYear)},
		}), r.projection(res))
	case calculator.RateResult:
		return r.print(title, r.keyValues([][2]string{
			{"Required rate", money.FormatPercent(res.Value)},
			{"Found", r.found(res.Found)},
			{"Risk band", string(res.RiskBand)},
			{"Target", money.Format(res.Target)},
			{"Iterations", strconv.Itoa(res.Iterations)},
			{"Residual", money.Format(res.Residual)},
		}))
	case calculator.TimeResult:
		return r.print(title, r.keyValues([][2]string{
			{"Years", money.FormatYears(res.Value)},
			{"Found", r.found(res.Found)},
			{"Target", money.Format(res.Target)},
			{"Search", res.Search},
			{"Iterations", strconv.Itoa(res.Iterations)},
			{"Residual", money.Format(res.Residual)},
		}))
	default:
		return r.print(title)
	}
}

func (r *Renderer) found(ok bool) string {
	if ok {
		return r.theme.ok.Render("yes")
	}
	return r.theme.bad.Render("no")
}

func (r *Renderer) quoteSummary(q amortize.Quote, extra [][2]string) string {
	pairs := [][2]string{
		{"Monthly payment", money.Format(q.MonthlyPayment)},
		{"Payments", strconv.Itoa(q.NumPayments)},
		{"Total paid", money.Format(q.TotalPayment)},
		{"Total interest", money.Format(q.TotalInterest)},
		{"Loan amount", money.Format(q.Terms.Principal)},
		{"Annual rate", money.FormatPercent(q.Terms.AnnualRatePercent)},
		{"Term", money.FormatYears(q.Terms.TermYears) + " years"},
		{"Loan type", q.Terms.Type.String()},
	}
	return r.keyValues(append(pairs, extra...))
}

func (r *Renderer) schedule(s amortize.Schedule) string {
	rows := make([][]string, len(s))
	for i, p := range s {
		rows[i] = []string{
			strconv.Itoa(p.Period),
			money.Format(p.Payment),
			money.Format(p.Principal),
			money.Format(p.Interest),
			money.Format(p.Balance),
		}
	}
	return r.table([]string{"Month", "Payment", "Principal", "Interest", "Balance"}, rows,
		func(int) bool { return true })
}

func (r *Renderer) projection(res calculator.CompoundResult) string {
	rows := make([][]string, len(res.Projection))
	for i, y := range res.Projection {
		rows[i] = []string{
			money.FormatYears(y.Year),
			money.Format(y.Balance),
			money.Format(y.Contributions),
			money.Format(y.Growth),
		}
	}
	return r.table([]string{"Year", "Balance", "Contributions", "Growth"}, rows,
		func(int) bool { return true })
}

// ValidationErrors lists every field problem.
func (r *Renderer) ValidationErrors(errs validate.Errors) error {
	if r.json {
		return r.writeJSON(struct {
			Errors validate.Errors `json:"errors"`
		}{errs})
	}

	rows := make([][]string, len(errs))
	for i, fe := range errs {
		rows[i] = []string{fe.Field, fe.Message}
	}
	return r.print(r.theme.bad.Render("Invalid input"), r.table([]string{"Field", "Problem"}, rows, nil))
}

// Records lists journal entries, one row each.
func (r *Renderer) Records(recs []journal.Record) error {
	if r.json {
		if recs == nil {
			recs = []journal.Record{}
		}
		return r.writeJSON(recs)
	}

	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = []string{
			rec.ID,
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Kind,
			r.found(rec.Found),
			rec.Headline,
		}
	}
	return r.print(r.table([]string{"ID", "Created", "Kind", "Found", "Headline"}, rows, nil))
}

// Record shows one journal entry in full.
func (r *Renderer) Record(rec journal.Record) error {
	if r.json {
		return r.writeJSON(rec)
	}

	pairs := [][2]string{
		{"ID", rec.ID},
		{"Kind", rec.Kind},
		{"Created", rec.CreatedAt.Local().Format(time.DateTime) + " (" + humanize.Time(rec.CreatedAt) + ")"},
		{"Found", r.found(rec.Found)},
		{"Headline", rec.Headline},
	}
	keys := make([]string, 0, len(rec.Inputs))
	for k := range rec.Inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	inputs := make([][]string, len(keys))
	for i, k := range keys {
		inputs[i] = []string{k, rec.Inputs[k]}
	}
	return r.print(
		r.theme.title.Render(rec.Headline),
		r.table([]string{"Item", "Value"}, toRows(pairs), nil),
		r.table([]string{"Input", "Value"}, inputs, nil),
	)
}

func toRows(pairs [][2]string) [][]string {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p[0], p[1]}
	}
	return rows
}
