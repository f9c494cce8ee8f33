package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/fincalc/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestLoanJSON(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "--json", "loan", "--principal", "$250,000", "--rate", "6.5", "--years", "30", "--schedule", "1")
	require.NoError(t, err)

	var rep struct {
		Kind   string `json:"kind"`
		Found  bool   `json:"found"`
		Result struct {
			MonthlyPayment float64 `json:"monthly_payment"`
			NumPayments    int     `json:"num_payments"`
			Schedule       []any   `json:"schedule"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "loan", rep.Kind)
	assert.True(t, rep.Found)
	assert.Equal(t, 1580.17, rep.Result.MonthlyPayment)
	assert.Equal(t, 360, rep.Result.NumPayments)
	assert.Len(t, rep.Result.Schedule, 1)
}

func TestMortgageTable(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "--no-color", "mortgage",
		"--home-price", "312500", "--down-payment", "62500", "--rate", "6.5", "--years", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly housing cost $1,580.17")
}

func TestInvalidInput(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "--no-color", "compound", "--principal", "abc", "--rate", "7")
	require.Error(t, err)
	assert.Equal(t, "invalid input: 2 problem(s)", err.Error())
	assert.Contains(t, out, "Invalid input")
	assert.Contains(t, out, "starting amount must be a number")
	assert.Contains(t, out, "years is required")
}

func TestRateAndTime(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "--no-color", "rate", "--principal", "10000", "--years", "10", "--target", "50000", "--compounding", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Required rate 17.46% a year")

	out, _, err = execute(t, "--no-color", "time", "--principal", "10000", "--rate", "7", "--target", "20000", "--compounding", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Target reached in 10.3 years")
}

func TestTimeSearchFromConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fincalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  time_search: bisect\n"), 0644))

	out, _, err := execute(t, "--config", path, "--json", "time",
		"--principal", "5000", "--contribution", "100", "--rate", "6", "--target", "6500")
	require.NoError(t, err)

	var rep struct {
		Result struct {
			Value  float64 `json:"value"`
			Search string  `json:"search"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "bisect", rep.Result.Search)
	assert.Less(t, rep.Result.Value, 1.0)
}

func TestJournalSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db := filepath.Join(dir, "calc.db")
	jflags := []string{"--journal", "sqlite", "--db", db}

	_, _, err := execute(t, append(jflags, "--no-color", "loan", "--principal", "1000", "--rate", "0", "--years", "1")...)
	require.NoError(t, err)
	_, _, err = execute(t, append(jflags, "--no-color", "rate", "--principal", "10000", "--years", "10", "--target", "5000000")...)
	require.NoError(t, err)

	out, _, err := execute(t, append(jflags, "--json", "journal", "list")...)
	require.NoError(t, err)

	var recs []journal.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "loan", recs[0].Kind)
	assert.Equal(t, "1000", recs[0].Inputs["principal"])
	assert.True(t, recs[0].Found)
	assert.Equal(t, "required-rate", recs[1].Kind)
	assert.False(t, recs[1].Found)

	out, _, err = execute(t, append(jflags, "journal", "show", "--org", recs[0].ID)...)
	require.NoError(t, err)
	assert.Contains(t, out, ":KIND: loan")
	assert.Contains(t, out, ":INPUT_PRINCIPAL: 1000")

	xzPath := filepath.Join(dir, "calc.csv.xz")
	_, _, err = execute(t, append(jflags, "journal", "export", "--output", xzPath)...)
	require.NoError(t, err)

	f, err := os.Open(xzPath)
	require.NoError(t, err)
	defer f.Close()
	exported, err := journal.ImportCSVXZ(f)
	require.NoError(t, err)
	assert.Len(t, exported, 2)

	out, _, err = execute(t, append(jflags, "journal", "export", "--format", "org")...)
	require.NoError(t, err)
	assert.Contains(t, out, ":COUNT:       2")
	assert.Contains(t, out, ":NOT_FOUND:   1")

	_, _, err = execute(t, append(jflags, "journal", "show", "missing")...)
	assert.Error(t, err)
}

func TestJournalCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "calc.csv")
	jflags := []string{"--journal", "csv", "--db", path}

	_, _, err := execute(t, append(jflags, "--no-color", "compound", "--principal", "10000", "--rate", "7", "--years", "10")...)
	require.NoError(t, err)

	out, _, err := execute(t, append(jflags, "journal", "export")...)
	require.NoError(t, err)
	assert.Contains(t, out, "id,kind,created_at,inputs,result,headline,found")
	assert.Contains(t, out, ",compound,")
}

func TestJournalExportFailureLeavesNoFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db := filepath.Join(dir, "calc.csv")
	jflags := []string{"--journal", "csv", "--db", db}

	_, _, err := execute(t, append(jflags, "--no-color", "compound", "--principal", "10000", "--rate", "7", "--years", "10")...)
	require.NoError(t, err)

	pdf := filepath.Join(dir, "out.pdf")
	_, _, err = execute(t, append(jflags, "journal", "export", "--format", "pdf", "--output", pdf)...)
	require.Error(t, err)
	assert.NoFileExists(t, pdf)

	partial := filepath.Join(dir, "partial.csv")
	err = exportFile(partial, "pdf", nil)
	require.Error(t, err)
	assert.NoFileExists(t, partial)

	good := filepath.Join(dir, "good.csv")
	require.NoError(t, exportFile(good, "csv", nil))
	assert.FileExists(t, good)
}

func TestJournalUnwritableOnlyWarns(t *testing.T) {
	t.Parallel()

	bad := filepath.Join(t.TempDir(), "missing-dir", "calc.csv")
	out, errOut, err := execute(t, "--journal", "csv", "--db", bad, "--no-color",
		"compound", "--principal", "10000", "--rate", "7", "--years", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "$20,096.61")
	assert.Contains(t, errOut, "level=WARN")
	assert.Contains(t, errOut, "journal: open")
}

func TestJournalNeedsStore(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "journal", "list")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "open journal")
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fincalc.toml")

	out, _, err := execute(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created default configuration")

	out, _, err = execute(t, "config", "validate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Configuration valid")
	assert.Contains(t, out, "Time search: linear, up to 100 years")

	_, _, err = execute(t, "config", "validate")
	assert.Error(t, err)
}

func TestBadFlags(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "--log-level", "loud", "version")
	assert.Error(t, err)

	_, _, err = execute(t, "--journal", "kafka", "version")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fincalc version "+version)
}
