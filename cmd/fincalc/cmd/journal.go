package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/fincalc/journal"
	"github.com/spf13/cobra"
)

func newJournalCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the calculation journal",
		Long: `Query and export journaled calculations from SQLite or CSV.

Subcommands:
  list   - List recent calculations, or those from a range of days
  show   - Show one calculation by ID
  export - Write calculations as CSV, xz-compressed CSV or Org-mode

Examples:
  fincalc --journal sqlite --db calc.db journal list --limit 20
  fincalc --journal sqlite --db calc.db journal list --since 2024-01-01 --until 2024-01-31
  fincalc --journal sqlite --db calc.db journal show 01HS...
  fincalc --journal sqlite --db calc.db journal export --output calc.csv.xz`,
	}

	cmd.AddCommand(newJournalListCmd(rc), newJournalShowCmd(rc), newJournalExportCmd(rc))
	return cmd
}

func (rc *rootConfig) openReader() (journal.Reader, error) {
	r, err := journal.OpenReader(rc.cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open journal (set --journal and --db): %w", err)
	}
	return r, nil
}

// selectRecords returns the records between since and until (whole local
// days, both inclusive) or, with neither set, the last limit records.
func selectRecords(r journal.Reader, since, until string, limit int) ([]journal.Record, error) {
	if since == "" && until == "" {
		return r.Recent(limit)
	}

	loc := time.Local
	start := time.Unix(0, 0)
	end := time.Now().Add(24 * time.Hour)
	if since != "" {
		s, _, err := dayBounds(loc, since)
		if err != nil {
			return nil, fmt.Errorf("since: %w", err)
		}
		start = s
	}
	if until != "" {
		_, e, err := dayBounds(loc, until)
		if err != nil {
			return nil, fmt.Errorf("until: %w", err)
		}
		end = e
	}
	return r.ListBetween(start, end)
}

func newJournalListCmd(rc *rootConfig) *cobra.Command {
	var (
		since string
		until string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rc.openReader()
			if err != nil {
				return err
			}
			defer r.Close()

			recs, err := selectRecords(r, since, until, limit)
			if err != nil {
				return fmt.Errorf("query journal: %w", err)
			}
			return rc.renderer(cmd).Records(recs)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of recent calculations when no days are given")
	return cmd
}

func newJournalShowCmd(rc *rootConfig) *cobra.Command {
	var org bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rc.openReader()
			if err != nil {
				return err
			}
			defer r.Close()

			rec, err := r.Get(args[0])
			if err != nil {
				return fmt.Errorf("get calculation: %w", err)
			}

			if org {
				fmt.Fprint(cmd.OutOrStdout(), journal.FormatRecordOrg(rec))
				return nil
			}
			return rc.renderer(cmd).Record(rec)
		},
	}

	cmd.Flags().BoolVar(&org, "org", false, "print as an Org-mode block")
	return cmd
}

func newJournalExportCmd(rc *rootConfig) *cobra.Command {
	var (
		format string
		output string
		since  string
		until  string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export calculations as csv, csv.xz or org",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			if !knownFormat(format) {
				return fmt.Errorf("unknown export format %q (want csv, csv.xz or org)", format)
			}

			r, err := rc.openReader()
			if err != nil {
				return err
			}
			defer r.Close()

			recs, err := selectRecords(r, since, until, limit)
			if err != nil {
				return fmt.Errorf("query journal: %w", err)
			}

			if output == "" || output == "-" {
				return writeExport(cmd.OutOrStdout(), format, recs)
			}
			if err := exportFile(output, format, recs); err != nil {
				return err
			}
			rc.log.Info("exported", "records", len(recs), "format", format, "path", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "csv, csv.xz or org (default from --output, else csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	cmd.Flags().StringVar(&since, "since", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 1_000_000, "number of recent calculations when no days are given")
	return cmd
}

func knownFormat(format string) bool {
	switch format {
	case "csv", "csv.xz", "xz", "org":
		return true
	}
	return false
}

func writeExport(w io.Writer, format string, recs []journal.Record) error {
	var err error
	switch format {
	case "csv":
		err = journal.WriteCSV(w, recs)
	case "csv.xz", "xz":
		err = journal.ExportCSVXZ(w, recs)
	case "org":
		var s string
		s, err = journal.FormatRecordsOrg(recs, time.Now())
		if err == nil {
			_, err = io.WriteString(w, s)
		}
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// exportFile writes the export to path. A failed export, including a
// failed close, leaves no file behind.
func exportFile(path, format string, recs []journal.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return writeExport(f, format, recs)
}

func formatFromPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".xz"):
		return "csv.xz"
	case strings.HasSuffix(path, ".org"):
		return "org"
	default:
		return "csv"
	}
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
