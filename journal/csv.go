package journal

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"
)

var csvHeader = []string{"id", "kind", "created_at", "inputs", "result", "headline", "found"}

// CSV appends calculation records to a file, writing the header only when
// the file is new.
type CSV struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSV, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open csv journal: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			_ = f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordCalculation(r Record) error {
	row, err := csvRow(r)
	if err != nil {
		return err
	}
	if err := j.w.Write(row); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}

func csvRow(r Record) ([]string, error) {
	inputs, err := encodeInputs(r.Inputs)
	if err != nil {
		return nil, err
	}
	return []string{
		r.ID,
		r.Kind,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		inputs,
		resultText(r.Result),
		r.Headline,
		strconv.FormatBool(r.Found),
	}, nil
}

// WriteCSV writes recs, header first.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		row, err := csvRow(r)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses records written by CSV or WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if header[0] != csvHeader[0] {
		return nil, fmt.Errorf("not a calculation journal: first column is %q", header[0])
	}

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		created, err := time.Parse(time.RFC3339Nano, row[2])
		if err != nil {
			return nil, fmt.Errorf("record %s: created_at: %w", row[0], err)
		}
		inputs, err := decodeInputs(row[3])
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", row[0], err)
		}
		found, err := strconv.ParseBool(row[6])
		if err != nil {
			return nil, fmt.Errorf("record %s: found: %w", row[0], err)
		}

		out = append(out, Record{
			ID:        row[0],
			Kind:      row[1],
			CreatedAt: created,
			Inputs:    inputs,
			Result:    json.RawMessage(row[4]),
			Headline:  row[5],
			Found:     found,
		})
	}
	return out, nil
}

// CSVFile is a CSV journal loaded into memory for lookups.
type CSVFile struct {
	recs []Record
}

func LoadCSV(path string) (*CSVFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv journal: %w", err)
	}
	defer f.Close()

	recs, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, k int) bool {
		if recs[i].CreatedAt.Equal(recs[k].CreatedAt) {
			return recs[i].ID < recs[k].ID
		}
		return recs[i].CreatedAt.Before(recs[k].CreatedAt)
	})
	return &CSVFile{recs: recs}, nil
}

func (c *CSVFile) Get(id string) (Record, error) {
	for _, r := range c.recs {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("calculation %q not found", id)
}

func (c *CSVFile) ListBetween(start, end time.Time) ([]Record, error) {
	var out []Record
	for _, r := range c.recs {
		if !r.CreatedAt.Before(start) && r.CreatedAt.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *CSVFile) Recent(n int) ([]Record, error) {
	if n >= len(c.recs) {
		return append([]Record(nil), c.recs...), nil
	}
	return append([]Record(nil), c.recs[len(c.recs)-n:]...), nil
}

func (c *CSVFile) Close() error { return nil }
