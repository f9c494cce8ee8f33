package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustyeddy/fincalc/config"
)

// Record is one journaled calculation. Inputs are the raw field strings
// the caller supplied and Result is the JSON form of the rounded report.
type Record struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	CreatedAt time.Time         `json:"created_at"`
	Inputs    map[string]string `json:"inputs"`
	Result    json.RawMessage   `json:"result"`
	Headline  string            `json:"headline"`
	Found     bool              `json:"found"`
}

// Journal receives calculation records.
type Journal interface {
	RecordCalculation(Record) error
	Close() error
}

// Reader looks records up again.
type Reader interface {
	Get(id string) (Record, error)
	ListBetween(start, end time.Time) ([]Record, error)
	Recent(n int) ([]Record, error)
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) RecordCalculation(Record) error { return nil }
func (Nop) Close() error                   { return nil }

// Open returns the journal selected by cfg.
func Open(cfg config.JournalConfig) (Journal, error) {
	switch cfg.Type {
	case "", "none":
		return Nop{}, nil
	case "csv":
		return NewCSV(cfg.Path)
	case "sqlite":
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

// OpenReader returns a reader over the journal selected by cfg.
func OpenReader(cfg config.JournalConfig) (Reader, error) {
	switch cfg.Type {
	case "csv":
		return LoadCSV(cfg.Path)
	case "sqlite":
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("journal type %q cannot be read back", cfg.Type)
	}
}

func encodeInputs(in map[string]string) (string, error) {
	if in == nil {
		in = map[string]string{}
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode inputs: %w", err)
	}
	return string(b), nil
}

func decodeInputs(s string) (map[string]string, error) {
	in := map[string]string{}
	if s == "" {
		return in, nil
	}
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, fmt.Errorf("decode inputs: %w", err)
	}
	return in, nil
}

func resultText(r json.RawMessage) string {
	if len(r) == 0 {
		return "null"
	}
	return string(r)
}
