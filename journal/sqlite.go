package journal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite journal: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordCalculation(r Record) error {
	inputs, err := encodeInputs(r.Inputs)
	if err != nil {
		return err
	}

	_, err = j.db.Exec(`
		INSERT INTO calculations
		(id, kind, created_at, inputs, result, headline, found)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Kind, r.CreatedAt.UTC(), inputs, resultText(r.Result), r.Headline, r.Found,
	)
	if err != nil {
		return fmt.Errorf("insert calculation %s: %w", r.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, kind, created_at, inputs, result, headline, found FROM calculations`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		rec    Record
		inputs string
		result string
	)
	if err := s.Scan(&rec.ID, &rec.Kind, &rec.CreatedAt, &inputs, &result, &rec.Headline, &rec.Found); err != nil {
		return Record{}, err
	}

	in, err := decodeInputs(inputs)
	if err != nil {
		return Record{}, err
	}
	rec.Inputs = in
	rec.Result = json.RawMessage(result)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

// Get returns a single calculation by ID.
func (j *SQLite) Get(id string) (Record, error) {
	rec, err := scanRecord(j.db.QueryRow(selectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("calculation %q not found", id)
		}
		return Record{}, err
	}
	return rec, nil
}

// ListBetween returns calculations created within [start, end), oldest first.
func (j *SQLite) ListBetween(start, end time.Time) ([]Record, error) {
	rows, err := j.db.Query(selectColumns+`
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC, id ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Recent returns the n most recent calculations, oldest first.
func (j *SQLite) Recent(n int) ([]Record, error) {
	rows, err := j.db.Query(selectColumns+`
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	out, err := collect(rows)
	if err != nil {
		return nil, err
	}
	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}

func collect(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
