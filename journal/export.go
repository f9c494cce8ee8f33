package journal

import (
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// ExportCSVXZ writes recs as an xz-compressed CSV stream.
func ExportCSVXZ(w io.Writer, recs []Record) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create xz writer: %w", err)
	}
	if err := WriteCSV(zw, recs); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close xz writer: %w", err)
	}
	return nil
}

// ImportCSVXZ reads a stream written by ExportCSVXZ.
func ImportCSVXZ(r io.Reader) ([]Record, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create xz reader: %w", err)
	}
	return ReadCSV(zr)
}
