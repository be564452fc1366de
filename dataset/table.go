package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

var ErrNoHeader = errors.New("input has no header row")

// Table is raw tabular input, a header row naming each column followed by
// rows of unparsed cells. Rows may be ragged, missing trailing cells are
// treated as empty values during normalization.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadCSV parses CSV content into a Table. The first record is taken as the
// header row.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv input, %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	return &Table{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}

// Fingerprint returns a hex-encoded content hash of the table. Tables with
// the same headers and rows hash identically regardless of how they were
// constructed.
func (tbl *Table) Fingerprint() (string, error) {
	canonical := struct {
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	}{
		Headers: tbl.Headers,
		Rows:    tbl.Rows,
	}
	out, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("unable to serialize table for fingerprint, %w", err)
	}
	sum := sha256.Sum256(out)
	return hex.EncodeToString(sum[:]), nil
}
