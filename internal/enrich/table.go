package enrich

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/newthinker/fxscout/internal/core"
)

// Table is a CSV document with lower-cased header names.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable parses CSV from r. Header names are trimmed and lower-cased;
// short rows are padded to the header width.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.WrapError(core.ErrInvalidInput, fmt.Errorf("empty CSV"))
	}
	if err != nil {
		return nil, core.WrapError(core.ErrInvalidInput, fmt.Errorf("reading header: %w", err))
	}

	t := &Table{Header: make([]string, len(header))}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		t.Header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrInvalidInput, fmt.Errorf("reading row: %w", err))
		}
		if isBlank(rec) {
			continue
		}
		for len(rec) < len(t.Header) {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec[:len(t.Header)])
	}
	return t, nil
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Write renders the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Bytes renders the table as CSV in memory.
func (t *Table) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
