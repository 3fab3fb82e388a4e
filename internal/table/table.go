// Package table reads the route spreadsheet: a header row followed by one
// row per jeepney line, each cell an optional free-form text field.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Cell is one optional text field. Present is false for empty or missing cells.
type Cell struct {
	Text    string
	Present bool
}

// Row is one data row. Index is zero-based and excludes the header.
type Row struct {
	Index int
	Cells []Cell
}

// Table is the header plus the data rows in file order
type Table struct {
	Header []string
	Rows   []Row
}

// ReadFile opens path and reads at most maxRows data rows (0 means all)
func ReadFile(path string, maxRows int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open route table: %w", err)
	}
	defer f.Close()

	t, err := Read(f, maxRows)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV from r. Rows may have differing numbers of fields;
// cells past the end of a short row are simply absent.
func Read(r io.Reader, maxRows int) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("route table is empty (no header row)")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &Table{Header: header}
	skipped := 0

	for maxRows == 0 || len(t.Rows) < maxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// the reader keeps going after a malformed record
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Printf("Table: skipping malformed line %d: %v", parseErr.Line, parseErr.Err)
				skipped++
				continue
			}
			return nil, err
		}

		t.Rows = append(t.Rows, Row{Index: len(t.Rows) + skipped, Cells: toCells(record)})
	}

	return t, nil
}

// Width returns the number of columns declared by the header
func (t *Table) Width() int {
	return len(t.Header)
}

// Present returns the non-empty cells of the row, in column order
func (r Row) Present() []string {
	var out []string
	for _, c := range r.Cells {
		if c.Present {
			out = append(out, c.Text)
		}
	}
	return out
}

func toCells(record []string) []Cell {
	cells := make([]Cell, len(record))
	for i, field := range record {
		if strings.TrimSpace(field) == "" {
			continue
		}
		cells[i] = Cell{Text: field, Present: true}
	}
	return cells
}
