package table

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMissingColumn is matched by every MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError reports an expected column that is absent from a dataset.
type MissingColumnError struct {
	Dataset string
	Column  string
}

func (e *MissingColumnError) Error() string {
	if e.Dataset != "" {
		return fmt.Sprintf("column %q is missing from %s", e.Column, e.Dataset)
	}
	return fmt.Sprintf("column %q is missing", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// Table is a read-only snapshot of a tabular dataset. Accessors hand out copies,
// so callers can derive new columns without affecting other readers.
type Table struct {
	Name   string
	header []string
	rows   [][]string
	index  map[string]int
}

// New builds a table from a header and rows. Inputs are copied; short rows are
// padded and long rows truncated to the header width.
func New(name string, header []string, rows [][]string) *Table {
	t := &Table{
		Name:   name,
		header: make([]string, len(header)),
		rows:   make([][]string, 0, len(rows)),
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.header[i] = h
		// first occurrence wins for duplicated labels
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}
	for _, r := range rows {
		row := make([]string, len(header))
		copy(row, r)
		t.rows = append(t.rows, row)
	}
	return t
}

// Header returns a copy of the column labels.
func (t *Table) Header() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Has reports whether a column with the exact (trimmed) label exists.
func (t *Table) Has(label string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[strings.TrimSpace(label)]
	return ok
}

// Require returns a MissingColumnError for the first absent label, or nil.
func (t *Table) Require(labels ...string) error {
	for _, l := range labels {
		if !t.Has(l) {
			return t.missing(l)
		}
	}
	return nil
}

// Column returns the trimmed cell values of a column.
func (t *Table) Column(label string) ([]string, error) {
	if !t.Has(label) {
		return nil, t.missing(label)
	}
	idx := t.index[strings.TrimSpace(label)]
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = strings.TrimSpace(r[idx])
	}
	return out, nil
}

// Numbers returns a column parsed as numbers. Empty or unparsable cells are NaN.
func (t *Table) Numbers(label string) ([]float64, error) {
	vals, err := t.Column(label)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if x, ok := ParseNumber(v); ok {
			out[i] = x
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// IsNumeric reports whether a column has numeric semantic type: at least one
// non-empty cell and every non-empty cell parses as a number.
func (t *Table) IsNumeric(label string) bool {
	vals, err := t.Column(label)
	if err != nil {
		return false
	}
	seen := false
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, ok := ParseNumber(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// NumericColumns lists numeric columns in header order, skipping excluded labels.
func (t *Table) NumericColumns(exclude ...string) []string {
	if t == nil {
		return nil
	}
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[strings.TrimSpace(e)] = true
	}
	var out []string
	seen := map[string]bool{}
	for _, h := range t.header {
		if h == "" || skip[h] || seen[h] {
			continue
		}
		seen[h] = true
		if t.IsNumeric(h) {
			out = append(out, h)
		}
	}
	return out
}

func (t *Table) missing(label string) error {
	name := ""
	if t != nil {
		name = t.Name
	}
	return &MissingColumnError{Dataset: name, Column: strings.TrimSpace(label)}
}
