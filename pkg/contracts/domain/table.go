package domain

import (
	"strings"
)

// Row is a single record aligned to the columns of its Table
type Row []string

// Table is an ordered, header-addressed dataset read from one spreadsheet
// or produced by a transform. Column lookups are exact: no case folding and
// no whitespace trimming.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates an empty table with the given header
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, Rows: []Row{}}
}

// ColumnIndex returns the position of a column, or -1 when absent
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains the column
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// MissingColumns returns the names from required that are not in the header,
// in the order they were requested
func (t *Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell returns the value at row i for the named column. The boolean is false
// when the column does not exist or the row is shorter than the header.
func (t *Table) Cell(i int, column string) (string, bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return "", false
	}
	row := t.Rows[i]
	if idx >= len(row) {
		return "", false
	}
	return row[idx], true
}

// Select projects the table onto the given columns in the given order.
// Every requested column must exist; the names of any that do not are returned.
func (t *Table) Select(columns ...string) (*Table, []string) {
	if missing := t.MissingColumns(columns...); len(missing) > 0 {
		return nil, missing
	}

	indexes := make([]int, len(columns))
	for i, c := range columns {
		indexes[i] = t.ColumnIndex(c)
	}

	out := NewTable(columns...)
	for _, row := range t.Rows {
		projected := make(Row, len(columns))
		for i, idx := range indexes {
			if idx < len(row) {
				projected[i] = row[idx]
			}
		}
		out.Rows = append(out.Rows, projected)
	}
	return out, nil
}

// Concat joins tables in order, keeping each table's row order. The resulting
// header is the union of all headers in first-seen order; rows that lack a
// column get an empty cell. No rows are deduplicated.
func Concat(tables ...*Table) *Table {
	out := NewTable()
	positions := make(map[string]int)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := positions[c]; !ok {
				positions[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, row := range t.Rows {
			merged := make(Row, len(out.Columns))
			for i, c := range t.Columns {
				if i < len(row) {
					merged[positions[c]] = row[i]
				}
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// IsBlank reports whether a cell counts as missing: absent, empty, or only
// whitespace
func IsBlank(value string, present bool) bool {
	return !present || strings.TrimSpace(value) == ""
}
