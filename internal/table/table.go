package table

import "errors"

// Table holds tabular input: a header with column names and the data
// rows in the order in which they appear in the source
type Table struct {
	Name   string // Identifies the table in error messages, usually the file name
	Header []string
	Rows   [][]string
}

var (
	ErrNoHeader  = errors.New("table: missing header line")
	ErrRaggedRow = errors.New("table: row length differs from header")
)

// NumRows returns the number of data rows (header excluded)
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
// Names are compared exactly.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns all cells of the named column in row order.
// The second return value is false when the column doesn't exist.
func (t *Table) Column(name string) ([]string, bool) {
	k := t.ColumnIndex(name)
	if k < 0 {
		return nil, false
	}
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[k]
	}
	return col, true
}
