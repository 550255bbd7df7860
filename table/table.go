// Package table holds the typed, column-major tables produced from HOSHI text logs.
//
// A Table is a set of equally long Columns. Each column is tagged once with a
// format.ColumnKind (Float, nullable Int or Text) when it is coerced from raw
// strings; the tag travels with the column through slicing, filtering and
// concatenation instead of being re-inferred at each access.
//
// Header lines may repeat a column name. Columns are kept positionally and name
// lookups resolve to the first column with that name.
package table

import (
	"fmt"
	"slices"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/format"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/collision"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/hash"
)

// Table is an immutable column-major table.
type Table struct {
	columns []Column
	rows    int
	index   *collision.Tracker
}

// New creates a table from columns of equal length.
func New(columns ...Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}

	for i := range columns {
		if columns[i].Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d",
				errs.ErrColumnLengthMismatch, columns[i].Name, columns[i].Len(), rows)
		}
	}

	return build(columns, rows), nil
}

// Empty creates a table with the given column names and no rows.
// Columns are tagged KindFloat.
func Empty(names []string) *Table {
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = NewFloatColumn(name, []float64{})
	}

	return build(columns, 0)
}

func build(columns []Column, rows int) *Table {
	index := collision.NewTracker(len(columns))
	for i := range columns {
		index.Track(columns[i].Name)
	}

	return &Table{columns: columns, rows: rows, index: index}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return t.index.Count()
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	return slices.Clone(t.index.Names())
}

// Column returns the first column named name.
func (t *Table) Column(name string) (*Column, bool) {
	pos, ok := t.index.Lookup(name)
	if !ok {
		return nil, false
	}

	return &t.columns[pos], true
}

// ColumnAt returns the column at position i.
func (t *Table) ColumnAt(i int) *Column {
	return &t.columns[i]
}

// Kinds returns the column kinds in order.
func (t *Table) Kinds() []format.ColumnKind {
	kinds := make([]format.ColumnKind, len(t.columns))
	for i := range t.columns {
		kinds[i] = t.columns[i].Kind
	}

	return kinds
}

// Duplicates returns the column names that occur more than once.
func (t *Table) Duplicates() []string {
	return t.index.Duplicates()
}

// Row returns row i formatted as text, "" for null cells.
func (t *Table) Row(i int) ([]string, error) {
	if i < 0 || i >= t.rows {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrRowIndexOutOfRange, i, t.rows)
	}

	row := make([]string, len(t.columns))
	for c := range t.columns {
		row[c] = t.columns[c].Text(i)
	}

	return row, nil
}

// Slice returns rows [lo, hi). The result shares memory with t.
func (t *Table) Slice(lo, hi int) (*Table, error) {
	if lo < 0 || hi > t.rows || lo > hi {
		return nil, fmt.Errorf("%w: [%d, %d) not within [0, %d)", errs.ErrRowIndexOutOfRange, lo, hi, t.rows)
	}

	columns := make([]Column, len(t.columns))
	for i := range t.columns {
		columns[i] = t.columns[i].slice(lo, hi)
	}

	return &Table{columns: columns, rows: hi - lo, index: t.index}, nil
}

// Filter returns the rows for which keep(i) is true, in order.
func (t *Table) Filter(keep func(row int) bool) *Table {
	mask := make([]bool, t.rows)
	n := 0
	for i := range mask {
		if keep(i) {
			mask[i] = true
			n++
		}
	}

	columns := make([]Column, len(t.columns))
	for i := range t.columns {
		columns[i] = t.columns[i].filter(mask, n)
	}

	return &Table{columns: columns, rows: n, index: t.index}
}

// SameSchema reports whether a and b list the same column names in the same order.
func SameSchema(a, b *Table) bool {
	if a.Width() != b.Width() {
		return false
	}
	if a.index.HasCollision() || b.index.HasCollision() {
		return slices.Equal(a.index.Names(), b.index.Names())
	}

	return hash.Names(a.index.Names()) == hash.Names(b.index.Names())
}

// Concat appends the rows of b after the rows of a.
//
// Both tables must have the same column names in the same order. Columns whose
// kinds differ are widened: Int and Float become Float, anything mixed with
// Text becomes Text.
func Concat(a, b *Table) (*Table, error) {
	if !SameSchema(a, b) {
		return nil, fmt.Errorf("%w: %v vs %v", errs.ErrSchemaMismatch, a.Names(), b.Names())
	}

	columns := make([]Column, len(a.columns))
	for i := range a.columns {
		kind := widerKind(a.columns[i].Kind, b.columns[i].Kind)
		left := a.columns[i].as(kind)
		right := b.columns[i].as(kind)

		out := Column{Name: left.Name, Kind: kind}
		switch kind {
		case format.KindFloat:
			out.Floats = append(append(make([]float64, 0, a.rows+b.rows), left.Floats...), right.Floats...)
		case format.KindInt:
			out.Ints = append(append(make([]int64, 0, a.rows+b.rows), left.Ints...), right.Ints...)
			out.Valid = append(append(make([]bool, 0, a.rows+b.rows), left.Valid...), right.Valid...)
		case format.KindText:
			out.Texts = append(append(make([]string, 0, a.rows+b.rows), left.Texts...), right.Texts...)
		}
		columns[i] = out
	}

	return &Table{columns: columns, rows: a.rows + b.rows, index: a.index}, nil
}
