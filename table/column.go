package table

import (
	"math"
	"strconv"

	"github.com/Tan-0321/HOSHI-WorkFlow/format"
)

// Column is one typed column of a Table.
//
// Exactly one of the value slices is populated, selected by Kind:
//   - KindFloat: Floats, NaN marks a null cell
//   - KindInt: Ints with Valid, Valid[i] == false marks a null cell
//   - KindText: Texts, "" marks a null cell
type Column struct {
	Name   string
	Kind   format.ColumnKind
	Floats []float64
	Ints   []int64
	Valid  []bool
	Texts  []string
}

// NewFloatColumn creates a KindFloat column.
func NewFloatColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: format.KindFloat, Floats: values}
}

// NewIntColumn creates a KindInt column. A nil valid slice marks every cell valid.
func NewIntColumn(name string, values []int64, valid []bool) Column {
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	}

	return Column{Name: name, Kind: format.KindInt, Ints: values, Valid: valid}
}

// NewTextColumn creates a KindText column.
func NewTextColumn(name string, values []string) Column {
	return Column{Name: name, Kind: format.KindText, Texts: values}
}

// Len returns the number of cells.
func (c *Column) Len() int {
	switch c.Kind {
	case format.KindFloat:
		return len(c.Floats)
	case format.KindInt:
		return len(c.Ints)
	case format.KindText:
		return len(c.Texts)
	default:
		return 0
	}
}

// IsNull reports whether cell i is null.
func (c *Column) IsNull(i int) bool {
	switch c.Kind {
	case format.KindFloat:
		return math.IsNaN(c.Floats[i])
	case format.KindInt:
		return !c.Valid[i]
	case format.KindText:
		return c.Texts[i] == ""
	default:
		return true
	}
}

// Float returns cell i as float64. ok is false for null and text cells.
func (c *Column) Float(i int) (v float64, ok bool) {
	switch c.Kind {
	case format.KindFloat:
		v = c.Floats[i]
		return v, !math.IsNaN(v)
	case format.KindInt:
		if !c.Valid[i] {
			return math.NaN(), false
		}

		return float64(c.Ints[i]), true
	default:
		return math.NaN(), false
	}
}

// Int returns cell i as int64. Float cells convert only when integral.
func (c *Column) Int(i int) (int64, bool) {
	switch c.Kind {
	case format.KindInt:
		return c.Ints[i], c.Valid[i]
	case format.KindFloat:
		return floatToInt(c.Floats[i])
	default:
		return 0, false
	}
}

// Text returns cell i formatted as text, "" for null cells.
func (c *Column) Text(i int) string {
	switch c.Kind {
	case format.KindText:
		return c.Texts[i]
	case format.KindInt:
		if !c.Valid[i] {
			return ""
		}

		return strconv.FormatInt(c.Ints[i], 10)
	case format.KindFloat:
		if math.IsNaN(c.Floats[i]) {
			return ""
		}

		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	default:
		return ""
	}
}

// Float64s returns the column as a float64 slice with NaN for nulls.
// Text columns return nil. The result never aliases the column.
func (c *Column) Float64s() []float64 {
	if !c.Kind.IsNumeric() {
		return nil
	}

	out := make([]float64, c.Len())
	for i := range out {
		out[i], _ = c.Float(i)
	}

	return out
}

func (c *Column) slice(lo, hi int) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case format.KindFloat:
		out.Floats = c.Floats[lo:hi:hi]
	case format.KindInt:
		out.Ints = c.Ints[lo:hi:hi]
		out.Valid = c.Valid[lo:hi:hi]
	case format.KindText:
		out.Texts = c.Texts[lo:hi:hi]
	}

	return out
}

func (c *Column) filter(keep []bool, n int) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case format.KindFloat:
		out.Floats = make([]float64, 0, n)
	case format.KindInt:
		out.Ints = make([]int64, 0, n)
		out.Valid = make([]bool, 0, n)
	case format.KindText:
		out.Texts = make([]string, 0, n)
	}

	for i, k := range keep {
		if !k {
			continue
		}
		switch c.Kind {
		case format.KindFloat:
			out.Floats = append(out.Floats, c.Floats[i])
		case format.KindInt:
			out.Ints = append(out.Ints, c.Ints[i])
			out.Valid = append(out.Valid, c.Valid[i])
		case format.KindText:
			out.Texts = append(out.Texts, c.Texts[i])
		}
	}

	return out
}

// as converts the column to kind, which must not be narrower than c.Kind
// (Int → Float → Text).
func (c *Column) as(kind format.ColumnKind) Column {
	if c.Kind == kind {
		return *c
	}

	n := c.Len()
	switch kind {
	case format.KindFloat:
		vals := make([]float64, n)
		for i := range vals {
			vals[i], _ = c.Float(i)
		}

		return NewFloatColumn(c.Name, vals)
	case format.KindText:
		vals := make([]string, n)
		for i := range vals {
			vals[i] = c.Text(i)
		}

		return NewTextColumn(c.Name, vals)
	default:
		return *c
	}
}

// widerKind returns the narrowest kind that holds both a and b.
func widerKind(a, b format.ColumnKind) format.ColumnKind {
	switch {
	case a == b:
		return a
	case a == format.KindText || b == format.KindText:
		return format.KindText
	default:
		return format.KindFloat
	}
}

func floatToInt(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, false
	}

	return int64(v), true
}
