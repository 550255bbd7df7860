// Package coerce converts raw string columns read from HOSHI logs into typed columns.
//
// Cells are cleaned before parsing (whitespace, thousands separators, Fortran 'D'
// exponents, exponents printed without their letter such as "6.670-321"). A column
// becomes numeric when the fraction of non-null cells that parse reaches the
// configured threshold; cells that still fail become null. Columns below the
// threshold stay text. Coercion never fails because of an individual cell.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/format"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/options"
	"github.com/Tan-0321/HOSHI-WorkFlow/table"
)

// DefaultThreshold is the default minimum convertible fraction.
const DefaultThreshold = 0.99

// DefaultIntegerColumns lists the discrete counters of a HOSHI summary log.
var DefaultIntegerColumns = []string{"stg", "nstg", "jcmax", "iter", "niter"}

// Config holds coercion settings.
type Config struct {
	Threshold      float64
	Preferred      format.ColumnKind
	IntegerColumns map[string]struct{}
}

// Option configures a Coercer.
type Option = options.Option[*Config]

// WithThreshold sets the minimum fraction of non-null cells that must parse for
// a column to be numeric. It must lie in (0, 1].
func WithThreshold(v float64) Option {
	return options.New(func(cfg *Config) error {
		if math.IsNaN(v) || v <= 0 || v > 1 {
			return fmt.Errorf("%w: %v not in (0, 1]", errs.ErrInvalidThreshold, v)
		}
		cfg.Threshold = v

		return nil
	})
}

// WithPreferredKind selects KindFloat (default) or KindInt for numeric columns.
// KindInt is honored only for columns whose every value is an exact integer.
func WithPreferredKind(kind format.ColumnKind) Option {
	return options.New(func(cfg *Config) error {
		if !kind.IsNumeric() {
			return fmt.Errorf("preferred kind must be numeric, got %s", kind)
		}
		cfg.Preferred = kind

		return nil
	})
}

// WithIntegerColumns replaces the set of column names always typed KindInt.
func WithIntegerColumns(names ...string) Option {
	return options.NoError(func(cfg *Config) {
		cfg.IntegerColumns = make(map[string]struct{}, len(names))
		for _, name := range names {
			cfg.IntegerColumns[name] = struct{}{}
		}
	})
}

// Coercer types raw columns. It is stateless after construction and safe for
// concurrent use.
type Coercer struct {
	cfg Config
}

// New creates a Coercer.
func New(opts ...Option) (*Coercer, error) {
	cfg := &Config{
		Threshold: DefaultThreshold,
		Preferred: format.KindFloat,
	}
	if err := options.Apply(cfg, WithIntegerColumns(DefaultIntegerColumns...)); err != nil {
		return nil, err
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Coercer{cfg: *cfg}, nil
}

// Config returns a copy of the coercer settings.
func (c *Coercer) Config() Config {
	cfg := c.cfg
	cfg.IntegerColumns = make(map[string]struct{}, len(c.cfg.IntegerColumns))
	for k := range c.cfg.IntegerColumns {
		cfg.IntegerColumns[k] = struct{}{}
	}

	return cfg
}

// Coerce types every column of raw.
func (c *Coercer) Coerce(raw *table.Raw) (*table.Table, error) {
	columns := make([]table.Column, len(raw.Names))
	for i, name := range raw.Names {
		columns[i] = c.Column(name, raw.Cells[i])
	}

	return table.New(columns...)
}

// Column types one raw column.
func (c *Coercer) Column(name string, cells []string) table.Column {
	p := parseCells(cells)

	fraction := 1.0
	if p.nonNull > 0 {
		fraction = float64(p.success) / float64(p.nonNull)
	}
	if fraction < c.cfg.Threshold {
		return textColumn(name, cells)
	}

	_, known := c.cfg.IntegerColumns[name]
	if known {
		ints, valid, _ := intValues(p.tokens, p.values, p.parsed)
		return table.NewIntColumn(name, ints, valid)
	}

	if c.cfg.Preferred == format.KindInt && p.success == p.nonNull {
		if ints, valid, exact := intValues(p.tokens, p.values, p.parsed); exact {
			return table.NewIntColumn(name, ints, valid)
		}
	}

	return table.NewFloatColumn(name, p.floats())
}

// ColumnAs builds a column of the given kind without type detection. Cells that
// do not convert to kind are null.
func ColumnAs(name string, cells []string, kind format.ColumnKind) (table.Column, error) {
	switch kind {
	case format.KindText:
		return textColumn(name, cells), nil
	case format.KindInt:
		p := parseCells(cells)
		ints, valid, _ := intValues(p.tokens, p.values, p.parsed)

		return table.NewIntColumn(name, ints, valid), nil
	case format.KindFloat:
		return table.NewFloatColumn(name, parseCells(cells).floats()), nil
	default:
		return table.Column{}, fmt.Errorf("column %q: unsupported kind %s", name, kind)
	}
}

// parsedCells holds the cleaned tokens of a column and the values that parsed.
type parsedCells struct {
	tokens  []string
	values  []float64
	parsed  []bool
	nonNull int
	success int
}

func parseCells(cells []string) parsedCells {
	n := len(cells)
	p := parsedCells{
		tokens: make([]string, n),
		values: make([]float64, n),
		parsed: make([]bool, n),
	}

	for i, cell := range cells {
		token, ok := Clean(cell)
		if !ok {
			continue
		}
		p.nonNull++
		p.tokens[i] = token
		if v, ok := parseCleaned(token); ok {
			p.values[i] = v
			p.parsed[i] = true
			p.success++
		}
	}

	return p
}

// floats returns the parsed values with NaN in unparsed cells.
func (p parsedCells) floats() []float64 {
	for i := range p.values {
		if !p.parsed[i] {
			p.values[i] = math.NaN()
		}
	}

	return p.values
}

// intValues converts parsed cells to int64. exact is false when any parsed
// value had a fractional part or did not fit; such cells are null.
func intValues(tokens []string, values []float64, parsed []bool) (ints []int64, valid []bool, exact bool) {
	ints = make([]int64, len(values))
	valid = make([]bool, len(values))
	exact = true

	for i := range values {
		if !parsed[i] {
			continue
		}
		if v, err := strconv.ParseInt(tokens[i], 10, 64); err == nil {
			ints[i], valid[i] = v, true
			continue
		}

		f := values[i]
		if math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			exact = false
			continue
		}
		ints[i], valid[i] = int64(f), true
	}

	return ints, valid, exact
}

func textColumn(name string, cells []string) table.Column {
	texts := make([]string, len(cells))
	for i, cell := range cells {
		token := strings.TrimSpace(cell)
		if !IsMissing(token) {
			texts[i] = token
		}
	}

	return table.NewTextColumn(name, texts)
}
