package history

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/Tan-0321/HOSHI-WorkFlow/coerce"
	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/header"
	"github.com/Tan-0321/HOSHI-WorkFlow/table"
)

// ReadRun reads the data rows of the run at a 1-based index (negative indices
// count from the end) as a typed table.
//
// An index outside the log, or a log without runs, is logged and yields an empty
// table with a nil error so that exploratory callers can continue. Only I/O
// failures are returned as errors.
func (h *History) ReadRun(index int) (*table.Table, error) {
	run, err := h.Run(index)
	if err != nil {
		if errors.Is(err, errs.ErrNoRuns) {
			h.logger.Error("no runs (header lines) found in summary log")
		} else {
			h.logger.Error("run index out of range",
				zap.Int("index", index),
				zap.Int("runs", len(h.runs)),
			)
		}

		return table.Empty(nil), nil
	}

	return h.readRun(run)
}

func (h *History) readRun(run Run) (*table.Table, error) {
	if run.DataLines() == 0 {
		return table.Empty(run.Columns), nil
	}

	raw := table.NewRaw(run.Columns, run.DataLines())
	padded, dropped := 0, 0
	_, err := scanFile(h.path, func(idx int, line string) bool {
		if idx < run.FirstDataLine {
			return true
		}
		if idx > run.LastDataLine {
			return false
		}
		if fields, ok := dataFields(line); ok {
			p, d := raw.AppendRow(fields)
			padded += p
			dropped += d
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	h.reportShape(run.Index, padded, dropped)

	return h.coercer.Coerce(raw)
}

func (h *History) reportShape(run, padded, dropped int) {
	if padded > 0 {
		h.logger.Warn("short data rows padded with nulls",
			zap.Int("run", run),
			zap.Int("cells", padded),
		)
	}
	if dropped > 0 {
		h.logger.Warn("surplus data fields dropped",
			zap.Int("run", run),
			zap.Int("fields", dropped),
		)
	}
}

// Data returns one column across every data row of the log, in file order and
// without stitching, using the layout of the first header. Cells that do not
// parse are NaN. An unknown column is logged and yields an empty slice.
func (h *History) Data(name string) ([]float64, error) {
	columns := h.Columns()
	pos := -1
	for i, c := range columns {
		if c == name {
			pos = i
			break
		}
	}
	if pos < 0 {
		h.logger.Error("column not found in summary log",
			zap.String("column", name),
			zap.Error(errs.ErrColumnNotFound),
		)
		return []float64{}, nil
	}

	values := make([]float64, 0, h.totalLines)
	_, err := scanFile(h.path, func(_ int, line string) bool {
		if header.IsHeader(line) {
			return true
		}
		fields, ok := dataFields(line)
		if !ok {
			return true
		}

		v := math.NaN()
		if pos < len(fields) {
			if parsed, ok := coerce.ParseFloat(fields[pos]); ok {
				v = parsed
			}
		}
		values = append(values, v)

		return true
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}
