package history

import (
	"fmt"
	"math"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
)

// RemainingTime returns, for every row of the combined series, the sum of the
// timestep column from that row to the last row: the time left before the
// newest stage. It is typically plotted on a log axis to resolve late phases.
//
// Null steps contribute nothing. An unknown or non-numeric column fails with
// errs.ErrColumnNotFound.
func (r *StitchResult) RemainingTime(stepColumn string) ([]float64, error) {
	col, ok := r.Table.Column(stepColumn)
	if !ok || !col.Kind.IsNumeric() {
		return nil, fmt.Errorf("%w: numeric column %q", errs.ErrColumnNotFound, stepColumn)
	}

	steps := col.Float64s()
	out := make([]float64, len(steps))
	sum := 0.0
	for i := len(steps) - 1; i >= 0; i-- {
		if !math.IsNaN(steps[i]) {
			sum += steps[i]
		}
		out[i] = sum
	}

	return out, nil
}
