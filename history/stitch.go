package history

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/table"
)

// StitchResult is one continuous series reconstructed from the runs of a log.
type StitchResult struct {
	// Table holds the combined rows, ordered by increasing stage.
	Table *table.Table
	// Gaps lists the stages in [FirstStage, LastStage] that no row carries.
	Gaps []int64
	// FirstStage and LastStage bound the stage column; both are zero for an empty table.
	FirstStage int64
	LastStage  int64
	// Complete reports whether the series reaches the configured start stage.
	Complete bool
	// RunsUsed lists the 1-based indices of the contributing runs, oldest first.
	// It is nil for a result loaded from the cache.
	RunsUsed []int
	// Cached reports whether the result was loaded from the cache file.
	Cached bool
}

// stitchOutcome is the result of folding one older run into the series.
type stitchOutcome int

const (
	outcomeContinue stitchOutcome = iota
	outcomeReachedStart
	outcomeExhausted
	outcomeSchemaMismatch
)

func (o stitchOutcome) String() string {
	switch o {
	case outcomeContinue:
		return "continue"
	case outcomeReachedStart:
		return "reachedStart"
	case outcomeExhausted:
		return "exhausted"
	case outcomeSchemaMismatch:
		return "schemaMismatch"
	default:
		return "unknown"
	}
}

// stitchState is the accumulated series of a backward walk.
type stitchState struct {
	series *table.Table
	stages []int64
	runs   []int
}

func (s *stitchState) first() int64 {
	return s.stages[0]
}

func (s *stitchState) target() int64 {
	return s.first() - 1
}

// stagedRun is a run table with its non-null stage values.
type stagedRun struct {
	run    Run
	table  *table.Table
	stages []int64
}

// Stitch walks the runs from newest to oldest and splices each older run in
// front of the accumulated series at the stage just before it starts.
//
// A run that does not contain the splice target has been superseded by a later
// restart and is skipped. The walk ends when the start stage is reached, the
// runs are exhausted, or an older run has a different column layout; the last
// two return the partial series.
func (h *History) Stitch() (*StitchResult, error) {
	if len(h.runs) == 0 {
		return nil, errs.ErrNoRuns
	}

	state, next, err := h.seed()
	if err != nil {
		return nil, err
	}

	outcome := outcomeContinue
	if state.first() <= h.cfg.StartStage {
		outcome = outcomeReachedStart
	}
	for outcome == outcomeContinue {
		if next < 0 {
			outcome = outcomeExhausted
			break
		}

		run := h.runs[next]
		outcome, err = h.fold(state, run)
		if err != nil {
			return nil, err
		}
		if outcome == outcomeSchemaMismatch {
			h.logger.Warn("stitch stopped at a run with a different column layout",
				zap.Int("run", run.Index),
				zap.Int64("earliest_stage", state.first()),
			)
		}
		next--
	}

	if outcome == outcomeExhausted {
		h.logger.Info("runs exhausted before reaching start stage",
			zap.Int64("earliest_stage", state.first()),
			zap.Int64("start_stage", h.cfg.StartStage),
		)
	}

	return h.finish(state, outcome == outcomeReachedStart), nil
}

// seed returns the newest run with rows as the initial state, along with the
// position of the next-older run.
func (h *History) seed() (*stitchState, int, error) {
	for i := len(h.runs) - 1; i >= 0; i-- {
		sr, err := h.staged(h.runs[i])
		if errors.Is(err, errs.ErrStageColumnNotFound) {
			h.logger.Warn("run has no stage column", zap.Int("run", h.runs[i].Index))
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		if len(sr.stages) == 0 {
			continue
		}

		return &stitchState{
			series: sr.table,
			stages: sr.stages,
			runs:   []int{sr.run.Index},
		}, i - 1, nil
	}

	return nil, 0, fmt.Errorf("%w: no run has rows with column %q", errs.ErrNoStitchableRun, h.cfg.StageColumn)
}

// fold reads an older run and folds it into s. A run without the stage
// column cannot share the series layout.
func (h *History) fold(s *stitchState, run Run) (stitchOutcome, error) {
	older, err := h.staged(run)
	if errors.Is(err, errs.ErrStageColumnNotFound) {
		return outcomeSchemaMismatch, nil
	}
	if err != nil {
		return outcomeContinue, err
	}

	return h.step(s, older)
}

// step splices older in front of s.
func (h *History) step(s *stitchState, older stagedRun) (stitchOutcome, error) {
	target := s.target()
	at := slices.Index(older.stages, target)
	if at < 0 {
		h.logger.Warn("run superseded by a later restart",
			zap.Int("run", older.run.Index),
			zap.Int64("target_stage", target),
		)

		return outcomeContinue, nil
	}
	if !table.SameSchema(older.table, s.series) {
		return outcomeSchemaMismatch, nil
	}

	end := at + 1
	for carried := 0; carried < h.cfg.OverlapRows && end < len(older.stages); carried++ {
		if older.stages[end] > s.first() {
			break
		}
		end++
	}

	head, err := older.table.Slice(0, end)
	if err != nil {
		return outcomeContinue, err
	}
	series, err := table.Concat(head, s.series)
	if err != nil {
		return outcomeContinue, err
	}

	s.series = series
	s.stages = append(slices.Clone(older.stages[:end]), s.stages...)
	s.runs = append([]int{older.run.Index}, s.runs...)

	h.logger.Debug("spliced run",
		zap.Int("run", older.run.Index),
		zap.Int64("target_stage", target),
		zap.Int("rows", end),
	)

	if s.first() <= h.cfg.StartStage {
		return outcomeReachedStart, nil
	}

	return outcomeContinue, nil
}

func (h *History) finish(s *stitchState, complete bool) *StitchResult {
	series, stages := s.series, s.stages
	if h.cfg.Dedup {
		series, stages = dedupStages(series, stages)
	}

	for i := 1; i < len(stages); i++ {
		if stages[i] <= stages[i-1] {
			h.logger.Warn("stage column is not strictly increasing",
				zap.Int("row", i),
				zap.Int64("stage", stages[i]),
				zap.Int64("previous", stages[i-1]),
			)

			break
		}
	}

	res := summarize(series, stages)
	res.Complete = complete
	res.RunsUsed = s.runs
	h.reportGaps(res.Gaps)

	return res
}

func (h *History) reportGaps(gaps []int64) {
	if len(gaps) == 0 {
		return
	}

	h.logger.Warn("stages missing from combined series",
		zap.Int("count", len(gaps)),
		zap.Int64s("stages", gaps),
	)
}

// staged reads a run and drops the rows whose stage is null.
func (h *History) staged(run Run) (stagedRun, error) {
	tbl, err := h.readRun(run)
	if err != nil {
		return stagedRun{}, err
	}

	kept, stages, err := stageRows(tbl, h.cfg.StageColumn)
	if err != nil {
		return stagedRun{}, fmt.Errorf("run %d: %w", run.Index, err)
	}

	return stagedRun{run: run, table: kept, stages: stages}, nil
}

// stageRows returns the rows of t with a non-null integral stage, and those stages.
func stageRows(t *table.Table, column string) (*table.Table, []int64, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", errs.ErrStageColumnNotFound, column)
	}

	stages := make([]int64, 0, t.Len())
	complete := true
	for i := 0; i < t.Len(); i++ {
		v, ok := col.Int(i)
		if !ok {
			complete = false
			continue
		}
		stages = append(stages, v)
	}
	if complete {
		return t, stages, nil
	}

	kept := t.Filter(func(row int) bool {
		_, ok := col.Int(row)
		return ok
	})

	return kept, stages, nil
}

// dedupStages drops a row when the next row carries the same stage, so the
// newer of two boundary rows survives.
func dedupStages(t *table.Table, stages []int64) (*table.Table, []int64) {
	dup := 0
	for i := 0; i+1 < len(stages); i++ {
		if stages[i] == stages[i+1] {
			dup++
		}
	}
	if dup == 0 {
		return t, stages
	}

	kept := make([]int64, 0, len(stages)-dup)
	out := t.Filter(func(row int) bool {
		keep := row+1 >= len(stages) || stages[row] != stages[row+1]
		if keep {
			kept = append(kept, stages[row])
		}

		return keep
	})

	return out, kept
}

// summarize fills the stage bounds and gap set of a combined table.
func summarize(t *table.Table, stages []int64) *StitchResult {
	res := &StitchResult{Table: t}
	if len(stages) == 0 {
		return res
	}

	res.FirstStage = stages[0]
	res.LastStage = stages[len(stages)-1]
	res.Gaps = stageGaps(stages)

	return res
}

// stageGaps returns the integers between the smallest and largest stage that
// are absent from stages, each once and in increasing order.
func stageGaps(stages []int64) []int64 {
	distinct := slices.Compact(slices.Sorted(slices.Values(stages)))

	var gaps []int64
	for i := 1; i < len(distinct); i++ {
		for s := distinct[i-1] + 1; s < distinct[i]; s++ {
			gaps = append(gaps, s)
		}
	}

	return gaps
}
