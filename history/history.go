// Package history reads the summary log of a restartable HOSHI simulation.
//
// Every restart of the simulation appends a new header line followed by the rows
// of that run, so the log is a sequence of run segments whose stage ranges
// overlap. A History scans the log once at construction, indexes every run, and
// then serves individual runs as typed tables (ReadRun) or one continuous series
// stitched from all runs (Stitch, Combined).
//
// # Basic Usage
//
//	h, err := history.New("model/summary/summary.txt",
//	    history.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//
//	last, err := h.ReadRun(-1)           // newest run
//	res, err := h.Combined(history.CacheUse)
//	fmt.Println(res.FirstStage, res.LastStage, res.Gaps)
//
// The run index is built once; construct a new History to observe a log that has
// grown since. Every operation opens, reads and closes the file; no handle is
// retained between calls.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Tan-0321/HOSHI-WorkFlow/coerce"
	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/header"
)

// SummaryDir and SummaryFile name the summary log inside a model directory.
const (
	SummaryDir  = "summary"
	SummaryFile = "summary.txt"
)

// Run describes one run segment of the log. Line indices are zero-based and
// inclusive; a run without data rows has LastDataLine < FirstDataLine.
type Run struct {
	Index         int      // 1-based position in the log
	Header        string   // raw header line
	HeaderLine    int      // line index of the header
	FirstDataLine int      // line index of the first data row
	LastDataLine  int      // line index of the last data row
	Columns       []string // column names parsed from the header
}

// DataLines returns the number of lines between FirstDataLine and LastDataLine.
func (r Run) DataLines() int {
	if r.LastDataLine < r.FirstDataLine {
		return 0
	}

	return r.LastDataLine - r.FirstDataLine + 1
}

// History indexes the runs of one summary log.
type History struct {
	path       string
	cfg        Config
	coercer    *coerce.Coercer
	logger     *zap.Logger
	runs       []Run
	totalLines int
}

// New opens the summary log at path and indexes its runs.
//
// path may be the log file itself, a "summary" directory holding summary.txt, or
// a model directory holding summary/summary.txt. A missing log fails with
// errs.ErrSourceNotFound.
func New(path string, opts ...Option) (*History, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	coercer, err := cfg.coercer()
	if err != nil {
		return nil, err
	}

	h := &History{
		path:    resolved,
		cfg:     cfg,
		coercer: coercer,
		logger:  cfg.logger.With(zap.String("path", resolved)),
	}
	if err := h.index(); err != nil {
		return nil, err
	}

	return h, nil
}

// ResolvePath maps a file, summary directory or model directory to the summary log path.
func ResolvePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", errs.ErrSourceNotFound, path)
		}

		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return path, nil
	}

	candidate := filepath.Join(path, SummaryDir, SummaryFile)
	if filepath.Base(filepath.Clean(path)) == SummaryDir {
		candidate = filepath.Join(path, SummaryFile)
	}

	info, err = os.Stat(candidate)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %s", errs.ErrSourceNotFound, candidate)
	case err != nil:
		return "", fmt.Errorf("stat %s: %w", candidate, err)
	case info.IsDir():
		return "", fmt.Errorf("%w: %s is a directory", errs.ErrInvalidPath, candidate)
	}

	return candidate, nil
}

func (h *History) index() error {
	type mark struct {
		line int
		text string
	}

	var marks []mark
	lines, err := scanFile(h.path, func(idx int, line string) bool {
		if header.IsHeader(line) {
			marks = append(marks, mark{line: idx, text: line})
		}

		return true
	})
	if err != nil {
		return err
	}

	h.totalLines = lines
	h.runs = make([]Run, len(marks))
	for i, m := range marks {
		last := lines - 1
		if i+1 < len(marks) {
			last = marks[i+1].line - 1
		}
		h.runs[i] = Run{
			Index:         i + 1,
			Header:        m.text,
			HeaderLine:    m.line,
			FirstDataLine: m.line + 1,
			LastDataLine:  last,
			Columns:       header.Parse(m.text),
		}
	}

	h.logger.Debug("indexed summary log",
		zap.Int("lines", lines),
		zap.Int("runs", len(h.runs)),
	)

	return nil
}

// Path returns the resolved log path.
func (h *History) Path() string {
	return h.path
}

// Config returns the settings the History was built with.
func (h *History) Config() Config {
	return h.cfg
}

// CountRuns returns the number of runs, which equals the number of header lines.
func (h *History) CountRuns() int {
	return len(h.runs)
}

// TotalLines returns the number of lines in the log at construction time.
func (h *History) TotalLines() int {
	return h.totalLines
}

// Runs returns a copy of the run descriptors in log order.
func (h *History) Runs() []Run {
	out := make([]Run, len(h.runs))
	copy(out, h.runs)

	return out
}

// Run returns the descriptor of the run at a 1-based index. Negative indices
// count from the end: -1 is the newest run.
func (h *History) Run(index int) (Run, error) {
	n := len(h.runs)
	if n == 0 {
		return Run{}, errs.ErrNoRuns
	}

	pos := index - 1
	if index < 0 {
		pos = n + index
	}
	if index == 0 || pos < 0 || pos >= n {
		return Run{}, fmt.Errorf("%w: %d not in [1, %d] or [-%d, -1]", errs.ErrRunIndexOutOfRange, index, n, n)
	}

	return h.runs[pos], nil
}

// Columns returns the column names of the first header, or nil when the log
// has no header.
func (h *History) Columns() []string {
	if len(h.runs) == 0 {
		return nil
	}

	return append([]string(nil), h.runs[0].Columns...)
}
