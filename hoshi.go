// Package hoshi reads the output of the HOSHI stellar evolution code.
//
// A HOSHI model directory holds a summary log, appended to by every restart of
// the simulation, and per-stage structure profiles:
//
//	model/
//	    summary/summary.txt       one header + rows per run
//	    writestr/str00100.txt     profile written at stage 100
//
// The summary log contains one run segment per restart, and the stage ranges of
// the segments overlap. The history package indexes the segments and stitches
// them into one continuous series keyed by the stage counter.
//
// # Basic Usage
//
//	res, err := hoshi.Stitch("model")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.FirstStage, res.LastStage, res.Gaps)
//
// With a model handle, options and the combined-series cache:
//
//	m, _ := hoshi.NewModel("model", hoshi.WithLogger(logger))
//	h, err := m.History(history.WithCacheCompression(format.CompressionZstd))
//	if err != nil {
//	    return err
//	}
//	res, err := h.Combined(history.CacheUse)
//
// # Package Structure
//
// This package provides top-level shortcuts around the history package. Use
// history, coerce, search and block directly for fine-grained control.
package hoshi

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/header"
	"github.com/Tan-0321/HOSHI-WorkFlow/history"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/hash"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/options"
)

// WritestrDir names the profile directory inside a model directory.
const WritestrDir = "writestr"

// profileHeaderLine is the zero-based line holding a profile's column names.
const profileHeaderLine = 2

// ColumnID returns the 64-bit identifier of a column name.
//
// Identifiers are stable across runs and processes, so they can key columns in
// external indexes.
func ColumnID(name string) uint64 {
	return hash.ColumnID(name)
}

// OpenHistory indexes the summary log at path. path may be the log file, a
// summary directory or a model directory.
func OpenHistory(path string, opts ...history.Option) (*history.History, error) {
	return history.New(path, opts...)
}

// Stitch indexes the summary log at path and stitches its runs into one series.
func Stitch(path string, opts ...history.Option) (*history.StitchResult, error) {
	h, err := history.New(path, opts...)
	if err != nil {
		return nil, err
	}

	return h.Stitch()
}

type modelConfig struct {
	logger *zap.Logger
}

// ModelOption configures a Model.
type ModelOption = options.Option[*modelConfig]

// WithLogger sets the diagnostics sink of the model and of the histories it opens.
func WithLogger(logger *zap.Logger) ModelOption {
	return options.NoError(func(cfg *modelConfig) {
		if logger == nil {
			logger = zap.NewNop()
		}
		cfg.logger = logger
	})
}

// Model is a HOSHI model directory.
type Model struct {
	workDir     string
	summaryDir  string
	writestrDir string
	logger      *zap.Logger
}

// NewModel creates a Model rooted at workDir.
//
// Missing summary or writestr directories are logged at info level; the
// operations that need them fail when called.
func NewModel(workDir string, opts ...ModelOption) (*Model, error) {
	if workDir == "" {
		return nil, fmt.Errorf("%w: empty model directory", errs.ErrInvalidPath)
	}

	cfg := &modelConfig{logger: zap.NewNop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	m := &Model{
		workDir:     workDir,
		summaryDir:  filepath.Join(workDir, history.SummaryDir),
		writestrDir: filepath.Join(workDir, WritestrDir),
		logger:      cfg.logger.With(zap.String("model", workDir)),
	}
	m.checkDirs()

	return m, nil
}

func (m *Model) checkDirs() {
	for _, dir := range []string{m.summaryDir, m.writestrDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			m.logger.Info("model directory not found", zap.String("dir", filepath.Base(dir)))
		}
	}
}

// WorkDir returns the model directory.
func (m *Model) WorkDir() string {
	return m.workDir
}

// SummaryDir returns the summary directory.
func (m *Model) SummaryDir() string {
	return m.summaryDir
}

// WritestrDir returns the profile directory.
func (m *Model) WritestrDir() string {
	return m.writestrDir
}

// History opens the model's summary log. The model's logger is applied before opts.
func (m *Model) History(opts ...history.Option) (*history.History, error) {
	all := append([]history.Option{history.WithLogger(m.logger)}, opts...)
	return history.New(filepath.Join(m.summaryDir, history.SummaryFile), all...)
}

// ProfilePath returns the path of the profile written at stage.
func (m *Model) ProfilePath(stage int) string {
	return filepath.Join(m.writestrDir, fmt.Sprintf("str%05d.txt", stage))
}

// ProfileColumns returns the column names of the profile written at stage.
// They are read from the profile's third line.
func (m *Model) ProfileColumns(stage int) ([]string, error) {
	path := m.ProfilePath(stage)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrSourceNotFound, path)
		}

		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for line := 0; sc.Scan(); line++ {
		if line == profileHeaderLine {
			return header.Parse(sc.Text()), nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return nil, fmt.Errorf("%w: %s has fewer than %d lines", errs.ErrMissingHeader, path, profileHeaderLine+1)
}
