// Package errs defines the sentinel errors returned by the hoshi packages.
//
// Errors are wrapped with additional context using fmt.Errorf and %w, so callers
// should match them with errors.Is.
package errs

import "errors"

// Source and configuration errors.
var (
	ErrSourceNotFound         = errors.New("source file not found")
	ErrInvalidPath            = errors.New("invalid path")
	ErrMissingHeader          = errors.New("header line not found")
	ErrInvalidThreshold       = errors.New("invalid convertible-fraction threshold")
	ErrInvalidOverlap         = errors.New("invalid overlap row count")
	ErrUnsupportedCompression = errors.New("unsupported compression type")
)

// Run access and stitching errors.
var (
	ErrNoRuns               = errors.New("no runs found")
	ErrRunIndexOutOfRange   = errors.New("run index out of range")
	ErrColumnNotFound       = errors.New("column not found")
	ErrStageColumnNotFound  = errors.New("stage column not found")
	ErrNoStitchableRun      = errors.New("no run with stage data")
	ErrSchemaMismatch       = errors.New("column schema mismatch")
	ErrRowIndexOutOfRange   = errors.New("row index out of range")
	ErrColumnLengthMismatch = errors.New("column length mismatch")
)

// Search errors.
var (
	ErrEmptyInput = errors.New("empty input array")
	ErrNoMatch    = errors.New("no matching element")
)

// Block file errors.
var (
	ErrBlockNotFound     = errors.New("block not found")
	ErrLineOutOfRange    = errors.New("line index out of range")
	ErrMalformedBlock    = errors.New("malformed block header")
	ErrInvalidBlockIndex = errors.New("invalid block or line index")
)
