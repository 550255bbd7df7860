// Package block reads count-prefixed block files.
//
// A block file is a sequence of blocks. Each block starts with a line holding
// a bare integer N followed by N data lines:
//
//	2          # two entries follow
//	10
//	20
//	3
//	30
//	40
//	50
//
// Text after the comment delimiter is ignored anywhere in a line and blank
// lines are skipped. A block of size 0 contributes nothing.
package block

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/options"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/pool"
)

// DefaultDelimiter starts a comment.
const DefaultDelimiter = "#"

// Block is one block of a block file.
type Block struct {
	Index int      // 1-based position in the file
	Size  int      // declared number of data lines
	Lines []string // comment-stripped, trimmed data lines
}

type config struct {
	delimiter string
	logger    *zap.Logger
}

// Option configures an Extractor.
type Option = options.Option[*config]

// WithDelimiter sets the comment delimiter. An empty delimiter disables comments.
func WithDelimiter(delim string) Option {
	return options.NoError(func(c *config) {
		c.delimiter = delim
	})
}

// WithLogger sets the diagnostics sink.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

// Extractor reads blocks from one file. The file is opened per call.
type Extractor struct {
	path      string
	delimiter string
	logger    *zap.Logger
}

// New creates an Extractor for the block file at path.
func New(path string, opts ...Option) (*Extractor, error) {
	cfg := &config{delimiter: DefaultDelimiter, logger: zap.NewNop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", errs.ErrSourceNotFound, path)
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", path, err)
	case info.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", errs.ErrInvalidPath, path)
	}

	return &Extractor{
		path:      path,
		delimiter: cfg.delimiter,
		logger:    cfg.logger.With(zap.String("path", path)),
	}, nil
}

// Path returns the block file path.
func (e *Extractor) Path() string {
	return e.path
}

// Line returns data line lineIdx of block blockIdx, both 1-based.
//
// A line index beyond the block's declared size fails with
// errs.ErrLineOutOfRange without reading past the block header. A block that
// does not exist, or is cut short by the end of the file, fails with
// errs.ErrBlockNotFound.
func (e *Extractor) Line(blockIdx, lineIdx int) (string, error) {
	if blockIdx < 1 || lineIdx < 1 {
		return "", fmt.Errorf("%w: block %d line %d", errs.ErrInvalidBlockIndex, blockIdx, lineIdx)
	}

	var (
		found  string
		ok     bool
		outErr error
	)
	err := e.walk(func(ev event) bool {
		if ev.block != blockIdx {
			return ev.block < blockIdx
		}
		if ev.pos == 0 {
			if lineIdx > ev.size {
				outErr = fmt.Errorf("%w: line %d out of range for block %d of size %d",
					errs.ErrLineOutOfRange, lineIdx, blockIdx, ev.size)

				return false
			}

			return true
		}
		if ev.pos == lineIdx {
			found, ok = ev.text, true
			return false
		}

		return true
	})
	if err != nil {
		return "", err
	}
	if outErr != nil {
		return "", outErr
	}
	if !ok {
		e.logger.Debug("block not found", zap.Int("block", blockIdx), zap.Int("line", lineIdx))
		return "", fmt.Errorf("%w: block %d line %d", errs.ErrBlockNotFound, blockIdx, lineIdx)
	}

	return found, nil
}

// All returns every block of the file. A final block cut short by the end of
// the file fails with errs.ErrBlockNotFound.
func (e *Extractor) All() ([]Block, error) {
	var blocks []Block
	err := e.walk(func(ev event) bool {
		if ev.pos == 0 {
			blocks = append(blocks, Block{Index: ev.block, Size: ev.size, Lines: make([]string, 0, ev.size)})
			return true
		}
		last := &blocks[len(blocks)-1]
		last.Lines = append(last.Lines, ev.text)

		return true
	})
	if err != nil {
		return nil, err
	}

	if n := len(blocks); n > 0 && len(blocks[n-1].Lines) < blocks[n-1].Size {
		return nil, fmt.Errorf("%w: block %d truncated after %d of %d lines",
			errs.ErrBlockNotFound, n, len(blocks[n-1].Lines), blocks[n-1].Size)
	}

	return blocks, nil
}

// event is one step of the block state machine: a block header (pos 0) or
// data line pos of the block.
type event struct {
	block int
	size  int
	pos   int
	text  string
}

// walk runs the two-state machine over the file, calling visit for every header
// and data line until visit returns false.
func (e *Extractor) walk(visit func(ev event) bool) error {
	f, err := os.Open(e.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", e.path, err)
	}
	defer f.Close()

	bb := pool.GetScanBuffer()
	defer pool.PutScanBuffer(bb)

	sc := bufio.NewScanner(f)
	sc.Buffer(bb.B[:cap(bb.B)], pool.MaxLineSize)

	var (
		block     int
		size      int
		remaining int // zero while awaiting a block header
		lineNo    int
	)
	for sc.Scan() {
		lineNo++
		text := e.strip(sc.Text())
		if text == "" {
			continue
		}

		if remaining == 0 {
			n, err := strconv.Atoi(text)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: line %d: %q is not a block size", errs.ErrMalformedBlock, lineNo, text)
			}
			block++
			size, remaining = n, n
			if !visit(event{block: block, size: size}) {
				return nil
			}

			continue
		}

		pos := size - remaining + 1
		remaining--
		if !visit(event{block: block, size: size, pos: pos, text: text}) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", e.path, err)
	}

	return nil
}

func (e *Extractor) strip(line string) string {
	if e.delimiter != "" {
		if i := strings.Index(line, e.delimiter); i >= 0 {
			line = line[:i]
		}
	}

	return strings.TrimSpace(line)
}
