package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Tan-0321/HOSHI-WorkFlow/coerce"
	"github.com/Tan-0321/HOSHI-WorkFlow/compress"
	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/format"
	"github.com/Tan-0321/HOSHI-WorkFlow/header"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/pool"
	"github.com/Tan-0321/HOSHI-WorkFlow/table"
)

// CachePolicy selects how Combined uses the combined-series cache file.
type CachePolicy uint8

const (
	// CacheIgnore always stitches and never touches the cache file.
	CacheIgnore CachePolicy = iota
	// CacheUse loads the cache when present, otherwise stitches and writes it.
	CacheUse
	// CacheRefresh always stitches and overwrites the cache.
	CacheRefresh
)

func (p CachePolicy) String() string {
	switch p {
	case CacheIgnore:
		return "ignore"
	case CacheUse:
		return "use"
	case CacheRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Cell layout of the cache file.
const (
	floatPrecision = 8
	floatMinWidth  = 16
	cellSeparator  = "  "
	numericNull    = "NaN"
	textNull       = "---"
	kindsMarker    = "#kinds:"
)

// CachePath returns the cache location: the configured path, or
// summary_combined.txt next to the summary log.
func (h *History) CachePath() string {
	if h.cfg.CachePath != "" {
		return h.cfg.CachePath
	}

	return filepath.Join(filepath.Dir(h.path), DefaultCacheName)
}

// Combined returns the stitched series, using the cache file as policy says.
//
// Under CacheUse an existing cache is returned as is, even when the log has grown
// since it was written; use CacheRefresh to rebuild it. An unreadable cache is
// logged and rebuilt. A cache that cannot be written is logged and the stitched
// series is still returned.
func (h *History) Combined(policy CachePolicy) (*StitchResult, error) {
	path := h.CachePath()

	switch policy {
	case CacheIgnore:
		return h.Stitch()
	case CacheUse:
		res, err := h.loadCache(path)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.Warn("combined cache unreadable, rebuilding",
				zap.String("cache", path),
				zap.Error(err),
			)
		}
	case CacheRefresh:
	default:
		return nil, fmt.Errorf("unknown cache policy %d", policy)
	}

	res, err := h.Stitch()
	if err != nil {
		return nil, err
	}
	if err := h.writeCache(path, res.Table); err != nil {
		h.logger.Warn("combined cache not written",
			zap.String("cache", path),
			zap.Error(err),
		)
	}

	return res, nil
}

func (h *History) loadCache(path string) (*StitchResult, error) {
	tbl, err := readCache(path, h.coercer, h.cfg.compression, h.logger)
	if err != nil {
		return nil, err
	}

	kept, stages, err := stageRows(tbl, h.cfg.StageColumn)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}

	res := summarize(kept, stages)
	res.Complete = len(stages) > 0 && res.FirstStage <= h.cfg.StartStage
	res.Cached = true
	h.reportGaps(res.Gaps)

	h.logger.Debug("loaded combined cache",
		zap.String("cache", path),
		zap.Int("rows", kept.Len()),
	)

	return res, nil
}

func (h *History) writeCache(path string, t *table.Table) error {
	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)

	l := layoutCombined(t)
	bb.Grow(l.size())
	if err := l.write(bb); err != nil {
		return err
	}

	data, stats, err := compress.CompressWithStats(h.cfg.compression, bb.Bytes())
	if err != nil {
		return err
	}
	h.logger.Debug("encoded combined cache",
		zap.String("cache", path),
		zap.Stringer("compression", stats.Algorithm),
		zap.Int64("original", stats.OriginalSize),
		zap.Int64("compressed", stats.CompressedSize),
		zap.Float64("ratio", stats.CompressionRatio()),
		zap.Int64("elapsed_ns", stats.CompressionTimeNs),
	)

	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temporary file beside path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)

		return fmt.Errorf("write cache %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close cache %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename cache %s: %w", path, err)
	}

	return nil
}

// ReadCombined reads a cache file written by Combined or WriteCombined. The
// cache compression and coercion settings are taken from opts.
func ReadCombined(path string, opts ...Option) (*table.Table, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	coercer, err := cfg.coercer()
	if err != nil {
		return nil, err
	}

	return readCache(path, coercer, cfg.compression, cfg.logger)
}

func readCache(path string, coercer *coerce.Coercer, ct format.CompressionType, logger *zap.Logger) (*table.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	text, stats, err := compress.DecompressWithStats(ct, raw)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}
	logger.Debug("decoded combined cache",
		zap.String("cache", path),
		zap.Stringer("compression", stats.Algorithm),
		zap.Int64("compressed", stats.CompressedSize),
		zap.Int64("original", stats.OriginalSize),
		zap.Int64("elapsed_ns", stats.DecompressionTimeNs),
	)

	tbl, err := parseCombined(bytes.NewReader(text), coercer)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", path, err)
	}

	return tbl, nil
}

// parseCombined reads the cache text layout. Column kinds come from the kinds
// line; a cache without one is typed by coercer. Lines after a second header
// are ignored.
func parseCombined(r io.Reader, coercer *coerce.Coercer) (*table.Table, error) {
	var (
		raw     *table.Raw
		kinds   []format.ColumnKind
		kindErr error
		headers int
	)
	_, err := scanReader(r, func(_ int, line string) bool {
		if rest, ok := strings.CutPrefix(line, kindsMarker); ok {
			kinds, kindErr = parseKinds(rest)
			return kindErr == nil
		}
		if header.IsHeader(line) {
			headers++
			if headers > 1 {
				return false
			}
			raw = table.NewRaw(header.Parse(line), 0)

			return true
		}
		if raw == nil {
			return true
		}
		if fields, ok := dataFields(line); ok {
			raw.AppendRow(fields)
		}

		return true
	})
	switch {
	case err != nil:
		return nil, err
	case kindErr != nil:
		return nil, kindErr
	case raw == nil:
		return nil, errs.ErrNoRuns
	case kinds == nil:
		return coercer.Coerce(raw)
	case len(kinds) != len(raw.Names):
		return nil, fmt.Errorf("%w: %d kinds for %d columns", errs.ErrSchemaMismatch, len(kinds), len(raw.Names))
	}

	columns := make([]table.Column, len(raw.Names))
	for i, name := range raw.Names {
		if columns[i], err = coerce.ColumnAs(name, raw.Cells[i], kinds[i]); err != nil {
			return nil, err
		}
	}

	return table.New(columns...)
}

func parseKinds(line string) ([]format.ColumnKind, error) {
	fields := strings.Fields(line)
	kinds := make([]format.ColumnKind, len(fields))
	for i, f := range fields {
		kind, err := format.ParseColumnKind(f)
		if err != nil {
			return nil, err
		}
		kinds[i] = kind
	}

	return kinds, nil
}

// WriteCombined writes t in the cache text layout: a header line of column
// names, a kinds line, then one fixed-width row per record. Int columns are
// right-justified integers, Float columns %.8E, Text columns left-justified.
// Null cells are written as NaN (numeric) or --- (text).
func WriteCombined(w io.Writer, t *table.Table) error {
	return layoutCombined(t).write(w)
}

// combinedLayout is a table formatted into fixed-width cells.
type combinedLayout struct {
	t      *table.Table
	cells  [][]string
	widths []int
}

func layoutCombined(t *table.Table) combinedLayout {
	l := combinedLayout{
		t:      t,
		cells:  make([][]string, t.Width()),
		widths: make([]int, t.Width()),
	}
	for c := range l.cells {
		col := t.ColumnAt(c)
		l.cells[c] = formatColumn(col)
		l.widths[c] = len(col.Name)
		if col.Kind == format.KindFloat {
			l.widths[c] = max(l.widths[c], floatMinWidth)
		}
		for _, s := range l.cells[c] {
			l.widths[c] = max(l.widths[c], len(s))
		}
	}

	return l
}

// size returns the encoded length in bytes.
func (l combinedLayout) size() int {
	row := 2 // leading marker or space, newline
	kinds := len(kindsMarker) + 1
	for c, w := range l.widths {
		row += len(cellSeparator) + w
		kinds += 1 + len(kindName(l.t.ColumnAt(c).Kind))
	}

	return row*(l.t.Len()+1) + kinds
}

func (l combinedLayout) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteByte(header.Marker)
	for c := range l.cells {
		bw.WriteString(cellSeparator)
		writePadded(bw, l.t.ColumnAt(c).Name, l.widths[c], l.t.ColumnAt(c).Kind != format.KindText)
	}
	bw.WriteByte('\n')

	bw.WriteString(kindsMarker)
	for c := range l.cells {
		bw.WriteByte(' ')
		bw.WriteString(kindName(l.t.ColumnAt(c).Kind))
	}
	bw.WriteByte('\n')

	for r := 0; r < l.t.Len(); r++ {
		bw.WriteByte(' ')
		for c := range l.cells {
			bw.WriteString(cellSeparator)
			writePadded(bw, l.cells[c][r], l.widths[c], l.t.ColumnAt(c).Kind != format.KindText)
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func kindName(kind format.ColumnKind) string {
	return strings.ToLower(kind.String())
}

func formatColumn(col *table.Column) []string {
	out := make([]string, col.Len())
	for i := range out {
		switch {
		case col.IsNull(i) && col.Kind == format.KindText:
			out[i] = textNull
		case col.IsNull(i):
			out[i] = numericNull
		case col.Kind == format.KindFloat:
			out[i] = formatFloat(col.Floats[i])
		default:
			out[i] = col.Text(i)
		}
	}

	return out
}

func formatFloat(v float64) string {
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	return strconv.FormatFloat(v, 'E', floatPrecision, 64)
}

func writePadded(bw *bufio.Writer, s string, width int, right bool) {
	pad := strings.Repeat(" ", max(width-len(s), 0))
	if right {
		bw.WriteString(pad)
		bw.WriteString(s)

		return
	}
	bw.WriteString(s)
	bw.WriteString(pad)
}
