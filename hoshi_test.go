package hoshi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/history"
)

func summaryRun(lo, hi int) []string {
	lines := []string{"#    1:stg    2:time"}
	for s := lo; s <= hi; s++ {
		lines = append(lines, fmt.Sprintf("  %5d  %.8E", s, float64(s)*1.0e3))
	}

	return lines
}

// newModelDir creates a model directory with a two-run summary log.
func newModelDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, history.SummaryDir), 0o755))

	lines := append(summaryRun(1, 100), summaryRun(81, 150)...)
	path := filepath.Join(dir, history.SummaryDir, history.SummaryFile)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	return dir
}

func TestColumnID(t *testing.T) {
	require.Equal(t, ColumnID("stg"), ColumnID("stg"))
	require.NotEqual(t, ColumnID("stg"), ColumnID("nstg"))
}

func TestStitch(t *testing.T) {
	dir := newModelDir(t)

	res, err := Stitch(dir)
	require.NoError(t, err)
	require.Equal(t, int64(1), res.FirstStage)
	require.Equal(t, int64(150), res.LastStage)
	require.Empty(t, res.Gaps)
	require.Equal(t, 150, res.Table.Len())

	_, err = Stitch(filepath.Join(dir, "nope"))
	require.ErrorIs(t, err, errs.ErrSourceNotFound)
}

func TestOpenHistory(t *testing.T) {
	h, err := OpenHistory(filepath.Join(newModelDir(t), history.SummaryDir))
	require.NoError(t, err)
	require.Equal(t, 2, h.CountRuns())
}

func TestNewModel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dir := newModelDir(t)

	m, err := NewModel(dir, WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Equal(t, dir, m.WorkDir())
	require.Equal(t, filepath.Join(dir, "summary"), m.SummaryDir())
	require.Equal(t, filepath.Join(dir, "writestr"), m.WritestrDir())

	missing := logs.FilterMessage("model directory not found").All()
	require.Len(t, missing, 1, "only writestr is missing")
	require.Equal(t, "writestr", missing[0].ContextMap()["dir"])

	h, err := m.History()
	require.NoError(t, err)

	res, err := h.Combined(history.CacheRefresh)
	require.NoError(t, err)
	require.True(t, res.Complete)
	require.FileExists(t, filepath.Join(dir, "summary", history.DefaultCacheName))
	require.Positive(t, logs.Len())

	_, err = NewModel("")
	require.ErrorIs(t, err, errs.ErrInvalidPath)
}

func TestModel_Profiles(t *testing.T) {
	dir := t.TempDir()
	m, err := NewModel(dir)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "writestr", "str00100.txt"), m.ProfilePath(100))
	require.Equal(t, filepath.Join(dir, "writestr", "str12345.txt"), m.ProfilePath(12345))

	_, err = m.ProfileColumns(100)
	require.ErrorIs(t, err, errs.ErrSourceNotFound)

	require.NoError(t, os.MkdirAll(m.WritestrDir(), 0o755))
	profile := "# stage 100\n   100  3.15E+13\n#  1:j  2:r  3:temp  4:rho\n  1  0.0  1.0E+07  1.5E+02\n"
	require.NoError(t, os.WriteFile(m.ProfilePath(100), []byte(profile), 0o644))

	cols, err := m.ProfileColumns(100)
	require.NoError(t, err)
	require.Equal(t, []string{"j", "r", "temp", "rho"}, cols)

	require.NoError(t, os.WriteFile(m.ProfilePath(200), []byte("# short\n"), 0o644))
	_, err = m.ProfileColumns(200)
	require.ErrorIs(t, err, errs.ErrMissingHeader)
}
