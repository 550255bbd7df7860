package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/format"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hoshi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "stg", cfg.StageColumn)
	require.Equal(t, int64(1), cfg.StartStage)
	require.Equal(t, 0.99, cfg.Threshold)
	require.Equal(t, 1, cfg.OverlapRows)
	require.True(t, cfg.Dedup)
	require.Empty(t, cfg.CachePath)
	require.NoError(t, cfg.validate())
	require.Equal(t, format.CompressionNone, cfg.compression)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
stage_column: nstg
start_stage: 5
threshold: 0.9
prefer_int: true
integer_columns: [nstg, model]
overlap_rows: 2
dedup: false
cache_compression: zstd
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "nstg", cfg.StageColumn)
	require.Equal(t, int64(5), cfg.StartStage)
	require.Equal(t, 0.9, cfg.Threshold)
	require.True(t, cfg.PreferInt)
	require.Equal(t, []string{"nstg", "model"}, cfg.IntegerColumns)
	require.Equal(t, 2, cfg.OverlapRows)
	require.False(t, cfg.Dedup)
	require.Equal(t, format.CompressionZstd, cfg.compression)
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "overlap_rows: 3\n"))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.OverlapRows)
	require.Equal(t, DefaultStageColumn, cfg.StageColumn)
	require.True(t, cfg.Dedup)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"threshold above one", "threshold: 1.5\n", errs.ErrInvalidThreshold},
		{"zero threshold", "threshold: 0\n", errs.ErrInvalidThreshold},
		{"negative overlap", "overlap_rows: -1\n", errs.ErrInvalidOverlap},
		{"unknown compression", "cache_compression: brotli\n", errs.ErrUnsupportedCompression},
		{"empty stage column", "stage_column: \"\"\n", errs.ErrStageColumnNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := LoadConfig(writeConfig(t, "threshold: [1, 2\n"))
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWithConfig(t *testing.T) {
	path := writeModel(t,
		runLines(1, stageRange(1, 100)...),
		runLines(2, stageRange(80, 150)...),
	)

	cfg, err := LoadConfig(writeConfig(t, "dedup: false\nstart_stage: 50\n"))
	require.NoError(t, err)

	logger, logs := observed(zapcore.DebugLevel)
	h, err := New(path, WithLogger(logger), WithConfig(cfg))
	require.NoError(t, err)
	require.False(t, h.Config().Dedup)

	res, err := h.Stitch()
	require.NoError(t, err)
	require.Equal(t, 151, res.Table.Len())
	require.True(t, res.Complete)
	require.Positive(t, logs.Len(), "WithConfig keeps the logger")
}

func TestWithCacheCompression_Invalid(t *testing.T) {
	path := writeModel(t, runLines(1, 1))

	_, err := New(path, WithCacheCompression(format.CompressionType(0)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	h, err := New(path, WithCacheCompression(format.CompressionLZ4))
	require.NoError(t, err)
	require.Equal(t, "LZ4", h.Config().CacheCompression)
}

func TestWithIntegerColumns(t *testing.T) {
	path := writeModel(t, []string{"#  1:stg  2:model", "  1  3", "  2  4"})

	h, err := New(path, WithIntegerColumns("model"))
	require.NoError(t, err)

	tbl, err := h.ReadRun(1)
	require.NoError(t, err)
	require.Equal(t, []format.ColumnKind{format.KindFloat, format.KindInt}, tbl.Kinds())

	h, err = New(path, WithPreferInt(true))
	require.NoError(t, err)

	tbl, err = h.ReadRun(1)
	require.NoError(t, err)
	require.Equal(t, []format.ColumnKind{format.KindInt, format.KindInt}, tbl.Kinds())
}
