package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type readerConfig struct {
	Threshold float64
	Column    string
	Dedup     bool
	Calls     []string
}

func withThreshold(v float64) Option[*readerConfig] {
	return New(func(c *readerConfig) error {
		if v <= 0 || v > 1 {
			return errors.New("threshold must be in (0, 1]")
		}
		c.Threshold = v
		c.Calls = append(c.Calls, "threshold")

		return nil
	})
}

func withColumn(name string) Option[*readerConfig] {
	return NoError(func(c *readerConfig) {
		c.Column = name
		c.Calls = append(c.Calls, "column")
	})
}

func withDedup(on bool) Option[*readerConfig] {
	return NoError(func(c *readerConfig) {
		c.Dedup = on
		c.Calls = append(c.Calls, "dedup")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &readerConfig{}

		err := Apply(cfg, withThreshold(0.5), withColumn("stg"), withDedup(true))
		require.NoError(t, err)
		require.Equal(t, 0.5, cfg.Threshold)
		require.Equal(t, "stg", cfg.Column)
		require.True(t, cfg.Dedup)
		require.Equal(t, []string{"threshold", "column", "dedup"}, cfg.Calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &readerConfig{}

		err := Apply(cfg, withColumn("stg"), withThreshold(2), withDedup(true))
		require.Error(t, err)
		require.Contains(t, err.Error(), "threshold must be in (0, 1]")
		require.Equal(t, []string{"column"}, cfg.Calls)
		require.False(t, cfg.Dedup)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &readerConfig{}

		err := Apply(cfg, nil, withColumn("nstg"))
		require.NoError(t, err)
		require.Equal(t, "nstg", cfg.Column)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &readerConfig{}
		require.NoError(t, Apply(cfg))
		require.Empty(t, cfg.Calls)
	})
}

func TestOption_PrimitiveTarget(t *testing.T) {
	var n int
	opt := NoError(func(p *int) { *p = 7 })

	require.NoError(t, opt.apply(&n))
	require.Equal(t, 7, n)
}
