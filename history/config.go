package history

import (
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Tan-0321/HOSHI-WorkFlow/coerce"
	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
	"github.com/Tan-0321/HOSHI-WorkFlow/format"
	"github.com/Tan-0321/HOSHI-WorkFlow/internal/options"
)

// Defaults for a HOSHI summary log.
const (
	DefaultStageColumn = "stg"
	DefaultStartStage  = 1
	DefaultOverlapRows = 1
	DefaultCacheName   = "summary_combined.txt"
)

// Config holds reader, stitcher and cache settings.
//
// The exported fields can be loaded from YAML with LoadConfig and applied with
// WithConfig; the logger is only set through WithLogger.
type Config struct {
	// StageColumn names the checkpoint counter used as the splice key.
	StageColumn string `yaml:"stage_column"`
	// StartStage is the earliest stage the stitcher tries to reach.
	StartStage int64 `yaml:"start_stage"`
	// Threshold is the coercer's minimum convertible fraction.
	Threshold float64 `yaml:"threshold"`
	// PreferInt types exact-integer columns as nullable ints instead of floats.
	PreferInt bool `yaml:"prefer_int"`
	// IntegerColumns are always typed as nullable ints. Nil keeps the coercer defaults.
	IntegerColumns []string `yaml:"integer_columns"`
	// OverlapRows is the number of rows carried past a splice match.
	OverlapRows int `yaml:"overlap_rows"`
	// Dedup removes adjacent rows with equal stage, keeping the newer row.
	Dedup bool `yaml:"dedup"`
	// CachePath overrides the combined-series cache location.
	CachePath string `yaml:"cache_path"`
	// CacheCompression is one of "none", "zstd", "s2", "lz4".
	CacheCompression string `yaml:"cache_compression"`

	logger      *zap.Logger
	compression format.CompressionType
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		StageColumn:      DefaultStageColumn,
		StartStage:       DefaultStartStage,
		Threshold:        coerce.DefaultThreshold,
		OverlapRows:      DefaultOverlapRows,
		Dedup:            true,
		CacheCompression: "none",
		logger:           zap.NewNop(),
		compression:      format.CompressionNone,
	}
}

// LoadConfig reads settings from a YAML file. Keys absent from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.StageColumn == "" {
		return fmt.Errorf("%w: empty stage column", errs.ErrStageColumnNotFound)
	}
	if math.IsNaN(c.Threshold) || c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: %v not in (0, 1]", errs.ErrInvalidThreshold, c.Threshold)
	}
	if c.OverlapRows < 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidOverlap, c.OverlapRows)
	}

	ct, err := format.ParseCompressionType(c.CacheCompression)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrUnsupportedCompression, err)
	}
	c.compression = ct

	return nil
}

func (c *Config) coercer() (*coerce.Coercer, error) {
	opts := []coerce.Option{coerce.WithThreshold(c.Threshold)}
	if c.PreferInt {
		opts = append(opts, coerce.WithPreferredKind(format.KindInt))
	}
	if c.IntegerColumns != nil {
		opts = append(opts, coerce.WithIntegerColumns(c.IntegerColumns...))
	}

	return coerce.New(opts...)
}

// Option configures a History.
type Option = options.Option[*Config]

// WithLogger sets the diagnostics sink. A nil logger discards diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		cfg.logger = logger
	})
}

// WithConfig replaces every file-level setting with cfg. The logger is kept.
func WithConfig(cfg Config) Option {
	return options.NoError(func(target *Config) {
		logger := target.logger
		*target = cfg
		target.logger = logger
	})
}

// WithStageColumn sets the splice-key column name.
func WithStageColumn(name string) Option {
	return options.NoError(func(cfg *Config) {
		cfg.StageColumn = name
	})
}

// WithStartStage sets the earliest stage the stitcher tries to reach.
func WithStartStage(stage int64) Option {
	return options.NoError(func(cfg *Config) {
		cfg.StartStage = stage
	})
}

// WithThreshold sets the coercer's minimum convertible fraction.
func WithThreshold(v float64) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Threshold = v
	})
}

// WithPreferInt types exact-integer columns as nullable ints.
func WithPreferInt(on bool) Option {
	return options.NoError(func(cfg *Config) {
		cfg.PreferInt = on
	})
}

// WithIntegerColumns sets the columns always typed as nullable ints.
func WithIntegerColumns(names ...string) Option {
	return options.NoError(func(cfg *Config) {
		cfg.IntegerColumns = append([]string(nil), names...)
	})
}

// WithOverlapRows sets how many rows past a splice match are carried over.
func WithOverlapRows(n int) Option {
	return options.NoError(func(cfg *Config) {
		cfg.OverlapRows = n
	})
}

// WithDedup toggles removal of duplicate boundary rows after stitching.
//
// Dedup is on by default. The overlap row taken past each splice match repeats
// the first stage of the newer run, so the default drops it and keeps the newer
// run's row; WithDedup(false) keeps the match plus overlap rows as read.
func WithDedup(on bool) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Dedup = on
	})
}

// WithCachePath sets the combined-series cache location.
func WithCachePath(path string) Option {
	return options.NoError(func(cfg *Config) {
		cfg.CachePath = path
	})
}

// WithCacheCompression sets the codec applied to the cache file.
func WithCacheCompression(ct format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, ct)
		}
		cfg.CacheCompression = ct.String()

		return nil
	})
}

func buildConfig(opts []Option) (Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return cfg, err
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
