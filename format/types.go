package format

import (
	"fmt"
	"strings"
)

type (
	ColumnKind      uint8
	CompressionType uint8
)

const (
	KindFloat ColumnKind = 0x1 // KindFloat represents a float64 column, NaN marks null cells.
	KindInt   ColumnKind = 0x2 // KindInt represents a nullable int64 column.
	KindText  ColumnKind = 0x3 // KindText represents a trimmed string column, "" marks null cells.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k ColumnKind) String() string {
	switch k {
	case KindFloat:
		return "Float"
	case KindInt:
		return "Int"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// IsNumeric reports whether the kind holds numbers.
func (k ColumnKind) IsNumeric() bool {
	return k == KindFloat || k == KindInt
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-insensitive name ("none", "zstd", "s2", "lz4")
// to its CompressionType. An empty name means CompressionNone.
func ParseCompressionType(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression type %q", name)
	}
}

// ParseColumnKind maps a case-insensitive kind name ("float", "int", "text") to
// its ColumnKind.
func ParseColumnKind(name string) (ColumnKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float":
		return KindFloat, nil
	case "int":
		return KindInt, nil
	case "text":
		return KindText, nil
	default:
		return 0, fmt.Errorf("unknown column kind %q", name)
	}
}
