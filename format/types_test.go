package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnKind_String(t *testing.T) {
	require.Equal(t, "Float", KindFloat.String())
	require.Equal(t, "Int", KindInt.String())
	require.Equal(t, "Text", KindText.String())
	require.Equal(t, "Unknown", ColumnKind(0).String())

	require.True(t, KindFloat.IsNumeric())
	require.True(t, KindInt.IsNumeric())
	require.False(t, KindText.IsNumeric())
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		in   string
		want CompressionType
	}{
		{"", CompressionNone},
		{"none", CompressionNone},
		{"ZSTD", CompressionZstd},
		{" s2 ", CompressionS2},
		{"lz4", CompressionLZ4},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCompressionType(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseCompressionType("gzip")
	require.Error(t, err)
	require.Equal(t, "Unknown", CompressionType(0).String())
}

func TestParseColumnKind(t *testing.T) {
	for _, kind := range []ColumnKind{KindFloat, KindInt, KindText} {
		got, err := ParseColumnKind(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, got)
	}

	got, err := ParseColumnKind(" INT ")
	require.NoError(t, err)
	require.Equal(t, KindInt, got)

	_, err = ParseColumnKind("Unknown")
	require.Error(t, err)
}
