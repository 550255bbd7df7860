package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty name", "", 0xef46db3751d8e999},
		{"short name", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.id, ColumnID(tt.data))
		})
	}

	require.Equal(t, ColumnID("stg"), ColumnID("stg"))
	require.NotEqual(t, ColumnID("stg"), ColumnID("time"))
}

func TestNames(t *testing.T) {
	a := Names([]string{"stg", "time", "mtot"})

	require.Equal(t, a, Names([]string{"stg", "time", "mtot"}))
	require.NotEqual(t, a, Names([]string{"stg", "mtot", "time"}))
	require.NotEqual(t, Names([]string{"ab", "c"}), Names([]string{"a", "bc"}))
	require.NotEqual(t, a, Names(nil))
}

func BenchmarkColumnID(b *testing.B) {
	for b.Loop() {
		ColumnID("dens_c")
	}
}
