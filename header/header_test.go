package header

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsHeader(t *testing.T) {
	require.True(t, IsHeader("# 1:stg 2:time"))
	require.True(t, IsHeader("#"))
	require.False(t, IsHeader(""))
	require.False(t, IsHeader("  # 1:stg"))
	require.False(t, IsHeader("1 2.0E+00"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "indexed columns",
			line: "#  1:stg  2:jcmax  3:dt  4:time",
			want: []string{"stg", "jcmax", "dt", "time"},
		},
		{
			name: "tight spacing",
			line: "#1:stg2:time3:mtot",
			want: []string{"stg", "time", "mtot"},
		},
		{
			name: "duplicates preserved",
			line: "# 1:stg 2:temp 3:temp",
			want: []string{"stg", "temp", "temp"},
		},
		{
			name: "plain names",
			line: "# stg time",
			want: []string{"stg", "time"},
		},
		{
			name: "trailing newline and tabs",
			line: "#\t1:stg\t2:dens_c\n",
			want: []string{"stg", "dens_c"},
		},
		{
			name: "empty header",
			line: "#",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.line))
		})
	}
}
