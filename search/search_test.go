package search

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
)

func TestOrder_String(t *testing.T) {
	require.Equal(t, "ascending", Ascending.String())
	require.Equal(t, "descending", Descending.String())
	require.Equal(t, "unknown", Order(7).String())
}

func TestEmptyInput(t *testing.T) {
	var empty []float64

	_, err := FindNearest(empty, 1, Ascending)
	require.ErrorIs(t, err, errs.ErrEmptyInput)
	_, err = FindAllWithin(empty, 1, 0.5, Ascending)
	require.ErrorIs(t, err, errs.ErrEmptyInput)
	_, err = FindFirstGreater(empty, 1, Descending)
	require.ErrorIs(t, err, errs.ErrEmptyInput)
	_, err = FindFirstLess(empty, 1, Descending)
	require.ErrorIs(t, err, errs.ErrEmptyInput)
}

func TestFindNearest(t *testing.T) {
	asc := []float64{1, 3, 5, 7, 9}
	desc := []float64{9, 7, 5, 3, 1}

	tests := []struct {
		name  string
		arr   []float64
		order Order
		x     float64
		index int
	}{
		{"below range", asc, Ascending, -10, 0},
		{"above range", asc, Ascending, 100, 4},
		{"exact", asc, Ascending, 5, 2},
		{"closer right", asc, Ascending, 4.9, 2},
		{"closer left", asc, Ascending, 5.9, 2},
		{"tie goes to lower index", asc, Ascending, 4, 1},
		{"descending exact", desc, Descending, 7, 1},
		{"descending below range", desc, Descending, -1, 4},
		{"descending above range", desc, Descending, 20, 0},
		{"descending tie goes to lower index", desc, Descending, 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FindNearest(tt.arr, tt.x, tt.order)
			require.NoError(t, err)
			require.Equal(t, tt.index, m.Index)
			require.Equal(t, tt.arr[tt.index], m.Value)
		})
	}
}

func TestFindNearest_BruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		n := 1 + rng.IntN(64)
		arr := make([]float64, n)
		for i := range arr {
			arr[i] = math.Round(rng.Float64()*1000) / 10
		}
		slices.Sort(arr)
		x := rng.Float64()*120 - 10

		m, err := FindNearest(arr, x, Ascending)
		require.NoError(t, err)

		best := math.Inf(1)
		for _, v := range arr {
			best = math.Min(best, math.Abs(v-x))
		}
		require.Equal(t, best, math.Abs(m.Value-x), "x=%v arr=%v", x, arr)
		require.Equal(t, arr[m.Index], m.Value)

		rev := slices.Clone(arr)
		slices.Reverse(rev)
		md, err := FindNearest(rev, x, Descending)
		require.NoError(t, err)
		require.Equal(t, best, math.Abs(md.Value-x))
	}
}

func TestFindNearest_Integers(t *testing.T) {
	type stage int64
	stages := []stage{10, 20, 30, 40}

	m, err := FindNearest(stages, 26, Ascending)
	require.NoError(t, err)
	require.Equal(t, Match[stage]{Index: 2, Value: 30}, m)
}

func TestFindAllWithin(t *testing.T) {
	asc := []float64{1, 2, 3, 4, 5, 6}

	got, err := FindAllWithin(asc, 3.5, 1, Ascending)
	require.NoError(t, err)
	require.Equal(t, []Match[float64]{{2, 3}, {3, 4}}, got)

	got, err = FindAllWithin(asc, 3, 1, Ascending)
	require.NoError(t, err)
	require.Equal(t, []Match[float64]{{1, 2}, {2, 3}, {3, 4}}, got, "bounds are inclusive")

	desc := []float64{6, 5, 4, 3, 2, 1}
	got, err = FindAllWithin(desc, 3, 1, Descending)
	require.NoError(t, err)
	require.Equal(t, []Match[float64]{{4, 2}, {3, 3}, {2, 4}}, got, "descending results are reversed")

	_, err = FindAllWithin(asc, 100, 1, Ascending)
	require.ErrorIs(t, err, errs.ErrNoMatch)
	_, err = FindAllWithin(asc, 3, -1, Ascending)
	require.ErrorIs(t, err, errs.ErrNoMatch)
}

func TestFindAllWithin_BruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for range 300 {
		arr := make([]int, 1+rng.IntN(40))
		for i := range arr {
			arr[i] = rng.IntN(50)
		}
		slices.Sort(arr)
		x, tol := rng.IntN(60)-5, rng.IntN(5)

		var want []Match[int]
		for i, v := range arr {
			if v-x <= tol && x-v <= tol {
				want = append(want, Match[int]{Index: i, Value: v})
			}
		}

		got, err := FindAllWithin(arr, x, tol, Ascending)
		if len(want) == 0 {
			require.ErrorIs(t, err, errs.ErrNoMatch)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestFindFirstGreater(t *testing.T) {
	asc := []float64{1, 2, 2, 3, 5}

	m, err := FindFirstGreater(asc, 2, Ascending)
	require.NoError(t, err)
	require.Equal(t, Match[float64]{Index: 3, Value: 3}, m)

	m, err = FindFirstGreater(asc, 0, Ascending)
	require.NoError(t, err)
	require.Equal(t, 0, m.Index)

	_, err = FindFirstGreater(asc, 5, Ascending)
	require.ErrorIs(t, err, errs.ErrNoMatch)

	desc := []float64{5, 3, 2, 1}
	m, err = FindFirstGreater(desc, 2, Descending)
	require.NoError(t, err)
	require.Equal(t, Match[float64]{Index: 0, Value: 5}, m)

	_, err = FindFirstGreater(desc, 5, Descending)
	require.ErrorIs(t, err, errs.ErrNoMatch)
}

func TestFindFirstLess(t *testing.T) {
	desc := []float64{9, 7, 7, 4, 1}

	m, err := FindFirstLess(desc, 7, Descending)
	require.NoError(t, err)
	require.Equal(t, Match[float64]{Index: 3, Value: 4}, m)

	m, err = FindFirstLess(desc, 100, Descending)
	require.NoError(t, err)
	require.Equal(t, 0, m.Index)

	_, err = FindFirstLess(desc, 1, Descending)
	require.ErrorIs(t, err, errs.ErrNoMatch)

	asc := []float64{1, 4, 7}
	m, err = FindFirstLess(asc, 5, Ascending)
	require.NoError(t, err)
	require.Equal(t, Match[float64]{Index: 0, Value: 1}, m)

	_, err = FindFirstLess(asc, 1, Ascending)
	require.ErrorIs(t, err, errs.ErrNoMatch)
}

func TestFindFirst_NeverWrongSide(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))

	for range 300 {
		asc := make([]float64, 1+rng.IntN(30))
		for i := range asc {
			asc[i] = float64(rng.IntN(20))
		}
		slices.Sort(asc)
		desc := slices.Clone(asc)
		slices.Reverse(desc)
		x := float64(rng.IntN(24) - 2)

		for _, tc := range []struct {
			arr   []float64
			order Order
		}{{asc, Ascending}, {desc, Descending}} {
			firstGreater, firstLess := -1, -1
			for i, v := range tc.arr {
				if firstGreater < 0 && v > x {
					firstGreater = i
				}
				if firstLess < 0 && v < x {
					firstLess = i
				}
			}

			g, err := FindFirstGreater(tc.arr, x, tc.order)
			if firstGreater < 0 {
				require.ErrorIs(t, err, errs.ErrNoMatch)
			} else {
				require.NoError(t, err)
				require.Greater(t, g.Value, x)
				require.Equal(t, firstGreater, g.Index)
			}

			l, err := FindFirstLess(tc.arr, x, tc.order)
			if firstLess < 0 {
				require.ErrorIs(t, err, errs.ErrNoMatch)
			} else {
				require.NoError(t, err)
				require.Less(t, l.Value, x)
				require.Equal(t, firstLess, l.Index)
			}
		}
	}
}

func BenchmarkFindNearest(b *testing.B) {
	arr := make([]float64, 100000)
	for i := range arr {
		arr[i] = float64(i) * 0.5
	}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = FindNearest(arr, 12345.3, Ascending)
	}
}
