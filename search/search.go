// Package search finds elements of a sorted numeric series by value.
//
// Every function takes the array's sort Order explicitly and runs a binary
// search; none of them mutates or copies the input. "First" always means first
// in the array's own index order.
package search

import (
	"fmt"
	"sort"

	"github.com/Tan-0321/HOSHI-WorkFlow/errs"
)

// Number is the set of element types the search functions accept.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Order is the sort direction of an input array.
type Order uint8

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "unknown"
	}
}

// Match is a found element and its index in the input array.
type Match[T Number] struct {
	Index int
	Value T
}

// insertion returns the index at which x would be inserted to keep arr sorted,
// to the left of any equal elements.
func insertion[T Number](arr []T, x T, order Order) int {
	if order == Descending {
		return sort.Search(len(arr), func(i int) bool { return arr[i] <= x })
	}

	return sort.Search(len(arr), func(i int) bool { return arr[i] >= x })
}

func distance[T Number](a, b T) T {
	if a > b {
		return a - b
	}

	return b - a
}

// FindNearest returns the element closest to x. On a tie the lower index wins.
func FindNearest[T Number](arr []T, x T, order Order) (Match[T], error) {
	if len(arr) == 0 {
		return Match[T]{}, errs.ErrEmptyInput
	}

	pos := insertion(arr, x, order)
	switch {
	case pos == 0:
		return Match[T]{Index: 0, Value: arr[0]}, nil
	case pos == len(arr):
		return Match[T]{Index: pos - 1, Value: arr[pos-1]}, nil
	}

	if distance(arr[pos], x) < distance(arr[pos-1], x) {
		return Match[T]{Index: pos, Value: arr[pos]}, nil
	}

	return Match[T]{Index: pos - 1, Value: arr[pos-1]}, nil
}

// FindAllWithin returns every element a with |a - x| <= tol in increasing value
// order: array order for ascending arrays, reversed for descending ones.
func FindAllWithin[T Number](arr []T, x, tol T, order Order) ([]Match[T], error) {
	if len(arr) == 0 {
		return nil, errs.ErrEmptyInput
	}
	if tol < 0 {
		return nil, fmt.Errorf("%w: negative tolerance %v", errs.ErrNoMatch, tol)
	}

	// the window is contiguous in a sorted array
	var lo, hi int
	if order == Descending {
		lo = sort.Search(len(arr), func(i int) bool { return arr[i]-x <= tol })
		hi = sort.Search(len(arr), func(i int) bool { return x-arr[i] > tol })
	} else {
		lo = sort.Search(len(arr), func(i int) bool { return x-arr[i] <= tol })
		hi = sort.Search(len(arr), func(i int) bool { return arr[i]-x > tol })
	}
	if lo >= hi {
		return nil, fmt.Errorf("%w: nothing within %v of %v", errs.ErrNoMatch, tol, x)
	}

	out := make([]Match[T], 0, hi-lo)
	if order == Descending {
		for i := hi - 1; i >= lo; i-- {
			out = append(out, Match[T]{Index: i, Value: arr[i]})
		}

		return out, nil
	}
	for i := lo; i < hi; i++ {
		out = append(out, Match[T]{Index: i, Value: arr[i]})
	}

	return out, nil
}

// FindFirstGreater returns the first element strictly greater than x.
func FindFirstGreater[T Number](arr []T, x T, order Order) (Match[T], error) {
	if len(arr) == 0 {
		return Match[T]{}, errs.ErrEmptyInput
	}

	idx := 0
	if order == Ascending {
		idx = sort.Search(len(arr), func(i int) bool { return arr[i] > x })
		if idx == len(arr) {
			return Match[T]{}, fmt.Errorf("%w: nothing greater than %v", errs.ErrNoMatch, x)
		}
	} else if arr[0] <= x {
		// descending: the largest element comes first
		return Match[T]{}, fmt.Errorf("%w: nothing greater than %v", errs.ErrNoMatch, x)
	}

	return Match[T]{Index: idx, Value: arr[idx]}, nil
}

// FindFirstLess returns the first element strictly less than x.
//
// For a descending array this is the first element greater than -x of the
// negated array; the predicate is evaluated in place instead of negating.
func FindFirstLess[T Number](arr []T, x T, order Order) (Match[T], error) {
	if len(arr) == 0 {
		return Match[T]{}, errs.ErrEmptyInput
	}

	idx := 0
	if order == Descending {
		idx = sort.Search(len(arr), func(i int) bool { return arr[i] < x })
		if idx == len(arr) {
			return Match[T]{}, fmt.Errorf("%w: nothing less than %v", errs.ErrNoMatch, x)
		}
	} else if arr[0] >= x {
		return Match[T]{}, fmt.Errorf("%w: nothing less than %v", errs.ErrNoMatch, x)
	}

	return Match[T]{Index: idx, Value: arr[idx]}, nil
}
