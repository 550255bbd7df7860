// Package hash derives stable 64-bit identifiers for column names.
package hash

import "github.com/cespare/xxhash/v2"

// ColumnID returns the xxHash64 of a column name.
func ColumnID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Names returns the xxHash64 digest of an ordered list of column names.
// Two schemas share a digest only when they list the same names in the same order.
func Names(names []string) uint64 {
	d := xxhash.New()
	for _, name := range names {
		_, _ = d.WriteString(name)
		_, _ = d.Write([]byte{0})
	}

	return d.Sum64()
}
