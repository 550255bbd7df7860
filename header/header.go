// Package header parses the comment-prefixed column header lines of HOSHI text files.
//
// A header line starts with the marker character and lists the column names, each
// prefixed by its positional index:
//
//	#  1:stg  2:jcmax  3:dt  4:time  5:mtot
//
// Parse strips the marker and the "<digits>:" annotations and returns the names in
// order. Duplicate names are kept.
package header

import (
	"regexp"
	"strings"
)

// Marker is the first character of every header line.
const Marker = '#'

var indexPrefix = regexp.MustCompile(`\d+:`)

// IsHeader reports whether line is a header line.
func IsHeader(line string) bool {
	return len(line) > 0 && line[0] == Marker
}

// Parse returns the column names of a header line.
func Parse(line string) []string {
	cleaned := strings.TrimLeft(line, string(Marker))
	cleaned = indexPrefix.ReplaceAllString(cleaned, " ")

	return strings.Fields(cleaned)
}
