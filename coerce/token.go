package coerce

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// missingTokens are the raw cell values read as null.
var missingTokens = map[string]struct{}{
	"":    {},
	"NaN": {},
	"nan": {},
	"---": {},
	"NA":  {},
	"N/A": {},
}

var (
	// 1.5D+02, 1.5d2
	fortranExponent = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))[dD]([+-]?\d+)$`)
	// 6.670-321, 1.0+005: the exponent letter was dropped to fit a fixed-width field
	bareExponent = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))([+-]\d{1,3})$`)
)

// IsMissing reports whether a trimmed token is a missing-value marker.
func IsMissing(token string) bool {
	_, ok := missingTokens[token]
	return ok
}

// Clean normalizes a raw cell into a token strconv can parse.
//
// It trims whitespace, removes thousands separators, rewrites Fortran 'D'
// exponents to 'E' and re-inserts the 'E' of exponents printed without a letter.
// ok is false when the cell is a missing-value marker.
func Clean(raw string) (token string, ok bool) {
	token = strings.TrimSpace(raw)
	if IsMissing(token) {
		return "", false
	}

	if strings.IndexByte(token, ',') >= 0 {
		token = strings.ReplaceAll(token, ",", "")
	}

	if m := fortranExponent.FindStringSubmatch(token); m != nil {
		return m[1] + "E" + m[2], true
	}
	if m := bareExponent.FindStringSubmatch(token); m != nil {
		return m[1] + "E" + m[2], true
	}

	return token, true
}

// ParseFloat cleans and parses one cell. ok is false for missing or
// non-numeric cells. Values beyond the float64 range parse as ±Inf.
func ParseFloat(raw string) (float64, bool) {
	token, ok := Clean(raw)
	if !ok {
		return 0, false
	}

	return parseCleaned(token)
}

func parseCleaned(token string) (float64, bool) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v, true
		}

		return 0, false
	}

	return v, true
}
