// Package text provides small string manipulation helpers: field
// splitting, whitespace trimming, substring replacement and case
// conversion.
package text

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptySeed is returned by Replace when the substring to replace
// is empty.
var ErrEmptySeed = errors.New("text: empty seed")

// Split cuts s around each occurrence of delimiter and returns the
// fields in order. Consecutive delimiters produce empty fields, while
// a trailing delimiter does not. An empty input yields no field.
func Split(s string, delimiter rune) []string {
	if s == "" {
		return nil
	}
	fields := strings.Split(s, string(delimiter))
	if fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// TrimLeft returns s without its leading whitespace.
func TrimLeft(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// TrimRight returns s without its trailing whitespace.
func TrimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Trim returns s without its leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}

// Replace returns s with every occurrence of seed replaced by
// replacement. It fails with ErrEmptySeed when seed is empty.
func Replace(s, seed, replacement string) (string, error) {
	if seed == "" {
		return "", ErrEmptySeed
	}
	return strings.ReplaceAll(s, seed, replacement), nil
}

// Lower returns s mapped to lower case.
func Lower(s string) string {
	return strings.ToLower(s)
}

// Upper returns s mapped to upper case.
func Upper(s string) string {
	return strings.ToUpper(s)
}
