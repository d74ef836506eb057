// Package utils provides small helpers shared across layers, independent of
// domain logic.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or not a
// number. The history handlers use it for the page and limit query values,
// where a garbage value means "use the default", never an error.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
