// Package utils provides small domain-free helpers shared across layers.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def for empty or unparseable
// input. Handlers use it for optional numeric query parameters.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
