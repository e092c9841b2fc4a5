package domain

import "strings"

// ParseFeatures splits a comma separated feature field, trimming each element.
// Order is preserved and empty segments are kept ("a,,b" -> ["a", "", "b"]).
func ParseFeatures(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
