// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-13
// Last Modified: 2026-10-12

// Package text holds small string helpers shared by prompt builders and
// renderers.
package text

import (
	"strings"
	"unicode/utf8"
)

// Truncate limits s to at most limit characters (runes). It never splits a
// multi-byte character. A non-positive limit returns s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

// SingleLine collapses all whitespace runs, including newlines, into single
// spaces so a value fits in one table cell.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
