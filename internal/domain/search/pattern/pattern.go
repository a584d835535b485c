// Package pattern escapes user input for LIKE/ILIKE patterns.
//
// Escaping is not idempotent: callers escape a value exactly once.
package pattern

import "strings"

// Wildcard is the multi-character wildcard marker.
const Wildcard = "%"

// Single pass: the backslashes inserted for % and _ are never escaped again.
var escaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// Escape escapes backslash, % and _ so the value matches literally. SQL
// callers pair it with ESCAPE '\'.
func Escape(value string) string {
	return escaper.Replace(value)
}

// Contains returns a substring pattern: the escaped value wrapped in wildcards.
func Contains(value string) string {
	return Wildcard + Escape(value) + Wildcard
}
