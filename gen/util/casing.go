// Package util holds small shared helpers for the emitters.
package util

import (
	"strings"
	"unicode"
)

// ToPascalCase converts snake_case or kebab-case to PascalCase.
// Segments are capitalized and concatenated without double-capitalizing
// or dropping any segment: "get_all_items" -> "GetAllItems".
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			// Capitalize first letter, keep rest as-is
			runes := []rune(part)
			result.WriteRune(unicode.ToUpper(runes[0]))
			result.WriteString(string(runes[1:]))
		}
	}

	return result.String()
}
