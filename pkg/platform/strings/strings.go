// Package strings provides string normalization helpers for form input.
package strings

import (
	"strings"
	"unicode"
)

// Digits returns only the ASCII digits of s, in order.
//
//	Digits("529.982.247-25") // "52998224725"
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CollapseSpace trims s and replaces every run of whitespace with sep.
//
//	CollapseSpace("  Ana   Maria ", "_") // "Ana_Maria"
func CollapseSpace(s, sep string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), sep)
}

// CleanList trims each element, collapses inner whitespace to one space,
// drops empty elements and removes case-insensitive duplicates. The first
// spelling of each value wins and order is preserved.
//
//	CleanList([]string{" Diabetes ", "", "diabetes", "Hipertensão"})
//	// Returns: []string{"Diabetes", "Hipertensão"}
func CleanList(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		cleaned := CollapseSpace(v, " ")
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, cleaned)
	}

	return result
}
