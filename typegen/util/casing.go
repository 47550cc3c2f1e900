package util

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts camelCase to snake_case by inserting an underscore
// before every uppercase letter and lowercasing the result. A leading
// underscore is dropped, so "MaxLength" and "maxLength" both give
// "max_length". Runs of capitals are not treated as acronyms:
// "useHTML" -> "use_h_t_m_l".
func ToSnakeCase(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimPrefix(result.String(), "_")
}
