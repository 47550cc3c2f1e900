package schema

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeName derives a type identifier from a property name by capitalising
// the first character only: "expertiseLevel" becomes "ExpertiseLevel".
// Names that are not plain camel-case words are rejected by validation
// rather than transformed further.
func TypeName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// ToPascalCase converts snake_case, kebab-case or SCREAMING_SNAKE values
// to PascalCase. Words that are entirely uppercase are title-cased, other
// words keep their inner casing: "STEP_BY_STEP" -> "StepByStep",
// "story-driven" -> "StoryDriven", "camelCase" -> "CamelCase".
func ToPascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	// Casers are stateful and not safe for concurrent use
	titleCase := cases.Title(language.Und)
	upperFirst := cases.Title(language.Und, cases.NoLower)

	var result strings.Builder
	for _, w := range words {
		if isUpperWord(w) {
			result.WriteString(titleCase.String(w))
		} else {
			result.WriteString(upperFirst.String(w))
		}
	}
	return result.String()
}

// EnumMemberNames converts enum literals to distinct PascalCase member
// identifiers, in order. Literals that yield no letters or start with a
// digit are prefixed with "Value"; collisions get a numeric suffix.
//
// Backends that declare members at package scope prefix them with the
// enum's TypeName, so validation reserves those names too.
func EnumMemberNames(values []string) []string {
	names := make([]string, len(values))
	used := make(map[string]bool, len(values))
	for i, v := range values {
		name := ToPascalCase(v)
		if name == "" || unicode.IsDigit([]rune(name)[0]) {
			name = "Value" + name
		}
		base := name
		for n := 2; used[name]; n++ {
			name = base + strconv.Itoa(n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func isUpperWord(w string) bool {
	hasUpper := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
