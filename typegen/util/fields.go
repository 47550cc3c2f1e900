package util

// FieldNamer maps a schema property name to a backend field name.
type FieldNamer func(name string) string

var (
	// CamelFields keeps schema names as-is, for camel-case targets.
	CamelFields FieldNamer = func(name string) string { return name }

	// SnakeFields converts schema names to snake_case.
	SnakeFields FieldNamer = ToSnakeCase
)
