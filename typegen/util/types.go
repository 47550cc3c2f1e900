package util

import (
	"github.com/teranos/contractgen/schema"
	"github.com/teranos/contractgen/typegen"
)

// TypeConverterConfig configures how schema types are converted to target language types.
type TypeConverterConfig struct {
	// Backend names the target in UnsupportedTypeError
	Backend string

	// TypeMapping maps primitive schema type tags to target language types
	TypeMapping map[string]string

	// ArrayFormat formats an array type given the element type
	// e.g., Python: "List[%s]", Rust: "Vec<%s>", TypeScript: "%s[]"
	ArrayFormat func(elemType string) string

	// ConstFormat formats a fixed string literal type.
	// nil falls back to the mapped string type.
	ConstFormat func(literal string) string

	// RefFormat formats a reference to a declared enum or composite type.
	// nil uses the type name unchanged.
	RefFormat func(typeName string) string
}

// MapType resolves the target type expression for p. It is pure and total:
// every property either maps or yields *typegen.UnsupportedTypeError.
//
// Const wins over enum, enum wins over the type tag. Arrays without items
// hold strings.
func MapType(p *schema.Property, config *TypeConverterConfig) (string, error) {
	switch {
	case p.IsConst():
		if config.ConstFormat != nil {
			return config.ConstFormat(*p.Const), nil
		}
		return config.TypeMapping[schema.TypeString], nil

	case p.IsEnum():
		return config.ref(schema.TypeName(p.Name)), nil
	}

	switch p.Type {
	case schema.TypeArray:
		items := p.Items
		if items == nil {
			items = &schema.Property{Name: p.Name, Type: schema.TypeString}
		}
		elem, err := MapType(items, config)
		if err != nil {
			return "", err
		}
		return config.ArrayFormat(elem), nil

	case schema.TypeObject:
		return config.ref(schema.TypeName(p.Name)), nil
	}

	if mapped, ok := config.TypeMapping[p.Type]; ok && p.Type != "" {
		return mapped, nil
	}
	return "", &typegen.UnsupportedTypeError{Backend: config.Backend, Property: p.Name, RawType: p.Type}
}

func (c *TypeConverterConfig) ref(typeName string) string {
	if c.RefFormat != nil {
		return c.RefFormat(typeName)
	}
	return typeName
}
