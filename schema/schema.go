// Package schema loads the canonical contract schema into an immutable,
// order-preserving intermediate representation.
//
// A schema document is a JSON (or YAML) object with a "properties" map,
// a "required" list and a free-text "$comment" carrying the version
// ("Prompt schema v1.0"). Property order in the source text is the order
// every backend emits in, so documents are decoded into ordered node trees
// and never through Go maps.
//
// The returned *Document is shared read-only by every backend emitter.
package schema

// Primitive type tags understood by the type mappers. Any other tag is kept
// verbatim so the mapper can report it as unsupported.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Document is the root of a loaded schema.
type Document struct {
	// Name is the root composite type name: the schema title when it is a
	// valid type identifier, otherwise the configured root type.
	Name        string
	Title       string
	Description string
	// Comment is the free-text version annotation ($comment).
	Comment string
	// Version is "<major>.<minor>" extracted from Comment.
	Version string
	// VersionFallback is set when Comment carried no version and the
	// default was used.
	VersionFallback bool
	// Source is the base name of the schema file.
	Source     string
	Properties []*Property
	Required   []string
}

// Property is one schema property. Nested object properties and array
// items are Properties too.
type Property struct {
	// Name is the property key. Array items carry their owner's name.
	Name string
	// Type is the raw type tag, possibly empty or unknown.
	Type string
	// Enum is nil when absent; an empty non-nil slice is a schema error.
	Enum        []string
	Const       *string
	Description string
	Default     *Value
	Items       *Property
	Properties  []*Property
	// Required names the nested fields of an object that must be present.
	Required  []string
	MinLength *int
	Minimum   *float64
}

// IsEnum reports whether the property declares an enumeration.
func (p *Property) IsEnum() bool { return p.Enum != nil }

// IsConst reports whether the property is a fixed literal.
func (p *Property) IsConst() bool { return p.Const != nil }

// IsObject reports whether the property is a nested composite.
func (p *Property) IsObject() bool { return p.Type == TypeObject && !p.IsEnum() }

// IsRequired reports whether the nested field name is required.
func (p *Property) IsRequired(name string) bool { return contains(p.Required, name) }

// Property returns the nested property with the given name, or nil.
func (p *Property) Property(name string) *Property { return find(p.Properties, name) }

// IsRequired reports whether the top-level property name is required.
func (d *Document) IsRequired(name string) bool { return contains(d.Required, name) }

// Property returns the top-level property with the given name, or nil.
func (d *Document) Property(name string) *Property { return find(d.Properties, name) }

// Enums returns every property that declares a named enumeration, in
// document order. Enums inside an object are listed at their owner's
// position. Array items with an enum are named after the array property.
func (d *Document) Enums() []*Property {
	var out []*Property
	var walk func(props []*Property)
	walk = func(props []*Property) {
		for _, p := range props {
			switch {
			case p.IsEnum():
				out = append(out, p)
			case p.IsObject():
				walk(p.Properties)
			case p.Type == TypeArray && p.Items != nil && p.Items.IsEnum():
				out = append(out, p.Items)
			}
		}
	}
	walk(d.Properties)
	return out
}

// Composites returns every object property in document order.
func (d *Document) Composites() []*Property {
	var out []*Property
	for _, p := range d.Properties {
		if p.IsObject() {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

func find(props []*Property, name string) *Property {
	for _, p := range props {
		if p.Name == name {
			return p
		}
	}
	return nil
}
