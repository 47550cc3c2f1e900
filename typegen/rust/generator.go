package rust

import (
	"fmt"
	"strings"

	"github.com/teranos/contractgen/schema"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/util"
)

// Generator implements typegen.Emitter for Rust (serde)
type Generator struct {
	provenance typegen.Provenance
}

// NewGenerator creates a new Rust generator
func NewGenerator(provenance typegen.Provenance) *Generator {
	return &Generator{provenance: provenance}
}

// Name returns "rust"
func (g *Generator) Name() string {
	return "rust"
}

// FileExtension returns "rs"
func (g *Generator) FileExtension() string {
	return "rs"
}

// TypeMapping defines how schema primitive types map to Rust types
var TypeMapping = map[string]string{
	schema.TypeString:  "String",
	schema.TypeInteger: "i64",
	schema.TypeNumber:  "f64",
	schema.TypeBoolean: "bool",
}

// typeConverterConfig is the Rust-specific type conversion configuration
var typeConverterConfig = &util.TypeConverterConfig{
	Backend:     "rust",
	TypeMapping: TypeMapping,
	ArrayFormat: func(elem string) string { return "Vec<" + elem + ">" },
}

// Emit renders the Rust module for doc
func (g *Generator) Emit(doc *schema.Document) ([]byte, error) {
	var sb strings.Builder

	for _, line := range g.provenance.Lines(doc) {
		sb.WriteString("// " + line + "\n")
	}
	sb.WriteString("\nuse serde::{Deserialize, Serialize};\n\n")
	sb.WriteString("/// Schema version\n")
	sb.WriteString(fmt.Sprintf("pub const SCHEMA_VERSION: &str = %s;\n", schema.Quote(doc.Version)))

	for _, p := range doc.Enums() {
		sb.WriteString("\n")
		sb.WriteString(GenerateEnum(schema.TypeName(p.Name), p.Enum, p.Description))
	}

	for _, p := range doc.Composites() {
		body, err := GenerateStruct(schema.TypeName(p.Name), p.Description, p.Properties, p.IsRequired)
		if err != nil {
			return nil, err
		}
		sb.WriteString("\n")
		sb.WriteString(body)
	}

	rootDoc := doc.Description
	if rootDoc == "" {
		rootDoc = doc.Title
	}
	body, err := GenerateStruct(doc.Name, rootDoc, doc.Properties, doc.IsRequired)
	if err != nil {
		return nil, err
	}
	sb.WriteString("\n")
	sb.WriteString(body)

	return []byte(sb.String()), nil
}

// GenerateEnum creates a unit-variant enum that serializes to the schema
// literals, variants in declared order
func GenerateEnum(name string, values []string, description string) string {
	var sb strings.Builder

	writeDoc(&sb, "", description)
	sb.WriteString("#[derive(Debug, Clone, Copy, PartialEq, Eq, Hash, Serialize, Deserialize)]\n")
	sb.WriteString(fmt.Sprintf("pub enum %s {\n", name))

	for i, variant := range schema.EnumMemberNames(values) {
		sb.WriteString(fmt.Sprintf("    #[serde(rename = %s)]\n", schema.Quote(values[i])))
		sb.WriteString(fmt.Sprintf("    %s,\n", variant))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// GenerateStruct creates a serde struct with one field per property.
// Optional fields become Option<T> and are omitted when None.
func GenerateStruct(name, description string, props []*schema.Property, required func(string) bool) (string, error) {
	var sb strings.Builder

	writeDoc(&sb, "", description)
	sb.WriteString("#[derive(Debug, Clone, PartialEq, Serialize, Deserialize)]\n")
	sb.WriteString(fmt.Sprintf("pub struct %s {\n", name))

	for _, p := range props {
		rustType, err := util.MapType(p, typeConverterConfig)
		if err != nil {
			return "", err
		}

		fieldName := util.SnakeFields(p.Name)
		isOptional := !required(p.Name)

		var serdeAttrs []string
		if fieldName != p.Name {
			serdeAttrs = append(serdeAttrs, "rename = "+schema.Quote(p.Name))
		}
		if isOptional {
			rustType = "Option<" + rustType + ">"
			serdeAttrs = append(serdeAttrs, "default", `skip_serializing_if = "Option::is_none"`)
		}

		writeDoc(&sb, "    ", fieldDoc(p))
		if len(serdeAttrs) > 0 {
			sb.WriteString(fmt.Sprintf("    #[serde(%s)]\n", strings.Join(serdeAttrs, ", ")))
		}
		sb.WriteString(fmt.Sprintf("    pub %s: %s,\n", toRustIdent(fieldName), rustType))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// fieldDoc appends constraint, const and default notes to the description.
// Rust has no field defaults, so they are documented instead.
func fieldDoc(p *schema.Property) string {
	lines := typegen.CommentLines(p.Description)
	var notes []string
	if p.IsConst() {
		notes = append(notes, fmt.Sprintf("Fixed value: `%s`", schema.Quote(*p.Const)))
	}
	if p.MinLength != nil {
		notes = append(notes, fmt.Sprintf("Validation: min length: %d", *p.MinLength))
	}
	if p.Minimum != nil {
		notes = append(notes, fmt.Sprintf("Validation: min value: %g", *p.Minimum))
	}
	if p.Default != nil {
		notes = append(notes, fmt.Sprintf("Default: `%s`", p.Default.JSON()))
	}
	if len(notes) > 0 && len(lines) > 0 {
		lines = append(lines, "")
	}
	return strings.Join(append(lines, notes...), "\n")
}

// writeDoc writes rustdoc lines, keeping blank separator lines
func writeDoc(sb *strings.Builder, indent, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			sb.WriteString(indent + "///\n")
			continue
		}
		sb.WriteString(indent + "/// " + line + "\n")
	}
}

// Rust keywords that need raw identifier prefix (r#)
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "static": true, "struct": true, "trait": true,
	"true": true, "type": true, "unsafe": true, "use": true, "where": true,
	"while": true, "yield": true,
}

// toRustIdent converts an identifier to a valid Rust identifier
// Adds r# prefix for Rust keywords. self, Self, super and crate cannot be
// raw identifiers and get an underscore suffix instead.
func toRustIdent(s string) string {
	switch s {
	case "self", "Self", "super", "crate":
		return s + "_"
	}
	if rustKeywords[s] {
		return "r#" + s
	}
	return s
}
