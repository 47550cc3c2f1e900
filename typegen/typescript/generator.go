package typescript

import (
	"fmt"
	"strings"

	"github.com/teranos/contractgen/schema"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/util"
)

// Generator implements typegen.Emitter for TypeScript
type Generator struct {
	provenance typegen.Provenance
}

// NewGenerator creates a new TypeScript generator
func NewGenerator(provenance typegen.Provenance) *Generator {
	return &Generator{provenance: provenance}
}

// Name returns "typescript"
func (g *Generator) Name() string {
	return "typescript"
}

// FileExtension returns "ts"
func (g *Generator) FileExtension() string {
	return "ts"
}

// TypeMapping defines how schema primitive types map to TypeScript types
var TypeMapping = map[string]string{
	schema.TypeString:  "string",
	schema.TypeInteger: "number",
	schema.TypeNumber:  "number",
	schema.TypeBoolean: "boolean",
}

// typeConverterConfig is the TypeScript-specific type conversion configuration
var typeConverterConfig = &util.TypeConverterConfig{
	Backend:     "typescript",
	TypeMapping: TypeMapping,
	ArrayFormat: func(elem string) string { return elem + "[]" },
	ConstFormat: schema.Quote,
}

// Emit renders the TypeScript module for doc
func (g *Generator) Emit(doc *schema.Document) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("/**\n")
	for _, line := range g.provenance.Lines(doc) {
		sb.WriteString(" * " + line + "\n")
	}
	sb.WriteString(" */\n\n")

	sb.WriteString("// Schema Version\n")
	sb.WriteString(fmt.Sprintf("export const SCHEMA_VERSION = %s as const;\n", schema.Quote(doc.Version)))

	for _, p := range doc.Enums() {
		sb.WriteString("\n")
		sb.WriteString(GenerateEnum(schema.TypeName(p.Name), p.Enum, p.Description))
	}

	for _, p := range doc.Composites() {
		sb.WriteString("\n")
		body, err := GenerateInterface(schema.TypeName(p.Name), p.Description, p.Properties, p.IsRequired)
		if err != nil {
			return nil, err
		}
		sb.WriteString(body)
	}

	sb.WriteString("\n")
	rootDoc := doc.Description
	if rootDoc == "" {
		rootDoc = doc.Title
	}
	body, err := GenerateInterface(doc.Name, rootDoc, doc.Properties, doc.IsRequired)
	if err != nil {
		return nil, err
	}
	sb.WriteString(body)

	return []byte(sb.String()), nil
}

// GenerateEnum creates a string literal union plus a tuple of its values,
// both in declared order:
//
//	export type Tone = "NEUTRAL" | "PROFESSIONAL";
//	export const ToneValues = ["NEUTRAL", "PROFESSIONAL"] as const;
func GenerateEnum(name string, values []string, description string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = schema.Quote(v)
	}

	var sb strings.Builder
	writeDoc(&sb, "", description)
	sb.WriteString(fmt.Sprintf("export type %s = %s;\n", name, strings.Join(quoted, " | ")))
	sb.WriteString(fmt.Sprintf("export const %sValues = [%s] as const;\n", name, strings.Join(quoted, ", ")))
	return sb.String()
}

// GenerateInterface creates an exported interface with one field per
// property. Fields not reported by required are marked optional with "?".
func GenerateInterface(name, description string, props []*schema.Property, required func(string) bool) (string, error) {
	var sb strings.Builder

	writeDoc(&sb, "", description)
	sb.WriteString(fmt.Sprintf("export interface %s {\n", name))
	for _, p := range props {
		tsType, err := util.MapType(p, typeConverterConfig)
		if err != nil {
			return "", err
		}
		optional := "?"
		if required(p.Name) {
			optional = ""
		}
		writeDoc(&sb, "  ", p.Description)
		sb.WriteString(fmt.Sprintf("  %s%s: %s;\n", util.CamelFields(p.Name), optional, tsType))
	}
	sb.WriteString("}\n")

	return sb.String(), nil
}

// writeDoc writes a JSDoc comment: one line when the text fits on one
// line, a block otherwise.
func writeDoc(sb *strings.Builder, indent, text string) {
	lines := typegen.CommentLines(text)
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(l, "*/", "*\\/")
	}
	switch len(lines) {
	case 0:
	case 1:
		sb.WriteString(indent + "/** " + lines[0] + " */\n")
	default:
		sb.WriteString(indent + "/**\n")
		for _, l := range lines {
			sb.WriteString(indent + " * " + l + "\n")
		}
		sb.WriteString(indent + " */\n")
	}
}
