// Package markdown emits a human-readable reference of the contract.
package markdown

import (
	"fmt"
	"strings"

	"github.com/teranos/contractgen/schema"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/util"
)

// Generator implements typegen.Emitter for Markdown documentation
type Generator struct {
	provenance typegen.Provenance
}

// NewGenerator creates a new Markdown generator
func NewGenerator(provenance typegen.Provenance) *Generator {
	return &Generator{provenance: provenance}
}

// Name returns "markdown"
func (g *Generator) Name() string {
	return "markdown"
}

// FileExtension returns "md"
func (g *Generator) FileExtension() string {
	return "md"
}

// TypeMapping names schema primitive types as they appear in the tables
var TypeMapping = map[string]string{
	schema.TypeString:  "string",
	schema.TypeInteger: "integer",
	schema.TypeNumber:  "number",
	schema.TypeBoolean: "boolean",
}

var typeConverterConfig = &util.TypeConverterConfig{
	Backend:     "markdown",
	TypeMapping: TypeMapping,
	ArrayFormat: func(elem string) string { return elem + "[]" },
	ConstFormat: schema.Quote,
	RefFormat:   link,
}

// link references the section documenting a type
func link(typeName string) string {
	return fmt.Sprintf("[%s](#%s)", typeName, strings.ToLower(typeName))
}

// Emit renders the Markdown reference for doc
func (g *Generator) Emit(doc *schema.Document) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("<!--\n")
	for _, line := range g.provenance.Lines(doc) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("-->\n\n")

	sb.WriteString("# " + doc.Name + "\n\n")
	writeParagraph(&sb, doc.Description)
	sb.WriteString(fmt.Sprintf("Schema version: `%s`\n", doc.Version))

	if enums := doc.Enums(); len(enums) > 0 {
		sb.WriteString("\n## Enumerations\n")
		for _, p := range enums {
			sb.WriteString("\n")
			sb.WriteString(GenerateEnum(schema.TypeName(p.Name), p.Enum, p.Description))
		}
	}

	if composites := doc.Composites(); len(composites) > 0 {
		sb.WriteString("\n## Types\n")
		for _, p := range composites {
			table, err := GenerateTable(p.Properties, p.IsRequired)
			if err != nil {
				return nil, err
			}
			sb.WriteString("\n### " + schema.TypeName(p.Name) + "\n\n")
			writeParagraph(&sb, p.Description)
			sb.WriteString(table)
		}
	}

	table, err := GenerateTable(doc.Properties, doc.IsRequired)
	if err != nil {
		return nil, err
	}
	sb.WriteString("\n## Fields\n\n")
	sb.WriteString(table)

	return []byte(sb.String()), nil
}

// GenerateEnum documents an enumeration, values in declared order
func GenerateEnum(name string, values []string, description string) string {
	var sb strings.Builder
	sb.WriteString("### " + name + "\n\n")
	writeParagraph(&sb, description)
	sb.WriteString("| Value |\n|---|\n")
	for _, v := range values {
		sb.WriteString("| " + code(v) + " |\n")
	}
	return sb.String()
}

// GenerateTable documents one field per property
func GenerateTable(props []*schema.Property, required func(string) bool) (string, error) {
	var sb strings.Builder
	sb.WriteString("| Field | Type | Required | Default | Description |\n")
	sb.WriteString("|---|---|---|---|---|\n")

	for _, p := range props {
		mdType, err := util.MapType(p, typeConverterConfig)
		if err != nil {
			return "", err
		}
		if !strings.Contains(mdType, "](#") {
			mdType = code(mdType)
		}

		req := "no"
		if required(p.Name) {
			req = "yes"
		}

		def := ""
		if p.Default != nil {
			def = code(p.Default.JSON())
		}

		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			code(p.Name), mdType, req, def, cell(describe(p))))
	}
	return sb.String(), nil
}

func describe(p *schema.Property) string {
	parts := typegen.CommentLines(p.Description)
	if p.MinLength != nil {
		parts = append(parts, fmt.Sprintf("Minimum length %d.", *p.MinLength))
	}
	if p.Minimum != nil {
		parts = append(parts, fmt.Sprintf("Minimum %g.", *p.Minimum))
	}
	return strings.Join(parts, "\n")
}

func writeParagraph(sb *strings.Builder, text string) {
	if lines := typegen.CommentLines(text); len(lines) > 0 {
		sb.WriteString(strings.Join(lines, "\n") + "\n\n")
	}
}

// code wraps s in a code span, widening the fence when s contains backticks
func code(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

// cell escapes text for use inside a table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}
