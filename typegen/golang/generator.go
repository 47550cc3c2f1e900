// Package golang emits Go contract types rendered with jennifer, so the
// output is gofmt-clean by construction.
package golang

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/schema"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/util"
)

// DefaultPackage is the package clause used when none is configured.
const DefaultPackage = "contracts"

// Generator implements typegen.Emitter for Go
type Generator struct {
	provenance typegen.Provenance
	pkg        string
}

// NewGenerator creates a Go generator writing into package pkg
func NewGenerator(provenance typegen.Provenance, pkg string) *Generator {
	if pkg == "" {
		pkg = DefaultPackage
	}
	return &Generator{provenance: provenance, pkg: pkg}
}

// Name returns "go"
func (g *Generator) Name() string {
	return "go"
}

// FileExtension returns "go"
func (g *Generator) FileExtension() string {
	return "go"
}

// TypeMapping defines how schema primitive types map to Go types
var TypeMapping = map[string]string{
	schema.TypeString:  "string",
	schema.TypeInteger: "int64",
	schema.TypeNumber:  "float64",
	schema.TypeBoolean: "bool",
}

var typeConverterConfig = &util.TypeConverterConfig{
	Backend:     "go",
	TypeMapping: TypeMapping,
	ArrayFormat: func(elem string) string { return "[]" + elem },
}

// Emit renders the Go source file for doc
func (g *Generator) Emit(doc *schema.Document) ([]byte, error) {
	f := jen.NewFile(g.pkg)
	f.HeaderComment("Code generated by contractgen. DO NOT EDIT.")
	for _, line := range g.provenance.Lines(doc) {
		f.HeaderComment(line)
	}

	f.Comment("SchemaVersion is the version of the schema these types were generated from.")
	f.Const().Id(schema.SchemaVersionName).Op("=").Lit(doc.Version)

	for _, p := range doc.Enums() {
		f.Line()
		generateEnum(f, schema.TypeName(p.Name), p.Enum, p.Description)
	}

	for _, p := range doc.Composites() {
		fields, err := structFields(p.Properties, p.IsRequired)
		if err != nil {
			return nil, err
		}
		f.Line()
		writeDoc(f, p.Description)
		f.Type().Id(schema.TypeName(p.Name)).Struct(fields...)
	}

	fields, err := structFields(doc.Properties, doc.IsRequired)
	if err != nil {
		return nil, err
	}
	rootDoc := doc.Description
	if rootDoc == "" {
		rootDoc = doc.Title
	}
	f.Line()
	writeDoc(f, rootDoc)
	f.Type().Id(doc.Name).Struct(fields...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render Go source")
	}
	return buf.Bytes(), nil
}

// generateEnum emits a string type, one constant per value and a slice of
// all values, in declared order:
//
//	type Tone string
//
//	const (
//		ToneNeutral      Tone = "NEUTRAL"
//		ToneProfessional Tone = "PROFESSIONAL"
//	)
//
//	var ToneValues = []Tone{ToneNeutral, ToneProfessional}
func generateEnum(f *jen.File, name string, values []string, description string) {
	members := schema.EnumMemberNames(values)

	writeDoc(f, description)
	f.Type().Id(name).String()

	defs := make([]jen.Code, len(values))
	refs := make([]jen.Code, len(values))
	for i, v := range values {
		defs[i] = jen.Id(name + members[i]).Id(name).Op("=").Lit(v)
		refs[i] = jen.Id(name + members[i])
	}
	f.Const().Defs(defs...)

	f.Commentf("%sValues lists every %s in schema order.", name, name)
	f.Var().Id(name + "Values").Op("=").Index().Id(name).Values(refs...)
}

// structFields renders one exported field per property. Optional scalar
// fields are pointers and optional slices rely on nil; both are omitted
// from JSON when absent.
func structFields(props []*schema.Property, required func(string) bool) ([]jen.Code, error) {
	var fields []jen.Code
	for _, p := range props {
		goType, err := util.MapType(p, typeConverterConfig)
		if err != nil {
			return nil, err
		}

		tag := p.Name
		typ := jen.Id(goType)
		if !required(p.Name) {
			tag += ",omitempty"
			if p.Type != schema.TypeArray || p.IsEnum() || p.IsConst() {
				typ = jen.Op("*").Id(goType)
			}
		}

		for _, line := range fieldDoc(p) {
			fields = append(fields, jen.Comment(line))
		}
		fields = append(fields, jen.Id(schema.TypeName(p.Name)).Add(typ).Tag(map[string]string{"json": tag}))
	}
	return fields, nil
}

func fieldDoc(p *schema.Property) []string {
	lines := typegen.CommentLines(p.Description)
	if p.IsConst() {
		lines = append(lines, fmt.Sprintf("Always %s.", schema.Quote(*p.Const)))
	}
	if p.MinLength != nil {
		lines = append(lines, fmt.Sprintf("Minimum length %d.", *p.MinLength))
	}
	if p.Minimum != nil {
		lines = append(lines, fmt.Sprintf("Minimum %g.", *p.Minimum))
	}
	if p.Default != nil {
		lines = append(lines, fmt.Sprintf("Defaults to %s.", p.Default.JSON()))
	}
	return lines
}

func writeDoc(f *jen.File, text string) {
	for _, line := range typegen.CommentLines(text) {
		f.Comment(line)
	}
}
