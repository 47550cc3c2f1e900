package python

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/contractgen/schema"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/util"
)

// Generator implements typegen.Emitter for Python (pydantic models)
type Generator struct {
	provenance typegen.Provenance
}

// NewGenerator creates a new Python generator
func NewGenerator(provenance typegen.Provenance) *Generator {
	return &Generator{provenance: provenance}
}

// Name returns "python"
func (g *Generator) Name() string {
	return "python"
}

// FileExtension returns "py"
func (g *Generator) FileExtension() string {
	return "py"
}

// TypeMapping defines how schema primitive types map to Python types
var TypeMapping = map[string]string{
	schema.TypeString:  "str",
	schema.TypeInteger: "int",
	schema.TypeNumber:  "float",
	schema.TypeBoolean: "bool",
}

// typeConverterConfig is the Python-specific type conversion configuration
var typeConverterConfig = &util.TypeConverterConfig{
	Backend:     "python",
	TypeMapping: TypeMapping,
	ArrayFormat: func(elem string) string { return "List[" + elem + "]" },
	ConstFormat: func(lit string) string { return "Literal[" + schema.Quote(lit) + "]" },
}

// pythonKeywords are reserved words in Python that need special handling
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
	// Soft keywords (Python 3.10+)
	"match": true, "case": true, "type": true,
}

// toPythonIdent converts an identifier to a valid Python identifier
// Adds underscore suffix for Python keywords
func toPythonIdent(s string) string {
	if pythonKeywords[s] {
		return s + "_"
	}
	return s
}

var (
	pythonIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	nonIdentChars      = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// EnumMemberNames returns the member identifier for each enum literal.
// Literals that are already valid identifiers are kept verbatim
// (NEUTRAL = "NEUTRAL"); others are upper-snake sanitised. Collisions get a
// numeric suffix.
func EnumMemberNames(values []string) []string {
	names := make([]string, len(values))
	used := make(map[string]bool, len(values))
	for i, v := range values {
		name := v
		if !pythonIdentPattern.MatchString(name) {
			name = strings.ToUpper(strings.Trim(nonIdentChars.ReplaceAllString(v, "_"), "_"))
			if name == "" || (name[0] >= '0' && name[0] <= '9') {
				name = "VALUE_" + name
			}
			name = strings.TrimSuffix(name, "_")
		}
		name = toPythonIdent(name)
		base := name
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// imports tracks which names the module body uses
type imports struct {
	enum       bool
	list       bool
	literal    bool
	optional   bool
	field      bool
	configDict bool
}

// Emit renders the Python module for doc
func (g *Generator) Emit(doc *schema.Document) ([]byte, error) {
	var body strings.Builder
	var imp imports

	enumMembers := make(map[*schema.Property][]string)
	for _, p := range doc.Enums() {
		imp.enum = true
		members := EnumMemberNames(p.Enum)
		enumMembers[p] = members
		body.WriteString("\n\n")
		body.WriteString(GenerateEnum(schema.TypeName(p.Name), p.Enum, members, p.Description))
	}

	for _, p := range doc.Composites() {
		model, err := generateModel(schema.TypeName(p.Name), p.Description, p.Properties, p.IsRequired, enumMembers, &imp)
		if err != nil {
			return nil, err
		}
		body.WriteString("\n\n")
		body.WriteString(model)
	}

	rootDoc := doc.Description
	if rootDoc == "" {
		rootDoc = doc.Title
	}
	model, err := generateModel(doc.Name, rootDoc, doc.Properties, doc.IsRequired, enumMembers, &imp)
	if err != nil {
		return nil, err
	}
	body.WriteString("\n\n")
	body.WriteString(model)

	var sb strings.Builder
	sb.WriteString(`"""` + "\n")
	for _, line := range g.provenance.Lines(doc) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString(`"""` + "\n\n")
	sb.WriteString(imp.render())
	sb.WriteString(fmt.Sprintf("\nSCHEMA_VERSION = %s\n", schema.Quote(doc.Version)))
	sb.WriteString(body.String())

	return []byte(sb.String()), nil
}

func (imp imports) render() string {
	var sb strings.Builder
	if imp.enum {
		sb.WriteString("from enum import Enum\n")
	}

	// Alphabetical, as isort would order them
	var typing []string
	if imp.list {
		typing = append(typing, "List")
	}
	if imp.literal {
		typing = append(typing, "Literal")
	}
	if imp.optional {
		typing = append(typing, "Optional")
	}
	if len(typing) > 0 {
		sb.WriteString("from typing import " + strings.Join(typing, ", ") + "\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}

	pydantic := []string{"BaseModel"}
	if imp.configDict {
		pydantic = append(pydantic, "ConfigDict")
	}
	if imp.field {
		pydantic = append(pydantic, "Field")
	}
	sb.WriteString("from pydantic import " + strings.Join(pydantic, ", ") + "\n")
	return sb.String()
}

// GenerateEnum creates a Python Enum class, values in declared order.
// Uses (str, Enum) for JSON serialization compatibility
func GenerateEnum(name string, values, members []string, description string) string {
	var sb strings.Builder
	writeComment(&sb, "", description)
	sb.WriteString(fmt.Sprintf("class %s(str, Enum):\n", name))
	for i, v := range values {
		sb.WriteString(fmt.Sprintf("    %s = %s\n", members[i], schema.Quote(v)))
	}
	return sb.String()
}

func generateModel(name, description string, props []*schema.Property, required func(string) bool, enumMembers map[*schema.Property][]string, imp *imports) (string, error) {
	var fields strings.Builder
	aliased := false

	for _, p := range props {
		line, usesAlias, err := generateField(p, required(p.Name), enumMembers, imp)
		if err != nil {
			return "", err
		}
		aliased = aliased || usesAlias
		writeComment(&fields, "    ", p.Description)
		fields.WriteString(line)
	}

	var sb strings.Builder
	writeComment(&sb, "", description)
	sb.WriteString(fmt.Sprintf("class %s(BaseModel):\n", name))
	if aliased {
		imp.configDict = true
		sb.WriteString("    model_config = ConfigDict(populate_by_name=True)\n\n")
	}
	if len(props) == 0 {
		sb.WriteString("    pass\n")
	}
	sb.WriteString(fields.String())
	return sb.String(), nil
}

// generateField renders one annotated model field:
//
//	role: str
//	audience: Optional[Audience] = Audience.GENERAL
//	max_length: Optional[int] = Field(default=None, alias="maxLength", ge=100)
func generateField(p *schema.Property, required bool, enumMembers map[*schema.Property][]string, imp *imports) (string, bool, error) {
	pyType, err := util.MapType(p, typeConverterConfig)
	if err != nil {
		return "", false, err
	}
	if p.Type == schema.TypeArray && !p.IsConst() && !p.IsEnum() {
		imp.list = true
		if p.Items != nil && p.Items.IsConst() {
			imp.literal = true
		}
	}

	fieldName := toPythonIdent(util.SnakeFields(p.Name))

	var fieldArgs []string
	aliased := fieldName != p.Name
	if aliased {
		fieldArgs = append(fieldArgs, "alias="+schema.Quote(p.Name))
	}
	if p.MinLength != nil {
		fieldArgs = append(fieldArgs, fmt.Sprintf("min_length=%d", *p.MinLength))
	}
	if p.Minimum != nil {
		fieldArgs = append(fieldArgs, "ge="+strconv.FormatFloat(*p.Minimum, 'g', -1, 64))
	}

	if p.IsConst() {
		imp.literal = true
	}

	var annotation, defaultValue string
	switch {
	case required && p.IsConst():
		annotation = pyType
		defaultValue = schema.Quote(*p.Const)
	case required:
		annotation = pyType
		defaultValue = "..."
	default:
		imp.optional = true
		annotation = "Optional[" + pyType + "]"
		switch {
		case p.Default != nil:
			defaultValue = pyLiteral(*p.Default, p, enumMembers)
		case p.IsConst():
			defaultValue = schema.Quote(*p.Const)
		default:
			defaultValue = "None"
		}
	}

	line := fmt.Sprintf("    %s: %s", fieldName, annotation)
	switch {
	case len(fieldArgs) > 0:
		imp.field = true
		if defaultValue == "..." {
			fieldArgs = append([]string{"..."}, fieldArgs...)
		} else {
			fieldArgs = append([]string{"default=" + defaultValue}, fieldArgs...)
		}
		line += " = Field(" + strings.Join(fieldArgs, ", ") + ")"
	case defaultValue != "...":
		line += " = " + defaultValue
	}

	return line + "\n", aliased, nil
}

// pyLiteral renders a default value as a Python expression. Enum defaults
// render as the enum member. p may be nil for values nested deeper than
// the property's items.
func pyLiteral(v schema.Value, p *schema.Property, enumMembers map[*schema.Property][]string) string {
	switch v.Kind {
	case schema.ValueNull:
		return "None"
	case schema.ValueBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case schema.ValueNumber:
		return v.Number
	case schema.ValueString:
		if members, ok := enumMembers[p]; ok {
			for i, value := range p.Enum {
				if value == v.String {
					return schema.TypeName(p.Name) + "." + members[i]
				}
			}
		}
		return schema.Quote(v.String)
	case schema.ValueArray:
		var itemProp *schema.Property
		if p != nil {
			itemProp = p.Items
		}
		items := make([]string, len(v.Items))
		for i, item := range v.Items {
			items[i] = pyLiteral(item, itemProp, enumMembers)
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return "None"
}

// writeComment writes description lines as Python comments
func writeComment(sb *strings.Builder, indent, text string) {
	for _, line := range typegen.CommentLines(text) {
		sb.WriteString(indent + "# " + line + "\n")
	}
}
