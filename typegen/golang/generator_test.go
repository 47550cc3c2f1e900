package golang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/schema"
	"github.com/teranos/contractgen/typegen"
)

const toneSchema = `{
  "$comment": "example v1.0",
  "properties": {
    "role": {"type": "string"},
    "tone": {"type": "string", "enum": ["NEUTRAL", "PROFESSIONAL"]},
    "constraints": {"type": "array", "items": {"type": "string"}},
    "retries": {"type": "integer", "default": 3}
  },
  "required": ["role", "tone"]
}`

func emit(t *testing.T, src string) (string, *ast.File) {
	t.Helper()
	doc, err := schema.Parse([]byte(src), "example.schema.json", schema.Options{})
	require.NoError(t, err)

	out, err := NewGenerator(typegen.Provenance{}, "").Emit(doc)
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), "contracts.gen.go", out, parser.ParseComments)
	require.NoError(t, err, "generated code must parse:\n%s", out)
	return string(out), file
}

// normalize collapses runs of whitespace so assertions survive gofmt alignment
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func structType(t *testing.T, file *ast.File, name string) *ast.StructType {
	t.Helper()
	obj := file.Scope.Lookup(name)
	require.NotNil(t, obj, "type %s not declared", name)
	spec, ok := obj.Decl.(*ast.TypeSpec)
	require.True(t, ok)
	st, ok := spec.Type.(*ast.StructType)
	require.True(t, ok, "%s is not a struct", name)
	return st
}

func TestEmitToneExample(t *testing.T) {
	code, file := emit(t, toneSchema)

	assert.Equal(t, "contracts", file.Name.Name)
	assert.True(t, strings.HasPrefix(code, "// Code generated by contractgen. DO NOT EDIT.\n"))
	assert.Contains(t, code, "// "+typegen.DoNotEdit+"\n")

	n := normalize(code)
	assert.Contains(t, n, `const SchemaVersion = "1.0"`)
	assert.Contains(t, n, `type Tone string`)
	assert.Contains(t, n, `ToneNeutral Tone = "NEUTRAL"`)
	assert.Contains(t, n, `ToneProfessional Tone = "PROFESSIONAL"`)
	assert.Contains(t, n, `var ToneValues = []Tone{ToneNeutral, ToneProfessional}`)

	root := structType(t, file, "PromptSchema")
	var fields []string
	for _, f := range root.Fields.List {
		fields = append(fields, f.Names[0].Name+" "+normalize(code[f.Type.Pos()-1:f.Type.End()-1])+" "+f.Tag.Value)
	}
	assert.Equal(t, []string{
		"Role string `json:\"role\"`",
		"Tone Tone `json:\"tone\"`",
		"Constraints []string `json:\"constraints,omitempty\"`",
		"Retries *int64 `json:\"retries,omitempty\"`",
	}, fields)

	assert.Contains(t, code, "// Defaults to 3.\n")
}

func TestEmitPromptSchema(t *testing.T) {
	doc, err := schema.Load(filepath.Join("..", "..", "schema", "testdata", "prompt.schema.json"), schema.Options{})
	require.NoError(t, err)

	out, err := NewGenerator(typegen.Provenance{}, "promptforge").Emit(doc)
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), "contracts.gen.go", out, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "promptforge", file.Name.Name)

	code := normalize(string(out))
	assert.Contains(t, code, `WritingStyleStepByStep WritingStyle = "STEP_BY_STEP"`)
	assert.Contains(t, code, "OutputFormat *OutputFormat `json:\"outputFormat,omitempty\"`")
	assert.Contains(t, code, "MaxLength *int64 `json:\"maxLength,omitempty\"`")
	assert.Contains(t, code, "SchemaVersion string `json:\"schemaVersion\"`")
	assert.Contains(t, code, "Audience *Audience `json:\"audience,omitempty\"`")
	assert.Contains(t, code, `// Always "1.0".`)

	structType(t, file, "OutputFormat")
	assert.Less(t, strings.Index(code, "type OutputFormat struct"), strings.Index(code, "type PromptSchema struct"))
}

func TestEmitUnsupportedType(t *testing.T) {
	doc, err := schema.Parse([]byte(`{"properties": {"at": {"type": "timestamp"}}}`), "x.json", schema.Options{})
	require.NoError(t, err)

	_, err = NewGenerator(typegen.Provenance{}, "").Emit(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedType))
}

func TestEmitIsDeterministic(t *testing.T) {
	first, _ := emit(t, toneSchema)
	for i := 0; i < 3; i++ {
		again, _ := emit(t, toneSchema)
		assert.Equal(t, first, again)
	}
}
