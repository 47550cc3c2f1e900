package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/contractgen/errors"
)

func TestLoadPromptSchema(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "prompt.schema.json"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "PromptSchema", doc.Name)
	assert.Equal(t, "prompt.schema.json", doc.Source)
	assert.Equal(t, "1.0", doc.Version)
	assert.False(t, doc.VersionFallback)

	var names []string
	for _, p := range doc.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"schemaVersion", "role", "domain", "audience", "expertiseLevel", "tone",
		"writingStyle", "objective", "constraints", "outputFormat", "context",
	}, names, "property order follows the source text")

	assert.True(t, doc.IsRequired("tone"))
	assert.False(t, doc.IsRequired("audience"))

	tone := doc.Property("tone")
	require.NotNil(t, tone)
	assert.Equal(t, []string{"NEUTRAL", "PROFESSIONAL", "FRIENDLY", "STRICT", "CREATIVE", "PERSUASIVE"}, tone.Enum)

	sv := doc.Property("schemaVersion")
	require.NotNil(t, sv)
	require.NotNil(t, sv.Const)
	assert.Equal(t, "1.0", *sv.Const)

	role := doc.Property("role")
	require.NotNil(t, role.MinLength)
	assert.Equal(t, 1, *role.MinLength)

	audience := doc.Property("audience")
	require.NotNil(t, audience.Default)
	assert.Equal(t, Value{Kind: ValueString, String: "GENERAL"}, *audience.Default)

	constraints := doc.Property("constraints")
	require.NotNil(t, constraints.Items)
	assert.Equal(t, TypeString, constraints.Items.Type)
	assert.Equal(t, "constraints", constraints.Items.Name, "items carry the owner's name")

	of := doc.Property("outputFormat")
	require.True(t, of.IsObject())
	require.Len(t, of.Properties, 5)
	assert.Equal(t, "useHeadings", of.Properties[0].Name)
	assert.Equal(t, "maxLength", of.Properties[4].Name)
	require.NotNil(t, of.Properties[4].Minimum)
	assert.Equal(t, 100.0, *of.Properties[4].Minimum)

	var enums []string
	for _, p := range doc.Enums() {
		enums = append(enums, p.Name)
	}
	assert.Equal(t, []string{"audience", "expertiseLevel", "tone", "writingStyle"}, enums)
	require.Len(t, doc.Composites(), 1)
	assert.Equal(t, "outputFormat", doc.Composites()[0].Name)
}

func TestLoadYAML(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "prompt.schema.yaml"), Options{})
	require.NoError(t, err)

	require.Len(t, doc.Properties, 6)
	assert.Equal(t, "fallbackTone", doc.Properties[2].Name)
	assert.Equal(t, []string{"NEUTRAL", "PROFESSIONAL"}, doc.Properties[2].Enum, "aliases resolve")

	assert.Equal(t, Value{Kind: ValueNumber, Number: "16"}, *doc.Property("retries").Default)
	assert.Equal(t, Value{Kind: ValueNumber, Number: "0.25"}, *doc.Property("temperature").Default)
	assert.Equal(t, Value{Kind: ValueBool, Bool: true}, *doc.Property("verbose").Default)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSchemaLoad))
	assert.True(t, errors.IsFatal(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "missing.json", le.Source)
}

func TestParseShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		input    string
		wantPath string
		wantMsg  string
	}{
		{"not json", "s.json", `{"properties": `, "", "invalid json"},
		{"empty", "s.json", ``, "", "document is empty"},
		{"trailing data", "s.json", `{"properties": {}} {}`, "", "after document"},
		{"duplicate key", "s.json", `{"properties": {"a": {"type": "string"}, "a": {"type": "string"}}}`, "", "duplicate key"},
		{"root not object", "s.json", `[]`, "", "root must be an object"},
		{"missing properties", "s.json", `{"required": []}`, "properties", "missing"},
		{"properties not object", "s.json", `{"properties": []}`, "properties", "must be an object"},
		{"property not object", "s.json", `{"properties": {"a": "string"}}`, "properties.a", "property must be an object"},
		{"type not string", "s.json", `{"properties": {"a": {"type": ["string", "null"]}}}`, "properties.a.type", "must be a string"},
		{"enum not strings", "s.json", `{"properties": {"a": {"enum": [1, 2]}}}`, "properties.a.enum[0]", "must be a string"},
		{"required not list", "s.json", `{"properties": {}, "required": "a"}`, "required", "must be a list"},
		{"const not string", "s.json", `{"properties": {"a": {"const": 1}}}`, "properties.a.const", "must be a string"},
		{"object default", "s.json", `{"properties": {"a": {"type": "string", "default": {}}}}`, "properties.a.default", "object defaults"},
		{"negative minLength", "s.json", `{"properties": {"a": {"type": "string", "minLength": -1}}}`, "properties.a.minLength", "non-negative integer"},
		{"fractional minLength", "s.json", `{"properties": {"a": {"type": "string", "minLength": 1.5}}}`, "properties.a.minLength", "non-negative integer"},
		{"minimum not number", "s.json", `{"properties": {"a": {"type": "integer", "minimum": "1"}}}`, "properties.a.minimum", "must be a number"},
		{"yaml syntax", "s.yaml", "properties: [\n", "", "invalid yaml"},
		{"yaml duplicate", "s.yml", "properties: {}\nproperties: {}\n", "", "duplicate key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.source, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrSchemaLoad), "got %v", err)
			assert.False(t, errors.Is(err, errors.ErrSchemaValidation))

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.wantPath, le.Path)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseTitleSelectsRootName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"", "Contract"},
		{"PromptRequest", "PromptRequest"},
		{"Prompt schema", "Contract"},
		{"promptRequest", "Contract"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			src := `{"title": "` + tt.title + `", "properties": {}}`
			doc, err := Parse([]byte(src), "s.json", Options{RootType: "Contract"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Name)
			assert.Equal(t, tt.title, doc.Title)
		})
	}
}

func TestParseVersionHandling(t *testing.T) {
	t.Run("fallback", func(t *testing.T) {
		doc, err := Parse([]byte(`{"$comment": "unversioned", "properties": {}}`), "s.json", Options{})
		require.NoError(t, err)
		assert.Equal(t, "1.0", doc.Version)
		assert.True(t, doc.VersionFallback)
	})

	t.Run("strict", func(t *testing.T) {
		_, err := Parse([]byte(`{"$comment": "unversioned", "properties": {}}`), "s.json", Options{StrictVersion: true})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSchemaLoad))

		var le *LoadError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "$comment", le.Path)
	})

	t.Run("constraint", func(t *testing.T) {
		_, err := Parse([]byte(`{"$comment": "v2.1", "properties": {}}`), "s.json", Options{VersionConstraint: "< 2.0"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSchemaLoad))
		assert.Contains(t, err.Error(), "does not satisfy")
	})

	t.Run("validation runs before version", func(t *testing.T) {
		_, err := Parse([]byte(`{"$comment": "nope", "properties": {}, "required": ["x"]}`), "s.json", Options{StrictVersion: true})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSchemaValidation))
	})
}

func TestLoadReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"$comment": "v3.2", "properties": {"id": {"type": "string"}}, "required": ["id"]}`), 0o644))

	doc, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "3.2", doc.Version)
	assert.Equal(t, "custom.json", doc.Source)
}
