package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/contractgen/errors"
)

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
		wantRule string
	}{
		{
			name:     "required names an undefined property",
			input:    `{"properties": {"a": {"type": "string"}}, "required": ["a", "b"]}`,
			wantPath: "required[1]",
			wantRule: RuleRequiredExists,
		},
		{
			name:     "empty enum",
			input:    `{"properties": {"tone": {"type": "string", "enum": []}}}`,
			wantPath: "properties.tone.enum",
			wantRule: RuleEnumNonEmpty,
		},
		{
			name:     "duplicate enum value",
			input:    `{"properties": {"tone": {"enum": ["A", "B", "A"]}}}`,
			wantPath: "properties.tone.enum[2]",
			wantRule: RuleEnumDistinct,
		},
		{
			name:     "object without properties",
			input:    `{"properties": {"format": {"type": "object"}}}`,
			wantPath: "properties.format",
			wantRule: RuleObjectProperties,
		},
		{
			name:     "object nested in object",
			input:    `{"properties": {"format": {"type": "object", "properties": {"inner": {"type": "object", "properties": {"x": {"type": "string"}}}}}}}`,
			wantPath: "properties.format.properties.inner",
			wantRule: RuleObjectDepth,
		},
		{
			name:     "nested required names an undefined field",
			input:    `{"properties": {"format": {"type": "object", "properties": {"x": {"type": "string"}}, "required": ["y"]}}}`,
			wantPath: "properties.format.required[0]",
			wantRule: RuleRequiredExists,
		},
		{
			name:     "array of arrays",
			input:    `{"properties": {"grid": {"type": "array", "items": {"type": "array"}}}}`,
			wantPath: "properties.grid.items",
			wantRule: RuleItemsPrimitive,
		},
		{
			name:     "array of objects",
			input:    `{"properties": {"rows": {"type": "array", "items": {"type": "object", "properties": {"x": {"type": "string"}}}}}}`,
			wantPath: "properties.rows.items",
			wantRule: RuleItemsPrimitive,
		},
		{
			name:     "enum name with separator",
			input:    `{"properties": {"writing_style": {"enum": ["A"]}}}`,
			wantPath: "properties.writing_style",
			wantRule: RuleIdentifier,
		},
		{
			name:     "field name with dash",
			input:    `{"properties": {"max-length": {"type": "integer"}}}`,
			wantPath: "properties.max-length",
			wantRule: RuleIdentifier,
		},
		{
			name:     "enum collides with root type",
			input:    `{"properties": {"promptSchema": {"enum": ["A"]}}}`,
			wantPath: "properties.promptSchema",
			wantRule: RuleIdentifier,
		},
		{
			name:     "nested enum collides with top-level enum",
			input:    `{"properties": {"tone": {"enum": ["A"]}, "format": {"type": "object", "properties": {"tone": {"enum": ["B"]}}}}}`,
			wantPath: "properties.format.properties.tone",
			wantRule: RuleIdentifier,
		},
		{
			name:     "enum named like the version constant",
			input:    `{"properties": {"schemaVersion": {"enum": ["A"]}}}`,
			wantPath: "properties.schemaVersion",
			wantRule: RuleIdentifier,
		},
		{
			name:     "enum named like another enum's values table",
			input:    `{"properties": {"tone": {"enum": ["A"]}, "toneValues": {"enum": ["B"]}}}`,
			wantPath: "properties.toneValues",
			wantRule: RuleIdentifier,
		},
		{
			name:     "values table named like an earlier enum",
			input:    `{"properties": {"toneValues": {"enum": ["B"]}, "tone": {"enum": ["A"]}}}`,
			wantPath: "properties.tone",
			wantRule: RuleIdentifier,
		},
		{
			name:     "enum named like another enum's member constant",
			input:    `{"properties": {"tone": {"enum": ["FORMAL"]}, "toneFormal": {"enum": ["X"]}}}`,
			wantPath: "properties.toneFormal",
			wantRule: RuleIdentifier,
		},
		{
			name:     "member constant named like the root type",
			input:    `{"properties": {"prompt": {"enum": ["SCHEMA"]}}}`,
			wantPath: "properties.prompt",
			wantRule: RuleIdentifier,
		},
		{
			name:     "nested array default on a string",
			input:    `{"properties": {"a": {"type": "string", "default": [["a"]]}}}`,
			wantPath: "properties.a.default",
			wantRule: RuleDefaultType,
		},
		{
			name:     "nested array default on an array",
			input:    `{"properties": {"tags": {"type": "array", "items": {"type": "string"}, "default": [["a"]]}}}`,
			wantPath: "properties.tags.default",
			wantRule: RuleDefaultType,
		},
		{
			name:     "string default on an integer",
			input:    `{"properties": {"retries": {"type": "integer", "default": "x"}}}`,
			wantPath: "properties.retries.default",
			wantRule: RuleDefaultType,
		},
		{
			name:     "fractional default on an integer",
			input:    `{"properties": {"retries": {"type": "integer", "default": 1.5}}}`,
			wantPath: "properties.retries.default",
			wantRule: RuleDefaultType,
		},
		{
			name:     "default differs from const",
			input:    `{"properties": {"schemaVersion": {"const": "1.0", "default": "2.0"}}}`,
			wantPath: "properties.schemaVersion.default",
			wantRule: RuleDefaultType,
		},
		{
			name:     "array default outside the item enum",
			input:    `{"properties": {"tags": {"type": "array", "items": {"enum": ["A"]}, "default": ["B"]}}}`,
			wantPath: "properties.tags.default",
			wantRule: RuleDefaultType,
		},
		{
			name:     "default on a nested field",
			input:    `{"properties": {"format": {"type": "object", "properties": {"useLists": {"type": "boolean", "default": "yes"}}}}}`,
			wantPath: "properties.format.properties.useLists.default",
			wantRule: RuleDefaultType,
		},
		{
			name:     "enum default outside the enum",
			input:    `{"properties": {"tone": {"enum": ["A", "B"], "default": "C"}}}`,
			wantPath: "properties.tone.default",
			wantRule: RuleDefaultMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), "s.json", Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrSchemaValidation), "got %v", err)
			assert.True(t, errors.IsFatal(err))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			require.NotEmpty(t, ve.Violations)
			assert.Equal(t, tt.wantPath, ve.Violations[0].Path)
			assert.Equal(t, tt.wantRule, ve.Violations[0].Rule)
		})
	}
}

func TestValidateCollectsAllViolationsSorted(t *testing.T) {
	input := `{
		"properties": {
			"zeta": {"enum": []},
			"alpha": {"type": "object"},
			"mid": {"type": "array", "items": {"type": "array"}}
		},
		"required": ["missing"]
	}`

	_, err := Parse([]byte(input), "s.json", Options{})
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	var paths []string
	for _, v := range ve.Violations {
		paths = append(paths, v.Path)
	}
	assert.Equal(t, []string{
		"properties.alpha",
		"properties.mid.items",
		"properties.zeta.enum",
		"required[0]",
	}, paths)
	assert.Contains(t, err.Error(), "4 violations")
}

func TestValidateAcceptsUnknownTypes(t *testing.T) {
	// Unknown type tags are the type mapper's concern, not the validator's.
	doc, err := Parse([]byte(`{"properties": {"when": {"type": "datetime"}, "blob": {}}}`), "s.json", Options{})
	require.NoError(t, err)
	assert.Equal(t, "datetime", doc.Property("when").Type)
	assert.Empty(t, doc.Property("blob").Type)
}

func TestValidateNullEnumDefault(t *testing.T) {
	_, err := Parse([]byte(`{"properties": {"tone": {"enum": ["A"], "default": null}}}`), "s.json", Options{})
	assert.NoError(t, err)
}

func TestValidateAcceptsMatchingDefaults(t *testing.T) {
	input := `{"properties": {
		"label": {"type": "string", "default": "x"},
		"retries": {"type": "integer", "default": 3},
		"big": {"type": "integer", "default": 1e3},
		"ratio": {"type": "number", "default": 0.5},
		"strict": {"type": "boolean", "default": false},
		"tags": {"type": "array", "default": ["a", "b"]},
		"levels": {"type": "array", "items": {"enum": ["LOW", "HIGH"]}, "default": ["HIGH"]},
		"version": {"const": "1.0", "default": "1.0"},
		"when": {"type": "datetime", "default": "2024-01-01"},
		"nothing": {"type": "string", "default": null}
	}}`
	_, err := Parse([]byte(input), "s.json", Options{})
	assert.NoError(t, err)
}
