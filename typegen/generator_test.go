package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teranos/contractgen/errors"
)

func TestProvenanceLines(t *testing.T) {
	p := Provenance{Command: []string{"make", "contracts", "OUT=generated files"}}
	assert.Equal(t, []string{
		"AUTO-GENERATED - DO NOT EDIT",
		"Generated from prompt.schema.json v2.1",
		`Run "make contracts 'OUT=generated files'" to regenerate`,
	}, p.Lines(testDoc()))
}

func TestProvenanceDefaultCommand(t *testing.T) {
	assert.Equal(t, "contractgen generate", Provenance{}.CommandLine())
}

func TestUnsupportedTypeError(t *testing.T) {
	err := &UnsupportedTypeError{Backend: "rust", Property: "when", RawType: "date"}
	assert.Equal(t, `rust: property "when" has unsupported type "date"`, err.Error())
	assert.True(t, errors.Is(err, errors.ErrUnsupportedType))
	assert.False(t, errors.IsFatal(err))
	assert.True(t, errors.IsBackendFailure(errors.Wrap(err, "emit rust")))

	untyped := &UnsupportedTypeError{Backend: "go", Property: "blob"}
	assert.Equal(t, `go: property "blob" has no type, enum or const`, untyped.Error())
}

func TestCommentLines(t *testing.T) {
	assert.Equal(t, []string{"first", "second"}, CommentLines("  first\n\n second  \n"))
	assert.Nil(t, CommentLines(""))
}
