// Package typegen turns a schema document into per-language contract
// artifacts.
//
// Each target language implements Emitter. Emitters read the shared
// *schema.Document and never modify it, so Generate can run them in
// parallel. Output is a pure function of the document: emitters iterate
// document order only and never range over maps.
package typegen

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/schema"
)

// Emitter renders a schema document for one target language.
type Emitter interface {
	// Name returns the backend name (e.g., "typescript", "python")
	Name() string

	// FileExtension returns the file extension for this language (e.g., "ts", "py", "rs")
	FileExtension() string

	// Emit renders the complete artifact for doc
	Emit(doc *schema.Document) ([]byte, error)
}

// Artifact is the output of one emitter for one run. It is never mutated
// after creation.
type Artifact struct {
	Backend string
	Path    string
	Content []byte
	Version string
}

// UnsupportedTypeError reports a property whose type has no mapping in a backend.
type UnsupportedTypeError struct {
	Backend  string
	Property string
	RawType  string
}

func (e *UnsupportedTypeError) Error() string {
	if e.RawType == "" {
		return fmt.Sprintf("%s: property %q has no type, enum or const", e.Backend, e.Property)
	}
	return fmt.Sprintf("%s: property %q has unsupported type %q", e.Backend, e.Property, e.RawType)
}

// Is reports UnsupportedTypeError as errors.ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool { return target == errors.ErrUnsupportedType }

// DefaultCommand is the regeneration command written into provenance headers.
var DefaultCommand = []string{"contractgen", "generate"}

// Provenance is the banner every artifact begins with.
type Provenance struct {
	// Command is the regeneration command, one argument per element.
	Command []string
}

// DoNotEdit is the marker every artifact carries in its header.
const DoNotEdit = "AUTO-GENERATED - DO NOT EDIT"

// Lines returns the banner text without comment markers.
func (p Provenance) Lines(doc *schema.Document) []string {
	return []string{
		DoNotEdit,
		fmt.Sprintf("Generated from %s v%s", doc.Source, doc.Version),
		fmt.Sprintf("Run \"%s\" to regenerate", p.CommandLine()),
	}
}

// CommandLine renders Command as a shell-safe command line.
func (p Provenance) CommandLine() string {
	cmd := p.Command
	if len(cmd) == 0 {
		cmd = DefaultCommand
	}
	return shellquote.Join(cmd...)
}

// CommentLines splits a description into trimmed, non-empty lines for use
// in generated comments.
func CommentLines(description string) []string {
	var lines []string
	for _, line := range strings.Split(description, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
