package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

// Options controls how a document is loaded.
type Options struct {
	// RootType names the root composite when the schema has no usable title.
	RootType string
	// DefaultVersion is stamped when the annotation carries no version.
	DefaultVersion string
	// StrictVersion turns a missing version into a load failure.
	StrictVersion bool
	// VersionConstraint is an optional semver constraint the version must satisfy.
	VersionConstraint string
}

// DefaultRootType is the root composite name used when none is configured.
const DefaultRootType = "PromptSchema"

func (o Options) withDefaults() Options {
	if o.RootType == "" {
		o.RootType = DefaultRootType
	}
	if o.DefaultVersion == "" {
		o.DefaultVersion = DefaultVersion
	}
	return o
}

// LoadError reports a schema that could not be read or has the wrong shape.
type LoadError struct {
	Source string
	Path   string // location inside the document, empty for file-level errors
	Cause  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load schema %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("load schema %s: %s: %v", e.Source, e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Is reports LoadError as errors.ErrSchemaLoad.
func (e *LoadError) Is(target error) bool { return target == errors.ErrSchemaLoad }

// Load reads, validates and versions the schema document at path.
func Load(path string, opts Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(
			&LoadError{Source: filepath.Base(path), Cause: err},
			"check schema.path in contractgen.toml")
	}
	return Parse(data, path, opts)
}

// Parse builds a Document from raw bytes. source names the document; its
// extension selects JSON or YAML and its base name is stamped into
// provenance headers.
func Parse(data []byte, source string, opts Options) (*Document, error) {
	opts = opts.withDefaults()
	name := filepath.Base(source)

	root, err := decode(data, FormatFromPath(source))
	if err != nil {
		return nil, &LoadError{Source: name, Cause: errors.Wrapf(err, "invalid %s", FormatFromPath(source))}
	}

	doc, err := build(root, name, opts)
	if err != nil {
		return nil, err
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	version, fallback, err := ExtractVersion(doc.Comment, VersionOptions{
		Default:    opts.DefaultVersion,
		Strict:     opts.StrictVersion,
		Constraint: opts.VersionConstraint,
	})
	if err != nil {
		return nil, &LoadError{Source: name, Path: "$comment", Cause: err}
	}
	doc.Version = version
	doc.VersionFallback = fallback
	if fallback {
		logger.ComponentLogger("schema").Warnw("schema annotation has no version, using default",
			logger.FieldSchema, name,
			logger.FieldVersion, version)
	}

	return doc, nil
}

var rootTypePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// builder converts the node tree and records the first shape error.
type builder struct {
	source string
}

func (b *builder) fail(path, format string, args ...interface{}) error {
	return &LoadError{Source: b.source, Path: path, Cause: errors.Newf(format, args...)}
}

func build(root *node, source string, opts Options) (*Document, error) {
	b := &builder{source: source}
	if root.kind != nodeObject {
		return nil, b.fail("", "document root must be an object, got %s", root.kind)
	}

	doc := &Document{Name: opts.RootType, Source: source}

	var err error
	if doc.Title, err = b.optionalString(root, "title", "title"); err != nil {
		return nil, err
	}
	if rootTypePattern.MatchString(doc.Title) {
		doc.Name = doc.Title
	}
	if doc.Description, err = b.optionalString(root, "description", "description"); err != nil {
		return nil, err
	}
	if doc.Comment, err = b.optionalString(root, "$comment", "$comment"); err != nil {
		return nil, err
	}

	props := root.get("properties")
	if props == nil {
		return nil, b.fail("properties", "missing")
	}
	if doc.Properties, err = b.properties(props, "properties"); err != nil {
		return nil, err
	}
	if doc.Required, err = b.stringList(root.get("required"), "required"); err != nil {
		return nil, err
	}

	return doc, nil
}

func (b *builder) properties(n *node, path string) ([]*Property, error) {
	if n.kind != nodeObject {
		return nil, b.fail(path, "must be an object, got %s", n.kind)
	}
	props := make([]*Property, 0, len(n.members))
	for _, m := range n.members {
		p, err := b.property(m.key, m.value, path+"."+m.key)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}

func (b *builder) property(name string, n *node, path string) (*Property, error) {
	if n.kind != nodeObject {
		return nil, b.fail(path, "property must be an object, got %s", n.kind)
	}

	p := &Property{Name: name}
	var err error

	if p.Type, err = b.optionalString(n, "type", path+".type"); err != nil {
		return nil, err
	}
	if p.Description, err = b.optionalString(n, "description", path+".description"); err != nil {
		return nil, err
	}

	if e := n.get("enum"); e != nil {
		// An empty list stays non-nil so validation can report it
		if p.Enum, err = b.stringList(e, path+".enum"); err != nil {
			return nil, err
		}
	}

	if c := n.get("const"); c != nil {
		if c.kind != nodeString {
			return nil, b.fail(path+".const", "must be a string, got %s", c.kind)
		}
		lit := c.text
		p.Const = &lit
	}

	if d := n.get("default"); d != nil {
		v, err := b.value(d, path+".default")
		if err != nil {
			return nil, err
		}
		p.Default = &v
	}

	if items := n.get("items"); items != nil {
		if p.Items, err = b.property(name, items, path+".items"); err != nil {
			return nil, err
		}
	}

	if nested := n.get("properties"); nested != nil {
		if p.Properties, err = b.properties(nested, path+".properties"); err != nil {
			return nil, err
		}
	}
	if p.Required, err = b.stringList(n.get("required"), path+".required"); err != nil {
		return nil, err
	}

	if ml := n.get("minLength"); ml != nil {
		v, err := strconv.Atoi(ml.text)
		if ml.kind != nodeNumber || err != nil || v < 0 {
			return nil, b.fail(path+".minLength", "must be a non-negative integer")
		}
		p.MinLength = &v
	}

	if mn := n.get("minimum"); mn != nil {
		v, err := strconv.ParseFloat(mn.text, 64)
		if mn.kind != nodeNumber || err != nil {
			return nil, b.fail(path+".minimum", "must be a number")
		}
		p.Minimum = &v
	}

	return p, nil
}

func (b *builder) optionalString(n *node, key, path string) (string, error) {
	v := n.get(key)
	if v == nil {
		return "", nil
	}
	if v.kind != nodeString {
		return "", b.fail(path, "must be a string, got %s", v.kind)
	}
	return v.text, nil
}

// stringList returns nil for an absent list.
func (b *builder) stringList(n *node, path string) ([]string, error) {
	if n == nil {
		return nil, nil
	}
	if n.kind != nodeArray {
		return nil, b.fail(path, "must be a list of strings, got %s", n.kind)
	}
	out := make([]string, 0, len(n.items))
	for i, item := range n.items {
		if item.kind != nodeString {
			return nil, b.fail(fmt.Sprintf("%s[%d]", path, i), "must be a string, got %s", item.kind)
		}
		out = append(out, item.text)
	}
	return out, nil
}

func (b *builder) value(n *node, path string) (Value, error) {
	switch n.kind {
	case nodeNull:
		return Value{Kind: ValueNull}, nil
	case nodeBool:
		return Value{Kind: ValueBool, Bool: n.boolean}, nil
	case nodeNumber:
		return Value{Kind: ValueNumber, Number: n.text}, nil
	case nodeString:
		return Value{Kind: ValueString, String: n.text}, nil
	case nodeArray:
		v := Value{Kind: ValueArray, Items: make([]Value, 0, len(n.items))}
		for i, item := range n.items {
			iv, err := b.value(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Value{}, err
			}
			v.Items = append(v.Items, iv)
		}
		return v, nil
	}
	return Value{}, b.fail(path, "object defaults are not supported")
}
