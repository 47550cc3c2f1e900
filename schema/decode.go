package schema

import (
	"bytes"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/teranos/contractgen/errors"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a schema document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the format from the file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type nodeKind int

const (
	nodeNull nodeKind = iota
	nodeBool
	nodeNumber
	nodeString
	nodeArray
	nodeObject
)

func (k nodeKind) String() string {
	switch k {
	case nodeBool:
		return "boolean"
	case nodeNumber:
		return "number"
	case nodeString:
		return "string"
	case nodeArray:
		return "list"
	case nodeObject:
		return "object"
	default:
		return "null"
	}
}

// node is an order-preserving document tree shared by both formats.
type node struct {
	kind    nodeKind
	text    string // string value or number source text
	boolean bool
	items   []*node
	members []member
}

type member struct {
	key   string
	value *node
}

func (n *node) get(key string) *node {
	for _, m := range n.members {
		if m.key == key {
			return m.value
		}
	}
	return nil
}

func decode(data []byte, format Format) (*node, error) {
	if format == FormatYAML {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

// decodeJSON walks the token stream so object member order survives.
// Duplicate keys and trailing data are errors.
func decodeJSON(data []byte) (*node, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := readJSON(dec)
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("document is empty")
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, errors.Wrap(err, "invalid JSON after document")
		}
		return nil, errors.New("unexpected data after document")
	}
	return root, nil
}

func readJSON(dec *gojson.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case gojson.Delim:
		switch v {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		}
		return nil, errors.Newf("unexpected %q", rune(v))
	case string:
		return &node{kind: nodeString, text: v}, nil
	case gojson.Number:
		return &node{kind: nodeNumber, text: string(v)}, nil
	case float64:
		return &node{kind: nodeNumber, text: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case bool:
		return &node{kind: nodeBool, boolean: v}, nil
	case nil:
		return &node{kind: nodeNull}, nil
	}
	return nil, errors.Newf("unexpected token %v", tok)
}

func readJSONObject(dec *gojson.Decoder) (*node, error) {
	n := &node{kind: nodeObject}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf("object key must be a string, got %v", tok)
		}
		if seen[key] {
			return nil, errors.Newf("duplicate key %q", key)
		}
		seen[key] = true

		value, err := readJSON(dec)
		if err != nil {
			return nil, errors.Wrapf(unexpectedEOF(err), "reading %q", key)
		}
		n.members = append(n.members, member{key: key, value: value})
	}
	return n, expectDelim(dec, '}')
}

func readJSONArray(dec *gojson.Decoder) (*node, error) {
	n := &node{kind: nodeArray}
	for dec.More() {
		item, err := readJSON(dec)
		if err != nil {
			return nil, errors.Wrapf(unexpectedEOF(err), "reading item %d", len(n.items))
		}
		n.items = append(n.items, item)
	}
	return n, expectDelim(dec, ']')
}

func expectDelim(dec *gojson.Decoder, want gojson.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	if d, ok := tok.(gojson.Delim); !ok || d != want {
		return errors.Newf("expected %q, got %v", rune(want), tok)
	}
	return nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// decodeYAML converts a yaml.v3 node tree, which keeps mapping order.
func decodeYAML(data []byte) (*node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, errors.New("document is empty")
	}
	return fromYAML(doc.Content[0], 0)
}

// maxDepth bounds nesting, alias expansion included.
const maxDepth = 64

func fromYAML(y *yaml.Node, depth int) (*node, error) {
	if depth > maxDepth {
		return nil, errors.Newf("line %d: nesting too deep", y.Line)
	}

	switch y.Kind {
	case yaml.AliasNode:
		return fromYAML(y.Alias, depth+1)

	case yaml.MappingNode:
		n := &node{kind: nodeObject}
		seen := make(map[string]bool)
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, errors.Newf("line %d: mapping keys must be scalars", k.Line)
			}
			if k.Tag == "!!merge" {
				return nil, errors.Newf("line %d: merge keys are not supported", k.Line)
			}
			if seen[k.Value] {
				return nil, errors.Newf("line %d: duplicate key %q", k.Line, k.Value)
			}
			seen[k.Value] = true

			value, err := fromYAML(v, depth+1)
			if err != nil {
				return nil, err
			}
			n.members = append(n.members, member{key: k.Value, value: value})
		}
		return n, nil

	case yaml.SequenceNode:
		n := &node{kind: nodeArray}
		for _, c := range y.Content {
			item, err := fromYAML(c, depth+1)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, item)
		}
		return n, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(y)
	}

	return nil, errors.Newf("line %d: unsupported YAML node", y.Line)
}

func fromYAMLScalar(y *yaml.Node) (*node, error) {
	switch y.ShortTag() {
	case "!!null":
		return &node{kind: nodeNull}, nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, errors.Wrapf(err, "line %d", y.Line)
		}
		return &node{kind: nodeBool, boolean: b}, nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err != nil {
			return nil, errors.Wrapf(err, "line %d", y.Line)
		}
		return &node{kind: nodeNumber, text: strconv.FormatInt(i, 10)}, nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "line %d", y.Line)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, errors.Newf("line %d: %s is not a JSON number", y.Line, y.Value)
		}
		return &node{kind: nodeNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}, nil
	default:
		return &node{kind: nodeString, text: y.Value}, nil
	}
}
