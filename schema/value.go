package schema

import (
	"bytes"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// ValueKind classifies a default value literal.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueArray
)

// Value is a JSON literal used as a property default. Object literals are
// not representable in every backend and are rejected at load time.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number string // source text, e.g. "10" or "0.5"
	String string
	Items  []Value
}

// JSON renders the value as a canonical JSON literal.
func (v Value) JSON() string {
	switch v.Kind {
	case ValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValueNumber:
		return v.Number
	case ValueString:
		return Quote(v.String)
	case ValueArray:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.JSON()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "null"
	}
}

// Quote renders s as a JSON string literal without HTML escaping. The
// result is also a valid TypeScript and Python string literal.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := gojson.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
