package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/contractgen/errors"
)

// Validation rule identifiers reported in Violation.Rule.
const (
	RuleRequiredExists   = "required-exists"
	RuleEnumNonEmpty     = "enum-non-empty"
	RuleEnumDistinct     = "enum-distinct"
	RuleObjectProperties = "object-properties"
	RuleObjectDepth      = "object-depth"
	RuleItemsPrimitive   = "items-primitive"
	RuleIdentifier       = "identifier"
	RuleDefaultMember    = "default-member"
	RuleDefaultType      = "default-type"
)

// SchemaVersionName is the identifier backends declare for the schema
// version constant at package scope.
const SchemaVersionName = "SchemaVersion"

// Violation is one structural problem in a schema document.
type Violation struct {
	Path    string
	Rule    string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Path, v.Message, v.Rule)
}

// ValidationError carries every violation found in a document, sorted by path.
type ValidationError struct {
	Source     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "schema %s has %d violation", e.Source, len(e.Violations))
	if len(e.Violations) != 1 {
		sb.WriteString("s")
	}
	for _, v := range e.Violations {
		sb.WriteString("\n  ")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Is reports ValidationError as errors.ErrSchemaValidation.
func (e *ValidationError) Is(target error) bool { return target == errors.ErrSchemaValidation }

var (
	// Declared type names are derived by capitalising the first character,
	// so only plain camel-case words produce valid identifiers everywhere.
	typeIdentPattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	fieldIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Validate checks every structural invariant of doc and returns a
// *ValidationError listing all violations, or nil.
func Validate(doc *Document) error {
	v := &validator{}

	v.required(doc.Required, doc.Properties, "required")
	for _, p := range doc.Properties {
		v.property(p, "properties."+p.Name, false)
	}
	v.typeNames(doc)

	if len(v.violations) == 0 {
		return nil
	}
	sort.SliceStable(v.violations, func(i, j int) bool {
		return v.violations[i].Path < v.violations[j].Path
	})
	return &ValidationError{Source: doc.Source, Violations: v.violations}
}

type validator struct {
	violations []Violation
}

func (v *validator) add(path, rule, format string, args ...interface{}) {
	v.violations = append(v.violations, Violation{Path: path, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) required(names []string, props []*Property, path string) {
	for i, name := range names {
		if find(props, name) == nil {
			v.add(fmt.Sprintf("%s[%d]", path, i), RuleRequiredExists, "required property %q is not defined", name)
		}
	}
}

func (v *validator) property(p *Property, path string, nested bool) {
	if !fieldIdentPattern.MatchString(p.Name) {
		v.add(path, RuleIdentifier, "property name %q is not a valid identifier", p.Name)
	} else if (p.IsEnum() || p.IsObject()) && !typeIdentPattern.MatchString(p.Name) {
		v.add(path, RuleIdentifier, "property name %q cannot name a type; use a camel-case word", p.Name)
	}

	if p.IsEnum() {
		v.enum(p, path)
	} else if p.Default != nil && !defaultMatches(*p.Default, p) {
		v.add(path+".default", RuleDefaultType, "default %s is not a valid %s value", p.Default.JSON(), typeLabel(p))
	}

	if p.Type == TypeObject {
		switch {
		case nested:
			v.add(path, RuleObjectDepth, "objects may not be nested inside objects")
		case len(p.Properties) == 0:
			v.add(path, RuleObjectProperties, "object declares no properties")
		}
		v.required(p.Required, p.Properties, path+".required")
		for _, child := range p.Properties {
			v.property(child, path+".properties."+child.Name, true)
		}
	}

	if p.Items != nil {
		itemsPath := path + ".items"
		switch p.Items.Type {
		case TypeArray, TypeObject:
			v.add(itemsPath, RuleItemsPrimitive, "array items must be a primitive or enum, got %s", p.Items.Type)
		}
		if p.Items.IsEnum() {
			v.enum(p.Items, itemsPath)
			if !typeIdentPattern.MatchString(p.Name) {
				v.add(path, RuleIdentifier, "property name %q cannot name a type; use a camel-case word", p.Name)
			}
		}
	}
}

func (v *validator) enum(p *Property, path string) {
	if len(p.Enum) == 0 {
		v.add(path+".enum", RuleEnumNonEmpty, "enum must list at least one value")
		return
	}
	seen := make(map[string]bool, len(p.Enum))
	for i, value := range p.Enum {
		if seen[value] {
			v.add(fmt.Sprintf("%s.enum[%d]", path, i), RuleEnumDistinct, "duplicate enum value %q", value)
		}
		seen[value] = true
	}
	if p.Default != nil && p.Default.Kind != ValueNull {
		if p.Default.Kind != ValueString || !seen[p.Default.String] {
			v.add(path+".default", RuleDefaultMember, "default %s is not an enum member", p.Default.JSON())
		}
	}
}

// defaultMatches reports whether a non-enum property's default fits its
// declared type. Null always fits. Unknown types are left to the type
// mappers.
func defaultMatches(val Value, p *Property) bool {
	if val.Kind == ValueNull {
		return true
	}
	switch {
	case p.IsEnum():
		return val.Kind == ValueString && contains(p.Enum, val.String)
	case p.IsConst():
		return val.Kind == ValueString && val.String == *p.Const
	}

	switch p.Type {
	case TypeString:
		return val.Kind == ValueString
	case TypeBoolean:
		return val.Kind == ValueBool
	case TypeNumber:
		return val.Kind == ValueNumber
	case TypeInteger:
		if val.Kind != ValueNumber {
			return false
		}
		f, err := strconv.ParseFloat(val.Number, 64)
		return err == nil && f == math.Trunc(f)
	case TypeObject:
		return false
	case TypeArray:
		if val.Kind != ValueArray {
			return false
		}
		items := p.Items
		if items == nil {
			items = &Property{Type: TypeString}
		}
		for _, item := range val.Items {
			if item.Kind == ValueNull || item.Kind == ValueArray || !defaultMatches(item, items) {
				return false
			}
		}
		return true
	}
	return true
}

func typeLabel(p *Property) string {
	if p.IsConst() {
		return "const " + Quote(*p.Const)
	}
	if p.Type == TypeArray {
		items := TypeString
		if p.Items != nil && p.Items.Type != "" {
			items = p.Items.Type
		}
		return "array of " + items
	}
	return p.Type
}

// typeNames reports declared types whose derived names collide with each
// other, with the root type, or with the package-level names backends
// declare alongside them: the version constant, "<Enum>Values" tables and
// "<Enum><Member>" constants.
func (v *validator) typeNames(doc *Document) {
	owners := map[string]string{
		SchemaVersionName: "the schema version constant",
	}
	owners[doc.Name] = "the root type"

	claim := func(name, owner, path string) bool {
		if prev, ok := owners[name]; ok {
			v.add(path, RuleIdentifier, "generated name %s is already used by %s", name, prev)
			return false
		}
		owners[name] = owner
		return true
	}
	check := func(p *Property, path string) {
		name := TypeName(p.Name)
		if !claim(name, path, path) || !p.IsEnum() {
			return
		}
		claim(name+"Values", "the values of "+path, path)
		for _, member := range EnumMemberNames(p.Enum) {
			claim(name+member, "a member of "+path, path)
		}
	}

	for _, p := range doc.Properties {
		path := "properties." + p.Name
		switch {
		case p.IsEnum():
			check(p, path)
		case p.IsObject():
			for _, child := range p.Properties {
				childPath := path + ".properties." + child.Name
				if child.IsEnum() {
					check(child, childPath)
				} else if child.Items != nil && child.Items.IsEnum() {
					check(child.Items, childPath+".items")
				}
			}
			check(p, path)
		case p.Items != nil && p.Items.IsEnum():
			check(p.Items, path+".items")
		}
	}
}
