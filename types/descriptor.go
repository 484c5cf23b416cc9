package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the Descriptor variant.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindEnum
	KindObject
	KindArray
	KindOptional
)

// String returns the human-readable kind name used in error type paths.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindOptional:
		return "optional"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is a named member of an object descriptor. Declaration order is
// significant and preserved from the source schema mapping.
type Field struct {
	Name string
	Type *Descriptor
}

// Descriptor is the canonical in-memory representation of a field type.
// Exactly one variant is populated, selected by Kind:
//
//   - KindString/KindInt/KindFloat/KindBool: no extra data
//   - KindEnum:     Name + Values (ordered, non-empty, unique)
//   - KindObject:   Name + Fields (ordered, unique names)
//   - KindArray:    Elem
//   - KindOptional: Inner
//
// Descriptors are immutable once constructed and acyclic: the generator
// builds them bottom-up from finite input and never links a descriptor
// into itself.
type Descriptor struct {
	Kind   Kind
	Name   string
	Values []string
	Fields []Field
	Elem   *Descriptor
	Inner  *Descriptor
}

// Primitive returns a descriptor for one of the four primitive kinds.
func Primitive(k Kind) *Descriptor {
	return &Descriptor{Kind: k}
}

// Enum returns an enum descriptor with the declared value order preserved.
func Enum(name string, values []string) *Descriptor {
	return &Descriptor{Kind: KindEnum, Name: name, Values: values}
}

// Object returns an object descriptor with the declared field order preserved.
func Object(name string, fields []Field) *Descriptor {
	return &Descriptor{Kind: KindObject, Name: name, Fields: fields}
}

// Array returns an array descriptor over elem.
func Array(elem *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindArray, Elem: elem}
}

// Optional wraps inner in an optional marker. Wrapping an already optional
// descriptor returns it unchanged.
func Optional(inner *Descriptor) *Descriptor {
	if inner.Kind == KindOptional {
		return inner
	}
	return &Descriptor{Kind: KindOptional, Inner: inner}
}

// TypeRef returns the BAML type expression used when the descriptor appears
// as a field type: primitive name, generated class/enum name, elem[] for
// arrays, or the inner reference for optionals (the generator appends the
// trailing "?" itself).
func (d *Descriptor) TypeRef() string {
	switch d.Kind {
	case KindString, KindInt, KindFloat, KindBool:
		return d.Kind.String()
	case KindEnum, KindObject:
		return d.Name
	case KindArray:
		return d.Elem.TypeRef() + "[]"
	case KindOptional:
		return d.Inner.TypeRef()
	default:
		return d.Kind.String()
	}
}

// Field returns the object field with the given name.
func (d *Descriptor) Field(name string) (*Descriptor, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// HasEnumValue reports whether v matches one of the declared enum values,
// directly, by the uppercased emitted spelling, or case-insensitively.
// The second return is the declared spelling to hand back to callers.
func (d *Descriptor) HasEnumValue(v string) (string, bool) {
	for _, declared := range d.Values {
		if v == declared || v == EnumValueIdent(declared) || strings.EqualFold(v, declared) {
			return declared, true
		}
	}
	return "", false
}

// EnumValueIdent converts a declared enum value to the identifier emitted
// in the compiled schema: uppercased, with "-" and spaces turned into "_".
func EnumValueIdent(v string) string {
	s := strings.ToUpper(v)
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
