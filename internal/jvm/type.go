// Package jvm defines the closed opcode and type vocabulary shared by
// the concrete interpreter, the abstract interpreter, and the CFG
// builder. Nothing in this package executes anything; it is the data
// model the other packages pattern-match over.
package jvm

import "fmt"

// Kind discriminates the variants of Type. Type is a tagged union:
// primitives carry no payload, Array carries an element type, Object
// carries a class name.
type Kind uint8

const (
	KindInt Kind = iota
	KindShort
	KindChar
	KindBoolean
	KindReference
	KindArray
	KindObject
)

// Type is a JVM value type as used by this subset: the four tracked
// primitives, a generic Reference, an Array of some element Type, or a
// named Object. Booleans are represented as 0/1 ints at the value
// level (spec: "Booleans are represented as 0/1 integers internally").
type Type struct {
	Kind  Kind
	Elem  *Type  // non-nil iff Kind == KindArray
	Class string // non-empty iff Kind == KindObject
}

func Int() Type       { return Type{Kind: KindInt} }
func Short() Type      { return Type{Kind: KindShort} }
func Char() Type       { return Type{Kind: KindChar} }
func Boolean() Type    { return Type{Kind: KindBoolean} }
func Reference() Type  { return Type{Kind: KindReference} }

func Array(elem Type) Type {
	e := elem
	return Type{Kind: KindArray, Elem: &e}
}

func Object(class string) Type {
	return Type{Kind: KindObject, Class: class}
}

// IsInt reports whether t is the tracked integer domain (spec §4.2:
// only int-typed locals/stack slots are ever interval-tracked).
func (t Type) IsInt() bool { return t.Kind == KindInt }

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindArray:
		return t.Elem.Equal(*o.Elem)
	case KindObject:
		return t.Class == o.Class
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindShort:
		return "short"
	case KindChar:
		return "char"
	case KindBoolean:
		return "boolean"
	case KindReference:
		return "ref"
	case KindArray:
		return fmt.Sprintf("[%s", t.Elem.String())
	case KindObject:
		return t.Class
	default:
		return "?"
	}
}

// ParseSourceType maps a textual parameter type, as produced by the
// (external) syntactic extractor of spec §6, onto the abstract domain
// it belongs to. "int" and "boolean" map onto the tracked Int domain;
// everything else is an opaque, untracked reference.
func ParseSourceType(textual string) Type {
	switch textual {
	case "int", "boolean":
		return Int()
	case "int[]":
		return Array(Int())
	case "char[]":
		return Array(Char())
	case "char":
		return Char()
	default:
		return Reference()
	}
}
