package jvm

import (
	"fmt"
	"strings"
)

// MethodID identifies a method: the owning class's slash-separated
// path, the method name, its parameter types in source order, and its
// return type (nil for void). MethodID is comparable and may key a
// map, but == compares the Params and Return pointers, not the types
// they hold; call Key() wherever structural identity is needed (the
// bytecode cache, the CFG registry, frame.PC.Key()).
type MethodID struct {
	Class  string
	Method string
	Params ParamList
	Return *Type
}

// ParamList is a comparable wrapper around a parameter-type slice so
// MethodID can be used as a map key despite Go slices not supporting
// ==. It holds the slice behind a pointer, so equality is identity of
// that pointer, not of the types.
type ParamList struct {
	types *[]Type
}

func NewParamList(ts ...Type) ParamList { return ParamList{types: &ts} }

func (p ParamList) Len() int      { return len(p.Slice()) }
func (p ParamList) At(i int) Type { return p.Slice()[i] }
func (p ParamList) Slice() []Type {
	if p.types == nil {
		return nil
	}
	return *p.types
}

func (p ParamList) key() string {
	var sb strings.Builder
	for _, t := range p.Slice() {
		sb.WriteString(t.String())
		sb.WriteByte(';')
	}
	return sb.String()
}

// Key returns a string uniquely identifying id by its structure: two
// separately built MethodIDs for the same method share a Key even
// where == tells them apart.
func (id MethodID) Key() string {
	ret := "void"
	if id.Return != nil {
		ret = id.Return.String()
	}
	return id.Class + "." + id.Method + ":" + id.Params.key() + ret
}

// String renders the method-id grammar of spec §6:
// package/path/Class.method:(param-types)return-type
func (id MethodID) String() string {
	var sb strings.Builder
	sb.WriteString(id.Class)
	sb.WriteByte('.')
	sb.WriteString(id.Method)
	sb.WriteByte(':')
	sb.WriteByte('(')
	for _, t := range id.Params.Slice() {
		sb.WriteString(typeSigil(t))
	}
	sb.WriteByte(')')
	if id.Return == nil {
		sb.WriteByte('V')
	} else {
		sb.WriteString(typeSigil(*id.Return))
	}
	return sb.String()
}

func typeSigil(t Type) string {
	switch t.Kind {
	case KindInt:
		return "I"
	case KindBoolean:
		return "Z"
	case KindChar:
		return "C"
	case KindShort:
		return "S"
	case KindArray:
		return "[" + typeSigil(*t.Elem)
	case KindObject:
		return "L" + t.Class + ";"
	default:
		return "Ljava/lang/Object;"
	}
}

// ParseMethodID parses the textual grammar from spec §6:
//
//	package/path/Class.method:(param-types)return-type
//
// where each of param-types is one of I (int), Z (boolean), C (char),
// S (short), [I/[C (int/char array), or L<name>; (object, opaque).
// return-type is the same alphabet plus V for void.
func ParseMethodID(text string) (MethodID, error) {
	dot := strings.LastIndexByte(text, '.')
	colon := strings.IndexByte(text, ':')
	if dot < 0 || colon < 0 || colon < dot {
		return MethodID{}, fmt.Errorf("jvm: malformed method id %q", text)
	}
	class := text[:dot]
	method := text[dot+1 : colon]
	rest := text[colon+1:]

	open := strings.IndexByte(rest, '(')
	closeParen := strings.IndexByte(rest, ')')
	if open != 0 || closeParen < 0 {
		return MethodID{}, fmt.Errorf("jvm: malformed method id %q: expected (params)return", text)
	}
	paramSig := rest[open+1 : closeParen]
	retSig := rest[closeParen+1:]

	params, err := parseTypeSigils(paramSig)
	if err != nil {
		return MethodID{}, fmt.Errorf("jvm: %q: %w", text, err)
	}

	var ret *Type
	if retSig != "V" && retSig != "" {
		retTypes, err := parseTypeSigils(retSig)
		if err != nil || len(retTypes) != 1 {
			return MethodID{}, fmt.Errorf("jvm: %q: malformed return type %q", text, retSig)
		}
		ret = &retTypes[0]
	}

	return MethodID{Class: class, Method: method, Params: NewParamList(params...), Return: ret}, nil
}

func parseTypeSigils(sig string) ([]Type, error) {
	var out []Type
	i := 0
	for i < len(sig) {
		switch sig[i] {
		case 'I':
			out = append(out, Int())
			i++
		case 'Z':
			out = append(out, Boolean())
			i++
		case 'C':
			out = append(out, Char())
			i++
		case 'S':
			out = append(out, Short())
			i++
		case '[':
			elemStart := i + 1
			if elemStart >= len(sig) {
				return nil, fmt.Errorf("dangling array sigil")
			}
			elems, err := parseTypeSigils(sig[elemStart : elemStart+1])
			if err != nil {
				return nil, err
			}
			out = append(out, Array(elems[0]))
			i += 2
		case 'L':
			end := strings.IndexByte(sig[i:], ';')
			if end < 0 {
				return nil, fmt.Errorf("unterminated object sigil in %q", sig)
			}
			out = append(out, Object(sig[i+1:i+end]))
			i += end + 1
		default:
			return nil, fmt.Errorf("unknown type sigil %q", sig[i])
		}
	}
	return out, nil
}
