package jvm

// Value is a concrete value: a type tag plus a payload. Payload is an
// int for primitives (booleans as 0/1), a non-negative heap index for
// a non-null reference, -1 for null, and the heap entry itself holds
// the element list for arrays (see internal/concrete.Heap).
type Value struct {
	Type Type
	Num  int  // primitives
	Ref  int  // references: heap index, or NullRef
}

// NullRef is the sentinel Ref value for a null reference.
const NullRef = -1

func IntValue(n int) Value     { return Value{Type: Int(), Num: n} }
func CharValue(n int) Value    { return Value{Type: Char(), Num: n} }
func BoolValue(b bool) Value {
	n := 0
	if b {
		n = 1
	}
	return Value{Type: Boolean(), Num: n}
}

func RefValue(t Type, heapIdx int) Value { return Value{Type: t, Ref: heapIdx} }

func NullValue(t Type) Value { return Value{Type: t, Ref: NullRef} }

func (v Value) IsNull() bool { return v.Ref == NullRef }

func (v Value) Bool() bool { return v.Num != 0 }
