// Package absint implements the abstract interpreter of spec §4.2: a
// worklist-based fixed-point computation over the interval lattice
// that over-approximates every reachable program state per
// instruction and surfaces the terminal outcomes and input intervals
// that drive them.
package absint

import (
	"jpamb/internal/interval"
	"jpamb/internal/jvm"
)

// Value is one abstract stack/local slot: a type tag plus the
// interval over-approximating its possible int values. Non-int types
// (references, arrays, objects) always carry Top — this subset's
// abstract interpreter never refines or inspects them; heap and array
// opcodes mark the path incomplete in step.go instead.
type Value struct {
	Type     jvm.Type
	Interval interval.Interval
}

// IntValue builds the exact, K-annotated abstract value spec §4.2's
// Push rule describes for pushed int literals: the singleton [v, v]
// with K = {v}.
func IntValue(v int) Value {
	return Value{Type: jvm.Int(), Interval: interval.Singleton(v).WithK([]int{v})}
}

// FromInterval builds an int-typed abstract value carrying an
// already-computed interval (e.g. a parameter's initial envelope, or
// a Binary result).
func FromInterval(iv interval.Interval) Value {
	return Value{Type: jvm.Int(), Interval: iv}
}

// Untracked builds the ⊤ abstract value for a non-int-typed slot.
func Untracked(t jvm.Type) Value {
	return Value{Type: t, Interval: interval.Top()}
}

// Join merges two abstract values occupying the same slot. Differing
// types collapse to Untracked(v.Type) defensively (spec invariant:
// same-PC joins operate on statically-typed slots, so this should
// only ever be reached on the v.Type == o.Type path in a well-formed
// program).
func (v Value) Join(o Value) Value {
	if !v.Type.Equal(o.Type) {
		return Untracked(v.Type)
	}
	return Value{Type: v.Type, Interval: v.Interval.Join(o.Interval)}
}

// Widen is Join's widening counterpart, applied once a slot's PC has
// been revisited in a strictly previous worklist pass (spec §4.2's
// merge rule).
func (v Value) Widen(o Value) Value {
	if !v.Type.Equal(o.Type) {
		return Untracked(v.Type)
	}
	return Value{Type: v.Type, Interval: v.Interval.Widen(o.Interval)}
}

func (v Value) Equal(o Value) bool {
	return v.Type.Equal(o.Type) && v.Interval.Equal(o.Interval)
}
