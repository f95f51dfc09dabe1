// Package frame provides the program-counter and operand-stack
// primitives (spec §3). Both interpreters use PC; the generic Stack is
// used by the concrete interpreter, while the abstract interpreter's
// frames keep a plain slice of interval-annotated values.
package frame

import (
	"strconv"

	"jpamb/internal/jvm"
)

// PC is a program counter: a method identity plus an offset into that
// method's opcode sequence. Two PCs name the same location iff both
// fields match structurally, but == on PC compares jvm.MethodID's
// Params and Return pointers rather than the types they hold — call
// Key() wherever a structural key is needed (the abstract
// interpreter's state set, the CFG registry).
type PC struct {
	Method jvm.MethodID
	Offset int
}

// Add returns the PC advanced by delta. PCs are otherwise immutable;
// every interpreter step produces a new PC rather than mutating one in
// place.
func (pc PC) Add(delta int) PC { return PC{Method: pc.Method, Offset: pc.Offset + delta} }

// At returns the PC with its offset replaced, method unchanged — used
// by jumps and calls.
func (pc PC) At(offset int) PC { return PC{Method: pc.Method, Offset: offset} }

func (pc PC) String() string {
	return pc.Method.String() + ":" + strconv.Itoa(pc.Offset)
}

// Key returns a string uniquely identifying pc, suitable as a map key.
// PC itself embeds jvm.MethodID, which embeds a slice via ParamList
// and so is not comparable with == — every package that needs PC as a
// map key (the CFG registry, the worklist's state set) keys on this
// instead.
func (pc PC) Key() string {
	return pc.Method.Key() + "@" + strconv.Itoa(pc.Offset)
}
