package absint

import "jpamb/internal/frame"

// Frame is one abstract activation record: a program counter, the
// local-variable slots (sparse — only the indices some path actually
// wrote are present), and an operand stack of abstract values.
type Frame struct {
	PC     frame.PC
	Locals map[int]Value
	Stack  []Value // bottom to top
}

func NewFrame(pc frame.PC) *Frame {
	return &Frame{PC: pc, Locals: map[int]Value{}}
}

func (f *Frame) Clone() *Frame {
	locals := make(map[int]Value, len(f.Locals))
	for k, v := range f.Locals {
		locals[k] = v
	}
	stack := make([]Value, len(f.Stack))
	copy(stack, f.Stack)
	return &Frame{PC: f.PC, Locals: locals, Stack: stack}
}

func (f *Frame) Push(v Value) { f.Stack = append(f.Stack, v) }

func (f *Frame) Pop() Value {
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v
}

func (f *Frame) Peek() Value { return f.Stack[len(f.Stack)-1] }

// joinFrame implements spec §4.2's per-frame join rule: locals join
// on the union of keys (a key present on only one side is kept
// as-is — "singletons preserved when only one side defines the key"),
// operand stacks join pointwise and truncate to the shorter depth.
func joinFrame(a, b *Frame, widen bool) *Frame {
	locals := make(map[int]Value, len(a.Locals)+len(b.Locals))
	for k, v := range a.Locals {
		locals[k] = v
	}
	for k, bv := range b.Locals {
		if av, ok := locals[k]; ok {
			if widen {
				locals[k] = av.Widen(bv)
			} else {
				locals[k] = av.Join(bv)
			}
		} else {
			locals[k] = bv
		}
	}

	n := len(a.Stack)
	if len(b.Stack) < n {
		n = len(b.Stack)
	}
	stack := make([]Value, n)
	for i := 0; i < n; i++ {
		if widen {
			stack[i] = a.Stack[i].Widen(b.Stack[i])
		} else {
			stack[i] = a.Stack[i].Join(b.Stack[i])
		}
	}

	return &Frame{PC: a.PC, Locals: locals, Stack: stack}
}

// State is an abstract execution state: a call stack of abstract
// frames, the outermost caller at index 0. The worklist driver keys
// stored states by the top frame's PC; a PC is only ever revisited
// with another state whose top frame's PC matches.
type State struct {
	Frames []*Frame
}

func NewState(pc frame.PC) *State {
	return &State{Frames: []*Frame{NewFrame(pc)}}
}

func (s *State) Top() *Frame { return s.Frames[len(s.Frames)-1] }

func (s *State) PC() frame.PC { return s.Top().PC }

func (s *State) Clone() *State {
	frames := make([]*Frame, len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = f.Clone()
	}
	return &State{Frames: frames}
}

// Join implements spec §4.2's state-level join rule: frame stacks are
// joined pointwise, aligned at the top (the matching, currently
// executing frame) and truncated to the shorter call depth when the
// two states recursed to different depths.
func Join(a, b *State, widen bool) *State {
	na, nb := len(a.Frames), len(b.Frames)
	n := na
	if nb < n {
		n = nb
	}
	frames := make([]*Frame, n)
	for i := 0; i < n; i++ {
		fa := a.Frames[na-n+i]
		fb := b.Frames[nb-n+i]
		frames[i] = joinFrame(fa, fb, widen)
	}
	return &State{Frames: frames}
}

// Equal reports structural equality, used by the worklist driver to
// decide whether a merge strictly increased the stored state.
func (s *State) Equal(o *State) bool {
	if len(s.Frames) != len(o.Frames) {
		return false
	}
	for i, f := range s.Frames {
		of := o.Frames[i]
		if f.PC.Key() != of.PC.Key() || len(f.Stack) != len(of.Stack) {
			return false
		}
		for j, v := range f.Stack {
			if !v.Equal(of.Stack[j]) {
				return false
			}
		}
		if len(f.Locals) != len(of.Locals) {
			return false
		}
		for k, v := range f.Locals {
			ov, ok := of.Locals[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
	}
	return true
}
