package concrete

import (
	"github.com/pkg/errors"

	"jpamb/internal/frame"
	"jpamb/internal/interval"
	"jpamb/internal/jvm"
)

// Step implements spec §4.1's contract: step(state) → state′ |
// terminal-label. On a non-terminal return, state has already been
// advanced by exactly one opcode in place; the same *State is the
// successor. On a terminal return, the bool result is true, the
// Outcome is the terminal label, and state must not be stepped further. A non-nil error is a fatal implementation
// error (spec §7): an opcode outside the supported subset, or a
// frame-stack invariant violated by a malformed program.
func Step(state *State, prog Program) (Outcome, bool, error) {
	f := state.Top()
	op, err := prog.OpcodeAt(f.PC)
	if err != nil {
		return "", false, errors.Wrapf(err, "concrete: fetching opcode at %s", f.PC)
	}

	switch op.Kind {
	case jvm.OpPush:
		f.Stack.Push(op.Value)
		return advance(f)

	case jvm.OpLoad:
		f.Stack.Push(f.Locals.Get(op.Index))
		return advance(f)

	case jvm.OpStore:
		v, err := f.Stack.Pop()
		if err != nil {
			return "", false, err
		}
		f.Locals.Set(op.Index, v)
		return advance(f)

	case jvm.OpDup:
		top, err := f.Stack.Peek()
		if err != nil {
			return "", false, err
		}
		f.Stack.Push(top)
		return advance(f)

	case jvm.OpIncr:
		v := f.Locals.Get(op.Index)
		v.Num += op.Amount
		f.Locals.Set(op.Index, v)
		return advance(f)

	case jvm.OpBinary:
		return stepBinary(f, op)

	case jvm.OpCast:
		return stepCast(f, op)

	case jvm.OpIfz:
		v, err := f.Stack.Pop()
		if err != nil {
			return "", false, err
		}
		if evalCond(op.Cond, v.Num, 0) {
			f.PC = f.PC.At(op.Target)
		} else {
			f.PC = f.PC.Add(1)
		}
		return "", false, nil

	case jvm.OpIf:
		v2, err := f.Stack.Pop()
		if err != nil {
			return "", false, err
		}
		v1, err := f.Stack.Pop()
		if err != nil {
			return "", false, err
		}
		if evalCond(op.Cond, v1.Num, v2.Num) {
			f.PC = f.PC.At(op.Target)
		} else {
			f.PC = f.PC.Add(1)
		}
		return "", false, nil

	case jvm.OpGoto:
		f.PC = f.PC.At(op.Target)
		return "", false, nil

	case jvm.OpReturn:
		return stepReturn(state, f, op)

	case jvm.OpNew:
		if op.Class == jvm.AssertionErrorClass {
			return AssertionError, true, nil
		}
		return "", false, errors.Errorf("concrete: unsupported New(%s)", op.Class)

	case jvm.OpInvokeStatic:
		return stepInvokeStatic(state, f, op)

	case jvm.OpInvokeSpecial:
		if isAssertionErrorCtor(op.Callee) {
			return AssertionError, true, nil
		}
		return "", false, errors.Errorf("concrete: unsupported InvokeSpecial(%s)", op.Callee)

	case jvm.OpGet:
		if op.Field == jvm.AssertionsDisabledField {
			f.Stack.Push(jvm.IntValue(0))
			return advance(f)
		}
		return "", false, errors.Errorf("concrete: unsupported field access %q", op.Field)

	case jvm.OpNewArray:
		return stepNewArray(state, f, op)

	case jvm.OpArrayLoad:
		return stepArrayLoad(state, f)

	case jvm.OpArrayStore:
		return stepArrayStore(state, f)

	case jvm.OpArrayLength:
		return stepArrayLength(state, f)

	case jvm.OpThrow:
		// This subset only ever manufactures a Throw on the
		// AssertionError failure path (spec §4.3); InvokeSpecial
		// already terminates that run before reaching it, but a CFG
		// that legitimately falls through to it still means "assertion
		// error" by construction of this subset.
		return AssertionError, true, nil

	default:
		return "", false, errors.Errorf("concrete: unsupported opcode kind %d", op.Kind)
	}
}

func advance(f *Frame) (Outcome, bool, error) {
	f.PC = f.PC.Add(1)
	return "", false, nil
}

func evalCond(cond jvm.Cond, lhs, rhs int) bool {
	switch cond {
	case jvm.Eq:
		return lhs == rhs
	case jvm.Ne:
		return lhs != rhs
	case jvm.Lt:
		return lhs < rhs
	case jvm.Le:
		return lhs <= rhs
	case jvm.Gt:
		return lhs > rhs
	case jvm.Ge:
		return lhs >= rhs
	default:
		return false
	}
}

func isAssertionErrorCtor(callee jvm.MethodID) bool {
	return callee.Class == jvm.AssertionErrorClass && callee.Method == "<init>"
}

func stepBinary(f *Frame, op jvm.Opcode) (Outcome, bool, error) {
	v2, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	v1, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}

	switch op.Op {
	case jvm.Add:
		f.Stack.Push(jvm.IntValue(v1.Num + v2.Num))
	case jvm.Sub:
		f.Stack.Push(jvm.IntValue(v1.Num - v2.Num))
	case jvm.Mul:
		f.Stack.Push(jvm.IntValue(v1.Num * v2.Num))
	case jvm.Div:
		if v2.Num == 0 {
			return DivideByZero, true, nil
		}
		q, _ := interval.FloorDivRem(v1.Num, v2.Num)
		f.Stack.Push(jvm.IntValue(q))
	case jvm.Rem:
		if v2.Num == 0 {
			return DivideByZero, true, nil
		}
		_, r := interval.FloorDivRem(v1.Num, v2.Num)
		f.Stack.Push(jvm.IntValue(r))
	default:
		return "", false, errors.Errorf("concrete: unsupported binary op %s", op.Op)
	}
	return advance(f)
}

func stepCast(f *Frame, op jvm.Opcode) (Outcome, bool, error) {
	if !(op.From.IsInt() && op.To.Kind == jvm.KindShort) {
		return "", false, errors.Errorf("concrete: unsupported cast %s -> %s", op.From, op.To)
	}
	v, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	narrowed := int(int16(v.Num))
	f.Stack.Push(jvm.Value{Type: jvm.Short(), Num: narrowed})
	return advance(f)
}

func stepReturn(state *State, f *Frame, op jvm.Opcode) (Outcome, bool, error) {
	var retVal jvm.Value
	if op.RetType != nil {
		v, err := f.Stack.Pop()
		if err != nil {
			return "", false, err
		}
		retVal = v
	}

	if _, err := state.Frames.Pop(); err != nil {
		return "", false, err
	}

	if state.Frames.Len() == 0 {
		return OK, true, nil
	}

	caller := state.Top()
	if op.RetType != nil {
		caller.Stack.Push(retVal)
	}
	caller.PC = caller.PC.Add(1)
	return "", false, nil
}

func stepInvokeStatic(state *State, f *Frame, op jvm.Opcode) (Outcome, bool, error) {
	n := op.Callee.Params.Len()
	args := make([]jvm.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := f.Stack.Pop()
		if err != nil {
			return "", false, err
		}
		args[i] = v
	}
	locals := NewLocals(n)
	for i, v := range args {
		locals.Set(i, v)
	}
	callee := NewFrame(frame.PC{Method: op.Callee, Offset: 0}, locals)
	state.Frames.Push(callee)
	return "", false, nil
}

func stepNewArray(state *State, f *Frame, op jvm.Opcode) (Outcome, bool, error) {
	if !op.ElemType.IsInt() || op.Dim > 1 {
		return "", false, errors.Errorf("concrete: unsupported NewArray(%s, dim=%d)", op.ElemType, op.Dim)
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	if length.Num < 0 {
		return "", false, errors.Errorf("concrete: negative array length %d is outside the supported subset", length.Num)
	}
	idx := state.Heap.Alloc(Object{ElemType: jvm.Int(), Elems: make([]int, length.Num)})
	f.Stack.Push(jvm.RefValue(jvm.Array(jvm.Int()), idx))
	return advance(f)
}

func stepArrayLoad(state *State, f *Frame) (Outcome, bool, error) {
	index, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	ref, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	if ref.IsNull() {
		return NullPointer, true, nil
	}
	obj := state.Heap.Get(ref.Ref)
	if index.Num < 0 || index.Num >= len(obj.Elems) {
		return OutOfBounds, true, nil
	}
	f.Stack.Push(jvm.IntValue(obj.Elems[index.Num]))
	return advance(f)
}

func stepArrayStore(state *State, f *Frame) (Outcome, bool, error) {
	value, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	index, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	ref, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	if ref.IsNull() {
		return NullPointer, true, nil
	}
	obj := state.Heap.Get(ref.Ref)
	if index.Num < 0 || index.Num >= len(obj.Elems) {
		return OutOfBounds, true, nil
	}
	obj.Elems[index.Num] = value.Num
	return advance(f)
}

func stepArrayLength(state *State, f *Frame) (Outcome, bool, error) {
	ref, err := f.Stack.Pop()
	if err != nil {
		return "", false, err
	}
	if ref.IsNull() {
		return NullPointer, true, nil
	}
	obj := state.Heap.Get(ref.Ref)
	f.Stack.Push(jvm.IntValue(len(obj.Elems)))
	return advance(f)
}
