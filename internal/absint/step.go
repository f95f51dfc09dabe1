package absint

import (
	"github.com/pkg/errors"

	"jpamb/internal/frame"
	"jpamb/internal/interval"
	"jpamb/internal/jvm"
)

// Result is one successor of an astep call: either a continuation
// State, a terminal Outcome, or an Incomplete marker for the
// heap/array opcodes this subset's abstract interpreter does not
// model (spec §4.2's termination-rule note: "encountering any of them
// in a reachable state marks the analysis incomplete").
type Result struct {
	Next       *State
	Terminal   Outcome
	Incomplete bool
}

// Step implements spec §4.2's contract: astep(state) → sequence of
// (state′ | terminal-label). A single call may return zero, one, or
// several Results — one per feasible branch direction, plus any
// terminal outcomes reached on this step. State joins happen outside
// Step, in the worklist driver.
func Step(state *State, prog Program) ([]Result, error) {
	f := state.Top()
	op, err := prog.OpcodeAt(f.PC)
	if err != nil {
		return nil, errors.Wrapf(err, "absint: fetching opcode at %s", f.PC)
	}

	switch op.Kind {
	case jvm.OpPush:
		return oneSuccessor(state, func(f *Frame) {
			if op.Value.Type.IsInt() {
				f.Push(IntValue(op.Value.Num))
			} else {
				f.Push(Untracked(op.Value.Type))
			}
		}), nil

	case jvm.OpLoad:
		return oneSuccessor(state, func(f *Frame) {
			v, ok := f.Locals[op.Index]
			if !ok {
				v = Untracked(op.ValType)
			}
			f.Push(v)
		}), nil

	case jvm.OpStore:
		return oneSuccessor(state, func(f *Frame) {
			v := f.Pop()
			f.Locals[op.Index] = v
		}), nil

	case jvm.OpDup:
		return oneSuccessor(state, func(f *Frame) {
			f.Push(f.Peek())
		}), nil

	case jvm.OpIncr:
		return oneSuccessor(state, func(f *Frame) {
			v, ok := f.Locals[op.Index]
			if !ok {
				v = Untracked(jvm.Int())
			}
			delta, err := interval.Add(v.Interval, interval.Singleton(op.Amount).WithK([]int{op.Amount}))
			if err != nil {
				// ∞ + (−∞) cannot arise from a single finite Incr amount
				// added to any interval produced by this package.
				panic(err)
			}
			f.Locals[op.Index] = FromInterval(delta)
		}), nil

	case jvm.OpBinary:
		return stepBinary(state, f, op)

	case jvm.OpCast:
		return oneSuccessor(state, func(f *Frame) {
			v := f.Pop()
			_ = v
			// Narrowing casts are not tracked precisely by the interval
			// domain; the result is conservatively ⊤ of the target type.
			f.Push(Value{Type: op.To, Interval: interval.Top()})
		}), nil

	case jvm.OpIfz:
		return stepIfz(state, f, op)

	case jvm.OpIf:
		return stepIf(state, f, op)

	case jvm.OpGoto:
		// Built directly rather than through oneSuccessor: a jump to its
		// own offset leaves the PC unchanged, which oneSuccessor would
		// take for "not repositioned" and advance.
		next := state.Clone()
		next.Top().PC = next.Top().PC.At(op.Target)
		return []Result{{Next: next}}, nil

	case jvm.OpReturn:
		return stepReturn(state, op), nil

	case jvm.OpNew:
		if op.Class == jvm.AssertionErrorClass {
			return []Result{{Terminal: AssertionError}}, nil
		}
		return nil, errors.Errorf("absint: unsupported New(%s)", op.Class)

	case jvm.OpInvokeStatic:
		return stepInvokeStatic(state, f, op), nil

	case jvm.OpInvokeSpecial:
		if isAssertionErrorCtor(op.Callee) {
			return []Result{{Terminal: AssertionError}}, nil
		}
		return nil, errors.Errorf("absint: unsupported InvokeSpecial(%s)", op.Callee)

	case jvm.OpGet:
		if op.Field == jvm.AssertionsDisabledField {
			return oneSuccessor(state, func(f *Frame) {
				f.Push(IntValue(0))
			}), nil
		}
		return nil, errors.Errorf("absint: unsupported field access %q", op.Field)

	case jvm.OpNewArray, jvm.OpArrayLoad, jvm.OpArrayStore, jvm.OpArrayLength:
		return []Result{{Incomplete: true}}, nil

	case jvm.OpThrow:
		return []Result{{Terminal: AssertionError}}, nil

	default:
		return nil, errors.Errorf("absint: unsupported opcode kind %d", op.Kind)
	}
}

func isAssertionErrorCtor(callee jvm.MethodID) bool {
	return callee.Class == jvm.AssertionErrorClass && callee.Method == "<init>"
}

// oneSuccessor clones state, mutates the clone's top frame via mutate,
// advances its PC by one unless mutate already repositioned it
// (control-flow opcodes set f.PC themselves and must not be
// double-advanced), and wraps it as the sole Result.
func oneSuccessor(state *State, mutate func(f *Frame)) []Result {
	next := state.Clone()
	f := next.Top()
	before := f.PC
	mutate(f)
	if f.PC.Key() == before.Key() {
		f.PC = f.PC.Add(1)
	}
	return []Result{{Next: next}}
}

func stepBinary(state *State, f *Frame, op jvm.Opcode) ([]Result, error) {
	switch op.Op {
	case jvm.Add, jvm.Sub, jvm.Mul:
		return oneSuccessor(state, func(f *Frame) {
			b := f.Pop()
			a := f.Pop()
			var res interval.Interval
			var err error
			switch op.Op {
			case jvm.Add:
				res, err = interval.Add(a.Interval, b.Interval)
			case jvm.Sub:
				res, err = interval.Sub(a.Interval, b.Interval)
			case jvm.Mul:
				res, err = interval.Mul(a.Interval, b.Interval)
			}
			if err != nil {
				panic(err)
			}
			f.Push(FromInterval(res))
		}), nil

	case jvm.Div:
		b := f.Stack[len(f.Stack)-1]
		a := f.Stack[len(f.Stack)-2]
		divRes, err := interval.Div(a.Interval, b.Interval)
		if err != nil {
			return nil, errors.Wrap(err, "absint: dividing")
		}
		var results []Result
		if divRes.MayDivideByZero {
			results = append(results, Result{Terminal: DivideByZero})
		}
		if divRes.HasQuotient {
			results = append(results, oneSuccessor(state, func(f *Frame) {
				f.Pop()
				f.Pop()
				f.Push(FromInterval(divRes.Quotient))
			})[0])
		}
		return results, nil

	case jvm.Rem:
		b := f.Stack[len(f.Stack)-1]
		divisor := b.Interval
		var results []Result
		if divisor.Contains(0) {
			results = append(results, Result{Terminal: DivideByZero})
		}
		remInterval := interval.Rem(divisor)
		if !remInterval.IsEmpty() {
			results = append(results, oneSuccessor(state, func(f *Frame) {
				f.Pop()
				f.Pop()
				f.Push(FromInterval(remInterval))
			})[0])
		}
		return results, nil

	default:
		return nil, errors.Errorf("absint: unsupported binary op %s", op.Op)
	}
}

func stepIfz(state *State, f *Frame, op jvm.Opcode) ([]Result, error) {
	x := f.Peek().Interval
	jumpFeasible, fallFeasible := feasibleDirections(op.Cond, x)

	var results []Result
	if fallFeasible {
		results = append(results, oneSuccessor(state, func(f *Frame) {
			f.Pop()
			f.PC = f.PC.Add(1)
		})[0])
	}
	if jumpFeasible {
		results = append(results, oneSuccessor(state, func(f *Frame) {
			f.Pop()
			f.PC = f.PC.At(op.Target)
		})[0])
	}
	return results, nil
}

// feasibleDirections implements spec §4.2's Ifz feasibility table.
func feasibleDirections(cond jvm.Cond, x interval.Interval) (jumpFeasible, fallFeasible bool) {
	zero := interval.Singleton(0)
	switch cond {
	case jvm.Eq:
		return x.Contains(0), !x.Equal(zero)
	case jvm.Ne:
		return !x.Equal(zero), x.Contains(0)
	case jvm.Lt:
		return x.Lo.Less(interval.FiniteBound(0)), !x.Hi.Less(interval.FiniteBound(0))
	case jvm.Ge:
		return !x.Hi.Less(interval.FiniteBound(0)), x.Lo.Less(interval.FiniteBound(0))
	case jvm.Gt:
		return interval.FiniteBound(0).Less(x.Hi), x.Lo.LessEq(interval.FiniteBound(0))
	case jvm.Le:
		return x.Lo.LessEq(interval.FiniteBound(0)), interval.FiniteBound(0).Less(x.Hi)
	default:
		return false, false
	}
}

// stepIf implements If(cond, target): pop v2 (top) then v1, compare
// v1 cond v2 — the same operand order Binary uses. The two directions'
// feasibility is tested against v1 − v2 against zero, which is
// equivalent to the componentwise interval comparisons the Ifz table
// already encodes.
func stepIf(state *State, f *Frame, op jvm.Opcode) ([]Result, error) {
	v2 := f.Stack[len(f.Stack)-1].Interval
	v1 := f.Stack[len(f.Stack)-2].Interval

	diff, err := interval.Sub(v1, v2)
	if err != nil {
		return nil, errors.Wrap(err, "absint: comparing")
	}
	jumpFeasible, fallFeasible := feasibleDirections(op.Cond, diff)

	var results []Result
	if fallFeasible {
		results = append(results, oneSuccessor(state, func(f *Frame) {
			f.Pop()
			f.Pop()
			f.PC = f.PC.Add(1)
		})[0])
	}
	if jumpFeasible {
		results = append(results, oneSuccessor(state, func(f *Frame) {
			f.Pop()
			f.Pop()
			f.PC = f.PC.At(op.Target)
		})[0])
	}
	return results, nil
}

func stepReturn(state *State, op jvm.Opcode) []Result {
	next := state.Clone()
	f := next.Top()

	var retVal Value
	if op.RetType != nil {
		retVal = f.Pop()
	}

	next.Frames = next.Frames[:len(next.Frames)-1]

	if len(next.Frames) == 0 {
		return []Result{{Terminal: OK}}
	}

	caller := next.Top()
	if op.RetType != nil {
		caller.Push(retVal)
	}
	caller.PC = caller.PC.Add(1)
	return []Result{{Next: next}}
}

func stepInvokeStatic(state *State, f *Frame, op jvm.Opcode) []Result {
	next := state.Clone()
	caller := next.Top()

	n := op.Callee.Params.Len()
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = caller.Pop()
	}

	callee := NewFrame(frame.PC{Method: op.Callee, Offset: 0})
	for i, v := range args {
		callee.Locals[i] = v
	}
	next.Frames = append(next.Frames, callee)
	return []Result{{Next: next}}
}
