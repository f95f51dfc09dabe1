package concrete

import (
	"testing"

	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

// testProgram is an in-memory Program used only by this package's
// tests; internal/loader provides the real file-backed implementation.
type testProgram map[int]jvm.Opcode

func (p testProgram) OpcodeAt(pc frame.PC) (jvm.Opcode, error) {
	op, ok := p[pc.Offset]
	if !ok {
		return jvm.Opcode{}, errNotFound(pc.Offset)
	}
	return op, nil
}

type errNotFound int

func (e errNotFound) Error() string { return "no opcode at offset" }

func divByParamMethod() jvm.MethodID {
	i := jvm.Int()
	return jvm.MethodID{Class: "Test", Method: "f", Params: jvm.NewParamList(jvm.Int()), Return: &i}
}

// divByParamProgram implements `int f(int n) { return 10/n; }`: push
// 10, load n (n ends up on top so it's the Div divisor), Div, Return.
func divByParamProgram() testProgram {
	i := jvm.Int()
	return testProgram{
		0: jvm.Push(jvm.IntValue(10)),
		1: jvm.Load(jvm.Int(), 0),
		2: jvm.Binary(jvm.Int(), jvm.Div),
		3: jvm.Return(&i),
	}
}

func TestStepDivByZero(t *testing.T) {
	method := divByParamMethod()
	prog := divByParamProgram()
	locals := NewLocals(1)
	locals.Set(0, jvm.IntValue(0))
	state := NewState(method, locals)

	outcome, err := Run(state, prog, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != DivideByZero {
		t.Errorf("outcome = %q, want %q", outcome, DivideByZero)
	}
}

func TestStepDivOk(t *testing.T) {
	method := divByParamMethod()
	prog := divByParamProgram()
	locals := NewLocals(1)
	locals.Set(0, jvm.IntValue(10))
	state := NewState(method, locals)

	outcome, err := Run(state, prog, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OK {
		t.Errorf("outcome = %q, want %q", outcome, OK)
	}
}

func TestStepAssertPositive(t *testing.T) {
	// void g(int n) { assert n > 0; } compiled roughly as:
	//   0: Get($assertionsDisabled, static)
	//   1: Ifz(ne, 6)          ; if $assertionsDisabled != 0 skip the assert (always false here)
	//   2: Load n
	//   3: Ifz(gt, 6)          ; if n > 0 skip the throw
	//   4: New(AssertionError) -> terminal
	method := jvm.MethodID{Class: "Test", Method: "g", Params: jvm.NewParamList(jvm.Int())}
	prog := testProgram{
		0: jvm.Get(jvm.AssertionsDisabledField, true),
		1: jvm.Ifz(jvm.Ne, 6),
		2: jvm.Load(jvm.Int(), 0),
		3: jvm.Ifz(jvm.Gt, 6),
		4: jvm.New(jvm.AssertionErrorClass),
		5: jvm.Throw(),
		6: jvm.Return(nil),
	}

	run := func(n int) Outcome {
		locals := NewLocals(1)
		locals.Set(0, jvm.IntValue(n))
		state := NewState(method, locals)
		outcome, err := Run(state, prog, 100, nil)
		if err != nil {
			t.Fatalf("unexpected error for n=%d: %v", n, err)
		}
		return outcome
	}

	if got := run(1); got != OK {
		t.Errorf("n=1: outcome = %q, want %q", got, OK)
	}
	if got := run(0); got != AssertionError {
		t.Errorf("n=0: outcome = %q, want %q", got, AssertionError)
	}
}

func TestStepArrayOutOfBounds(t *testing.T) {
	// int k() { int[] a = new int[3]; return a[5]; }
	i := jvm.Int()
	method := jvm.MethodID{Class: "Test", Method: "k", Return: &i}
	prog := testProgram{
		0: jvm.Push(jvm.IntValue(3)),
		1: jvm.NewArray(jvm.Int(), 1),
		2: jvm.Store(jvm.Array(jvm.Int()), 0),
		3: jvm.Load(jvm.Array(jvm.Int()), 0),
		4: jvm.Push(jvm.IntValue(5)),
		5: jvm.ArrayLoad(jvm.Int()),
		6: jvm.Return(&i),
	}
	state := NewState(method, NewLocals(0))
	outcome, err := Run(state, prog, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutOfBounds {
		t.Errorf("outcome = %q, want %q", outcome, OutOfBounds)
	}
}

func TestStepNullPointer(t *testing.T) {
	i := jvm.Int()
	method := jvm.MethodID{Class: "Test", Method: "k", Return: &i}
	prog := testProgram{
		0: jvm.Push(jvm.NullValue(jvm.Array(jvm.Int()))),
		1: jvm.ArrayLength(),
		2: jvm.Return(&i),
	}
	state := NewState(method, NewLocals(0))
	outcome, err := Run(state, prog, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != NullPointer {
		t.Errorf("outcome = %q, want %q", outcome, NullPointer)
	}
}

func TestStepInfiniteLoopHitsStepCap(t *testing.T) {
	method := jvm.MethodID{Class: "Test", Method: "h"}
	prog := testProgram{
		0: jvm.Goto(0),
	}
	state := NewState(method, NewLocals(0))
	outcome, err := Run(state, prog, 50, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != NonTerminating {
		t.Errorf("outcome = %q, want %q", outcome, NonTerminating)
	}
}

func TestStepInvokeStaticAndReturn(t *testing.T) {
	i := jvm.Int()
	callee := jvm.MethodID{Class: "Test", Method: "inc", Params: jvm.NewParamList(jvm.Int()), Return: &i}
	caller := jvm.MethodID{Class: "Test", Method: "callInc", Return: &i}

	calleeProg := testProgram{
		0: jvm.Load(jvm.Int(), 0),
		1: jvm.Push(jvm.IntValue(1)),
		2: jvm.Binary(jvm.Int(), jvm.Add),
		3: jvm.Return(&i),
	}
	callerProg := testProgram{
		0: jvm.Push(jvm.IntValue(41)),
		1: jvm.InvokeStatic(callee),
		2: jvm.Return(&i),
	}

	prog := multiProgram{caller.Key(): callerProg, callee.Key(): calleeProg}
	state := NewState(caller, NewLocals(0))
	outcome, err := Run(state, prog, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OK {
		t.Fatalf("outcome = %q, want %q", outcome, OK)
	}
}

type multiProgram map[string]testProgram

func (p multiProgram) OpcodeAt(pc frame.PC) (jvm.Opcode, error) {
	prog, ok := p[pc.Method.Key()]
	if !ok {
		return jvm.Opcode{}, errNotFound(pc.Offset)
	}
	return prog.OpcodeAt(pc)
}

func TestStepCancellation(t *testing.T) {
	method := jvm.MethodID{Class: "Test", Method: "h"}
	prog := testProgram{0: jvm.Goto(0)}
	state := NewState(method, NewLocals(0))

	calls := 0
	cancelled := func() bool {
		calls++
		return calls > 3
	}

	outcome, err := Run(state, prog, 1000, cancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != NotDone {
		t.Errorf("outcome = %q, want %q", outcome, NotDone)
	}
}
