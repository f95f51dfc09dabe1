package absint

import (
	"testing"

	"jpamb/internal/frame"
	"jpamb/internal/interval"
	"jpamb/internal/jvm"
)

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

// topEnvelope builds the worklist's actual starting value for an int
// parameter: ⊤ annotated with the method's K set (see DESIGN.md's
// resolution of the initial-envelope open question).
func topEnvelope(k []int) Value {
	return FromInterval(interval.Top().WithK(k))
}

func TestDivByParamOutcomes(t *testing.T) {
	i := jvm.Int()
	method := jvm.MethodID{Class: "Test", Method: "f", Params: jvm.NewParamList(jvm.Int()), Return: &i}
	prog := testProgram{
		0: jvm.Push(jvm.IntValue(10)),
		1: jvm.Load(jvm.Int(), 0),
		2: jvm.Binary(jvm.Int(), jvm.Div),
		3: jvm.Return(&i),
	}

	summary, err := Run(prog, method, map[int]Value{0: topEnvelope([]int{10})}, DefaultPassCap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Converged {
		t.Fatalf("expected convergence")
	}
	if !summary.Outcomes[OK] || !summary.Outcomes[DivideByZero] {
		t.Errorf("outcomes = %v, want {ok, divide by zero}", summary.Outcomes)
	}
}

func TestAssertPositiveOutcomes(t *testing.T) {
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

	summary, err := Run(prog, method, map[int]Value{0: topEnvelope(nil)}, DefaultPassCap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Outcomes[OK] || !summary.Outcomes[AssertionError] {
		t.Errorf("outcomes = %v, want {ok, assertion error}", summary.Outcomes)
	}
}

func TestInfiniteLoopNonTermination(t *testing.T) {
	method := jvm.MethodID{Class: "Test", Method: "h"}
	prog := testProgram{
		0: jvm.Goto(0),
	}

	summary, err := Run(prog, method, map[int]Value{}, DefaultPassCap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Outcomes) != 1 || !summary.Outcomes[NonTerminating] {
		t.Errorf("outcomes = %v, want {*}", summary.Outcomes)
	}
}

func TestArrayOpcodeMarksIncomplete(t *testing.T) {
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

	summary, err := Run(prog, method, map[int]Value{}, DefaultPassCap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Outcomes) != 0 {
		t.Errorf("outcomes = %v, want empty set (incomplete)", summary.Outcomes)
	}
}

func TestLoopWithBackEdgeConvergesAndObservesBackEdge(t *testing.T) {
	// for (int i = 0; i < 10; i++) {} ; return; — a genuine back edge.
	// i enters the loop head as [0,0] and widens to [0,+∞] there; the
	// return stays reachable, so the fixed point converges with "ok"
	// and the back edge is recorded without adding "*".
	method := jvm.MethodID{Class: "Test", Method: "loop"}
	prog := testProgram{
		0: jvm.Push(jvm.IntValue(0)),
		1: jvm.Store(jvm.Int(), 0),
		2: jvm.Load(jvm.Int(), 0),
		3: jvm.Push(jvm.IntValue(10)),
		4: jvm.Binary(jvm.Int(), jvm.Sub),
		5: jvm.Ifz(jvm.Ge, 9),
		6: jvm.Incr(0, 1),
		7: jvm.Goto(2),
		9: jvm.Return(nil),
	}

	summary, err := Run(prog, method, map[int]Value{}, DefaultPassCap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Converged {
		t.Errorf("expected the loop's fixed point to converge within the pass cap")
	}
	if !summary.BackEdgeObserved {
		t.Errorf("expected a back edge to be observed by the loop head at offset 2")
	}
}
