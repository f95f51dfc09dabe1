package analyzer

import (
	"testing"

	"jpamb/internal/concrete"
	"jpamb/internal/jvm"
)

// These tests replay the worked examples verbatim, exercising Analyze
// and RunConcrete together the way the CLI driver does.

func TestScenarioInfiniteLoop(t *testing.T) {
	// void h() { while (true) {} }
	method := jvm.MethodID{Class: "Test", Method: "h"}
	prog := testProgram{0: jvm.Goto(0)}

	result, err := Analyze(prog, method, nil, nil, 0)
	if err != nil {
		t.Fatalf("Analyze: unexpected error: %v", err)
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0] != "*" {
		t.Errorf("Analyze outcomes = %v, want {\"*\"}", result.Outcomes)
	}

	outcome, err := RunConcrete(prog, method, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("RunConcrete: unexpected error: %v", err)
	}
	if outcome != concrete.NonTerminating {
		t.Errorf("RunConcrete outcome = %q, want %q", outcome, concrete.NonTerminating)
	}
}

func TestScenarioArrayOOB(t *testing.T) {
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

	result, err := Analyze(prog, method, []int{3, 5}, nil, 0)
	if err != nil {
		t.Fatalf("Analyze: unexpected error: %v", err)
	}
	if len(result.Outcomes) != 0 {
		t.Errorf("Analyze outcomes = %v, want empty (flagged incomplete)", result.Outcomes)
	}

	outcome, err := RunConcrete(prog, method, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("RunConcrete: unexpected error: %v", err)
	}
	if outcome != concrete.OutOfBounds {
		t.Errorf("RunConcrete outcome = %q, want %q", outcome, concrete.OutOfBounds)
	}
}
