package analyzer

import (
	"testing"

	"jpamb/internal/jvm"
)

// TestConcreteAbstractAgreement checks spec's central soundness
// property end to end: every outcome the concrete interpreter
// actually witnesses on a sampled input must already be present in
// the abstract outcome set Analyze predicted for the same method, as
// long as the abstract pass converged (an unconverged pass already
// reports NonTerminating and carries no such guarantee).
func TestConcreteAbstractAgreement(t *testing.T) {
	method := divByParamMethod()
	prog := divByParamProgram()

	result, err := Analyze(prog, method, []int{10}, []jvm.Type{jvm.Int()}, 0)
	if err != nil {
		t.Fatalf("Analyze: unexpected error: %v", err)
	}
	if !result.Converged {
		t.Fatalf("expected convergence")
	}
	predicted := map[string]bool{}
	for _, o := range result.Outcomes {
		predicted[o] = true
	}

	for _, n := range []int{0, 1, 5, 10, -3} {
		outcome, err := RunConcrete(prog, method, nil, []jvm.Value{jvm.IntValue(n)}, 0, nil)
		if err != nil {
			t.Fatalf("RunConcrete(%d): unexpected error: %v", n, err)
		}
		if !predicted[string(outcome)] {
			t.Errorf("RunConcrete(%d) = %q, which is not in the predicted outcome set %v", n, outcome, result.Outcomes)
		}
	}
}

func assertPositiveMethod() jvm.MethodID {
	return jvm.MethodID{Class: "Test", Method: "assertPositive", Params: jvm.NewParamList(jvm.Int())}
}

func assertPositiveProgram() testProgram {
	ctor := jvm.MethodID{Class: jvm.AssertionErrorClass, Method: "<init>"}
	return testProgram{
		0: jvm.Get(jvm.AssertionsDisabledField, true),
		1: jvm.Ifz(jvm.Ne, 7),
		2: jvm.Load(jvm.Int(), 0),
		3: jvm.Ifz(jvm.Gt, 7),
		4: jvm.New(jvm.AssertionErrorClass),
		5: jvm.InvokeSpecial(ctor),
		6: jvm.Throw(),
		7: jvm.Return(nil),
	}
}

func TestConcreteAbstractAgreementAssertion(t *testing.T) {
	method := assertPositiveMethod()
	prog := assertPositiveProgram()

	result, err := Analyze(prog, method, nil, []jvm.Type{jvm.Int()}, 0)
	if err != nil {
		t.Fatalf("Analyze: unexpected error: %v", err)
	}
	if !result.Converged {
		t.Fatalf("expected convergence")
	}
	predicted := map[string]bool{}
	for _, o := range result.Outcomes {
		predicted[o] = true
	}

	for _, n := range []int{-1, 0, 1, 42} {
		outcome, err := RunConcrete(prog, method, nil, []jvm.Value{jvm.IntValue(n)}, 0, nil)
		if err != nil {
			t.Fatalf("RunConcrete(%d): unexpected error: %v", n, err)
		}
		if !predicted[string(outcome)] {
			t.Errorf("RunConcrete(%d) = %q, which is not in the predicted outcome set %v", n, outcome, result.Outcomes)
		}
	}
}
