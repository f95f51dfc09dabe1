package analyzer

import (
	"jpamb/internal/concrete"
	"jpamb/internal/jvm"
)

// DefaultStepCap is the concrete-run driver's bound on opcode steps
// per attempt (spec §4.6/§5's "10^5 or more").
const DefaultStepCap = 100_000

// RunConcrete is spec §6's run-concrete(method-id, input-tuple,
// cancel-flag) → outcome. args are the method's actual parameter
// values in order (array/object parameters must already be allocated
// in heap, with args carrying the resulting references — heap may be
// nil for methods that take no reference-typed parameters, in which
// case an empty heap is used). cancelled is polled cooperatively at
// step boundaries only, per spec §5; stepCap<=0 uses DefaultStepCap.
func RunConcrete(prog concrete.Program, method jvm.MethodID, heap *concrete.Heap, args []jvm.Value, stepCap int, cancelled func() bool) (concrete.Outcome, error) {
	if stepCap <= 0 {
		stepCap = DefaultStepCap
	}
	locals := concrete.NewLocals(len(args))
	for i, v := range args {
		locals.Set(i, v)
	}
	state := concrete.NewState(method, locals)
	if heap != nil {
		state.Heap = heap
	}
	return concrete.Run(state, prog, stepCap, cancelled)
}
