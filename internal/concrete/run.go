package concrete

import "jpamb/internal/jerrors"

// Run drives Step in a bounded loop per spec §4.6: it returns the
// terminal Outcome Step produces, NonTerminating if stepCap steps
// elapse without termination, or NotDone if cancelled reports true at
// a step boundary. cancelled is polled once per step, never mid-step,
// matching the cooperative-cancellation model of spec §5.
//
// A non-nil error is always a *jerrors.RunError: Step's own error is
// annotated here with the PC of the frame it failed in, so a source
// position survives from the point of failure up to the CLI's error
// print.
func Run(state *State, prog Program, stepCap int, cancelled func() bool) (Outcome, error) {
	for i := 0; i < stepCap; i++ {
		if cancelled != nil && cancelled() {
			return NotDone, nil
		}
		pc := state.Top().PC
		outcome, done, err := Step(state, prog)
		if err != nil {
			return "", jerrors.Wrap(err, pc, nil)
		}
		if done {
			return outcome, nil
		}
	}
	return NonTerminating, nil
}
