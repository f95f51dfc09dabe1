package absint

import "jpamb/internal/concrete"

// Outcome reuses the concrete interpreter's closed terminal-label
// vocabulary (spec §4.1/§4.2 share the same four fault labels plus
// "ok" and "*"); the abstract interpreter never needs "not done", which is a
// concrete-run-only cancellation signal.
type Outcome = concrete.Outcome

const (
	OK             = concrete.OK
	DivideByZero   = concrete.DivideByZero
	AssertionError = concrete.AssertionError
	OutOfBounds    = concrete.OutOfBounds
	NullPointer    = concrete.NullPointer
	NonTerminating = concrete.NonTerminating
)
