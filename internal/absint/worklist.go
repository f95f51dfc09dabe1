package absint

import (
	"jpamb/internal/frame"
	"jpamb/internal/jerrors"
	"jpamb/internal/jvm"
)

// DefaultPassCap is the worklist driver's fixed step budget (spec
// §4.2: "a fixed step budget (≈100 passes)").
const DefaultPassCap = 100

// Summary is the fixed-point computation's result: the union of
// terminal labels surfaced, plus the two bookkeeping bits the
// analyzer driver needs to apply spec §4.2's outcome-derivation rules
// (Converged false means the pass cap was hit; BackEdgeObserved true
// means some successor jumped to an offset at or before its source's
// offset in the same method, or a merge re-entered a PC into the dirty
// set).
type Summary struct {
	Outcomes         map[Outcome]bool
	Converged        bool
	BackEdgeObserved bool
}

// Run executes the worklist-based fixed-point computation of spec
// §4.2 starting from a single state at (method, 0) with the given
// initial locals (the caller — internal/analyzer — is responsible for
// building the K-annotated or ⊤ initial envelope per parameter).
func Run(prog Program, method jvm.MethodID, initialLocals map[int]Value, passCap int) (Summary, error) {
	if passCap <= 0 {
		passCap = DefaultPassCap
	}

	initial := NewState(frame.PC{Method: method, Offset: 0})
	initial.Top().Locals = initialLocals

	states := map[string]*State{}
	dirty := []string{initial.PC().Key()}
	states[initial.PC().Key()] = initial

	outcomes := map[Outcome]bool{}
	backEdgeObserved := false

	passCount := 0
	for len(dirty) > 0 && passCount < passCap {
		passCount++
		currentPass := dirty
		dirty = nil

		staging := map[string]*State{}
		stagingOrder := []string{}

		for _, key := range currentPass {
			s := states[key]
			results, err := Step(s, prog)
			if err != nil {
				return Summary{}, jerrors.Wrap(err, s.PC(), nil)
			}
			for _, r := range results {
				switch {
				case r.Terminal != "":
					outcomes[r.Terminal] = true
				case r.Incomplete:
					// Dead end: this path contributes neither a terminal
					// nor a continuation (spec §4.2's termination rule).
				case r.Next != nil:
					if next, cur := r.Next.PC(), s.PC(); next.Method.Key() == cur.Method.Key() && next.Offset <= cur.Offset {
						backEdgeObserved = true
					}
					pc := r.Next.PC().Key()
					if existing, ok := staging[pc]; ok {
						staging[pc] = Join(existing, r.Next, false)
					} else {
						staging[pc] = r.Next
						stagingOrder = append(stagingOrder, pc)
					}
				}
			}
		}

		for _, pc := range stagingOrder {
			cand := staging[pc]
			old, exists := states[pc]
			if !exists {
				states[pc] = cand
				dirty = append(dirty, pc)
				continue
			}
			// old present ⟺ pc was marked dirty in a strictly previous
			// pass (it can only have entered states via an earlier
			// pass's merge step below), so widening applies here.
			joined := Join(old, cand, true)
			if !joined.Equal(old) {
				states[pc] = joined
				dirty = append(dirty, pc)
				backEdgeObserved = true
			}
		}
	}

	converged := len(dirty) == 0
	if !converged {
		outcomes[NonTerminating] = true
	} else if len(outcomes) == 0 && backEdgeObserved {
		outcomes[NonTerminating] = true
	}

	return Summary{Outcomes: outcomes, Converged: converged, BackEdgeObserved: backEdgeObserved}, nil
}
