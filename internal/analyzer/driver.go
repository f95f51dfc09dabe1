// Package analyzer implements spec §6's two outcome-surface
// operations: Analyze, the abstract-interpretation driver, and
// RunConcrete, the bounded concrete-run driver. Both are thin
// orchestration over internal/absint, internal/concrete and
// internal/interval — the actual interpretation logic lives there.
package analyzer

import (
	"sort"

	"jpamb/internal/absint"
	"jpamb/internal/frame"
	"jpamb/internal/interval"
	"jpamb/internal/jvm"
)

// Program is the opcode-lookup surface both drivers need. A
// *loader.Cache satisfies this (and internal/concrete's and
// internal/absint's identically-shaped Program interfaces) directly.
type Program interface {
	OpcodeAt(pc frame.PC) (jvm.Opcode, error)
}

// DefaultPassCap mirrors absint.DefaultPassCap; Analyze uses it when
// passCap<=0.
const DefaultPassCap = absint.DefaultPassCap

// Result is spec §6's analyze(method-id) → (outcome-set,
// input-interval-list), rendered as Go values: Outcomes is the sorted
// string set produced by the worklist, ParamIntervals holds one entry
// per parameter, in parameter order, with its reported input interval.
type Result struct {
	Outcomes         []string
	Converged        bool
	BackEdgeObserved bool
	ParamIntervals   []ParamInterval
}

// ParamInterval is one parameter's reported input envelope. Only
// parameters whose type IsInt (jvm.KindInt; jvm.ParseSourceType maps
// source-level int and boolean there) get a non-trivial Interval; everything else reports interval.Top() as a documented
// "no information" placeholder, since this subset never narrows
// untracked reference types.
type ParamInterval struct {
	Index    int
	Type     jvm.Type
	Interval interval.Interval
}

// Analyze runs the worklist to a fixed point (or until passCap is
// exhausted) starting from method's entry, and reports both the
// derived outcome set and, per int parameter, the reported input
// interval.
//
// k and paramTypes are spec §6's "source-side constants interface":
// the set of integer literals appearing in the method body and the
// ordered parameter type list, both produced by an external syntactic
// extractor this module does not implement. The worklist's actual
// starting envelope for every int parameter is always ⊤ (K-annotated
// so later widening still snaps to k's thresholds) — see DESIGN.md's
// resolution of the §9 Open Question on this point. [min(k),max(k)]
// is reported here, separately, as metadata only (RunConcrete takes
// its arguments explicitly and samples nothing); when k is empty there is no information to narrow from,
// so the reported interval is ⊤ too.
func Analyze(prog Program, method jvm.MethodID, k []int, paramTypes []jvm.Type, passCap int) (Result, error) {
	if passCap <= 0 {
		passCap = DefaultPassCap
	}

	initialLocals := map[int]absint.Value{}
	paramIntervals := make([]ParamInterval, len(paramTypes))
	reported := interval.Top()
	if len(k) > 0 {
		reported = interval.Abstract(k)
	}
	for i, t := range paramTypes {
		if t.IsInt() {
			initialLocals[i] = absint.FromInterval(interval.Top().WithK(k))
			paramIntervals[i] = ParamInterval{Index: i, Type: t, Interval: reported}
		} else {
			initialLocals[i] = absint.Untracked(t)
			paramIntervals[i] = ParamInterval{Index: i, Type: t, Interval: interval.Top()}
		}
	}

	summary, err := absint.Run(prog, method, initialLocals, passCap)
	if err != nil {
		return Result{}, err
	}

	outcomes := make([]string, 0, len(summary.Outcomes))
	for o := range summary.Outcomes {
		outcomes = append(outcomes, string(o))
	}
	sort.Strings(outcomes)

	return Result{
		Outcomes:         outcomes,
		Converged:        summary.Converged,
		BackEdgeObserved: summary.BackEdgeObserved,
		ParamIntervals:   paramIntervals,
	}, nil
}
