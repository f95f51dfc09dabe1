// Package report renders the outcome set the supervisor has
// assembled for a method into the user-visible form spec §7
// describes: one outcome per line with a confidence suffix, 100% for
// anything the concrete interpreter actually witnessed and a lower
// fixed confidence for outcomes known only from abstract
// interpretation. "not done" is never printed.
//
// Each line's shape is a fixed "label;value" pair over a fixed label
// set, the same shape a percentage-wager report would use, minus the
// wager-specific scoring semantics (the float as a literal betting
// stake), since percentage wagers are explicitly out of this system's
// scope.
package report

import (
	"strconv"
	"strings"

	"github.com/tidwall/sjson"

	"jpamb/internal/concrete"
)

// AbstractConfidence is the fixed confidence assigned to an outcome
// seen only in the abstract analyzer's outcome set, never witnessed
// concretely. Spec §7 only requires this be "a lower fixed
// confidence"; 60 is the number this implementation picked.
const AbstractConfidence = 60

// ConcreteConfidence is assigned to any outcome the concrete
// interpreter actually produced on some generated input.
const ConcreteConfidence = 100

// Line is one reported outcome and the confidence behind it.
type Line struct {
	Outcome    concrete.Outcome
	Confidence int
}

// order fixes the print order across all label sets, matching
// wager.py's print_wager: the "any other behavior" label first, then
// the five concrete labels alphabetically.
var order = []concrete.Outcome{
	concrete.NonTerminating,
	concrete.AssertionError,
	concrete.DivideByZero,
	concrete.NullPointer,
	concrete.OK,
	concrete.OutOfBounds,
}

// Build merges an abstract outcome set with the outcomes the
// supervisor's concrete runs actually witnessed into a confidence-
// annotated, presentation-ordered line list. concrete.NotDone is
// dropped unconditionally per spec §7; it is a run-status marker, not
// a terminal outcome.
func Build(abstractOutcomes []string, witnessed map[concrete.Outcome]bool) []Line {
	present := map[concrete.Outcome]bool{}
	for _, o := range abstractOutcomes {
		oc := concrete.Outcome(o)
		if oc == concrete.NotDone {
			continue
		}
		present[oc] = true
	}
	for o := range witnessed {
		if o == concrete.NotDone {
			continue
		}
		present[o] = true
	}

	lines := make([]Line, 0, len(present))
	for _, o := range order {
		if !present[o] {
			continue
		}
		confidence := AbstractConfidence
		if witnessed[o] {
			confidence = ConcreteConfidence
		}
		lines = append(lines, Line{Outcome: o, Confidence: confidence})
	}
	return lines
}

// FormatText renders lines the way print_wager renders a Wager:
// "label;NN%", one per line.
func FormatText(lines []Line) string {
	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = string(l.Outcome) + ";" + itoa(l.Confidence) + "%"
	}
	return strings.Join(rows, "\n")
}

// FormatJSON renders lines as a JSON array of {outcome, confidence}
// objects, built incrementally with sjson rather than assembled
// through a struct and marshaled.
func FormatJSON(lines []Line) (string, error) {
	doc := "[]"
	var err error
	for i, l := range lines {
		doc, err = sjson.Set(doc, itoa(i)+".outcome", string(l.Outcome))
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, itoa(i)+".confidence", l.Confidence)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
