// Package interval implements the bounded-integer interval lattice
// spec §4.4 describes: explicit ±∞ bounds, an empty bottom element, a
// join/meet/order triple, and a K-parameterized widening operator.
package interval

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrUndefinedArithmetic is raised for the one combination spec §4.4
// calls out as needing to be a hard implementation error rather than
// silently saturating: ∞ + (−∞).
var ErrUndefinedArithmetic = errors.New("interval: undefined arithmetic on infinite bounds (∞ + -∞)")

// BoundKind discriminates a finite bound from the two infinities.
type BoundKind uint8

const (
	Finite BoundKind = iota
	NegInf
	PosInf
)

// Bound is a lattice endpoint: either a finite integer or one of the
// two infinities. It is a small value type, never a pointer, so it is
// comparable with ==; Interval itself carries a K slice and is
// compared through Equal.
type Bound struct {
	Kind BoundKind
	N    int // meaningful iff Kind == Finite
}

func FiniteBound(n int) Bound { return Bound{Kind: Finite, N: n} }

var NegInfBound = Bound{Kind: NegInf}
var PosInfBound = Bound{Kind: PosInf}

func (b Bound) IsFinite() bool { return b.Kind == Finite }

func (b Bound) Less(o Bound) bool {
	switch {
	case b.Kind == NegInf:
		return o.Kind != NegInf
	case b.Kind == PosInf:
		return false
	case o.Kind == NegInf:
		return false
	case o.Kind == PosInf:
		return true
	default:
		return b.N < o.N
	}
}

func (b Bound) LessEq(o Bound) bool { return b.Equal(o) || b.Less(o) }

func (b Bound) Equal(o Bound) bool {
	if b.Kind != o.Kind {
		return false
	}
	return b.Kind != Finite || b.N == o.N
}

func Min(a, b Bound) Bound {
	if a.Less(b) {
		return a
	}
	return b
}

func Max(a, b Bound) Bound {
	if a.Less(b) {
		return b
	}
	return a
}

func (b Bound) String() string {
	switch b.Kind {
	case NegInf:
		return "-inf"
	case PosInf:
		return "+inf"
	default:
		return strconv.Itoa(b.N)
	}
}

// Interval is the lattice element of spec §3/§4.4: Empty (represented
// by Lo>Hi) is ⊥, [-inf,+inf] is ⊤. K is the immutable, never-shrinking
// set of "interesting" constants used only by Widen; every operation
// preserves the first non-empty operand's K (spec: "all operations on
// intervals preserve a K (take the first non-empty one)").
type Interval struct {
	Lo, Hi Bound
	K      []int // sorted, de-duplicated
}

// Empty is the ⊥ element.
func Empty() Interval { return Interval{Lo: FiniteBound(1), Hi: FiniteBound(0)} }

// Top is the ⊤ element, [-inf, +inf].
func Top() Interval { return Interval{Lo: NegInfBound, Hi: PosInfBound} }

// New builds a finite interval [lo, hi], or Empty if lo > hi.
func New(lo, hi int) Interval {
	if lo > hi {
		return Empty()
	}
	return Interval{Lo: FiniteBound(lo), Hi: FiniteBound(hi)}
}

// Singleton builds the interval [n, n].
func Singleton(n int) Interval { return New(n, n) }

// WithK returns iv with its K set replaced (sorted, deduplicated).
func (iv Interval) WithK(k []int) Interval {
	iv.K = sortedUnique(k)
	return iv
}

func sortedUnique(vals []int) []int {
	if len(vals) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(vals))
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	// insertion sort: K sets from method constants are small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// IsEmpty reports whether iv is ⊥ (Lo > Hi).
func (iv Interval) IsEmpty() bool { return iv.Hi.Less(iv.Lo) }

// Abstract builds the smallest interval containing every element of
// s, or Empty if s is empty (spec §4.4 "Abstract").
func Abstract(s []int) Interval {
	if len(s) == 0 {
		return Empty()
	}
	lo, hi := s[0], s[0]
	for _, v := range s[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return New(lo, hi)
}

// Contains reports n ∈ iv (spec §4.4 "Containment").
func (iv Interval) Contains(n int) bool {
	if iv.IsEmpty() {
		return false
	}
	return iv.Lo.LessEq(FiniteBound(n)) && FiniteBound(n).LessEq(iv.Hi)
}

// LessEq is the lattice order: empty ≤ everything; otherwise iv ≤ o
// iff o.Lo ≤ iv.Lo ∧ iv.Hi ≤ o.Hi (spec §4.4 "Order").
func (iv Interval) LessEq(o Interval) bool {
	if iv.IsEmpty() {
		return true
	}
	if o.IsEmpty() {
		return false
	}
	return o.Lo.LessEq(iv.Lo) && iv.Hi.LessEq(o.Hi)
}

func (iv Interval) Equal(o Interval) bool {
	if iv.IsEmpty() && o.IsEmpty() {
		return true
	}
	return iv.Lo.Equal(o.Lo) && iv.Hi.Equal(o.Hi)
}

func firstK(a, b Interval) []int {
	if !a.IsEmpty() {
		return a.K
	}
	return b.K
}

// Join is the lattice ∨: pointwise min/max of the bounds, empty acting
// as identity (spec §4.4 "Join").
func (iv Interval) Join(o Interval) Interval {
	if iv.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return iv
	}
	return Interval{Lo: Min(iv.Lo, o.Lo), Hi: Max(iv.Hi, o.Hi), K: firstK(iv, o)}
}

// Meet is the lattice ∧: pointwise max/min of the bounds, empty if the
// result inverts (spec §4.4 "Meet").
func (iv Interval) Meet(o Interval) Interval {
	if iv.IsEmpty() || o.IsEmpty() {
		return Empty()
	}
	lo, hi := Max(iv.Lo, o.Lo), Min(iv.Hi, o.Hi)
	if hi.Less(lo) {
		return Empty()
	}
	return Interval{Lo: lo, Hi: hi, K: firstK(iv, o)}
}

func (iv Interval) String() string {
	if iv.IsEmpty() {
		return "∅"
	}
	return "[" + iv.Lo.String() + ", " + iv.Hi.String() + "]"
}

// Widen is the K-parameterized widening operator of spec §4.2/§4.4:
// the lower bound snaps down to the largest K-element ≤ min(lo,lo′)
// (−∞ if none exists), the upper bound snaps up to the smallest
// K-element ≥ max(hi,hi′) (+∞ if none exists). Widen is only valid
// between an interval and a candidate that is ≥ it in the join
// order — callers apply it in place of Join once a PC has been
// revisited, per the worklist driver's merge rule.
func (iv Interval) Widen(o Interval) Interval {
	if iv.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return iv
	}
	k := firstK(iv, o)

	lo := widenLower(Min(iv.Lo, o.Lo), k)
	hi := widenUpper(Max(iv.Hi, o.Hi), k)
	return Interval{Lo: lo, Hi: hi, K: k}
}

func widenLower(b Bound, k []int) Bound {
	if b.Kind != Finite {
		return b
	}
	best := NegInfBound
	for _, c := range k {
		if c <= b.N {
			best = FiniteBound(c)
		} else {
			break
		}
	}
	return best
}

func widenUpper(b Bound, k []int) Bound {
	if b.Kind != Finite {
		return b
	}
	for _, c := range k {
		if c >= b.N {
			return FiniteBound(c)
		}
	}
	return PosInfBound
}
