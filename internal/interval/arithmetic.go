package interval

// Add implements spec §4.2's Binary(Int, Add): [a,b] ⊕ [c,d] = [a+c, b+d].
func Add(a, b Interval) (Interval, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty(), nil
	}
	lo, err := addBounds(a.Lo, b.Lo)
	if err != nil {
		return Interval{}, err
	}
	hi, err := addBounds(a.Hi, b.Hi)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Lo: lo, Hi: hi, K: firstK(a, b)}, nil
}

// Sub implements [a,b] − [c,d] = [a−d, b−c].
func Sub(a, b Interval) (Interval, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty(), nil
	}
	lo, err := subBounds(a.Lo, b.Hi)
	if err != nil {
		return Interval{}, err
	}
	hi, err := subBounds(a.Hi, b.Lo)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Lo: lo, Hi: hi, K: firstK(a, b)}, nil
}

// Mul implements endpoint min/max of the four cross products, honoring
// ±∞ arithmetic with ∞·0 = 0 (spec §4.2).
func Mul(a, b Interval) (Interval, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty(), nil
	}
	products := [4]Bound{}
	var err error
	if products[0], err = mulBounds(a.Lo, b.Lo); err != nil {
		return Interval{}, err
	}
	if products[1], err = mulBounds(a.Lo, b.Hi); err != nil {
		return Interval{}, err
	}
	if products[2], err = mulBounds(a.Hi, b.Lo); err != nil {
		return Interval{}, err
	}
	if products[3], err = mulBounds(a.Hi, b.Hi); err != nil {
		return Interval{}, err
	}
	lo, hi := products[0], products[0]
	for _, p := range products[1:] {
		lo = Min(lo, p)
		hi = Max(hi, p)
	}
	return Interval{Lo: lo, Hi: hi, K: firstK(a, b)}, nil
}

// DivResult is the outcome of dividing by a divisor interval (spec
// §4.2's Div rule): MayDivideByZero is set iff 0 ∈ divisor; Quotient
// (with HasQuotient true) is set iff divisor ⊄ {0}, i.e. some non-zero
// divisor value is possible.
type DivResult struct {
	MayDivideByZero bool
	HasQuotient     bool
	Quotient        Interval
}

// Div implements spec §4.2's Binary(Int, Div) rule: zero-containment
// and non-zero-possibility are independent, so both a "divide by
// zero" terminal and a numeric successor may need to be produced by
// the same abstract step.
func Div(dividend, divisor Interval) (DivResult, error) {
	var res DivResult
	if dividend.IsEmpty() || divisor.IsEmpty() {
		return res, nil
	}

	res.MayDivideByZero = divisor.Contains(0)

	isOnlyZero := divisor.Lo.Equal(FiniteBound(0)) && divisor.Hi.Equal(FiniteBound(0))
	if isOnlyZero {
		return res, nil
	}
	res.HasQuotient = true

	if divisor.Lo.Equal(divisor.Hi) && divisor.Lo.IsFinite() && divisor.Lo.N != 0 {
		d := divisor.Lo.N
		lo, err := floorDivBound(dividend.Lo, d)
		if err != nil {
			return res, err
		}
		hi, err := floorDivBound(dividend.Hi, d)
		if err != nil {
			return res, err
		}
		if d < 0 {
			lo, hi = hi, lo
		}
		res.Quotient = Interval{Lo: lo, Hi: hi, K: firstK(dividend, divisor)}
		return res, nil
	}

	res.Quotient = Top().WithK(firstK(dividend, divisor))
	return res, nil
}

// Rem implements spec §4.2's Rem rule: the remainder is bounded by
// [−max(|divisor|)+1, max(|divisor|)−1].
func Rem(divisor Interval) Interval {
	if divisor.IsEmpty() {
		return Empty()
	}
	maxAbs := maxAbsBound(divisor)
	if maxAbs.Kind != Finite {
		return Top().WithK(divisor.K)
	}
	if maxAbs.N == 0 {
		return Empty()
	}
	return New(-(maxAbs.N - 1), maxAbs.N-1).WithK(divisor.K)
}

func maxAbsBound(iv Interval) Bound {
	abs := func(b Bound) Bound {
		switch b.Kind {
		case Finite:
			if b.N < 0 {
				return FiniteBound(-b.N)
			}
			return b
		default:
			return PosInfBound
		}
	}
	return Max(abs(iv.Lo), abs(iv.Hi))
}

func addBounds(a, b Bound) (Bound, error) {
	if a.Kind == Finite && b.Kind == Finite {
		return FiniteBound(a.N + b.N), nil
	}
	if (a.Kind == NegInf && b.Kind == PosInf) || (a.Kind == PosInf && b.Kind == NegInf) {
		return Bound{}, ErrUndefinedArithmetic
	}
	if a.Kind == NegInf || b.Kind == NegInf {
		return NegInfBound, nil
	}
	return PosInfBound, nil
}

func subBounds(a, b Bound) (Bound, error) {
	return addBounds(a, negate(b))
}

func negate(b Bound) Bound {
	switch b.Kind {
	case Finite:
		return FiniteBound(-b.N)
	case NegInf:
		return PosInfBound
	default:
		return NegInfBound
	}
}

func mulBounds(a, b Bound) (Bound, error) {
	if a.Kind == Finite && a.N == 0 {
		return FiniteBound(0), nil
	}
	if b.Kind == Finite && b.N == 0 {
		return FiniteBound(0), nil
	}
	if a.Kind == Finite && b.Kind == Finite {
		return FiniteBound(a.N * b.N), nil
	}
	negResult := sign(a) != sign(b)
	if negResult {
		return NegInfBound, nil
	}
	return PosInfBound, nil
}

func sign(b Bound) int {
	switch b.Kind {
	case NegInf:
		return -1
	case PosInf:
		return 1
	default:
		if b.N < 0 {
			return -1
		}
		return 1
	}
}

// floorDivBound divides a finite-or-infinite bound by a known-nonzero
// finite divisor, flooring toward negative infinity (spec §4.1:
// "truncated-toward-negative-infinity integer division").
func floorDivBound(a Bound, d int) (Bound, error) {
	if a.Kind != Finite {
		// infinite / finite nonzero = same-signed infinity, flipped if d<0.
		if d < 0 {
			return negate(a), nil
		}
		return a, nil
	}
	return FiniteBound(floorDiv(a.N, d)), nil
}

// floorDiv divides a by b (b != 0), rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		q--
	}
	return q
}

// FloorDivRem returns the truncated-toward-negative-infinity quotient
// and remainder spec §4.1 specifies for the concrete interpreter's Div
// and Rem: remainder = v1 − floor(v1/v2)·v2.
func FloorDivRem(v1, v2 int) (q, r int) {
	q = floorDiv(v1, v2)
	r = v1 - q*v2
	return q, r
}

// InfDivInf is the conservative "infinite ÷ infinite = 0" rule spec
// §4.4 calls out for bound-level division; it is exposed separately
// from Div/Rem above because it only matters when reasoning about raw
// bounds rather than the Div/Rem interval rules (which already route
// infinite/infinite through the ⊤ fallback).
func InfDivInf() Bound { return FiniteBound(0) }
