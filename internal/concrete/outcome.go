package concrete

// Outcome is one of the terminal labels spec §4.1/§7 fixes as the
// closed result alphabet. Values other than these never appear as a
// terminal outcome; anything else observed during stepping is a
// fatal implementation error instead.
type Outcome string

const (
	OK             Outcome = "ok"
	DivideByZero   Outcome = "divide by zero"
	AssertionError Outcome = "assertion error"
	OutOfBounds    Outcome = "out of bounds"
	NullPointer    Outcome = "null pointer"
	NonTerminating Outcome = "*"
	NotDone        Outcome = "not done"
)
