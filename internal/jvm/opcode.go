package jvm

// BinaryOp enumerates the arithmetic operators carried by Binary.
type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Rem:
		return "rem"
	default:
		return "?"
	}
}

// Cond enumerates the six comparison conditions used by Ifz and If.
type Cond uint8

const (
	Eq Cond = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (c Cond) String() string {
	return [...]string{"eq", "ne", "lt", "le", "gt", "ge"}[c]
}

// OpKind discriminates the Opcode sum type. The payload fields that
// are meaningful for a given OpKind are documented on each Opcode
// field below; fields outside the active variant are the zero value.
type OpKind uint8

const (
	OpPush OpKind = iota
	OpLoad
	OpStore
	OpDup
	OpIncr
	OpBinary
	OpCast
	OpIfz
	OpIf
	OpGoto
	OpReturn
	OpNew
	OpInvokeStatic
	OpInvokeSpecial
	OpGet
	OpNewArray
	OpArrayLoad
	OpArrayStore
	OpArrayLength
	OpThrow
)

func (k OpKind) String() string {
	switch k {
	case OpPush:
		return "push"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpDup:
		return "dup"
	case OpIncr:
		return "incr"
	case OpBinary:
		return "binary"
	case OpCast:
		return "cast"
	case OpIfz:
		return "ifz"
	case OpIf:
		return "if"
	case OpGoto:
		return "goto"
	case OpReturn:
		return "return"
	case OpNew:
		return "new"
	case OpInvokeStatic:
		return "invokestatic"
	case OpInvokeSpecial:
		return "invokespecial"
	case OpGet:
		return "get"
	case OpNewArray:
		return "newarray"
	case OpArrayLoad:
		return "arrayload"
	case OpArrayStore:
		return "arraystore"
	case OpArrayLength:
		return "arraylength"
	case OpThrow:
		return "throw"
	default:
		return "?"
	}
}

// Opcode is the closed set of bytecode instructions this subset
// supports (spec §3). It is a tagged variant implemented as one
// struct with a Kind discriminant, in the style of this package's
// Type: exhaustive switches over Kind are the only intended way to
// consume it.
type Opcode struct {
	Kind OpKind

	// OpPush
	Value Value

	// OpLoad, OpStore, OpIncr: Index is the local-variable slot.
	// OpLoad, OpStore: ValType is the declared slot type.
	Index   int
	ValType Type
	Amount  int // OpIncr

	// OpDup
	Words int

	// OpBinary
	BinType Type
	Op      BinaryOp

	// OpCast
	From, To Type

	// OpIfz, OpIf, OpGoto: Target is an absolute offset into the
	// owning method's opcode sequence.
	Cond   Cond
	Target int

	// OpReturn: RetType is nil for void returns.
	RetType *Type

	// OpNew: Class is a fully qualified class name, e.g.
	// "java/lang/AssertionError".
	Class string

	// OpInvokeStatic, OpInvokeSpecial
	Callee MethodID

	// OpGet
	Field    string
	IsStatic bool

	// OpNewArray, OpArrayLoad, OpArrayStore: ElemType is the array's
	// element type. Dim is the array dimension (OpNewArray only; this
	// subset supports Dim<=1).
	ElemType Type
	Dim      int
}

func Push(v Value) Opcode { return Opcode{Kind: OpPush, Value: v} }

func Load(t Type, index int) Opcode {
	return Opcode{Kind: OpLoad, ValType: t, Index: index}
}

func Store(t Type, index int) Opcode {
	return Opcode{Kind: OpStore, ValType: t, Index: index}
}

func Dup(words int) Opcode { return Opcode{Kind: OpDup, Words: words} }

func Incr(index, amount int) Opcode {
	return Opcode{Kind: OpIncr, Index: index, Amount: amount}
}

func Binary(t Type, op BinaryOp) Opcode {
	return Opcode{Kind: OpBinary, BinType: t, Op: op}
}

func Cast(from, to Type) Opcode { return Opcode{Kind: OpCast, From: from, To: to} }

func Ifz(cond Cond, target int) Opcode { return Opcode{Kind: OpIfz, Cond: cond, Target: target} }

func If(cond Cond, target int) Opcode { return Opcode{Kind: OpIf, Cond: cond, Target: target} }

func Goto(target int) Opcode { return Opcode{Kind: OpGoto, Target: target} }

func Return(t *Type) Opcode { return Opcode{Kind: OpReturn, RetType: t} }

func New(class string) Opcode { return Opcode{Kind: OpNew, Class: class} }

func InvokeStatic(callee MethodID) Opcode { return Opcode{Kind: OpInvokeStatic, Callee: callee} }

func InvokeSpecial(callee MethodID) Opcode { return Opcode{Kind: OpInvokeSpecial, Callee: callee} }

func Get(field string, static bool) Opcode { return Opcode{Kind: OpGet, Field: field, IsStatic: static} }

func NewArray(t Type, dim int) Opcode { return Opcode{Kind: OpNewArray, ElemType: t, Dim: dim} }

func ArrayLoad(t Type) Opcode { return Opcode{Kind: OpArrayLoad, ElemType: t} }

func ArrayStore(t Type) Opcode { return Opcode{Kind: OpArrayStore, ElemType: t} }

func ArrayLength() Opcode { return Opcode{Kind: OpArrayLength} }

func Throw() Opcode { return Opcode{Kind: OpThrow} }

// AssertionErrorClass is the one class name the concrete and abstract
// interpreters special-case (spec §4.1/§4.2): any New of this class,
// or InvokeSpecial naming its constructor, is a guaranteed assertion
// failure.
const AssertionErrorClass = "java/lang/AssertionError"

// AssertionsDisabledField is the one field Get may legally target in
// this subset (spec §4.1): the compiler-generated flag is always
// treated as 0, i.e. assertions enabled.
const AssertionsDisabledField = "$assertionsDisabled"
