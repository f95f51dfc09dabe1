package loader

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"jpamb/internal/jvm"
)

// decodeOpcodes parses the small JSON opcode encoding this package's
// file-backed loader reads: a top-level array, one object per opcode,
// tagged by a "kind" string with the payload fields documented beside
// each case below. Offsets are the array index, per spec §6's
// "decode offsets as 0-based positions into the returned sequence".
func decodeOpcodes(raw []byte) ([]jvm.Opcode, error) {
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, errors.New("loader: opcode document is not a JSON array")
	}

	var ops []jvm.Opcode
	var decodeErr error
	parsed.ForEach(func(_, item gjson.Result) bool {
		op, err := decodeOne(item)
		if err != nil {
			decodeErr = errors.Wrapf(err, "loader: opcode %d", len(ops))
			return false
		}
		ops = append(ops, op)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return ops, nil
}

func decodeOne(item gjson.Result) (jvm.Opcode, error) {
	kind := item.Get("kind").String()
	switch kind {
	case "push":
		v, err := decodeValue(item.Get("value"))
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.Push(v), nil

	case "load":
		t, err := parseType(item.Get("valtype").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.Load(t, int(item.Get("index").Int())), nil

	case "store":
		t, err := parseType(item.Get("valtype").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.Store(t, int(item.Get("index").Int())), nil

	case "dup":
		return jvm.Dup(int(item.Get("words").Int())), nil

	case "incr":
		return jvm.Incr(int(item.Get("index").Int()), int(item.Get("amount").Int())), nil

	case "binary":
		t, err := parseType(item.Get("bintype").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		op, err := parseBinaryOp(item.Get("op").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.Binary(t, op), nil

	case "cast":
		from, err := parseType(item.Get("from").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		to, err := parseType(item.Get("to").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.Cast(from, to), nil

	case "ifz":
		cond, err := parseCond(item.Get("cond").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.Ifz(cond, int(item.Get("target").Int())), nil

	case "if":
		cond, err := parseCond(item.Get("cond").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.If(cond, int(item.Get("target").Int())), nil

	case "goto":
		return jvm.Goto(int(item.Get("target").Int())), nil

	case "return":
		if !item.Get("rettype").Exists() {
			return jvm.Return(nil), nil
		}
		t, err := parseType(item.Get("rettype").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.Return(&t), nil

	case "new":
		return jvm.New(item.Get("class").String()), nil

	case "invokestatic":
		callee, err := decodeMethodID(item.Get("callee"))
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.InvokeStatic(callee), nil

	case "invokespecial":
		callee, err := decodeMethodID(item.Get("callee"))
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.InvokeSpecial(callee), nil

	case "get":
		return jvm.Get(item.Get("field").String(), item.Get("static").Bool()), nil

	case "newarray":
		t, err := parseType(item.Get("elemtype").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		dim := int(item.Get("dim").Int())
		if dim == 0 {
			dim = 1
		}
		return jvm.NewArray(t, dim), nil

	case "arrayload":
		t, err := parseType(item.Get("elemtype").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.ArrayLoad(t), nil

	case "arraystore":
		t, err := parseType(item.Get("elemtype").String())
		if err != nil {
			return jvm.Opcode{}, err
		}
		return jvm.ArrayStore(t), nil

	case "arraylength":
		return jvm.ArrayLength(), nil

	case "throw":
		return jvm.Throw(), nil

	default:
		return jvm.Opcode{}, errors.Errorf("loader: unknown opcode kind %q", kind)
	}
}

func decodeValue(v gjson.Result) (jvm.Value, error) {
	t, err := parseType(v.Get("type").String())
	if err != nil {
		return jvm.Value{}, err
	}
	if v.Get("ref").Exists() {
		ref := int(v.Get("ref").Int())
		return jvm.Value{Type: t, Ref: ref}, nil
	}
	return jvm.Value{Type: t, Num: int(v.Get("num").Int())}, nil
}

func decodeMethodID(v gjson.Result) (jvm.MethodID, error) {
	return jvm.ParseMethodID(v.String())
}

func parseBinaryOp(s string) (jvm.BinaryOp, error) {
	switch s {
	case "add":
		return jvm.Add, nil
	case "sub":
		return jvm.Sub, nil
	case "mul":
		return jvm.Mul, nil
	case "div":
		return jvm.Div, nil
	case "rem":
		return jvm.Rem, nil
	default:
		return 0, errors.Errorf("loader: unknown binary op %q", s)
	}
}

func parseCond(s string) (jvm.Cond, error) {
	switch s {
	case "eq":
		return jvm.Eq, nil
	case "ne":
		return jvm.Ne, nil
	case "lt":
		return jvm.Lt, nil
	case "le":
		return jvm.Le, nil
	case "gt":
		return jvm.Gt, nil
	case "ge":
		return jvm.Ge, nil
	default:
		return 0, errors.Errorf("loader: unknown condition %q", s)
	}
}
