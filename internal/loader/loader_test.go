package loader

import (
	"os"
	"path/filepath"
	"testing"

	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

func divByParamMethod() jvm.MethodID {
	i := jvm.Int()
	return jvm.MethodID{Class: "Test", Method: "f", Params: jvm.NewParamList(jvm.Int()), Return: &i}
}

const divByParamJSON = `[
  {"kind":"push","value":{"type":"int","num":10}},
  {"kind":"load","valtype":"int","index":0},
  {"kind":"binary","bintype":"int","op":"div"},
  {"kind":"return","rettype":"int"}
]`

func TestFileLoaderDecodesOpcodes(t *testing.T) {
	dir := t.TempDir()
	method := divByParamMethod()
	path := filepath.Join(dir, slug(method))
	if err := os.WriteFile(path, []byte(divByParamJSON), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	fl := NewFileLoader(dir)
	ops, err := fl.Opcodes(method)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 4 {
		t.Fatalf("got %d opcodes, want 4", len(ops))
	}
	if ops[0].Kind != jvm.OpPush || ops[0].Value.Num != 10 {
		t.Errorf("ops[0] = %+v, want Push(10)", ops[0])
	}
	if ops[2].Kind != jvm.OpBinary || ops[2].Op != jvm.Div {
		t.Errorf("ops[2] = %+v, want Binary(div)", ops[2])
	}
	if ops[3].Kind != jvm.OpReturn || ops[3].RetType == nil || !ops[3].RetType.IsInt() {
		t.Errorf("ops[3] = %+v, want Return(int)", ops[3])
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	fl := NewFileLoader(t.TempDir())
	if _, err := fl.Opcodes(divByParamMethod()); err == nil {
		t.Errorf("expected an error for a missing method file")
	}
}

func TestCacheMemoizesAndImplementsProgram(t *testing.T) {
	method := divByParamMethod()
	calls := 0
	sl := countingLoader{inner: NewStaticLoader(map[jvm.MethodID][]jvm.Opcode{
		method: {jvm.Push(jvm.IntValue(1)), jvm.Return(nil)},
	}), calls: &calls}

	cache := NewCache(sl)
	for i := 0; i < 3; i++ {
		if _, err := cache.Opcodes(method); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("underlying loader called %d times, want 1 (memoized)", calls)
	}

	op, err := cache.OpcodeAt(frame.PC{Method: method, Offset: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != jvm.OpReturn {
		t.Errorf("OpcodeAt(1) = %+v, want Return", op)
	}

	if _, err := cache.OpcodeAt(frame.PC{Method: method, Offset: 5}); err == nil {
		t.Errorf("expected an out-of-range error")
	}
}

type countingLoader struct {
	inner Loader
	calls *int
}

func (c countingLoader) Opcodes(method jvm.MethodID) ([]jvm.Opcode, error) {
	*c.calls++
	return c.inner.Opcodes(method)
}
