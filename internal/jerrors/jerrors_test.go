package jerrors

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

func TestWrapFormatsPCAndWindow(t *testing.T) {
	i := jvm.Int()
	method := jvm.MethodID{Class: "Test", Method: "f", Params: jvm.NewParamList(jvm.Int()), Return: &i}
	ops := []jvm.Opcode{
		jvm.Push(jvm.IntValue(10)),
		jvm.Load(jvm.Int(), 0),
		jvm.Binary(jvm.Int(), jvm.Div),
		jvm.Return(&i),
	}
	pc := frame.PC{Method: method, Offset: 2}

	err := Wrap(errors.New("stack underflow"), pc, ops)
	msg := err.Error()

	if !strings.Contains(msg, "implementation bug") {
		t.Errorf("message %q missing severity label", msg)
	}
	if !strings.Contains(msg, pc.String()) {
		t.Errorf("message %q missing pc %s", msg, pc)
	}
	if !strings.Contains(msg, "binary") {
		t.Errorf("message %q missing opcode window content", msg)
	}
	if !strings.Contains(msg, "stack underflow") {
		t.Errorf("message %q missing cause", msg)
	}
}

func TestWrapExternalSeverity(t *testing.T) {
	method := jvm.MethodID{Class: "Test", Method: "g"}
	pc := frame.PC{Method: method, Offset: 0}

	err := WrapExternal(errors.New("no opcodes registered"), pc)
	if err.Severity != External {
		t.Errorf("severity = %v, want External", err.Severity)
	}
	if !strings.Contains(err.Error(), "external") {
		t.Errorf("message %q missing external label", err.Error())
	}
}

func TestFormatErrorsMultiple(t *testing.T) {
	method := jvm.MethodID{Class: "Test", Method: "h"}
	pc := frame.PC{Method: method, Offset: 0}
	errs := []*RunError{
		Wrap(errors.New("a"), pc, nil),
		Wrap(errors.New("b"), pc, nil),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Errorf("output %q missing error count", out)
	}
}
