// Package jerrors carries the one thing a plain wrapped error loses on
// its way from an interpreter step up to the CLI: where in the
// method's opcode sequence it happened. A RunError carries a source
// position the way a compiler error would, except the "source line"
// is a window of opcodes around a frame.PC rather than a line of text.
package jerrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

// Severity classifies an analysis error per spec §7's taxonomy. Soft
// incompleteness never reaches this package — the absint driver
// reports it as an empty outcome set, not an error.
type Severity int

const (
	// Hard: an implementation bug (stack underflow, an opcode outside
	// the supported subset, ∞−∞). Must propagate and abort the run.
	Hard Severity = iota
	// External: a collaborator failure (loader miss, malformed method
	// id) that is not this module's bug.
	External
)

func (s Severity) String() string {
	if s == External {
		return "external"
	}
	return "implementation bug"
}

// RunError is a Hard or External error annotated with the PC it
// happened at and, when available, the surrounding opcode window —
// the bytecode analogue of CompilerError's source-line-plus-caret.
type RunError struct {
	Severity Severity
	Message  string
	PC       frame.PC
	Opcodes  []jvm.Opcode // the owning method's full sequence, or nil
	Cause    error
}

// Wrap builds a Hard RunError around cause, the way
// github.com/pkg/errors.Wrap adds a stack trace: cause's own message
// is preserved and PC context is layered on top of it.
func Wrap(cause error, pc frame.PC, opcodes []jvm.Opcode) *RunError {
	return &RunError{Severity: Hard, Message: cause.Error(), PC: pc, Opcodes: opcodes, Cause: errors.WithStack(cause)}
}

// WrapExternal is Wrap's External counterpart, for loader/parser
// failures that are not this module's bug but still deserve PC
// context in the CLI's error print.
func WrapExternal(cause error, pc frame.PC) *RunError {
	return &RunError{Severity: External, Message: cause.Error(), PC: pc, Cause: cause}
}

func (e *RunError) Error() string { return e.Format(false) }

func (e *RunError) Unwrap() error { return e.Cause }

// Format renders e the way a compiler renders a source error: a
// header naming the position, an opcode-window body with a caret
// under the offending offset, and the message. color adds ANSI codes
// for terminal output.
func (e *RunError) Format(color bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s at %s\n", e.Severity, e.PC))

	if window, ok := e.opcodeWindow(3); ok {
		for i, line := range window.lines {
			lineNumStr := fmt.Sprintf("%4d | ", window.start+i)
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			sb.WriteString("\n")
			if window.start+i == e.PC.Offset {
				// Each line is one whole opcode, not a multi-token
				// source line, so the caret always marks the line's
				// start rather than some computed column.
				sb.WriteString(strings.Repeat(" ", len(lineNumStr)))
				if color {
					sb.WriteString("\033[1;31m")
				}
				sb.WriteString("^")
				if color {
					sb.WriteString("\033[0m")
				}
				sb.WriteString("\n")
			}
		}
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

type opcodeWindow struct {
	start int
	lines []string
}

func (e *RunError) opcodeWindow(radius int) (opcodeWindow, bool) {
	if len(e.Opcodes) == 0 {
		return opcodeWindow{}, false
	}
	start := e.PC.Offset - radius
	if start < 0 {
		start = 0
	}
	end := e.PC.Offset + radius
	if end >= len(e.Opcodes) {
		end = len(e.Opcodes) - 1
	}
	lines := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		lines = append(lines, opcodeText(e.Opcodes[i]))
	}
	return opcodeWindow{start: start, lines: lines}, true
}

func opcodeText(op jvm.Opcode) string {
	return fmt.Sprintf("%v", op.Kind)
}

// FormatErrors renders multiple RunErrors the way CompilerError's
// FormatErrors does: numbered, one per block, blank-line separated.
func FormatErrors(errs []*RunError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("analysis failed with %d error(s):\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("[error %d of %d]\n", i+1, len(errs)))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
