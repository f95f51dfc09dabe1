package cfg

import (
	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

// Program mirrors concrete.Program/absint.Program's opcode-lookup
// surface; internal/loader's cache wrapper implements all three.
type Program interface {
	OpcodeAt(pc frame.PC) (jvm.Opcode, error)
}
