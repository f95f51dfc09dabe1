package absint

import (
	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

// Program mirrors concrete.Program's opcode-lookup surface.
// internal/loader's cache wrapper implements both identically shaped
// interfaces, so either interpreter can be handed the same loader
// without this package importing concrete's interpreter internals.
type Program interface {
	OpcodeAt(pc frame.PC) (jvm.Opcode, error)
}
