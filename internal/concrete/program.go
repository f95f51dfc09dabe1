package concrete

import (
	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

// Program is the minimal opcode-lookup surface step needs. It is
// implemented by internal/loader's cache wrapper so this package
// never has to import the loading/parsing machinery directly — step
// only ever asks "what opcode sits at this PC."
type Program interface {
	OpcodeAt(pc frame.PC) (jvm.Opcode, error)
}
