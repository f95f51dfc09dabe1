// Package loader provides the bytecode-loading collaborator spec §6
// describes: opcodes(method-id) → ordered opcode sequence, decoded
// 0-based into the returned slice. The loader itself (an external
// syntactic extractor feeding off real .class files) is out of scope
// per spec §1; this package ships a file-backed stand-in plus the
// process-wide memoizing cache every real loader should sit behind.
package loader

import (
	"jpamb/internal/jvm"
)

// Loader decodes one method's full opcode sequence. Implementations
// are expected to be expensive (parsing a class file, running
// javap-equivalent tooling) — callers should go through Cache rather
// than calling a Loader directly on a hot path.
type Loader interface {
	Opcodes(method jvm.MethodID) ([]jvm.Opcode, error)
}
