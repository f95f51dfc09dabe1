package loader

import (
	"github.com/pkg/errors"

	"jpamb/internal/jvm"
)

// StaticLoader is an in-memory Loader for tests: a fixed method-id to
// opcode-sequence map, keyed the same way Cache keys its own map.
type StaticLoader map[string][]jvm.Opcode

// NewStaticLoader builds a StaticLoader from method-id/opcode-sequence
// pairs.
func NewStaticLoader(methods map[jvm.MethodID][]jvm.Opcode) StaticLoader {
	sl := make(StaticLoader, len(methods))
	for m, ops := range methods {
		sl[m.Key()] = ops
	}
	return sl
}

func (l StaticLoader) Opcodes(method jvm.MethodID) ([]jvm.Opcode, error) {
	ops, ok := l[method.Key()]
	if !ok {
		return nil, errors.Errorf("loader: no opcodes registered for %s", method)
	}
	return ops, nil
}
