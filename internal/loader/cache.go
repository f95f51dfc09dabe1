package loader

import (
	"sync"

	"github.com/pkg/errors"

	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

// Cache memoizes a Loader's decoded opcode sequences process-wide by
// method-id, per spec §5's "opcode sequences are cached process-wide
// by method-id; the cache grows monotonically and is never evicted."
// It also implements the OpcodeAt(pc) surface internal/concrete,
// internal/absint and internal/cfg each declare as their own Program
// interface, so a single Cache is the one real Program every caller
// of those packages actually hands them.
type Cache struct {
	loader Loader

	mu      sync.Mutex
	methods map[string][]jvm.Opcode
}

func NewCache(l Loader) *Cache {
	return &Cache{loader: l, methods: map[string][]jvm.Opcode{}}
}

// Opcodes returns method's full opcode sequence, decoding and caching
// it on first request.
func (c *Cache) Opcodes(method jvm.MethodID) ([]jvm.Opcode, error) {
	key := method.Key()

	c.mu.Lock()
	ops, ok := c.methods[key]
	c.mu.Unlock()
	if ok {
		return ops, nil
	}

	ops, err := c.loader.Opcodes(method)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: decoding %s", method)
	}

	c.mu.Lock()
	c.methods[key] = ops
	c.mu.Unlock()
	return ops, nil
}

// OpcodeAt implements the concrete/absint/cfg Program interfaces:
// opcodes decode 0-based into the returned sequence (spec §6), so
// pc.Offset indexes directly into it.
func (c *Cache) OpcodeAt(pc frame.PC) (jvm.Opcode, error) {
	ops, err := c.Opcodes(pc.Method)
	if err != nil {
		return jvm.Opcode{}, err
	}
	if pc.Offset < 0 || pc.Offset >= len(ops) {
		return jvm.Opcode{}, errors.Errorf("loader: offset %d out of range for %s (%d opcodes)", pc.Offset, pc.Method, len(ops))
	}
	return ops[pc.Offset], nil
}
