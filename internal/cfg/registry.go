package cfg

import (
	"sync"

	"jpamb/internal/jvm"
)

// Registry is the process-wide method-id→CFG map spec §3 requires so
// that interprocedural edges resolve and recursive calls terminate
// (spec §4.3: "Each CFG registers itself globally by method-id before
// recursing, so a recursive InvokeStatic finds the in-progress CFG").
// Per the REDESIGN FLAGS this is an explicit owned type rather than a
// package-level global, so tests and separate analyzer runs can use
// independent registries.
type Registry struct {
	mu   sync.Mutex
	cfgs map[string]*CFG
}

func NewRegistry() *Registry {
	return &Registry{cfgs: map[string]*CFG{}}
}

// Lookup returns the CFG for method if one has been registered
// (finished or still building), and whether it was found.
func (r *Registry) Lookup(method jvm.MethodID) (*CFG, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cfgs[method.Key()]
	return c, ok
}

// ResolveRef follows ref's split-child forwarding chain within its own
// CFG to the active tail block. Used before trusting any stored edge
// target, since the target CFG may have split that block after the
// edge was recorded.
func (r *Registry) ResolveRef(ref BlockRef) BlockRef {
	c, ok := r.Lookup(ref.Method)
	if !ok {
		return ref
	}
	return BlockRef{Method: ref.Method, Block: c.Resolve(ref.Block)}
}

// Build returns the finished CFG for method, building it (and
// transitively, any callee CFGs it needs to resolve return edges for)
// if this is the first request. A recursive or already in-progress
// request returns the same, still-building CFG instance so its entry
// block is available for a call edge immediately.
func (r *Registry) Build(method jvm.MethodID, prog Program) (*CFG, error) {
	r.mu.Lock()
	if existing, ok := r.cfgs[method.Key()]; ok {
		r.mu.Unlock()
		return existing, nil
	}
	c := newCFG(method)
	r.cfgs[method.Key()] = c
	r.mu.Unlock()

	bu := &builder{reg: r, prog: prog, method: method, cfg: c}
	entry, err := bu.build(0)
	if err != nil {
		return nil, err
	}
	c.Entry = entry

	bu.resolveOverlaps()
	c.building = false
	bu.drainPending()

	return c, nil
}
