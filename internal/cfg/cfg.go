package cfg

import "jpamb/internal/jvm"

// PendingContinuation is a not-yet-resolvable interprocedural return
// edge (spec §4.3): recorded on the callee's CFG while the callee is
// still being built, and drained once the callee finishes.
type PendingContinuation struct {
	CallerMethod      jvm.MethodID
	ContinuationBlock BlockID
}

// CFG is one method's control-flow graph: an owning method-id, the
// entry block, the block arena, an offset-start index, and the
// pending-continuation list spec §3/§4.3 describe. Blocks is the
// arena; every BlockID used anywhere in this CFG indexes into it.
type CFG struct {
	Method jvm.MethodID
	Entry  BlockID
	Blocks []*Block

	// starts maps an opcode offset to the block whose Start equals it.
	// Used to detect existing merge points during the build and to find
	// a callee's entry block (starts[0]); overlap resolution sorts
	// Blocks itself and does not read it.
	starts map[int]BlockID

	building bool // true while this CFG's own build is still running

	Pending []PendingContinuation
}

func newCFG(method jvm.MethodID) *CFG {
	return &CFG{Method: method, Entry: noBlock, starts: map[int]BlockID{}, building: true}
}

func (c *CFG) newBlock(start int) BlockID {
	id := BlockID(len(c.Blocks))
	c.Blocks = append(c.Blocks, &Block{ID: id, Method: c.Method, Start: start, End: -1})
	c.starts[start] = id
	return id
}

func (c *CFG) block(id BlockID) *Block { return c.Blocks[id] }

// Resolve follows a block's split-child forwarding chain to the
// active tail, per spec §4.3's re-resolution requirement. Every
// consumer of an Edge.To must call this before trusting the result.
func (c *CFG) Resolve(id BlockID) BlockID {
	for {
		b := c.Blocks[id]
		if b.SplitChild == nil {
			return id
		}
		id = *b.SplitChild
	}
}

// BlockAt returns the active-tail block whose range contains offset,
// or false if offset isn't covered by any block (a malformed CFG).
func (c *CFG) BlockAt(offset int) (*Block, bool) {
	for _, b := range c.Blocks {
		if b.SplitChild != nil {
			continue
		}
		if offset >= b.Start && offset <= b.End {
			return b, true
		}
	}
	return nil, false
}

func (c *CFG) addEdge(from BlockID, e Edge) {
	c.Blocks[from].Edges = append(c.Blocks[from].Edges, e)
}

// ref builds a same-method BlockRef, resolved through the split-child
// chain to the active tail.
func (c *CFG) ref(id BlockID) BlockRef {
	return BlockRef{Method: c.Method, Block: c.Resolve(id)}
}
