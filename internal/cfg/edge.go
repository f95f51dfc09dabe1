package cfg

import "jpamb/internal/jvm"

// BlockRef globally identifies a block across CFGs: call and
// interprocedural return edges cross from one method's block arena
// into another's, so a bare BlockID (meaningful only within its own
// CFG) isn't enough to name an edge's target.
type BlockRef struct {
	Method jvm.MethodID
	Block  BlockID
}

// Edge is a CFG edge: (source block, target block, optional branch
// opcode, optional boolean eval tag) per spec §3. A plain fall-through
// or call edge carries neither Opcode nor a Tag.
type Edge struct {
	From BlockID
	To   BlockRef

	// Opcode is the branch, jump or return opcode this edge encodes, or
	// nil for a plain fall-through or call edge.
	Opcode *jvm.Opcode

	// Tag is non-nil only for a conditional edge: false = fall-through,
	// true = jump taken (spec §4.3's "Edge semantics").
	Tag *bool
}

func trueTag() *bool  { t := true; return &t }
func falseTag() *bool { f := false; return &f }
