package cfg

import (
	"sort"

	"github.com/pkg/errors"

	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

// builder holds the state of one in-progress CFG.Build call: the
// shared registry (for call/return edge resolution), the opcode
// source, and the CFG being filled in.
type builder struct {
	reg    *Registry
	prog   Program
	method jvm.MethodID
	cfg    *CFG
}

// build walks the opcode sequence starting at offset start, extending
// or allocating blocks until it reaches a terminator, and returns the
// BlockID of the block whose Start equals start (spec §4.3's
// recursive single-pass build). If a block already starts at start
// (a merge point reached from two different predecessors), it is
// returned directly without re-walking.
func (bu *builder) build(start int) (BlockID, error) {
	if id, ok := bu.cfg.starts[start]; ok {
		return id, nil
	}

	id := bu.cfg.newBlock(start)
	offset := start

	for {
		op, err := bu.prog.OpcodeAt(bu.pcAt(offset))
		if err != nil {
			return noBlock, errors.Wrapf(err, "cfg: fetching opcode at %d", offset)
		}

		switch op.Kind {
		case jvm.OpIfz, jvm.OpIf:
			b := bu.cfg.block(id)
			b.End = offset
			b.Terminator = &op

			falseID, err := bu.branch(id, offset, offset+1)
			if err != nil {
				return noBlock, err
			}
			bu.cfg.addEdge(id, Edge{From: id, To: bu.cfg.ref(falseID), Opcode: &op, Tag: falseTag()})

			trueID, err := bu.branch(id, offset, op.Target)
			if err != nil {
				return noBlock, err
			}
			bu.cfg.addEdge(id, Edge{From: id, To: bu.cfg.ref(trueID), Opcode: &op, Tag: trueTag()})

			return id, nil

		case jvm.OpGoto:
			b := bu.cfg.block(id)
			b.End = offset
			b.Terminator = &op

			targetID, err := bu.branch(id, offset, op.Target)
			if err != nil {
				return noBlock, err
			}
			bu.cfg.addEdge(id, Edge{From: id, To: bu.cfg.ref(targetID), Opcode: &op})

			return id, nil

		case jvm.OpReturn:
			b := bu.cfg.block(id)
			b.End = offset
			b.Terminator = &op
			return id, nil

		case jvm.OpThrow:
			// Reached directly, rather than via the forward scan from
			// an AssertionError InvokeSpecial: only possible if some
			// edge targets this offset on its own. Either way it's a
			// terminator.
			b := bu.cfg.block(id)
			b.End = offset
			b.Terminator = &op
			return id, nil

		case jvm.OpInvokeSpecial:
			if !isAssertionErrorCtor(op.Callee) {
				return noBlock, errors.Errorf("cfg: unsupported InvokeSpecial(%s)", op.Callee)
			}
			throwAt, throwOp, err := bu.scanForThrow(offset + 1)
			if err != nil {
				return noBlock, err
			}
			b := bu.cfg.block(id)
			b.End = throwAt
			b.Terminator = &throwOp
			return id, nil

		case jvm.OpInvokeStatic:
			b := bu.cfg.block(id)
			b.End = offset
			// b.Terminator stays nil: a call-site block's real
			// continuation is the fallthrough built below, not op
			// itself. The call edge carries only the callee target.

			calleeCFG, err := bu.reg.Build(op.Callee, bu.prog)
			if err != nil {
				return noBlock, err
			}
			calleeEntry := calleeCFG.starts[0]
			bu.cfg.addEdge(id, Edge{From: id, To: BlockRef{Method: op.Callee, Block: calleeEntry}})

			contID, err := bu.build(offset + 1)
			if err != nil {
				return noBlock, err
			}

			if !calleeCFG.building {
				bu.attachReturnEdges(calleeCFG, contID)
			} else {
				calleeCFG.Pending = append(calleeCFG.Pending, PendingContinuation{
					CallerMethod:      bu.method,
					ContinuationBlock: contID,
				})
			}

			return id, nil

		default:
			offset++
		}
	}
}

// branch resolves the successor block for a jump/fallthrough target
// seen while block [start,current] is still open. A target that lands
// inside the block currently being built (start <= target <= current)
// is a genuine back-edge into live straight-line code and must split
// that block rather than recurse into build, which would find no
// starts[] entry yet and try to build it as brand new. A target at or
// before current but outside [start,current] names an earlier,
// already-finished block; build/overlap resolution handle that case
// without a dedicated split. Anything else is an ordinary forward
// build.
func (bu *builder) branch(current BlockID, currentOffset, target int) (BlockID, error) {
	b := bu.cfg.block(current)
	if target >= b.Start && target <= currentOffset {
		return bu.splitBlock(current, target)
	}
	return bu.build(target)
}

// scanForThrow walks forward from offset looking for the Throw opcode
// that always follows an AssertionError construction in this subset
// (spec §4.3: "InvokeSpecial(AssertionError) scans forward to
// Throw"); everything between the two (typically none, but tolerated)
// is dead straight-line code belonging to the same block.
func (bu *builder) scanForThrow(offset int) (int, jvm.Opcode, error) {
	for {
		op, err := bu.prog.OpcodeAt(bu.pcAt(offset))
		if err != nil {
			return 0, jvm.Opcode{}, errors.Wrapf(err, "cfg: scanning for throw at %d", offset)
		}
		if op.Kind == jvm.OpThrow {
			return offset, op, nil
		}
		offset++
	}
}

// splitBlock handles a back-edge landing inside the block currently
// being built (spec §4.3 + REDESIGN FLAGS): the tail [splitAt, oldEnd]
// becomes a new block, the head is truncated to [start, splitAt-1] and
// left with a SplitChild forwarding pointer, and a fall-through edge
// joins them. Readers resolve through SplitChild lazily (CFG.Resolve)
// rather than this rewriting any edge recorded before the split.
func (bu *builder) splitBlock(id BlockID, splitAt int) (BlockID, error) {
	old := bu.cfg.block(id)
	tail := bu.cfg.newBlock(splitAt)
	tailBlock := bu.cfg.block(tail)
	tailBlock.End = old.End
	tailBlock.Terminator = old.Terminator
	tailBlock.Edges = old.Edges

	old.End = splitAt - 1
	old.Terminator = nil
	old.Edges = nil
	old.SplitChild = &tail

	bu.cfg.addEdge(id, Edge{From: id, To: bu.cfg.ref(tail)})

	return tail, nil
}

// attachReturnEdges wires every Return-terminated block of a finished
// callee CFG to cont, the call site's continuation block, in the
// caller's own CFG.
func (bu *builder) attachReturnEdges(callee *CFG, cont BlockID) {
	for _, b := range callee.Blocks {
		if b.SplitChild != nil || b.Terminator == nil || b.Terminator.Kind != jvm.OpReturn {
			continue
		}
		callee.addEdge(b.ID, Edge{From: b.ID, To: bu.cfg.ref(cont), Opcode: b.Terminator})
	}
}

// resolveOverlaps is the post-build pass enforcing the CFG's
// coverage-disjointness invariant (spec §3/§8): blocks are walked in
// ascending Start order and any block whose range runs into the next
// block's Start is truncated, pointed at that next block via
// SplitChild exactly like splitBlock's back-edge case, and given the
// same single fall-through edge so direct Edges readers see it too.
func (bu *builder) resolveOverlaps() {
	active := make([]*Block, 0, len(bu.cfg.Blocks))
	for _, b := range bu.cfg.Blocks {
		if b.SplitChild == nil {
			active = append(active, b)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Start < active[j].Start })
	for i := 0; i < len(active); i++ {
		b := active[i]
		for j := i + 1; j < len(active); j++ {
			next := active[j]
			if next.Start <= b.Start {
				continue
			}
			if b.End >= next.Start {
				nextID := next.ID
				b.End = next.Start - 1
				b.Terminator = nil
				b.Edges = []Edge{{From: b.ID, To: bu.cfg.ref(next.ID)}}
				b.SplitChild = &nextID
			}
			break
		}
	}
}

// drainPending attaches every interprocedural continuation edge that
// couldn't be resolved while this CFG (now finished) was itself still
// the callee of an in-progress caller build.
func (bu *builder) drainPending() {
	for _, p := range bu.cfg.Pending {
		callerCFG, ok := bu.reg.Lookup(p.CallerMethod)
		if !ok {
			continue
		}
		for _, b := range bu.cfg.Blocks {
			if b.SplitChild != nil || b.Terminator == nil || b.Terminator.Kind != jvm.OpReturn {
				continue
			}
			bu.cfg.addEdge(b.ID, Edge{From: b.ID, To: callerCFG.ref(p.ContinuationBlock), Opcode: b.Terminator})
		}
	}
	bu.cfg.Pending = nil
}

func (bu *builder) pcAt(offset int) frame.PC {
	return frame.PC{Method: bu.method, Offset: offset}
}

func isAssertionErrorCtor(callee jvm.MethodID) bool {
	return callee.Class == jvm.AssertionErrorClass && callee.Method == "<init>"
}
