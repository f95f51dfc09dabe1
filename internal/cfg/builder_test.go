package cfg

import (
	"testing"

	"jpamb/internal/frame"
	"jpamb/internal/jvm"
)

type testProgram map[int]jvm.Opcode

func (p testProgram) OpcodeAt(pc frame.PC) (jvm.Opcode, error) {
	op, ok := p[pc.Offset]
	if !ok {
		return jvm.Opcode{}, errNotFound(pc.Offset)
	}
	return op, nil
}

type errNotFound int

func (e errNotFound) Error() string { return "no opcode at offset" }

func findBlock(t *testing.T, c *CFG, id BlockID) *Block {
	t.Helper()
	resolved := c.Resolve(id)
	return c.block(resolved)
}

func TestBuildStraightLine(t *testing.T) {
	i := jvm.Int()
	method := jvm.MethodID{Class: "Test", Method: "f", Params: jvm.NewParamList(jvm.Int()), Return: &i}
	prog := testProgram{
		0: jvm.Push(jvm.IntValue(10)),
		1: jvm.Load(jvm.Int(), 0),
		2: jvm.Binary(jvm.Int(), jvm.Div),
		3: jvm.Return(&i),
	}

	reg := NewRegistry()
	g, err := reg.Build(method, prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(g.Blocks))
	}
	entry := findBlock(t, g, g.Entry)
	if entry.Start != 0 || entry.End != 3 {
		t.Errorf("entry range = [%d,%d], want [0,3]", entry.Start, entry.End)
	}
	if entry.Terminator == nil || entry.Terminator.Kind != jvm.OpReturn {
		t.Errorf("entry terminator = %v, want Return", entry.Terminator)
	}
}

func TestBuildAssertionThrowScan(t *testing.T) {
	method := jvm.MethodID{Class: "Test", Method: "g", Params: jvm.NewParamList(jvm.Int())}
	ctor := jvm.MethodID{Class: jvm.AssertionErrorClass, Method: "<init>"}
	prog := testProgram{
		0: jvm.Get(jvm.AssertionsDisabledField, true),
		1: jvm.Ifz(jvm.Ne, 7),
		2: jvm.Load(jvm.Int(), 0),
		3: jvm.Ifz(jvm.Gt, 7),
		4: jvm.New(jvm.AssertionErrorClass),
		5: jvm.InvokeSpecial(ctor),
		6: jvm.Throw(),
		7: jvm.Return(nil),
	}

	reg := NewRegistry()
	g, err := reg.Build(method, prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, ok := g.BlockAt(4)
	if !ok {
		t.Fatalf("expected a block covering offset 4")
	}
	if b.End != 6 {
		t.Errorf("assertion block End = %d, want 6 (the Throw)", b.End)
	}
	if b.Terminator == nil || b.Terminator.Kind != jvm.OpThrow {
		t.Errorf("assertion block terminator = %v, want Throw", b.Terminator)
	}

	ret, ok := g.BlockAt(7)
	if !ok {
		t.Fatalf("expected a block covering offset 7")
	}
	if ret.Terminator == nil || ret.Terminator.Kind != jvm.OpReturn {
		t.Errorf("tail block terminator = %v, want Return", ret.Terminator)
	}
}

func TestBuildLoopSplitsHeaderOnBackEdge(t *testing.T) {
	// for (int i = 0; i < 10; i++) {} ; return;
	method := jvm.MethodID{Class: "Test", Method: "loop"}
	prog := testProgram{
		0: jvm.Push(jvm.IntValue(0)),
		1: jvm.Store(jvm.Int(), 0),
		2: jvm.Load(jvm.Int(), 0),
		3: jvm.Push(jvm.IntValue(10)),
		4: jvm.Binary(jvm.Int(), jvm.Sub),
		5: jvm.Ifz(jvm.Ge, 9),
		6: jvm.Incr(0, 1),
		7: jvm.Goto(2),
		9: jvm.Return(nil),
	}

	reg := NewRegistry()
	g, err := reg.Build(method, prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header, ok := g.BlockAt(2)
	if !ok {
		t.Fatalf("expected a block covering offset 2 (the loop header)")
	}
	if header.Start != 2 {
		t.Errorf("header.Start = %d, want 2", header.Start)
	}
	if header.Terminator == nil || header.Terminator.Kind != jvm.OpIfz {
		t.Errorf("header terminator = %v, want Ifz", header.Terminator)
	}

	// The block that originally started the straight-line run at
	// offset 0 must have been split: its tail (from offset 2 onward)
	// is now a distinct block reached via SplitChild.
	var headBlock *Block
	for _, b := range g.Blocks {
		if b.Start == 0 {
			headBlock = b
			break
		}
	}
	if headBlock == nil {
		t.Fatalf("expected a block starting at offset 0")
	}
	if headBlock.SplitChild == nil {
		t.Fatalf("expected the offset-0 block to have been split once the back edge from Goto(2) was found")
	}
	if g.Resolve(headBlock.ID) != header.ID {
		t.Errorf("resolved split chain = %d, want the header block %d", g.Resolve(headBlock.ID), header.ID)
	}
}

func recursiveFibMethod() jvm.MethodID {
	i := jvm.Int()
	return jvm.MethodID{Class: "Test", Method: "fib", Params: jvm.NewParamList(jvm.Int()), Return: &i}
}

func recursiveFibProgram() testProgram {
	i := jvm.Int()
	fib := recursiveFibMethod()
	return testProgram{
		// if (n < 2) return n;
		0: jvm.Load(jvm.Int(), 0),
		1: jvm.Push(jvm.IntValue(2)),
		2: jvm.Binary(jvm.Int(), jvm.Sub),
		3: jvm.Ifz(jvm.Ge, 6),
		4: jvm.Load(jvm.Int(), 0),
		5: jvm.Return(&i),
		// return fib(n-1) + fib(n-2);
		6:  jvm.Load(jvm.Int(), 0),
		7:  jvm.Push(jvm.IntValue(1)),
		8:  jvm.Binary(jvm.Int(), jvm.Sub),
		9:  jvm.Store(jvm.Int(), 1),
		10: jvm.Load(jvm.Int(), 1),
		11: jvm.InvokeStatic(fib),
		12: jvm.Load(jvm.Int(), 0),
		13: jvm.Push(jvm.IntValue(2)),
		14: jvm.Binary(jvm.Int(), jvm.Sub),
		15: jvm.Store(jvm.Int(), 2),
		16: jvm.Load(jvm.Int(), 2),
		17: jvm.InvokeStatic(fib),
		18: jvm.Binary(jvm.Int(), jvm.Add),
		19: jvm.Return(&i),
	}
}

func TestBuildRecursiveCallResolvesEntryAndReturnEdges(t *testing.T) {
	method := recursiveFibMethod()
	prog := recursiveFibProgram()

	reg := NewRegistry()
	g, err := reg.Build(method, prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.building {
		t.Fatalf("CFG reported still building after Build returned")
	}

	callSite1, ok := g.BlockAt(11)
	if !ok {
		t.Fatalf("expected a call-site block covering offset 11")
	}
	if len(callSite1.Edges) != 1 || callSite1.Edges[0].To.Method.Key() != method.Key() {
		t.Fatalf("first call site should have exactly one recursive call edge into itself, got %+v", callSite1.Edges)
	}
	if callSite1.Edges[0].To.Block != g.Entry {
		t.Errorf("first call edge target = %d, want the entry block %d", callSite1.Edges[0].To.Block, g.Entry)
	}

	callSite2, ok := g.BlockAt(17)
	if !ok {
		t.Fatalf("expected a call-site block covering offset 17")
	}
	if len(callSite2.Edges) != 1 {
		t.Fatalf("second call site should have exactly one call edge, got %+v", callSite2.Edges)
	}

	cont1, ok1 := g.BlockAt(12)
	cont2, ok2 := g.BlockAt(18)
	if !ok1 || !ok2 {
		t.Fatalf("expected continuation blocks at offsets 12 and 18")
	}

	ret1, ok := g.BlockAt(5)
	if !ok {
		t.Fatalf("expected the base-case return block covering offset 5")
	}

	foundCont1, foundCont2 := false, false
	for _, e := range ret1.Edges {
		if e.To.Block == g.Resolve(cont1.ID) {
			foundCont1 = true
		}
		if e.To.Block == g.Resolve(cont2.ID) {
			foundCont2 = true
		}
	}
	if !foundCont1 || !foundCont2 {
		t.Errorf("base-case return block edges = %+v, want edges into both call-site continuations", ret1.Edges)
	}

	ret2, ok := g.BlockAt(19)
	if !ok {
		t.Fatalf("expected the recursive-case return block covering offset 19")
	}
	found1, found2 := false, false
	for _, e := range ret2.Edges {
		if e.To.Block == g.Resolve(cont1.ID) {
			found1 = true
		}
		if e.To.Block == g.Resolve(cont2.ID) {
			found2 = true
		}
	}
	if !found1 || !found2 {
		t.Errorf("recursive-case return block edges = %+v, want edges into both call-site continuations", ret2.Edges)
	}
}
