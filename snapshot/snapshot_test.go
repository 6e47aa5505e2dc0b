package snapshot

import (
	"testing"

	"rewind/memory"
	"rewind/types"
)

func TestTerminalSameLineCoalescing(t *testing.T) {
	term := NewMockTerminal()
	loc := types.NewLocation(3, 1)
	term.Print("a=", loc)
	term.Print("5", loc)

	if len(term.Lines) != 1 {
		t.Fatalf("got %d entries, want 1", len(term.Lines))
	}
	if term.Lines[0].Text != "a=5" {
		t.Errorf("text = %q, want a=5", term.Lines[0].Text)
	}
}

func TestTerminalDifferentLines(t *testing.T) {
	term := NewMockTerminal()
	term.Print("first", types.NewLocation(1, 1))
	term.Print("second", types.NewLocation(2, 1))

	if len(term.Lines) != 2 {
		t.Fatalf("got %d entries, want 2", len(term.Lines))
	}
}

func TestTerminalOutputSplitting(t *testing.T) {
	term := NewMockTerminal()
	term.Print("one\ntwo\n", types.NewLocation(1, 1))
	term.Print("three", types.NewLocation(2, 1))

	out := term.Output()
	want := []string{"one", "two", "three"}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestTerminalCloneIndependence(t *testing.T) {
	term := NewMockTerminal()
	term.Print("before", types.NewLocation(1, 1))

	c := term.Clone()
	term.Print("after", types.NewLocation(2, 1))

	if len(c.Lines) != 1 {
		t.Errorf("clone has %d entries, want 1", len(c.Lines))
	}
}

func makeSnapshot() *Snapshot {
	stack := memory.NewStack()
	stack.PushFrame("main")
	return &Snapshot{
		Stack:          stack,
		Heap:           memory.NewHeap(1024),
		Terminal:       NewMockTerminal(),
		Location:       types.NewLocation(1, 1),
		PointerTypes:   map[uint64]types.CType{},
		StackAddresses: map[uint64]VarRef{},
	}
}

func TestEstimatedSize(t *testing.T) {
	s := makeSnapshot()
	s.Heap.Allocate(64)
	s.Terminal.Print("hello", types.NewLocation(1, 1))

	// one frame, 64 heap bytes, one terminal line
	if got := s.EstimatedSize(); got != 100+64+50 {
		t.Errorf("EstimatedSize = %d, want %d", got, 100+64+50)
	}
}

func TestManagerBudget(t *testing.T) {
	m := NewManager(250)

	if err := m.Push(makeSnapshot()); err != nil {
		t.Fatalf("first push failed: %v", err)
	}
	if err := m.Push(makeSnapshot()); err != nil {
		t.Fatalf("second push failed: %v", err)
	}

	err := m.Push(makeSnapshot())
	if err == nil {
		t.Fatal("expected budget error on third push")
	}
	if err.Code != types.ErrSnapshotLimitExceeded {
		t.Errorf("code = %v, want ErrSnapshotLimitExceeded", err.Code)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestManagerGet(t *testing.T) {
	m := NewManager(1 << 20)
	first := makeSnapshot()
	second := makeSnapshot()
	m.Push(first)
	m.Push(second)

	if m.Get(0) != first {
		t.Error("Get(0) is not the first snapshot")
	}
	if m.Latest() != second {
		t.Error("Latest is not the second snapshot")
	}
	if m.Get(5) != nil || m.Get(-1) != nil {
		t.Error("out of range Get should return nil")
	}
}
