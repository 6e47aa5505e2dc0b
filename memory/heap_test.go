package memory

import "testing"

func TestHeapAllocate(t *testing.T) {
	h := NewHeap(1024)

	addr1, err := h.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if addr1 != HeapAddressStart {
		t.Errorf("first allocation at 0x%x, want 0x%x", addr1, HeapAddressStart)
	}

	addr2, err := h.Allocate(8)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if addr2 != addr1+16 {
		t.Errorf("second allocation at 0x%x, want 0x%x", addr2, addr1+16)
	}

	if h.TotalAllocated() != 24 {
		t.Errorf("TotalAllocated = %d, want 24", h.TotalAllocated())
	}
}

func TestHeapOutOfMemory(t *testing.T) {
	h := NewHeap(32)
	if _, err := h.Allocate(16); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	_, err := h.Allocate(17)
	if err == nil {
		t.Fatal("expected out of memory, got nil")
	}
	if err.Kind != HeapOutOfMemory {
		t.Errorf("error kind = %v, want HeapOutOfMemory", err.Kind)
	}
	if err.Requested != 17 || err.Limit != 32 {
		t.Errorf("requested/limit = %d/%d, want 17/32", err.Requested, err.Limit)
	}
}

func TestHeapFree(t *testing.T) {
	t.Run("valid free", func(t *testing.T) {
		h := NewHeap(1024)
		addr, _ := h.Allocate(8)
		if err := h.Free(addr); err != nil {
			t.Fatalf("Free failed: %v", err)
		}
	})

	t.Run("double free", func(t *testing.T) {
		h := NewHeap(1024)
		addr, _ := h.Allocate(8)
		h.Free(addr)
		err := h.Free(addr)
		if err == nil || err.Kind != HeapDoubleFree {
			t.Errorf("got %v, want double free", err)
		}
	})

	t.Run("never allocated", func(t *testing.T) {
		h := NewHeap(1024)
		err := h.Free(0xdeadbeef)
		if err == nil || err.Kind != HeapInvalidFree {
			t.Errorf("got %v, want invalid free", err)
		}
	})

	t.Run("freed block stays visible as tombstone", func(t *testing.T) {
		h := NewHeap(1024)
		addr, _ := h.Allocate(8)
		h.Free(addr)
		block, ok := h.Allocations()[addr]
		if !ok {
			t.Fatal("tombstone was removed from the allocation table")
		}
		if block.State != Tombstone {
			t.Errorf("state = %v, want Tombstone", block.State)
		}
	})
}

func TestHeapUseAfterFree(t *testing.T) {
	h := NewHeap(1024)
	addr, _ := h.Allocate(8)
	h.WriteByte(addr, 42)
	h.Free(addr)

	if _, err := h.ReadByte(addr); err == nil || err.Kind != HeapUseAfterFree {
		t.Errorf("read after free: got %v, want use-after-free", err)
	}
	if err := h.WriteByte(addr, 1); err == nil || err.Kind != HeapUseAfterFree {
		t.Errorf("write after free: got %v, want use-after-free", err)
	}
}

func TestHeapUninitializedRead(t *testing.T) {
	h := NewHeap(1024)
	addr, _ := h.Allocate(4)

	if _, err := h.ReadByte(addr); err == nil || err.Kind != HeapUninitRead {
		t.Errorf("got %v, want uninitialized read", err)
	}

	h.WriteByte(addr, 7)
	b, err := h.ReadByte(addr)
	if err != nil {
		t.Fatalf("read after write failed: %v", err)
	}
	if b != 7 {
		t.Errorf("read %d, want 7", b)
	}

	// adjacent byte in the same block is still unwritten
	if _, err := h.ReadByte(addr + 1); err == nil || err.Kind != HeapUninitRead {
		t.Errorf("got %v, want uninitialized read", err)
	}
}

func TestHeapInteriorAccess(t *testing.T) {
	h := NewHeap(1024)
	addr, _ := h.Allocate(8)

	if err := h.WriteByte(addr+5, 9); err != nil {
		t.Fatalf("interior write failed: %v", err)
	}
	b, err := h.ReadByte(addr + 5)
	if err != nil {
		t.Fatalf("interior read failed: %v", err)
	}
	if b != 9 {
		t.Errorf("read %d, want 9", b)
	}

	if _, err := h.ReadByte(addr + 8); err == nil || err.Kind != HeapUnallocated {
		t.Errorf("one past end: got %v, want unallocated", err)
	}
}

func TestHeapClone(t *testing.T) {
	h := NewHeap(1024)
	addr, _ := h.Allocate(4)
	h.WriteByte(addr, 1)

	c := h.Clone()
	h.WriteByte(addr, 2)
	h.Free(addr)

	b, err := c.ReadByte(addr)
	if err != nil {
		t.Fatalf("clone read failed: %v", err)
	}
	if b != 1 {
		t.Errorf("clone saw %d, want 1", b)
	}
	if err := c.Free(addr); err != nil {
		t.Errorf("clone free failed: %v", err)
	}
}
