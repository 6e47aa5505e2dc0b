package memory

import "fmt"

// DefaultHeapCapacity is the heap ceiling when none is configured
const DefaultHeapCapacity = 10 * 1024 * 1024

// HeapErrKind identifies a heap access failure
type HeapErrKind int

const (
	HeapOutOfMemory HeapErrKind = iota
	HeapDoubleFree
	HeapInvalidFree
	HeapUseAfterFree
	HeapUnallocated // address not inside any block
	HeapUninitRead  // byte allocated but never written
	HeapOverrun
)

// HeapError is a typed heap failure. The interpreter converts it to a
// RuntimeError with the source location of the offending statement.
type HeapError struct {
	Kind      HeapErrKind
	Addr      uint64
	Requested int
	Limit     int
}

func (e *HeapError) Error() string {
	switch e.Kind {
	case HeapOutOfMemory:
		return fmt.Sprintf("out of memory: requested %d bytes, limit is %d", e.Requested, e.Limit)
	case HeapDoubleFree:
		return fmt.Sprintf("double free detected at address 0x%x", e.Addr)
	case HeapInvalidFree:
		return fmt.Sprintf("invalid free: address 0x%x was never allocated", e.Addr)
	case HeapUseAfterFree:
		return fmt.Sprintf("use-after-free: address 0x%x has been freed", e.Addr)
	case HeapUnallocated:
		return fmt.Sprintf("address 0x%x not in any allocated block", e.Addr)
	case HeapUninitRead:
		return fmt.Sprintf("uninitialized read at address 0x%x", e.Addr)
	case HeapOverrun:
		return fmt.Sprintf("write past end of block at address 0x%x", e.Addr)
	default:
		return fmt.Sprintf("heap error at address 0x%x", e.Addr)
	}
}

// BlockState is the lifecycle state of a heap block
type BlockState int

const (
	Allocated BlockState = iota
	Tombstone            // freed but retained for reverse execution
)

// HeapBlock is one allocation: raw bytes plus a parallel per-byte
// initialization bitmap.
type HeapBlock struct {
	Data    []byte
	Size    int
	State   BlockState
	InitMap []bool
}

// NewHeapBlock creates an allocated, fully-uninitialized block
func NewHeapBlock(size int) *HeapBlock {
	return &HeapBlock{
		Data:    make([]byte, size),
		Size:    size,
		State:   Allocated,
		InitMap: make([]bool, size),
	}
}

// IsInitialized reports whether every byte in the range has been written
func (b *HeapBlock) IsInitialized(offset, size int) bool {
	if offset+size > b.Size {
		return false
	}
	for i := offset; i < offset+size; i++ {
		if !b.InitMap[i] {
			return false
		}
	}
	return true
}

// MarkInitialized records a write to a byte range
func (b *HeapBlock) MarkInitialized(offset, size int) {
	if offset+size > b.Size {
		return
	}
	for i := offset; i < offset+size; i++ {
		b.InitMap[i] = true
	}
}

// Clone returns an independent copy of the block
func (b *HeapBlock) Clone() *HeapBlock {
	return &HeapBlock{
		Data:    append([]byte(nil), b.Data...),
		Size:    b.Size,
		State:   b.State,
		InitMap: append([]bool(nil), b.InitMap...),
	}
}

// Heap is the simulated heap: an address-indexed set of blocks with a
// monotonically increasing allocation cursor. Freed blocks become
// tombstones and are never reclaimed or reused, so free/allocate
// sequences replay exactly and double-free is distinguishable from
// invalid-free.
type Heap struct {
	allocations    map[uint64]*HeapBlock
	nextAddress    uint64
	totalAllocated int
	capacity       int
}

// NewHeap creates a heap with the given capacity in bytes
func NewHeap(capacity int) *Heap {
	return &Heap{
		allocations: make(map[uint64]*HeapBlock),
		nextAddress: HeapAddressStart,
		capacity:    capacity,
	}
}

// Allocate reserves a fresh block and returns its address
func (h *Heap) Allocate(size int) (uint64, *HeapError) {
	if h.totalAllocated+size > h.capacity {
		return 0, &HeapError{Kind: HeapOutOfMemory, Requested: size, Limit: h.capacity}
	}

	addr := h.nextAddress
	h.nextAddress += uint64(size)
	h.allocations[addr] = NewHeapBlock(size)
	h.totalAllocated += size

	return addr, nil
}

// Free tombstones a block. The address must be the exact start of an
// allocated block.
func (h *Heap) Free(addr uint64) *HeapError {
	block, ok := h.allocations[addr]
	if !ok {
		return &HeapError{Kind: HeapInvalidFree, Addr: addr}
	}
	if block.State == Tombstone {
		return &HeapError{Kind: HeapDoubleFree, Addr: addr}
	}
	block.State = Tombstone
	return nil
}

// Block returns the live block starting at addr
func (h *Heap) Block(addr uint64) (*HeapBlock, *HeapError) {
	block, ok := h.allocations[addr]
	if !ok {
		return nil, &HeapError{Kind: HeapUnallocated, Addr: addr}
	}
	if block.State == Tombstone {
		return nil, &HeapError{Kind: HeapUseAfterFree, Addr: addr}
	}
	return block, nil
}

// containing finds the block whose range covers addr
func (h *Heap) containing(addr uint64) (uint64, *HeapBlock, bool) {
	for blockAddr, block := range h.allocations {
		if addr >= blockAddr && addr < blockAddr+uint64(block.Size) {
			return blockAddr, block, true
		}
	}
	return 0, nil, false
}

// WriteByte stores one byte at an address inside any allocated block
func (h *Heap) WriteByte(addr uint64, b byte) *HeapError {
	blockAddr, block, ok := h.containing(addr)
	if !ok {
		return &HeapError{Kind: HeapUnallocated, Addr: addr}
	}
	if block.State == Tombstone {
		return &HeapError{Kind: HeapUseAfterFree, Addr: addr}
	}
	offset := addr - blockAddr
	block.Data[offset] = b
	block.InitMap[offset] = true
	return nil
}

// ReadByte loads one byte. Reading a byte that was allocated but never
// written is an error, never a default zero.
func (h *Heap) ReadByte(addr uint64) (byte, *HeapError) {
	blockAddr, block, ok := h.containing(addr)
	if !ok {
		return 0, &HeapError{Kind: HeapUnallocated, Addr: addr}
	}
	if block.State == Tombstone {
		return 0, &HeapError{Kind: HeapUseAfterFree, Addr: addr}
	}
	offset := addr - blockAddr
	if !block.InitMap[offset] {
		return 0, &HeapError{Kind: HeapUninitRead, Addr: addr}
	}
	return block.Data[offset], nil
}

// WriteBytesAt stores a byte sequence starting at addr
func (h *Heap) WriteBytesAt(addr uint64, bytes []byte) *HeapError {
	for i, b := range bytes {
		if err := h.WriteByte(addr+uint64(i), b); err != nil {
			return err
		}
	}
	return nil
}

// ReadBytesAt loads size bytes starting at addr
func (h *Heap) ReadBytesAt(addr uint64, size int) ([]byte, *HeapError) {
	bytes := make([]byte, 0, size)
	for i := 0; i < size; i++ {
		b, err := h.ReadByte(addr + uint64(i))
		if err != nil {
			return nil, err
		}
		bytes = append(bytes, b)
	}
	return bytes, nil
}

// Allocations returns every block, tombstones included (for display)
func (h *Heap) Allocations() map[uint64]*HeapBlock {
	return h.allocations
}

// TotalAllocated returns the lifetime byte total, tombstones included
func (h *Heap) TotalAllocated() int {
	return h.totalAllocated
}

// Capacity returns the configured ceiling
func (h *Heap) Capacity() int {
	return h.capacity
}

// Clone returns an independent deep copy of the heap
func (h *Heap) Clone() *Heap {
	c := &Heap{
		allocations:    make(map[uint64]*HeapBlock, len(h.allocations)),
		nextAddress:    h.nextAddress,
		totalAllocated: h.totalAllocated,
		capacity:       h.capacity,
	}
	for addr, block := range h.allocations {
		c.allocations[addr] = block.Clone()
	}
	return c
}
