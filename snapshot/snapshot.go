// Package snapshot records deep copies of interpreter state after every
// step so execution can be replayed in either direction.
package snapshot

import (
	"rewind/memory"
	"rewind/types"
)

// VarRef names a stack variable by frame index and name. The address
// map uses it to resolve simulated stack addresses back to variables.
type VarRef struct {
	FrameIndex int
	Name       string
}

// Snapshot is a complete deep copy of execution state at one step
type Snapshot struct {
	Stack            *memory.Stack
	Heap             *memory.Heap
	Terminal         *MockTerminal
	Location         types.SourceLocation
	ReturnValue      types.Value // nil until the program finishes
	PointerTypes     map[uint64]types.CType
	StackAddresses   map[uint64]VarRef
	NextStackAddress uint64
	ExecutionDepth   int
}

// EstimatedSize returns a rough byte estimate used for budget
// accounting: 100 bytes per stack frame, actual heap bytes, 50 bytes
// per terminal line.
func (s *Snapshot) EstimatedSize() int {
	return s.Stack.Depth()*100 + s.Heap.TotalAllocated() + len(s.Terminal.Lines)*50
}

// Manager holds the snapshot history under a memory budget
type Manager struct {
	snapshots     []*Snapshot
	maxMemory     int
	currentMemory int
}

// NewManager creates a manager with the given memory budget in bytes
func NewManager(maxMemory int) *Manager {
	return &Manager{maxMemory: maxMemory}
}

// Push appends a snapshot, failing when the budget would be exceeded
func (m *Manager) Push(s *Snapshot) *types.RuntimeError {
	size := s.EstimatedSize()
	if m.currentMemory+size > m.maxMemory {
		return types.NewSnapshotLimitExceeded(m.currentMemory+size, m.maxMemory)
	}
	m.currentMemory += size
	m.snapshots = append(m.snapshots, s)
	return nil
}

// Get returns the snapshot at index, or nil when out of range
func (m *Manager) Get(index int) *Snapshot {
	if index < 0 || index >= len(m.snapshots) {
		return nil
	}
	return m.snapshots[index]
}

// Latest returns the most recent snapshot, or nil when empty
func (m *Manager) Latest() *Snapshot {
	if len(m.snapshots) == 0 {
		return nil
	}
	return m.snapshots[len(m.snapshots)-1]
}

// Len returns the number of recorded snapshots
func (m *Manager) Len() int {
	return len(m.snapshots)
}

// MemoryUsage returns the estimated bytes currently held
func (m *Manager) MemoryUsage() int {
	return m.currentMemory
}

// MemoryLimit returns the configured budget
func (m *Manager) MemoryLimit() int {
	return m.maxMemory
}
