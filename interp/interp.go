// Package interp implements the execution engine: it walks the parsed
// program one statement at a time against the simulated stack and heap,
// records a full state snapshot after every step, and exposes the
// navigation operations that replay execution in either direction.
package interp

import (
	"strings"

	"rewind/builtins"
	"rewind/memory"
	"rewind/parser"
	"rewind/snapshot"
	"rewind/trace"
	"rewind/types"
)

// DefaultSnapshotBudget is the history memory ceiling when none is
// configured.
const DefaultSnapshotBudget = 256 * 1024 * 1024

// Limits configures the engine's resource ceilings. Zero values fall
// back to the defaults.
type Limits struct {
	HeapCapacity   int
	SnapshotBudget int
}

// Interpreter executes a parsed program and records its history. All
// mutable state lives here; snapshots are deep copies of it.
type Interpreter struct {
	structs   map[string]*parser.StructDef
	functions map[string]*parser.FunctionDef
	builtins  *builtins.Registry

	stack    *memory.Stack
	heap     *memory.Heap
	terminal *snapshot.MockTerminal

	// pointerTypes records the pointee type bound to a heap pointer at
	// the moment it is produced. Heap bytes are untyped; dereferencing
	// an address with no entry here is an error.
	pointerTypes map[uint64]types.CType

	// stackAddresses maps every live simulated stack address to its
	// owning (frame, variable), standing in for a byte-level stack image.
	stackAddresses   map[uint64]snapshot.VarRef
	nextStackAddress uint64

	executionDepth int

	history         *snapshot.Manager
	historyPosition int

	location    types.SourceLocation
	returnValue types.Value
	finished    bool
	runErr      *types.RuntimeError

	input  []string
	tracer *trace.Tracer
}

// New creates an engine for a parsed program
func New(program *parser.Program, limits Limits) *Interpreter {
	if limits.HeapCapacity <= 0 {
		limits.HeapCapacity = memory.DefaultHeapCapacity
	}
	if limits.SnapshotBudget <= 0 {
		limits.SnapshotBudget = DefaultSnapshotBudget
	}

	i := &Interpreter{
		structs:          make(map[string]*parser.StructDef),
		functions:        make(map[string]*parser.FunctionDef),
		builtins:         builtins.NewRegistry(),
		stack:            memory.NewStack(),
		heap:             memory.NewHeap(limits.HeapCapacity),
		terminal:         snapshot.NewMockTerminal(),
		pointerTypes:     make(map[uint64]types.CType),
		stackAddresses:   make(map[uint64]snapshot.VarRef),
		nextStackAddress: memory.StackAddressStart,
		history:          snapshot.NewManager(limits.SnapshotBudget),
	}
	for _, s := range program.Structs {
		i.structs[s.Name] = s
	}
	for _, f := range program.Functions {
		i.functions[f.Name] = f
	}
	return i
}

// SetTracer attaches an execution tracer. A nil tracer disables tracing.
func (i *Interpreter) SetTracer(t *trace.Tracer) {
	i.tracer = t
}

// PushInput appends whitespace-delimited tokens to the scanf input queue
func (i *Interpreter) PushInput(line string) {
	i.input = append(i.input, strings.Fields(line)...)
}

// Run executes main to completion or to the first fatal error, recording
// one history entry per step. The error, if any, is also retained so
// stepping forward past the last good state re-surfaces it.
func (i *Interpreter) Run() *types.RuntimeError {
	mainFn, ok := i.functions["main"]
	if !ok {
		i.runErr = types.NewNoMainFunction()
		i.finished = true
		return i.runErr
	}

	if err := i.takeSnapshot(); err != nil {
		return i.fail(err)
	}

	i.stack.PushFrame("main")
	i.location = mainFn.Pos
	if err := i.takeSnapshot(); err != nil {
		return i.fail(err)
	}

	res := i.runFunctionBody(mainFn)
	switch {
	case res.IsError():
		return i.fail(res.Error)
	case res.IsReturn():
		i.returnValue = res.Val
	default:
		i.returnValue = types.NewInt(0)
	}

	i.finished = true
	if err := i.takeSnapshot(); err != nil {
		return i.fail(err)
	}
	return nil
}

// fail records the terminal error and attempts one final snapshot so
// the failing program point remains visible under stepping.
func (i *Interpreter) fail(err *types.RuntimeError) *types.RuntimeError {
	i.runErr = err
	i.finished = true
	i.tracer.RunError(err)
	if err.Code != types.ErrSnapshotLimitExceeded {
		i.takeSnapshot()
	}
	return err
}

// takeSnapshot records a deep copy of the current state
func (i *Interpreter) takeSnapshot() *types.RuntimeError {
	pt := make(map[uint64]types.CType, len(i.pointerTypes))
	for addr, t := range i.pointerTypes {
		pt[addr] = t
	}
	sa := make(map[uint64]snapshot.VarRef, len(i.stackAddresses))
	for addr, ref := range i.stackAddresses {
		sa[addr] = ref
	}
	var ret types.Value
	if i.returnValue != nil {
		ret = i.returnValue.Clone()
	}

	s := &snapshot.Snapshot{
		Stack:            i.stack.Clone(),
		Heap:             i.heap.Clone(),
		Terminal:         i.terminal.Clone(),
		Location:         i.location,
		ReturnValue:      ret,
		PointerTypes:     pt,
		StackAddresses:   sa,
		NextStackAddress: i.nextStackAddress,
		ExecutionDepth:   i.executionDepth,
	}
	if err := i.history.Push(s); err != nil {
		return err
	}
	i.historyPosition = i.history.Len() - 1
	i.tracer.Snapshot(i.historyPosition, s.EstimatedSize())
	return nil
}

// snapshotAt records a snapshot attributed to the given location
func (i *Interpreter) snapshotAt(loc types.SourceLocation) *types.RuntimeError {
	i.location = loc
	return i.takeSnapshot()
}

// restoreSnapshot replaces all live state with a copy of the snapshot
func (i *Interpreter) restoreSnapshot(s *snapshot.Snapshot) {
	i.stack = s.Stack.Clone()
	i.heap = s.Heap.Clone()
	i.terminal = s.Terminal.Clone()
	i.location = s.Location
	if s.ReturnValue != nil {
		i.returnValue = s.ReturnValue.Clone()
	} else {
		i.returnValue = nil
	}
	i.pointerTypes = make(map[uint64]types.CType, len(s.PointerTypes))
	for addr, t := range s.PointerTypes {
		i.pointerTypes[addr] = t
	}
	i.stackAddresses = make(map[uint64]snapshot.VarRef, len(s.StackAddresses))
	for addr, ref := range s.StackAddresses {
		i.stackAddresses[addr] = ref
	}
	i.nextStackAddress = s.NextStackAddress
	i.executionDepth = s.ExecutionDepth
}

// StepBackward moves one step back through history
func (i *Interpreter) StepBackward() *types.RuntimeError {
	if i.historyPosition <= 0 {
		return types.NewHistoryOperationFailed("already at the beginning of execution", i.location)
	}
	i.historyPosition--
	i.restoreSnapshot(i.history.Get(i.historyPosition))
	return nil
}

// StepForward moves one step forward through history. Stepping past the
// last snapshot surfaces the run's fatal error when one ended the run
// there, so the failure becomes visible exactly where it happened.
func (i *Interpreter) StepForward() *types.RuntimeError {
	if i.historyPosition+1 >= i.history.Len() {
		if i.runErr != nil {
			return i.runErr
		}
		return types.NewHistoryOperationFailed("reached end of execution", i.location)
	}
	i.historyPosition++
	i.restoreSnapshot(i.history.Get(i.historyPosition))
	return nil
}

// StepOver steps forward until control returns to the call depth where
// the operation began, skipping an entire call's internal steps.
func (i *Interpreter) StepOver() *types.RuntimeError {
	depth := i.executionDepth
	if err := i.StepForward(); err != nil {
		return err
	}
	for i.executionDepth > depth {
		if err := i.StepForward(); err != nil {
			return err
		}
	}
	return nil
}

// StepBackOver is the backward counterpart of StepOver
func (i *Interpreter) StepBackOver() *types.RuntimeError {
	depth := i.executionDepth
	if err := i.StepBackward(); err != nil {
		return err
	}
	for i.executionDepth > depth {
		if err := i.StepBackward(); err != nil {
			return err
		}
	}
	return nil
}

// RewindToStart restores the initial snapshot
func (i *Interpreter) RewindToStart() *types.RuntimeError {
	first := i.history.Get(0)
	if first == nil {
		return types.NewHistoryOperationFailed("no history recorded", i.location)
	}
	i.historyPosition = 0
	i.restoreSnapshot(first)
	return nil
}

// Read-only accessors for a UI or embedder.

// Location returns the current source location
func (i *Interpreter) Location() types.SourceLocation {
	return i.location
}

// Stack returns the current call stack
func (i *Interpreter) Stack() *memory.Stack {
	return i.stack
}

// Heap returns the simulated heap
func (i *Interpreter) Heap() *memory.Heap {
	return i.heap
}

// Terminal returns the captured output buffer
func (i *Interpreter) Terminal() *snapshot.MockTerminal {
	return i.terminal
}

// Output returns the captured output split into display lines
func (i *Interpreter) Output() []string {
	return i.terminal.Output()
}

// ReturnValue returns main's return value, or nil before completion
func (i *Interpreter) ReturnValue() types.Value {
	return i.returnValue
}

// PointerTypes returns the heap pointee-type side table
func (i *Interpreter) PointerTypes() map[uint64]types.CType {
	return i.pointerTypes
}

// StructDefs returns the struct definition table
func (i *Interpreter) StructDefs() map[string]*parser.StructDef {
	return i.structs
}

// FunctionDefs returns the function definition table
func (i *Interpreter) FunctionDefs() map[string]*parser.FunctionDef {
	return i.functions
}

// HistoryPosition returns the index of the current snapshot
func (i *Interpreter) HistoryPosition() int {
	return i.historyPosition
}

// HistoryLen returns the number of recorded snapshots
func (i *Interpreter) HistoryLen() int {
	return i.history.Len()
}

// Finished reports whether the run has ended
func (i *Interpreter) Finished() bool {
	return i.finished
}

// RunError returns the fatal error that ended the run, if any
func (i *Interpreter) RunError() *types.RuntimeError {
	return i.runErr
}
