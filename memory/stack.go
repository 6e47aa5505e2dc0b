package memory

import (
	"rewind/types"
)

// InitKind is the top-level initialization state of a variable
type InitKind int

const (
	InitUninitialized InitKind = iota
	InitPartial                // structs: some fields written
	InitInitialized
)

// InitState tracks whether a variable has been written since declaration.
// Structs track per-field state so a read of one unwritten field is
// caught even when the others have been assigned.
type InitState struct {
	Kind   InitKind
	Fields map[string]*InitState // only for InitPartial
}

// Uninitialized returns the state for a never-written variable
func Uninitialized() *InitState {
	return &InitState{Kind: InitUninitialized}
}

// Initialized returns the fully-written state
func Initialized() *InitState {
	return &InitState{Kind: InitInitialized}
}

// ForStruct returns a per-field state with every field unwritten
func ForStruct(fields []string) *InitState {
	m := make(map[string]*InitState, len(fields))
	for _, f := range fields {
		m[f] = Uninitialized()
	}
	return &InitState{Kind: InitPartial, Fields: m}
}

// IsInitialized reports whether the variable is fully written
func (s *InitState) IsInitialized() bool {
	return s.Kind == InitInitialized
}

// MarkFieldInitialized records a write to one struct field. When the
// last unwritten field is marked, the whole state collapses to
// InitInitialized.
func (s *InitState) MarkFieldInitialized(field string) {
	if s.Kind != InitPartial {
		return
	}
	if st, ok := s.Fields[field]; ok {
		st.Kind = InitInitialized
		st.Fields = nil
	}
	for _, st := range s.Fields {
		if !st.IsInitialized() {
			return
		}
	}
	s.Kind = InitInitialized
	s.Fields = nil
}

// IsFieldInitialized reports whether one struct field has been written
func (s *InitState) IsFieldInitialized(field string) bool {
	switch s.Kind {
	case InitInitialized:
		return true
	case InitPartial:
		st, ok := s.Fields[field]
		return ok && st.IsInitialized()
	default:
		return false
	}
}

// Clone returns an independent copy
func (s *InitState) Clone() *InitState {
	c := &InitState{Kind: s.Kind}
	if s.Fields != nil {
		c.Fields = make(map[string]*InitState, len(s.Fields))
		for name, st := range s.Fields {
			c.Fields[name] = st.Clone()
		}
	}
	return c
}

// LocalVar is a local variable in a stack frame
type LocalVar struct {
	Value   types.Value
	Type    types.CType
	IsConst bool
	Init    *InitState
	Address uint64 // simulated address for this variable
}

// NewLocalVar creates a LocalVar holding no value yet
func NewLocalVar(varType types.CType, init *InitState, address uint64) *LocalVar {
	return &LocalVar{
		Value:   types.NewUninit(),
		Type:    varType,
		IsConst: varType.Const,
		Init:    init,
		Address: address,
	}
}

// Clone returns an independent copy
func (v *LocalVar) Clone() *LocalVar {
	return &LocalVar{
		Value:   v.Value.Clone(),
		Type:    v.Type,
		IsConst: v.IsConst,
		Init:    v.Init.Clone(),
		Address: v.Address,
	}
}

type scopeData struct {
	shadowed []shadowEntry
	declared []string
}

type shadowEntry struct {
	name string
	old  *LocalVar
}

// StackFrame is one function activation record
type StackFrame struct {
	FunctionName   string
	Locals         map[string]*LocalVar
	InsertionOrder []string // declaration order, for deterministic display
	scopes         []scopeData
}

// NewStackFrame creates an empty frame for a function
func NewStackFrame(functionName string) *StackFrame {
	return &StackFrame{
		FunctionName: functionName,
		Locals:       make(map[string]*LocalVar),
	}
}

// PushScope enters a nested block
func (f *StackFrame) PushScope() {
	f.scopes = append(f.scopes, scopeData{})
}

// PopScope exits the current block: names declared in it are removed,
// names it shadowed are restored verbatim.
func (f *StackFrame) PopScope() {
	if len(f.scopes) == 0 {
		return
	}
	scope := f.scopes[len(f.scopes)-1]
	f.scopes = f.scopes[:len(f.scopes)-1]

	for _, name := range scope.declared {
		delete(f.Locals, name)
		for i := len(f.InsertionOrder) - 1; i >= 0; i-- {
			if f.InsertionOrder[i] == name {
				f.InsertionOrder = append(f.InsertionOrder[:i], f.InsertionOrder[i+1:]...)
				break
			}
		}
	}

	for _, entry := range scope.shadowed {
		f.Locals[entry.name] = entry.old
	}
}

// DeclareVar adds a local. Inside a nested scope an existing name is
// shadowed (the prior LocalVar is restored on PopScope); a new name is
// removed on PopScope.
func (f *StackFrame) DeclareVar(name string, varType types.CType, init *InitState, address uint64) {
	newVar := NewLocalVar(varType, init, address)

	if len(f.scopes) > 0 {
		scope := &f.scopes[len(f.scopes)-1]
		if old, exists := f.Locals[name]; exists {
			scope.shadowed = append(scope.shadowed, shadowEntry{name: name, old: old})
			// insertion order already contains the name
		} else {
			scope.declared = append(scope.declared, name)
			f.InsertionOrder = append(f.InsertionOrder, name)
		}
		f.Locals[name] = newVar
		return
	}

	if _, exists := f.Locals[name]; !exists {
		f.InsertionOrder = append(f.InsertionOrder, name)
	}
	f.Locals[name] = newVar
}

// GetVar returns a local by name
func (f *StackFrame) GetVar(name string) (*LocalVar, bool) {
	v, ok := f.Locals[name]
	return v, ok
}

// Clone returns an independent deep copy of the frame
func (f *StackFrame) Clone() *StackFrame {
	c := &StackFrame{
		FunctionName:   f.FunctionName,
		Locals:         make(map[string]*LocalVar, len(f.Locals)),
		InsertionOrder: append([]string(nil), f.InsertionOrder...),
		scopes:         make([]scopeData, len(f.scopes)),
	}
	for name, v := range f.Locals {
		c.Locals[name] = v.Clone()
	}
	for i, s := range f.scopes {
		cs := scopeData{
			shadowed: make([]shadowEntry, len(s.shadowed)),
			declared: append([]string(nil), s.declared...),
		}
		for j, e := range s.shadowed {
			cs.shadowed[j] = shadowEntry{name: e.name, old: e.old.Clone()}
		}
		c.scopes[i] = cs
	}
	return c
}

// Stack is the call stack
type Stack struct {
	frames []*StackFrame
}

// NewStack creates an empty call stack
func NewStack() *Stack {
	return &Stack{}
}

// PushFrame pushes a new frame for a function call
func (s *Stack) PushFrame(functionName string) {
	s.frames = append(s.frames, NewStackFrame(functionName))
}

// PopFrame removes and returns the top frame
func (s *Stack) PopFrame() *StackFrame {
	if len(s.frames) == 0 {
		return nil
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// CurrentFrame returns the top frame, or nil when the stack is empty
func (s *Stack) CurrentFrame() *StackFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Frames returns all frames, bottom first
func (s *Stack) Frames() []*StackFrame {
	return s.frames
}

// Frame returns the frame at a given depth
func (s *Stack) Frame(index int) (*StackFrame, bool) {
	if index < 0 || index >= len(s.frames) {
		return nil, false
	}
	return s.frames[index], true
}

// Depth returns the number of frames
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Clone returns an independent deep copy of the whole stack
func (s *Stack) Clone() *Stack {
	c := &Stack{frames: make([]*StackFrame, len(s.frames))}
	for i, f := range s.frames {
		c.frames[i] = f.Clone()
	}
	return c
}
