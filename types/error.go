package types

import "fmt"

// RuntimeError is a fatal execution error. The Code selects the kind;
// the payload fields that apply depend on the kind. OutOfMemory,
// SnapshotLimitExceeded, and NoMainFunction carry no source location;
// every other kind does.
type RuntimeError struct {
	Code   ErrCode
	Loc    SourceLocation
	HasLoc bool

	Name     string // variable, function, or struct name
	Field    string // struct field name
	Detail   string // operation text or free-form message
	Expected string // for type mismatches
	Got      string

	Addr    uint64 // offending address
	HasAddr bool

	Index int // buffer overrun index
	Size  int // buffer size, or requested malloc size

	Requested int // bytes requested (or currently used, for snapshots)
	Limit     int // configured ceiling

	WantArgs int
	GotArgs  int
}

// Error formats the error for display
func (e *RuntimeError) Error() string {
	switch e.Code {
	case ErrUninitializedRead:
		return fmt.Sprintf("Read from uninitialized variable '%s' at line %d", e.Name, e.Loc.Line)
	case ErrNullDereference:
		return fmt.Sprintf("Null pointer dereference at line %d", e.Loc.Line)
	case ErrBufferOverrun:
		return fmt.Sprintf("Buffer overrun at line %d: index %d out of bounds for size %d", e.Loc.Line, e.Index, e.Size)
	case ErrUseAfterFree:
		return fmt.Sprintf("Use-after-free: address 0x%x at line %d", e.Addr, e.Loc.Line)
	case ErrDoubleFree:
		return fmt.Sprintf("Double free at address 0x%x at line %d", e.Addr, e.Loc.Line)
	case ErrInvalidFree:
		return fmt.Sprintf("Invalid free: address 0x%x at line %d", e.Addr, e.Loc.Line)
	case ErrInvalidPointer:
		if e.HasAddr {
			return fmt.Sprintf("Invalid pointer at 0x%x: %s at line %d", e.Addr, e.Detail, e.Loc.Line)
		}
		return fmt.Sprintf("Invalid pointer: %s at line %d", e.Detail, e.Loc.Line)
	case ErrInvalidMemoryOperation:
		return fmt.Sprintf("Memory operation failed: %s at line %d", e.Detail, e.Loc.Line)
	case ErrTypeMismatch:
		return fmt.Sprintf("Type error at line %d: expected %s, got %s", e.Loc.Line, e.Expected, e.Got)
	case ErrArgumentCountMismatch:
		plural := "s"
		if e.WantArgs == 1 {
			plural = ""
		}
		return fmt.Sprintf("Function '%s' expects %d argument%s, got %d at line %d", e.Name, e.WantArgs, plural, e.GotArgs, e.Loc.Line)
	case ErrConstModification:
		return fmt.Sprintf("Attempted to modify const variable '%s' at line %d", e.Name, e.Loc.Line)
	case ErrOutOfMemory:
		return fmt.Sprintf("Out of memory: requested %d bytes, limit is %d", e.Requested, e.Limit)
	case ErrSnapshotLimitExceeded:
		return fmt.Sprintf("Snapshot memory limit exceeded: %d bytes used, limit is %d", e.Requested, e.Limit)
	case ErrIntegerOverflow:
		return fmt.Sprintf("Integer overflow in operation: %s at line %d", e.Detail, e.Loc.Line)
	case ErrDivisionError:
		return fmt.Sprintf("%s at line %d", e.Detail, e.Loc.Line)
	case ErrUndefinedVariable:
		return fmt.Sprintf("Undefined variable '%s' at line %d", e.Name, e.Loc.Line)
	case ErrUndefinedFunction:
		return fmt.Sprintf("Undefined function '%s' at line %d", e.Name, e.Loc.Line)
	case ErrStructNotDefined:
		return fmt.Sprintf("Struct '%s' is not defined at line %d", e.Name, e.Loc.Line)
	case ErrMissingStructField:
		return fmt.Sprintf("Struct '%s' does not have field '%s' at line %d", e.Name, e.Field, e.Loc.Line)
	case ErrNoMainFunction:
		return "No main() function found"
	case ErrNoStackFrame:
		return fmt.Sprintf("No stack frame available at line %d", e.Loc.Line)
	case ErrInvalidFrameDepth:
		return fmt.Sprintf("Invalid stack frame depth at line %d", e.Loc.Line)
	case ErrHistoryOperationFailed:
		return fmt.Sprintf("History operation failed: %s at line %d", e.Detail, e.Loc.Line)
	case ErrUnsupportedOperation:
		return fmt.Sprintf("Unsupported operation: %s at line %d", e.Detail, e.Loc.Line)
	case ErrInvalidPrintfFormat:
		return fmt.Sprintf("Invalid printf format at line %d: %s", e.Loc.Line, e.Detail)
	case ErrInvalidString:
		return fmt.Sprintf("Invalid string: %s at line %d", e.Detail, e.Loc.Line)
	case ErrInvalidMallocSize:
		return fmt.Sprintf("Invalid malloc size: %d (must be positive) at line %d", e.Size, e.Loc.Line)
	case ErrScanfNeedsInput:
		return fmt.Sprintf("scanf needs input at line %d", e.Loc.Line)
	default:
		return fmt.Sprintf("Error at line %d: %s", e.Loc.Line, e.Detail)
	}
}

// Location returns the source location and whether the kind carries one
func (e *RuntimeError) Location() (SourceLocation, bool) {
	return e.Loc, e.HasLoc
}

func at(code ErrCode, loc SourceLocation) *RuntimeError {
	return &RuntimeError{Code: code, Loc: loc, HasLoc: true}
}

// NewUninitializedRead reports a read from a never-written variable
func NewUninitializedRead(name string, loc SourceLocation) *RuntimeError {
	e := at(ErrUninitializedRead, loc)
	e.Name = name
	return e
}

// NewNullDereference reports a dereference of NULL
func NewNullDereference(loc SourceLocation) *RuntimeError {
	return at(ErrNullDereference, loc)
}

// NewBufferOverrun reports an out-of-bounds index
func NewBufferOverrun(index, size int, loc SourceLocation) *RuntimeError {
	e := at(ErrBufferOverrun, loc)
	e.Index = index
	e.Size = size
	return e
}

// NewUseAfterFree reports access to a freed heap block
func NewUseAfterFree(addr uint64, loc SourceLocation) *RuntimeError {
	e := at(ErrUseAfterFree, loc)
	e.Addr = addr
	e.HasAddr = true
	return e
}

// NewDoubleFree reports a second free of the same address
func NewDoubleFree(addr uint64, loc SourceLocation) *RuntimeError {
	e := at(ErrDoubleFree, loc)
	e.Addr = addr
	e.HasAddr = true
	return e
}

// NewInvalidFree reports a free of a never-allocated address
func NewInvalidFree(addr uint64, loc SourceLocation) *RuntimeError {
	e := at(ErrInvalidFree, loc)
	e.Addr = addr
	e.HasAddr = true
	return e
}

// NewInvalidPointer reports an invalid or untyped pointer use
func NewInvalidPointer(detail string, loc SourceLocation) *RuntimeError {
	e := at(ErrInvalidPointer, loc)
	e.Detail = detail
	return e
}

// NewInvalidPointerAt is NewInvalidPointer with the offending address
func NewInvalidPointerAt(addr uint64, detail string, loc SourceLocation) *RuntimeError {
	e := NewInvalidPointer(detail, loc)
	e.Addr = addr
	e.HasAddr = true
	return e
}

// NewInvalidMemoryOperation reports a failed heap read or write
func NewInvalidMemoryOperation(detail string, loc SourceLocation) *RuntimeError {
	e := at(ErrInvalidMemoryOperation, loc)
	e.Detail = detail
	return e
}

// NewTypeMismatch reports an operand of the wrong type
func NewTypeMismatch(expected, got string, loc SourceLocation) *RuntimeError {
	e := at(ErrTypeMismatch, loc)
	e.Expected = expected
	e.Got = got
	return e
}

// NewArgumentCountMismatch reports a call with the wrong arity
func NewArgumentCountMismatch(function string, want, got int, loc SourceLocation) *RuntimeError {
	e := at(ErrArgumentCountMismatch, loc)
	e.Name = function
	e.WantArgs = want
	e.GotArgs = got
	return e
}

// NewConstModification reports a write to a const variable
func NewConstModification(name string, loc SourceLocation) *RuntimeError {
	e := at(ErrConstModification, loc)
	e.Name = name
	return e
}

// NewOutOfMemory reports heap capacity exhaustion
func NewOutOfMemory(requested, limit int) *RuntimeError {
	return &RuntimeError{Code: ErrOutOfMemory, Requested: requested, Limit: limit}
}

// NewSnapshotLimitExceeded reports history budget exhaustion
func NewSnapshotLimitExceeded(current, limit int) *RuntimeError {
	return &RuntimeError{Code: ErrSnapshotLimitExceeded, Requested: current, Limit: limit}
}

// NewIntegerOverflow reports checked-arithmetic overflow
func NewIntegerOverflow(operation string, loc SourceLocation) *RuntimeError {
	e := at(ErrIntegerOverflow, loc)
	e.Detail = operation
	return e
}

// NewDivisionError reports division or modulo by zero
func NewDivisionError(operation string, loc SourceLocation) *RuntimeError {
	e := at(ErrDivisionError, loc)
	e.Detail = operation
	return e
}

// NewUndefinedVariable reports a reference to an unknown name
func NewUndefinedVariable(name string, loc SourceLocation) *RuntimeError {
	e := at(ErrUndefinedVariable, loc)
	e.Name = name
	return e
}

// NewUndefinedFunction reports a call to an unknown function
func NewUndefinedFunction(name string, loc SourceLocation) *RuntimeError {
	e := at(ErrUndefinedFunction, loc)
	e.Name = name
	return e
}

// NewStructNotDefined reports use of an undeclared struct type
func NewStructNotDefined(name string, loc SourceLocation) *RuntimeError {
	e := at(ErrStructNotDefined, loc)
	e.Name = name
	return e
}

// NewMissingStructField reports access to a nonexistent field
func NewMissingStructField(structName, fieldName string, loc SourceLocation) *RuntimeError {
	e := at(ErrMissingStructField, loc)
	e.Name = structName
	e.Field = fieldName
	return e
}

// NewNoMainFunction reports a program without a main() entry point
func NewNoMainFunction() *RuntimeError {
	return &RuntimeError{Code: ErrNoMainFunction}
}

// NewNoStackFrame reports an operation with no active frame
func NewNoStackFrame(loc SourceLocation) *RuntimeError {
	return at(ErrNoStackFrame, loc)
}

// NewInvalidFrameDepth reports a stack pointer into a missing frame
func NewInvalidFrameDepth(loc SourceLocation) *RuntimeError {
	return at(ErrInvalidFrameDepth, loc)
}

// NewHistoryOperationFailed reports a navigation failure
func NewHistoryOperationFailed(detail string, loc SourceLocation) *RuntimeError {
	e := at(ErrHistoryOperationFailed, loc)
	e.Detail = detail
	return e
}

// NewUnsupportedOperation reports a feature outside the supported subset
func NewUnsupportedOperation(detail string, loc SourceLocation) *RuntimeError {
	e := at(ErrUnsupportedOperation, loc)
	e.Detail = detail
	return e
}

// NewInvalidPrintfFormat reports a malformed printf call
func NewInvalidPrintfFormat(detail string, loc SourceLocation) *RuntimeError {
	e := at(ErrInvalidPrintfFormat, loc)
	e.Detail = detail
	return e
}

// NewInvalidString reports a bad heap string (unterminated, oversized)
func NewInvalidString(detail string, loc SourceLocation) *RuntimeError {
	e := at(ErrInvalidString, loc)
	e.Detail = detail
	return e
}

// NewInvalidMallocSize reports malloc with a non-positive size
func NewInvalidMallocSize(size int, loc SourceLocation) *RuntimeError {
	e := at(ErrInvalidMallocSize, loc)
	e.Size = size
	return e
}

// NewScanfNeedsInput reports scanf called with an empty input queue
func NewScanfNeedsInput(loc SourceLocation) *RuntimeError {
	return at(ErrScanfNeedsInput, loc)
}
