package types

// ErrCode identifies a kind of fatal runtime error.
// Every kind aborts the in-progress run; none are caught internally.
type ErrCode int

const (
	ErrNone ErrCode = iota

	// Memory safety
	ErrUninitializedRead
	ErrNullDereference
	ErrBufferOverrun
	ErrUseAfterFree
	ErrDoubleFree
	ErrInvalidFree
	ErrInvalidPointer
	ErrInvalidMemoryOperation

	// Types and arguments
	ErrTypeMismatch
	ErrArgumentCountMismatch
	ErrConstModification

	// Resource exhaustion (no source location)
	ErrOutOfMemory
	ErrSnapshotLimitExceeded

	// Arithmetic
	ErrIntegerOverflow
	ErrDivisionError

	// Name resolution
	ErrUndefinedVariable
	ErrUndefinedFunction
	ErrStructNotDefined
	ErrMissingStructField

	// Control
	ErrNoMainFunction
	ErrNoStackFrame
	ErrInvalidFrameDepth
	ErrHistoryOperationFailed
	ErrUnsupportedOperation

	// Formatting
	ErrInvalidPrintfFormat
	ErrInvalidString
	ErrInvalidMallocSize

	// Input
	ErrScanfNeedsInput
)

// String returns the name of the error kind
func (e ErrCode) String() string {
	switch e {
	case ErrNone:
		return "None"
	case ErrUninitializedRead:
		return "UninitializedRead"
	case ErrNullDereference:
		return "NullDereference"
	case ErrBufferOverrun:
		return "BufferOverrun"
	case ErrUseAfterFree:
		return "UseAfterFree"
	case ErrDoubleFree:
		return "DoubleFree"
	case ErrInvalidFree:
		return "InvalidFree"
	case ErrInvalidPointer:
		return "InvalidPointer"
	case ErrInvalidMemoryOperation:
		return "InvalidMemoryOperation"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrArgumentCountMismatch:
		return "ArgumentCountMismatch"
	case ErrConstModification:
		return "ConstModification"
	case ErrOutOfMemory:
		return "OutOfMemory"
	case ErrSnapshotLimitExceeded:
		return "SnapshotLimitExceeded"
	case ErrIntegerOverflow:
		return "IntegerOverflow"
	case ErrDivisionError:
		return "DivisionError"
	case ErrUndefinedVariable:
		return "UndefinedVariable"
	case ErrUndefinedFunction:
		return "UndefinedFunction"
	case ErrStructNotDefined:
		return "StructNotDefined"
	case ErrMissingStructField:
		return "MissingStructField"
	case ErrNoMainFunction:
		return "NoMainFunction"
	case ErrNoStackFrame:
		return "NoStackFrame"
	case ErrInvalidFrameDepth:
		return "InvalidFrameDepth"
	case ErrHistoryOperationFailed:
		return "HistoryOperationFailed"
	case ErrUnsupportedOperation:
		return "UnsupportedOperation"
	case ErrInvalidPrintfFormat:
		return "InvalidPrintfFormat"
	case ErrInvalidString:
		return "InvalidString"
	case ErrInvalidMallocSize:
		return "InvalidMallocSize"
	case ErrScanfNeedsInput:
		return "ScanfNeedsInput"
	default:
		return "Unknown"
	}
}

// ErrCodeFromString converts a name like "DoubleFree" to an ErrCode.
// Used by the conformance corpus to name expected failures.
func ErrCodeFromString(s string) (ErrCode, bool) {
	for c := ErrNone; c <= ErrScanfNeedsInput; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return ErrNone, false
}
