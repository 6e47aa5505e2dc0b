package types

import (
	"fmt"
	"strings"
)

// BaseKind is the base of a C type, before pointers and array dimensions
type BaseKind int

const (
	BaseInt BaseKind = iota
	BaseChar
	BaseVoid
	BaseStruct
)

// String returns the C spelling of the base kind
func (b BaseKind) String() string {
	switch b {
	case BaseInt:
		return "int"
	case BaseChar:
		return "char"
	case BaseVoid:
		return "void"
	case BaseStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// UnsizedDim marks an array dimension with no declared size (function params)
const UnsizedDim = -1

// CType is a declared C type: base kind plus const qualifier, pointer
// depth, and array dimensions.
type CType struct {
	Base         BaseKind
	StructName   string // only for BaseStruct
	Const        bool
	PointerDepth int   // 0 = not a pointer, 1 = *, 2 = **, ...
	ArrayDims    []int // UnsizedDim for an unsized dimension
}

// IntType returns a plain int type
func IntType() CType {
	return CType{Base: BaseInt}
}

// CharType returns a plain char type
func CharType() CType {
	return CType{Base: BaseChar}
}

// VoidType returns the void type
func VoidType() CType {
	return CType{Base: BaseVoid}
}

// StructType returns a struct type by name
func StructType(name string) CType {
	return CType{Base: BaseStruct, StructName: name}
}

// WithConst returns a copy with the const qualifier set
func (t CType) WithConst() CType {
	t.Const = true
	return t
}

// WithPointer returns a copy with one more level of indirection
func (t CType) WithPointer() CType {
	t.PointerDepth++
	return t
}

// WithArray returns a copy with an appended array dimension
func (t CType) WithArray(size int) CType {
	dims := make([]int, len(t.ArrayDims), len(t.ArrayDims)+1)
	copy(dims, t.ArrayDims)
	t.ArrayDims = append(dims, size)
	return t
}

// IsPointer reports whether the type has at least one level of indirection
func (t CType) IsPointer() bool {
	return t.PointerDepth > 0
}

// IsArray reports whether the type has array dimensions
func (t CType) IsArray() bool {
	return len(t.ArrayDims) > 0
}

// ElementType returns the type of one array element: the receiver with
// the first array dimension removed.
func (t CType) ElementType() CType {
	if len(t.ArrayDims) == 0 {
		return t
	}
	dims := make([]int, len(t.ArrayDims)-1)
	copy(dims, t.ArrayDims[1:])
	t.ArrayDims = dims
	return t
}

// Deref returns the pointee type: the receiver with one level of
// indirection removed. Dereferencing a non-pointer returns the type
// unchanged; callers check IsPointer first.
func (t CType) Deref() CType {
	if t.PointerDepth > 0 {
		t.PointerDepth--
	}
	return t
}

// Equal compares two types structurally, ignoring const
func (t CType) Equal(other CType) bool {
	if t.Base != other.Base || t.StructName != other.StructName {
		return false
	}
	if t.PointerDepth != other.PointerDepth {
		return false
	}
	if len(t.ArrayDims) != len(other.ArrayDims) {
		return false
	}
	for i, d := range t.ArrayDims {
		if d != other.ArrayDims[i] {
			return false
		}
	}
	return true
}

// String returns the C-ish spelling of the type
func (t CType) String() string {
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	if t.Base == BaseStruct {
		b.WriteString("struct " + t.StructName)
	} else {
		b.WriteString(t.Base.String())
	}
	if t.PointerDepth > 0 {
		b.WriteString(" " + strings.Repeat("*", t.PointerDepth))
	}
	for _, dim := range t.ArrayDims {
		if dim == UnsizedDim {
			b.WriteString("[]")
		} else {
			b.WriteString(fmt.Sprintf("[%d]", dim))
		}
	}
	return b.String()
}
