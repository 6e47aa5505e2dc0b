// Package memory implements the simulated memory model: type layout,
// the scoped call stack, and the heap allocator with tombstone tracking.
//
// Sizes are fixed and platform independent: int is 4 bytes, char is 1,
// any pointer is 8 regardless of pointee, struct size is the sum of its
// field sizes in declaration order with no padding, array size is the
// element size times the product of the dimensions.
package memory

import (
	"rewind/parser"
	"rewind/types"
)

const (
	// HeapAddressStart is the first heap address. Stack and heap ranges
	// never overlap.
	HeapAddressStart uint64 = 0x1000_0000

	// StackAddressStart is the first stack address. Zero is reserved so
	// a zero pointer is always NULL.
	StackAddressStart uint64 = 0x0000_0004
)

// SizeOf calculates the size of a type in bytes. Returns a
// StructNotDefined error when the type names an unknown struct.
func SizeOf(t types.CType, structs map[string]*parser.StructDef) (int, *types.RuntimeError) {
	if t.PointerDepth > 0 {
		return pointeeArraySize(8, t.ArrayDims)
	}

	var base int
	switch t.Base {
	case types.BaseInt:
		base = 4
	case types.BaseChar:
		base = 1
	case types.BaseVoid:
		base = 0
	case types.BaseStruct:
		def, ok := structs[t.StructName]
		if !ok {
			return 0, &types.RuntimeError{Code: types.ErrStructNotDefined, Name: t.StructName}
		}
		for _, f := range def.Fields {
			size, err := SizeOf(f.Type, structs)
			if err != nil {
				return 0, err
			}
			base += size
		}
	}

	return pointeeArraySize(base, t.ArrayDims)
}

func pointeeArraySize(base int, dims []int) (int, *types.RuntimeError) {
	size := base
	for _, dim := range dims {
		if dim == types.UnsizedDim {
			return 0, &types.RuntimeError{Code: types.ErrUnsupportedOperation,
				Detail: "sizeof requires a known array size"}
		}
		size *= dim
	}
	return size, nil
}

// FieldOffset returns the byte offset of a field inside a struct: the
// running sum of the sizes of all preceding fields.
func FieldOffset(structName, fieldName string, structs map[string]*parser.StructDef) (int, *types.RuntimeError) {
	def, ok := structs[structName]
	if !ok {
		return 0, &types.RuntimeError{Code: types.ErrStructNotDefined, Name: structName}
	}

	offset := 0
	for _, f := range def.Fields {
		if f.Name == fieldName {
			return offset, nil
		}
		size, err := SizeOf(f.Type, structs)
		if err != nil {
			return 0, err
		}
		offset += size
	}

	return 0, &types.RuntimeError{Code: types.ErrMissingStructField, Name: structName, Field: fieldName}
}

// FieldType returns the declared type of a struct field
func FieldType(structName, fieldName string, structs map[string]*parser.StructDef) (types.CType, *types.RuntimeError) {
	def, ok := structs[structName]
	if !ok {
		return types.CType{}, &types.RuntimeError{Code: types.ErrStructNotDefined, Name: structName}
	}
	for _, f := range def.Fields {
		if f.Name == fieldName {
			return f.Type, nil
		}
	}
	return types.CType{}, &types.RuntimeError{Code: types.ErrMissingStructField, Name: structName, Field: fieldName}
}

// PointerAdd computes addr + offset elements, scaled by the pointee size
func PointerAdd(addr uint64, offset int32, pointee types.CType, structs map[string]*parser.StructDef) (uint64, *types.RuntimeError) {
	size, err := SizeOf(pointee, structs)
	if err != nil {
		return 0, err
	}
	return uint64(int64(addr) + int64(offset)*int64(size)), nil
}

// PointerSub computes addr - offset elements, scaled by the pointee size
func PointerSub(addr uint64, offset int32, pointee types.CType, structs map[string]*parser.StructDef) (uint64, *types.RuntimeError) {
	return PointerAdd(addr, -offset, pointee, structs)
}

// PointerDiff computes the element-count difference between two
// addresses. The pointee size of the left operand is used; no
// same-allocation check is made.
func PointerDiff(addr1, addr2 uint64, pointee types.CType, structs map[string]*parser.StructDef) (int32, *types.RuntimeError) {
	size, err := SizeOf(pointee, structs)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, nil
	}
	return int32((int64(addr1) - int64(addr2)) / int64(size)), nil
}
