package memory

import (
	"encoding/binary"
	"fmt"

	"rewind/parser"
	"rewind/types"
)

// ToRuntime converts a heap failure into a runtime error carrying the
// source location of the statement that triggered it.
func ToRuntime(err *HeapError, loc types.SourceLocation) *types.RuntimeError {
	switch err.Kind {
	case HeapOutOfMemory:
		return types.NewOutOfMemory(err.Requested, err.Limit)
	case HeapDoubleFree:
		return types.NewDoubleFree(err.Addr, loc)
	case HeapInvalidFree:
		return types.NewInvalidFree(err.Addr, loc)
	case HeapUseAfterFree:
		return types.NewUseAfterFree(err.Addr, loc)
	case HeapUnallocated:
		return types.NewInvalidPointerAt(err.Addr, "address is not in any allocated block", loc)
	case HeapUninitRead:
		return types.NewUninitializedRead(fmt.Sprintf("heap memory at 0x%x", err.Addr), loc)
	case HeapOverrun:
		return types.NewInvalidMemoryOperation(fmt.Sprintf("write past end of block at address 0x%x", err.Addr), loc)
	default:
		return types.NewInvalidMemoryOperation(err.Error(), loc)
	}
}

// WriteValue serializes a value into the heap at addr, laying out ints
// as 4 little-endian bytes, chars as 1 byte, pointers as 8 little-endian
// bytes and null as 8 zero bytes. Struct fields land at their layout
// offsets and array elements at element-size strides. Uninitialized
// values write nothing, so the destination bytes stay unreadable.
func WriteValue(h *Heap, addr uint64, v types.Value, t types.CType, structs map[string]*parser.StructDef) *HeapError {
	switch val := v.(type) {
	case types.UninitValue:
		return nil
	case types.IntValue:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(val.Val))
		return h.WriteBytesAt(addr, buf[:])
	case types.CharValue:
		return h.WriteByte(addr, byte(val.Val))
	case types.PointerValue:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], val.Addr)
		return h.WriteBytesAt(addr, buf[:])
	case types.NullValue:
		var buf [8]byte
		return h.WriteBytesAt(addr, buf[:])
	case types.StructValue:
		def, ok := structs[t.StructName]
		if !ok {
			return &HeapError{Kind: HeapUnallocated, Addr: addr}
		}
		for _, field := range def.Fields {
			fv, ok := val.Fields[field.Name]
			if !ok {
				continue
			}
			offset, err := FieldOffset(t.StructName, field.Name, structs)
			if err != nil {
				return &HeapError{Kind: HeapUnallocated, Addr: addr}
			}
			if herr := WriteValue(h, addr+uint64(offset), fv, field.Type, structs); herr != nil {
				return herr
			}
		}
		return nil
	case types.ArrayValue:
		elemType := t.ElementType()
		elemSize, err := SizeOf(elemType, structs)
		if err != nil {
			return &HeapError{Kind: HeapUnallocated, Addr: addr}
		}
		for i, elem := range val.Elems {
			if herr := WriteValue(h, addr+uint64(i*elemSize), elem, elemType, structs); herr != nil {
				return herr
			}
		}
		return nil
	default:
		return nil
	}
}

// ReadValue deserializes a value of the given type from the heap,
// failing if any required byte was never written.
func ReadValue(h *Heap, addr uint64, t types.CType, structs map[string]*parser.StructDef) (types.Value, *HeapError) {
	size, err := SizeOf(t, structs)
	if err != nil {
		return nil, &HeapError{Kind: HeapUnallocated, Addr: addr}
	}
	bytes, herr := h.ReadBytesAt(addr, size)
	if herr != nil {
		return nil, herr
	}
	v, herr := DeserializeValue(bytes, t, structs)
	if herr != nil {
		herr.Addr = addr
		return nil, herr
	}
	return v, nil
}

// DeserializeValue decodes a value of the given type from raw bytes. An
// 8-byte zero pointer decodes as null.
func DeserializeValue(data []byte, t types.CType, structs map[string]*parser.StructDef) (types.Value, *HeapError) {
	if t.PointerDepth > 0 {
		if len(data) < 8 {
			return nil, &HeapError{Kind: HeapOverrun}
		}
		addr := binary.LittleEndian.Uint64(data[:8])
		if addr == 0 {
			return types.NewNull(), nil
		}
		return types.NewPointer(addr), nil
	}
	if len(t.ArrayDims) > 0 {
		elemType := t.ElementType()
		elemSize, err := SizeOf(elemType, structs)
		if err != nil {
			return nil, &HeapError{Kind: HeapOverrun}
		}
		count := t.ArrayDims[0]
		elems := make([]types.Value, 0, count)
		for i := 0; i < count; i++ {
			start := i * elemSize
			if start+elemSize > len(data) {
				return nil, &HeapError{Kind: HeapOverrun}
			}
			elem, herr := DeserializeValue(data[start:start+elemSize], elemType, structs)
			if herr != nil {
				return nil, herr
			}
			elems = append(elems, elem)
		}
		return types.NewArray(elems), nil
	}
	switch t.Base {
	case types.BaseInt:
		if len(data) < 4 {
			return nil, &HeapError{Kind: HeapOverrun}
		}
		return types.NewInt(int32(binary.LittleEndian.Uint32(data[:4]))), nil
	case types.BaseChar:
		if len(data) < 1 {
			return nil, &HeapError{Kind: HeapOverrun}
		}
		return types.NewChar(int8(data[0])), nil
	case types.BaseStruct:
		def, ok := structs[t.StructName]
		if !ok {
			return nil, &HeapError{Kind: HeapOverrun}
		}
		sv := types.NewStruct()
		offset := 0
		for _, field := range def.Fields {
			fieldSize, err := SizeOf(field.Type, structs)
			if err != nil {
				return nil, &HeapError{Kind: HeapOverrun}
			}
			if offset+fieldSize > len(data) {
				return nil, &HeapError{Kind: HeapOverrun}
			}
			fv, herr := DeserializeValue(data[offset:offset+fieldSize], field.Type, structs)
			if herr != nil {
				return nil, herr
			}
			sv.Fields[field.Name] = fv
			offset += fieldSize
		}
		return sv, nil
	default:
		return nil, &HeapError{Kind: HeapOverrun}
	}
}
