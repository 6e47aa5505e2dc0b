package interp

import (
	"encoding/binary"

	"rewind/memory"
	"rewind/parser"
	"rewind/types"
)

// assignLValue writes a value through an lvalue expression. The value
// has already been fully evaluated; only the target location is
// resolved here.
func (i *Interpreter) assignLValue(lv parser.Expr, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	switch target := lv.(type) {
	case *parser.VariableExpr:
		return i.assignVariable(target, val, loc)

	case *parser.MemberExpr:
		return i.assignMember(target, val, loc)

	case *parser.ArrowExpr:
		return i.assignArrow(target, val, loc)

	case *parser.UnaryExpr:
		if target.Op != parser.OpDeref {
			return types.NewUnsupportedOperation("expression is not assignable", loc)
		}
		res := i.evalExpr(target.Operand)
		if !res.IsNormal() {
			if res.IsError() {
				return res.Error
			}
			return types.NewUnsupportedOperation("expression is not assignable", loc)
		}
		switch p := res.Val.(type) {
		case types.NullValue:
			return types.NewNullDereference(loc)
		case types.PointerValue:
			return i.writeAddress(p.Addr, val, loc)
		default:
			return types.NewTypeMismatch("pointer", res.Val.Type().String(), loc)
		}

	case *parser.IndexExpr:
		return i.assignIndex(target, val, loc)

	default:
		return types.NewUnsupportedOperation("expression is not assignable", loc)
	}
}

func (i *Interpreter) assignVariable(target *parser.VariableExpr, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	frame := i.stack.CurrentFrame()
	if frame == nil {
		return types.NewNoStackFrame(loc)
	}
	v, ok := frame.GetVar(target.Name)
	if !ok {
		return types.NewUndefinedVariable(target.Name, loc)
	}
	if v.IsConst {
		return types.NewConstModification(target.Name, loc)
	}

	v.Value = coerceValueToType(val, v.Type)
	v.Init = memory.Initialized()

	if p, isPtr := v.Value.(types.PointerValue); isPtr && v.Type.IsPointer() {
		i.pointerTypes[p.Addr] = v.Type.Deref()
	}
	return nil
}

// assignMember writes expr.member. A named struct variable is updated
// in place with per-field initialization tracking; any other object
// expression is read, modified and written back.
func (i *Interpreter) assignMember(target *parser.MemberExpr, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	if base, ok := target.Object.(*parser.VariableExpr); ok {
		frame := i.stack.CurrentFrame()
		if frame == nil {
			return types.NewNoStackFrame(loc)
		}
		v, found := frame.GetVar(base.Name)
		if !found {
			return types.NewUndefinedVariable(base.Name, loc)
		}
		if v.IsConst {
			return types.NewConstModification(base.Name, loc)
		}
		sv, isStruct := v.Value.(types.StructValue)
		if !isStruct {
			return types.NewTypeMismatch("struct", v.Value.Type().String(), loc)
		}
		fieldType, ferr := memory.FieldType(v.Type.StructName, target.Member, i.structs)
		if ferr != nil {
			return located(ferr, loc)
		}
		sv.Fields[target.Member] = coerceValueToType(val, fieldType)
		v.Init.MarkFieldInitialized(target.Member)
		return nil
	}

	res := i.evalExpr(target.Object)
	if !res.IsNormal() {
		if res.IsError() {
			return res.Error
		}
		return types.NewUnsupportedOperation("expression is not assignable", loc)
	}
	sv, isStruct := res.Val.(types.StructValue)
	if !isStruct {
		return types.NewTypeMismatch("struct", res.Val.Type().String(), loc)
	}

	objType, terr := i.inferExprType(target.Object)
	if terr != nil {
		return located(terr, loc)
	}
	fieldType, ferr := memory.FieldType(objType.StructName, target.Member, i.structs)
	if ferr != nil {
		return located(ferr, loc)
	}
	sv.Fields[target.Member] = coerceValueToType(val, fieldType)
	return i.assignLValue(target.Object, sv, loc)
}

func (i *Interpreter) assignArrow(target *parser.ArrowExpr, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	res := i.evalExpr(target.Object)
	if !res.IsNormal() {
		if res.IsError() {
			return res.Error
		}
		return types.NewUnsupportedOperation("expression is not assignable", loc)
	}

	switch p := res.Val.(type) {
	case types.NullValue:
		return types.NewNullDereference(loc)

	case types.PointerValue:
		if p.Addr < memory.HeapAddressStart {
			return i.stackArrowWrite(p.Addr, target.Member, val, loc)
		}
		return i.heapArrowWrite(p.Addr, target.Member, val, loc)

	default:
		return types.NewTypeMismatch("pointer", res.Val.Type().String(), loc)
	}
}

func (i *Interpreter) stackArrowWrite(addr uint64, member string, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	tgt, ok := i.resolveStackPointer(addr)
	if !ok {
		return types.NewInvalidPointerAt(addr, "address does not name a live stack variable", loc)
	}
	if tgt.v.IsConst {
		return types.NewConstModification(tgt.name, loc)
	}

	if tgt.v.Type.IsArray() {
		arr, isArr := tgt.v.Value.(types.ArrayValue)
		if !isArr {
			return types.NewInvalidPointerAt(addr, "array variable holds no array value", loc)
		}
		elemType := tgt.v.Type.ElementType()
		elemSize, serr := memory.SizeOf(elemType, i.structs)
		if serr != nil {
			return located(serr, loc)
		}
		idx := int((addr - tgt.base) / uint64(elemSize))
		if idx < 0 || idx >= len(arr.Elems) {
			return types.NewBufferOverrun(idx, len(arr.Elems), loc)
		}
		sv, isStruct := arr.Elems[idx].(types.StructValue)
		if !isStruct {
			return types.NewTypeMismatch("struct", arr.Elems[idx].Type().String(), loc)
		}
		fieldType, ferr := memory.FieldType(elemType.StructName, member, i.structs)
		if ferr != nil {
			return located(ferr, loc)
		}
		sv.Fields[member] = coerceValueToType(val, fieldType)
		return nil
	}

	sv, isStruct := tgt.v.Value.(types.StructValue)
	if !isStruct {
		return types.NewTypeMismatch("struct", tgt.v.Value.Type().String(), loc)
	}
	fieldType, ferr := memory.FieldType(tgt.v.Type.StructName, member, i.structs)
	if ferr != nil {
		return located(ferr, loc)
	}
	sv.Fields[member] = coerceValueToType(val, fieldType)
	tgt.v.Init.MarkFieldInitialized(member)
	return nil
}

func (i *Interpreter) heapArrowWrite(addr uint64, member string, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	pointee, ok := i.pointerTypes[addr]
	if !ok {
		return types.NewInvalidPointerAt(addr, "no recorded pointee type", loc)
	}
	if pointee.Base != types.BaseStruct || pointee.IsPointer() {
		return types.NewTypeMismatch("struct pointer", pointee.String(), loc)
	}

	offset, oerr := memory.FieldOffset(pointee.StructName, member, i.structs)
	if oerr != nil {
		return located(oerr, loc)
	}
	fieldType, ferr := memory.FieldType(pointee.StructName, member, i.structs)
	if ferr != nil {
		return located(ferr, loc)
	}

	coerced := coerceValueToType(val, fieldType)
	if herr := memory.WriteValue(i.heap, addr+uint64(offset), coerced, fieldType, i.structs); herr != nil {
		return memory.ToRuntime(herr, loc)
	}
	return nil
}

func (i *Interpreter) assignIndex(target *parser.IndexExpr, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	idxRes := i.evalExpr(target.Index)
	if !idxRes.IsNormal() {
		if idxRes.IsError() {
			return idxRes.Error
		}
		return types.NewUnsupportedOperation("expression is not assignable", loc)
	}
	idx, ok := coerceToInt(idxRes.Val)
	if !ok {
		return types.NewTypeMismatch("int", idxRes.Val.Type().String(), loc)
	}

	if base, isVar := target.Array.(*parser.VariableExpr); isVar {
		if frame := i.stack.CurrentFrame(); frame != nil {
			if v, found := frame.GetVar(base.Name); found && v.Type.IsArray() {
				if v.IsConst {
					return types.NewConstModification(base.Name, loc)
				}
				arr, isArr := v.Value.(types.ArrayValue)
				if !isArr {
					return types.NewInvalidPointerAt(v.Address, "array variable holds no array value", loc)
				}
				if int(idx) < 0 || int(idx) >= len(arr.Elems) {
					return types.NewBufferOverrun(int(idx), len(arr.Elems), loc)
				}
				arr.Elems[idx] = coerceValueToType(val, v.Type.ElementType())
				return nil
			}
		}
	}

	arrRes := i.evalExpr(target.Array)
	if !arrRes.IsNormal() {
		if arrRes.IsError() {
			return arrRes.Error
		}
		return types.NewUnsupportedOperation("expression is not assignable", loc)
	}

	switch av := arrRes.Val.(type) {
	case types.ArrayValue:
		// a bare array value only reaches here through a struct field;
		// modify the copy and write it back
		if int(idx) < 0 || int(idx) >= len(av.Elems) {
			return types.NewBufferOverrun(int(idx), len(av.Elems), loc)
		}
		arrType, terr := i.inferExprType(target.Array)
		if terr != nil {
			return located(terr, loc)
		}
		av.Elems[idx] = coerceValueToType(val, arrType.ElementType())
		return i.assignLValue(target.Array, av, loc)

	case types.PointerValue:
		addr, perr := i.pointerOffsetAddr(av.Addr, idx, loc)
		if perr != nil {
			return perr
		}
		return i.writeAddress(addr, val, loc)

	case types.NullValue:
		return types.NewNullDereference(loc)

	default:
		return types.NewTypeMismatch("array or pointer", arrRes.Val.Type().String(), loc)
	}
}

// writeAddress stores a value at a simulated address. Stack addresses
// write the owning variable (or array element) in place; heap addresses
// serialize through the recorded pointee type, falling back to the
// value's own layout when no type was recorded.
func (i *Interpreter) writeAddress(addr uint64, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	if addr == 0 {
		return types.NewNullDereference(loc)
	}

	if addr < memory.HeapAddressStart {
		tgt, ok := i.resolveStackPointer(addr)
		if !ok {
			if idx, n, overrun := i.arrayOverrunAt(addr); overrun {
				return types.NewBufferOverrun(idx, n, loc)
			}
			return types.NewInvalidPointerAt(addr, "address does not name a live stack variable", loc)
		}
		if tgt.v.IsConst {
			return types.NewConstModification(tgt.name, loc)
		}

		if tgt.v.Type.IsArray() {
			arr, isArr := tgt.v.Value.(types.ArrayValue)
			if !isArr {
				return types.NewInvalidPointerAt(addr, "array variable holds no array value", loc)
			}
			elemType := tgt.v.Type.ElementType()
			elemSize, serr := memory.SizeOf(elemType, i.structs)
			if serr != nil {
				return located(serr, loc)
			}
			idx := int((addr - tgt.base) / uint64(elemSize))
			if idx < 0 || idx >= len(arr.Elems) {
				return types.NewBufferOverrun(idx, len(arr.Elems), loc)
			}
			arr.Elems[idx] = coerceValueToType(val, elemType)
			return nil
		}

		tgt.v.Value = coerceValueToType(val, tgt.v.Type)
		tgt.v.Init = memory.Initialized()
		return nil
	}

	if pointee, ok := i.pointerTypes[addr]; ok {
		coerced := coerceValueToType(val, pointee)
		if herr := memory.WriteValue(i.heap, addr, coerced, pointee, i.structs); herr != nil {
			return memory.ToRuntime(herr, loc)
		}
		return nil
	}
	return i.writeRawHeapValue(addr, val, loc)
}

// writeRawHeapValue stores a scalar through an untyped heap pointer
// using the value's own byte layout.
func (i *Interpreter) writeRawHeapValue(addr uint64, val types.Value, loc types.SourceLocation) *types.RuntimeError {
	var data []byte
	switch v := val.(type) {
	case types.IntValue:
		data = make([]byte, 4)
		binary.LittleEndian.PutUint32(data, uint32(v.Val))
	case types.CharValue:
		data = []byte{byte(v.Val)}
	case types.PointerValue:
		data = make([]byte, 8)
		binary.LittleEndian.PutUint64(data, v.Addr)
	case types.NullValue:
		data = make([]byte, 8)
	default:
		return types.NewUnsupportedOperation("cannot store this value through an untyped pointer", loc)
	}
	if herr := i.heap.WriteBytesAt(addr, data); herr != nil {
		return memory.ToRuntime(herr, loc)
	}
	return nil
}
