package interp

import (
	"rewind/memory"
	"rewind/parser"
	"rewind/types"
)

// stackTarget is a resolved stack address: the owning variable and the
// base address its storage starts at.
type stackTarget struct {
	frame *memory.StackFrame
	v     *memory.LocalVar
	base  uint64
	name  string
}

// resolveStackPointer locates the variable whose storage contains addr.
// Interior addresses resolve to array variables; a scalar only matches
// at its base.
func (i *Interpreter) resolveStackPointer(addr uint64) (*stackTarget, bool) {
	for base, ref := range i.stackAddresses {
		frame, ok := i.stack.Frame(ref.FrameIndex)
		if !ok {
			continue
		}
		v, ok := frame.GetVar(ref.Name)
		if !ok || v.Address != base {
			continue
		}
		size, serr := memory.SizeOf(v.Type, i.structs)
		if serr != nil {
			continue
		}
		if addr >= base && addr < base+uint64(size) {
			return &stackTarget{frame: frame, v: v, base: base, name: ref.Name}, true
		}
	}
	return nil, false
}

// arrayOverrunAt diagnoses an address that no variable's storage
// contains: when the nearest variable below it is an array, the access
// is an out-of-bounds element rather than a wild pointer.
func (i *Interpreter) arrayOverrunAt(addr uint64) (idx, size int, overrun bool) {
	var best *stackTarget
	for base, ref := range i.stackAddresses {
		if base > addr {
			continue
		}
		frame, ok := i.stack.Frame(ref.FrameIndex)
		if !ok {
			continue
		}
		v, ok := frame.GetVar(ref.Name)
		if !ok || v.Address != base {
			continue
		}
		if best == nil || base > best.base {
			best = &stackTarget{frame: frame, v: v, base: base, name: ref.Name}
		}
	}
	if best == nil || !best.v.Type.IsArray() {
		return 0, 0, false
	}
	arr, ok := best.v.Value.(types.ArrayValue)
	if !ok {
		return 0, 0, false
	}
	elemSize, serr := memory.SizeOf(best.v.Type.ElementType(), i.structs)
	if serr != nil || elemSize == 0 {
		return 0, 0, false
	}
	return int((addr - best.base) / uint64(elemSize)), len(arr.Elems), true
}

// derefAddress reads the value a pointer refers to. Stack addresses
// resolve through the address map; heap addresses require a recorded
// pointee type, never a best-effort guess.
func (i *Interpreter) derefAddress(addr uint64, loc types.SourceLocation) types.Result {
	if addr == 0 {
		return types.Err(types.NewNullDereference(loc))
	}

	if addr < memory.HeapAddressStart {
		tgt, ok := i.resolveStackPointer(addr)
		if !ok {
			if idx, n, overrun := i.arrayOverrunAt(addr); overrun {
				return types.Err(types.NewBufferOverrun(idx, n, loc))
			}
			return types.Err(types.NewInvalidPointerAt(addr, "address does not name a live stack variable", loc))
		}
		if tgt.v.Type.IsArray() {
			arr, ok := tgt.v.Value.(types.ArrayValue)
			if !ok {
				return types.Err(types.NewInvalidPointerAt(addr, "array variable holds no array value", loc))
			}
			elemSize, serr := memory.SizeOf(tgt.v.Type.ElementType(), i.structs)
			if serr != nil {
				return types.Err(located(serr, loc))
			}
			idx := int((addr - tgt.base) / uint64(elemSize))
			if idx < 0 || idx >= len(arr.Elems) {
				return types.Err(types.NewBufferOverrun(idx, len(arr.Elems), loc))
			}
			elem := arr.Elems[idx]
			if _, uninit := elem.(types.UninitValue); uninit {
				return types.Err(types.NewUninitializedRead(tgt.name, loc))
			}
			return types.Ok(elem.Clone())
		}
		if !tgt.v.Init.IsInitialized() {
			return types.Err(types.NewUninitializedRead(tgt.name, loc))
		}
		return types.Ok(tgt.v.Value.Clone())
	}

	pointee, ok := i.pointerTypes[addr]
	if !ok {
		return types.Err(types.NewInvalidPointerAt(addr, "no recorded pointee type", loc))
	}
	v, herr := memory.ReadValue(i.heap, addr, pointee, i.structs)
	if herr != nil {
		return types.Err(memory.ToRuntime(herr, loc))
	}
	return types.Ok(v)
}

// evalIndex evaluates expr[index]. An array-typed variable has already
// decayed to a pointer by the time it reaches here, so indexing is
// scaled pointer arithmetic plus a dereference; a bare array value
// (a struct field) indexes directly.
func (i *Interpreter) evalIndex(e *parser.IndexExpr) types.Result {
	idxRes := i.evalExpr(e.Index)
	if !idxRes.IsNormal() {
		return idxRes
	}
	idx, ok := coerceToInt(idxRes.Val)
	if !ok {
		return types.Err(types.NewTypeMismatch("int", idxRes.Val.Type().String(), e.Pos))
	}

	// a named array variable keeps its length for the bounds check
	if base, isVar := e.Array.(*parser.VariableExpr); isVar {
		if frame := i.stack.CurrentFrame(); frame != nil {
			if v, found := frame.GetVar(base.Name); found && v.Type.IsArray() {
				arr, isArr := v.Value.(types.ArrayValue)
				if !isArr {
					return types.Err(types.NewInvalidPointerAt(v.Address, "array variable holds no array value", e.Pos))
				}
				if int(idx) < 0 || int(idx) >= len(arr.Elems) {
					return types.Err(types.NewBufferOverrun(int(idx), len(arr.Elems), e.Pos))
				}
				elem := arr.Elems[idx]
				if _, uninit := elem.(types.UninitValue); uninit {
					return types.Err(types.NewUninitializedRead(base.Name, e.Pos))
				}
				return types.Ok(elem.Clone())
			}
		}
	}

	arrRes := i.evalExpr(e.Array)
	if !arrRes.IsNormal() {
		return arrRes
	}

	switch av := arrRes.Val.(type) {
	case types.ArrayValue:
		if int(idx) < 0 || int(idx) >= len(av.Elems) {
			return types.Err(types.NewBufferOverrun(int(idx), len(av.Elems), e.Pos))
		}
		elem := av.Elems[idx]
		if _, uninit := elem.(types.UninitValue); uninit {
			return types.Err(types.NewUninitializedRead("array element", e.Pos))
		}
		return types.Ok(elem.Clone())

	case types.PointerValue:
		addr, err := i.pointerOffsetAddr(av.Addr, idx, e.Pos)
		if err != nil {
			return types.Err(err)
		}
		return i.derefAddress(addr, e.Pos)

	case types.NullValue:
		return types.Err(types.NewNullDereference(e.Pos))

	default:
		return types.Err(types.NewTypeMismatch("array or pointer", arrRes.Val.Type().String(), e.Pos))
	}
}

// evalMember evaluates expr.member. Direct access to a named struct
// variable checks per-field initialization, so reading one assigned
// field of a partially-initialized struct succeeds while an unwritten
// sibling field is still caught.
func (i *Interpreter) evalMember(e *parser.MemberExpr) types.Result {
	if base, ok := e.Object.(*parser.VariableExpr); ok {
		frame := i.stack.CurrentFrame()
		if frame == nil {
			return types.Err(types.NewNoStackFrame(e.Pos))
		}
		v, found := frame.GetVar(base.Name)
		if !found {
			return types.Err(types.NewUndefinedVariable(base.Name, e.Pos))
		}
		sv, isStruct := v.Value.(types.StructValue)
		if !isStruct {
			return types.Err(types.NewTypeMismatch("struct", v.Value.Type().String(), e.Pos))
		}
		if !v.Init.IsFieldInitialized(e.Member) {
			return types.Err(types.NewUninitializedRead(base.Name+"."+e.Member, e.Pos))
		}
		fv, has := sv.Get(e.Member)
		if !has {
			return types.Err(types.NewMissingStructField(v.Type.StructName, e.Member, e.Pos))
		}
		return types.Ok(fv.Clone())
	}

	res := i.evalExpr(e.Object)
	if !res.IsNormal() {
		return res
	}
	sv, isStruct := res.Val.(types.StructValue)
	if !isStruct {
		return types.Err(types.NewTypeMismatch("struct", res.Val.Type().String(), e.Pos))
	}
	fv, has := sv.Get(e.Member)
	if !has {
		structName := ""
		if t, terr := i.inferExprType(e.Object); terr == nil {
			structName = t.StructName
		}
		return types.Err(types.NewMissingStructField(structName, e.Member, e.Pos))
	}
	return types.Ok(fv.Clone())
}

// evalArrow evaluates expr->member
func (i *Interpreter) evalArrow(e *parser.ArrowExpr) types.Result {
	res := i.evalExpr(e.Object)
	if !res.IsNormal() {
		return res
	}

	switch p := res.Val.(type) {
	case types.NullValue:
		return types.Err(types.NewNullDereference(e.Pos))

	case types.PointerValue:
		if p.Addr < memory.HeapAddressStart {
			return i.stackArrowRead(p.Addr, e.Member, e.Pos)
		}
		return i.heapArrowRead(p.Addr, e.Member, e.Pos)

	default:
		return types.Err(types.NewTypeMismatch("pointer", res.Val.Type().String(), e.Pos))
	}
}

func (i *Interpreter) stackArrowRead(addr uint64, member string, loc types.SourceLocation) types.Result {
	tgt, ok := i.resolveStackPointer(addr)
	if !ok {
		return types.Err(types.NewInvalidPointerAt(addr, "address does not name a live stack variable", loc))
	}

	if tgt.v.Type.IsArray() {
		arr, isArr := tgt.v.Value.(types.ArrayValue)
		if !isArr {
			return types.Err(types.NewInvalidPointerAt(addr, "array variable holds no array value", loc))
		}
		elemType := tgt.v.Type.ElementType()
		elemSize, serr := memory.SizeOf(elemType, i.structs)
		if serr != nil {
			return types.Err(located(serr, loc))
		}
		idx := int((addr - tgt.base) / uint64(elemSize))
		if idx < 0 || idx >= len(arr.Elems) {
			return types.Err(types.NewBufferOverrun(idx, len(arr.Elems), loc))
		}
		sv, isStruct := arr.Elems[idx].(types.StructValue)
		if !isStruct {
			return types.Err(types.NewTypeMismatch("struct", arr.Elems[idx].Type().String(), loc))
		}
		fv, has := sv.Get(member)
		if !has {
			return types.Err(types.NewMissingStructField(elemType.StructName, member, loc))
		}
		return types.Ok(fv.Clone())
	}

	sv, isStruct := tgt.v.Value.(types.StructValue)
	if !isStruct {
		return types.Err(types.NewTypeMismatch("struct", tgt.v.Value.Type().String(), loc))
	}
	if !tgt.v.Init.IsFieldInitialized(member) {
		return types.Err(types.NewUninitializedRead(tgt.name+"."+member, loc))
	}
	fv, has := sv.Get(member)
	if !has {
		return types.Err(types.NewMissingStructField(tgt.v.Type.StructName, member, loc))
	}
	return types.Ok(fv.Clone())
}

func (i *Interpreter) heapArrowRead(addr uint64, member string, loc types.SourceLocation) types.Result {
	pointee, ok := i.pointerTypes[addr]
	if !ok {
		return types.Err(types.NewInvalidPointerAt(addr, "no recorded pointee type", loc))
	}
	if pointee.Base != types.BaseStruct || pointee.IsPointer() {
		return types.Err(types.NewTypeMismatch("struct pointer", pointee.String(), loc))
	}

	offset, oerr := memory.FieldOffset(pointee.StructName, member, i.structs)
	if oerr != nil {
		return types.Err(located(oerr, loc))
	}
	fieldType, ferr := memory.FieldType(pointee.StructName, member, i.structs)
	if ferr != nil {
		return types.Err(located(ferr, loc))
	}

	v, herr := memory.ReadValue(i.heap, addr+uint64(offset), fieldType, i.structs)
	if herr != nil {
		return types.Err(memory.ToRuntime(herr, loc))
	}
	return types.Ok(v)
}
