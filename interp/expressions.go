package interp

import (
	"rewind/memory"
	"rewind/parser"
	"rewind/snapshot"
	"rewind/types"
)

// evalExpr evaluates one expression node
func (i *Interpreter) evalExpr(e parser.Expr) types.Result {
	switch ex := e.(type) {
	case *parser.IntLit:
		return types.Ok(types.NewInt(ex.Val))

	case *parser.CharLit:
		return types.Ok(types.NewChar(ex.Val))

	case *parser.NullLit:
		return types.Ok(types.NewNull())

	case *parser.StringLit:
		return i.evalStringLit(ex)

	case *parser.VariableExpr:
		return i.evalVariable(ex)

	case *parser.BinaryExpr:
		return i.evalBinary(ex)

	case *parser.UnaryExpr:
		return i.evalUnary(ex)

	case *parser.TernaryExpr:
		return i.evalTernary(ex)

	case *parser.AssignExpr:
		res := i.evalExpr(ex.Value)
		if !res.IsNormal() {
			return res
		}
		if err := i.assignLValue(ex.Target, res.Val, ex.Pos); err != nil {
			return types.Err(err)
		}
		return types.Ok(res.Val)

	case *parser.CompoundAssignExpr:
		return i.evalCompoundAssign(ex)

	case *parser.CallExpr:
		return i.evalCall(ex)

	case *parser.IndexExpr:
		return i.evalIndex(ex)

	case *parser.MemberExpr:
		return i.evalMember(ex)

	case *parser.ArrowExpr:
		return i.evalArrow(ex)

	case *parser.CastExpr:
		return i.evalCast(ex)

	case *parser.SizeofTypeExpr:
		size, serr := memory.SizeOf(ex.TargetType, i.structs)
		if serr != nil {
			return types.Err(located(serr, ex.Pos))
		}
		return types.Ok(types.NewInt(int32(size)))

	case *parser.SizeofExpr:
		t, terr := i.inferExprType(ex.Operand)
		if terr != nil {
			return types.Err(located(terr, ex.Pos))
		}
		size, serr := memory.SizeOf(t, i.structs)
		if serr != nil {
			return types.Err(located(serr, ex.Pos))
		}
		return types.Ok(types.NewInt(int32(size)))

	case *parser.InitListExpr:
		return types.Err(types.NewUnsupportedOperation("initializer list outside a declaration", ex.Pos))

	default:
		return types.Err(types.NewUnsupportedOperation("unknown expression", e.Loc()))
	}
}

// evalStringLit allocates the literal on the heap: len+1 bytes, NUL
// terminated, every byte initialized, pointee recorded as char.
func (i *Interpreter) evalStringLit(e *parser.StringLit) types.Result {
	data := append([]byte(e.Val), 0)
	addr, herr := i.heap.Allocate(len(data))
	if herr != nil {
		return types.Err(memory.ToRuntime(herr, e.Pos))
	}
	if werr := i.heap.WriteBytesAt(addr, data); werr != nil {
		return types.Err(memory.ToRuntime(werr, e.Pos))
	}
	i.pointerTypes[addr] = types.CharType()
	i.tracer.Alloc(addr, len(data), e.Pos)
	return types.Ok(types.NewPointer(addr))
}

// evalVariable reads a variable from the current frame. An array-typed
// variable decays to a pointer to its first element without an
// initialization check; any other uninitialized read is an error.
func (i *Interpreter) evalVariable(e *parser.VariableExpr) types.Result {
	frame := i.stack.CurrentFrame()
	if frame == nil {
		return types.Err(types.NewNoStackFrame(e.Pos))
	}
	v, ok := frame.GetVar(e.Name)
	if !ok {
		return types.Err(types.NewUndefinedVariable(e.Name, e.Pos))
	}
	if v.Type.IsArray() {
		return types.Ok(types.NewPointer(v.Address))
	}
	if !v.Init.IsInitialized() {
		return types.Err(types.NewUninitializedRead(e.Name, e.Pos))
	}
	return types.Ok(v.Value.Clone())
}

func (i *Interpreter) evalTernary(e *parser.TernaryExpr) types.Result {
	res := i.evalExpr(e.Condition)
	if !res.IsNormal() {
		return res
	}
	cond, cerr := i.valueToBool(res.Val, e.Pos)
	if cerr != nil {
		return types.Err(cerr)
	}
	if cond {
		return i.evalExpr(e.ThenExpr)
	}
	return i.evalExpr(e.ElseExpr)
}

// evalCompoundAssign evaluates the right-hand side before the target
// location is read or written.
func (i *Interpreter) evalCompoundAssign(e *parser.CompoundAssignExpr) types.Result {
	rhs := i.evalExpr(e.Value)
	if !rhs.IsNormal() {
		return rhs
	}
	cur := i.evalExpr(e.Target)
	if !cur.IsNormal() {
		return cur
	}
	out, err := i.applyBinary(e.Op, cur.Val, rhs.Val, e.Pos)
	if err != nil {
		return types.Err(err)
	}
	if aerr := i.assignLValue(e.Target, out, e.Pos); aerr != nil {
		return types.Err(aerr)
	}
	return types.Ok(out)
}

// evalCast converts scalars between char and int. Casting a pointer to
// a pointer type records the new pointee type for later dereference.
func (i *Interpreter) evalCast(e *parser.CastExpr) types.Result {
	res := i.evalExpr(e.Operand)
	if !res.IsNormal() {
		return res
	}
	if e.TargetType.IsPointer() {
		if p, ok := res.Val.(types.PointerValue); ok {
			i.pointerTypes[p.Addr] = e.TargetType.Deref()
		}
		return types.Ok(res.Val)
	}
	return types.Ok(coerceValueToType(res.Val, e.TargetType))
}

// evalCall dispatches builtins by name ahead of user functions. A user
// call snapshots at the call site, evaluates all arguments in the
// caller's frame, then pushes the callee frame with parameters bound as
// already-initialized locals.
func (i *Interpreter) evalCall(e *parser.CallExpr) types.Result {
	if fn, ok := i.builtins.Get(e.Name); ok {
		i.tracer.Call(e.Name, i.executionDepth, e.Pos)
		res := fn(i, e.Args, e.Pos)
		if res.IsNormal() {
			if e.Name == "malloc" {
				if p, ok := res.Val.(types.PointerValue); ok {
					size := 0
					if blk, berr := i.heap.Block(p.Addr); berr == nil {
						size = blk.Size
					}
					i.tracer.Alloc(p.Addr, size, e.Pos)
				}
			}
			i.tracer.Return(e.Name, i.executionDepth, res.Val)
		}
		return res
	}

	fn, ok := i.functions[e.Name]
	if !ok {
		return types.Err(types.NewUndefinedFunction(e.Name, e.Pos))
	}
	if len(e.Args) != len(fn.Params) {
		return types.Err(types.NewArgumentCountMismatch(e.Name, len(fn.Params), len(e.Args), e.Pos))
	}

	if err := i.snapshotAt(e.Pos); err != nil {
		return types.Err(err)
	}

	args := make([]types.Value, len(e.Args))
	for k, a := range e.Args {
		res := i.evalExpr(a)
		if !res.IsNormal() {
			return res
		}
		args[k] = coerceValueToType(res.Val, fn.Params[k].Type)
	}

	callerLoc := e.Pos
	i.executionDepth++
	i.tracer.Call(fn.Name, i.executionDepth, e.Pos)
	i.stack.PushFrame(fn.Name)
	frame := i.stack.CurrentFrame()

	for k, p := range fn.Params {
		size, serr := memory.SizeOf(p.Type, i.structs)
		if serr != nil {
			return types.Err(located(serr, e.Pos))
		}
		addr := i.nextStackAddress
		i.nextStackAddress += uint64(size)
		frame.DeclareVar(p.Name, p.Type, memory.Initialized(), addr)
		v, _ := frame.GetVar(p.Name)
		v.Value = args[k]
		i.stackAddresses[addr] = snapshot.VarRef{FrameIndex: i.stack.Depth() - 1, Name: p.Name}

		if pv, ok := args[k].(types.PointerValue); ok && p.Type.IsPointer() {
			if _, known := i.pointerTypes[pv.Addr]; !known {
				i.pointerTypes[pv.Addr] = p.Type.Deref()
			}
		}
	}

	i.location = fn.Pos
	if err := i.takeSnapshot(); err != nil {
		return types.Err(err)
	}

	res := i.runFunctionBody(fn)
	var ret types.Value
	switch {
	case res.IsError():
		// the failing frame stays on the stack so it remains visible
		return res
	case res.IsReturn():
		ret = coerceValueToType(res.Val, fn.ReturnType)
	default:
		ret = types.NewInt(0)
	}

	i.stack.PopFrame()
	poppedIndex := i.stack.Depth()
	for addr, ref := range i.stackAddresses {
		if ref.FrameIndex == poppedIndex {
			delete(i.stackAddresses, addr)
		}
	}
	i.executionDepth--
	i.tracer.Return(fn.Name, i.executionDepth, ret)
	i.location = callerLoc

	return types.Ok(ret)
}
