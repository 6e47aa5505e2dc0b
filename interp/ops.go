package interp

import (
	"fmt"
	"math"

	"rewind/memory"
	"rewind/parser"
	"rewind/types"
)

// coerceToInt widens a value to int32 for arithmetic. Chars sign-extend.
func coerceToInt(v types.Value) (int32, bool) {
	switch val := v.(type) {
	case types.IntValue:
		return val.Val, true
	case types.CharValue:
		return int32(val.Val), true
	default:
		return 0, false
	}
}

func boolInt(b bool) types.Value {
	if b {
		return types.NewInt(1)
	}
	return types.NewInt(0)
}

// evalBinary evaluates a binary operation. Logical && and || short
// circuit: the right operand is not evaluated when the left already
// determines the result.
func (i *Interpreter) evalBinary(e *parser.BinaryExpr) types.Result {
	if e.Op == parser.OpAnd || e.Op == parser.OpOr {
		lres := i.evalExpr(e.Left)
		if !lres.IsNormal() {
			return lres
		}
		lb, lerr := i.valueToBool(lres.Val, e.Pos)
		if lerr != nil {
			return types.Err(lerr)
		}
		if e.Op == parser.OpAnd && !lb {
			return types.Ok(types.NewInt(0))
		}
		if e.Op == parser.OpOr && lb {
			return types.Ok(types.NewInt(1))
		}
		rres := i.evalExpr(e.Right)
		if !rres.IsNormal() {
			return rres
		}
		rb, rerr := i.valueToBool(rres.Val, e.Pos)
		if rerr != nil {
			return types.Err(rerr)
		}
		return types.Ok(boolInt(rb))
	}

	lres := i.evalExpr(e.Left)
	if !lres.IsNormal() {
		return lres
	}
	rres := i.evalExpr(e.Right)
	if !rres.IsNormal() {
		return rres
	}
	v, err := i.applyBinary(e.Op, lres.Val, rres.Val, e.Pos)
	if err != nil {
		return types.Err(err)
	}
	return types.Ok(v)
}

// applyBinary computes op on two already-evaluated operands
func (i *Interpreter) applyBinary(op parser.BinOp, l, r types.Value, loc types.SourceLocation) (types.Value, *types.RuntimeError) {
	li, lIsInt := coerceToInt(l)
	ri, rIsInt := coerceToInt(r)
	lp, lIsPtr := l.(types.PointerValue)
	rp, rIsPtr := r.(types.PointerValue)

	switch op {
	case parser.OpAdd:
		switch {
		case lIsInt && rIsInt:
			return checkedAdd(li, ri, loc)
		case lIsPtr && rIsInt:
			addr, err := i.pointerOffsetAddr(lp.Addr, ri, loc)
			if err != nil {
				return nil, err
			}
			return types.NewPointer(addr), nil
		case lIsInt && rIsPtr:
			addr, err := i.pointerOffsetAddr(rp.Addr, li, loc)
			if err != nil {
				return nil, err
			}
			return types.NewPointer(addr), nil
		}
		return nil, types.NewTypeMismatch("numeric or pointer operands", l.Type().String()+" + "+r.Type().String(), loc)

	case parser.OpSub:
		switch {
		case lIsInt && rIsInt:
			return checkedSub(li, ri, loc)
		case lIsPtr && rIsInt:
			addr, err := i.pointerOffsetAddr(lp.Addr, -ri, loc)
			if err != nil {
				return nil, err
			}
			return types.NewPointer(addr), nil
		case lIsPtr && rIsPtr:
			// element-count difference, scaled by the left pointee size;
			// no same-allocation check is made
			scale, _, err := i.pointerScale(lp.Addr, loc)
			if err != nil {
				return nil, err
			}
			if scale == 0 {
				return types.NewInt(0), nil
			}
			return types.NewInt(int32((int64(lp.Addr) - int64(rp.Addr)) / int64(scale))), nil
		}
		return nil, types.NewTypeMismatch("numeric or pointer operands", l.Type().String()+" - "+r.Type().String(), loc)

	case parser.OpMul:
		if lIsInt && rIsInt {
			return checkedMul(li, ri, loc)
		}
		return nil, types.NewTypeMismatch("numeric operands", l.Type().String()+" * "+r.Type().String(), loc)

	case parser.OpDiv:
		if lIsInt && rIsInt {
			if ri == 0 {
				return nil, types.NewDivisionError("Division by zero", loc)
			}
			if li == math.MinInt32 && ri == -1 {
				return nil, types.NewIntegerOverflow(fmt.Sprintf("%d / %d", li, ri), loc)
			}
			return types.NewInt(li / ri), nil
		}
		return nil, types.NewTypeMismatch("numeric operands", l.Type().String()+" / "+r.Type().String(), loc)

	case parser.OpMod:
		if lIsInt && rIsInt {
			if ri == 0 {
				return nil, types.NewDivisionError("Modulo by zero", loc)
			}
			if li == math.MinInt32 && ri == -1 {
				return nil, types.NewIntegerOverflow(fmt.Sprintf("%d %% %d", li, ri), loc)
			}
			return types.NewInt(li % ri), nil
		}
		return nil, types.NewTypeMismatch("numeric operands", l.Type().String()+" % "+r.Type().String(), loc)

	case parser.OpEq, parser.OpNe, parser.OpLt, parser.OpLe, parser.OpGt, parser.OpGe:
		return compareValues(op, l, r, loc)

	case parser.OpBitAnd, parser.OpBitOr, parser.OpBitXor:
		if !lIsInt || !rIsInt {
			return nil, types.NewTypeMismatch("integer operands", l.Type().String()+" "+op.String()+" "+r.Type().String(), loc)
		}
		switch op {
		case parser.OpBitAnd:
			return types.NewInt(li & ri), nil
		case parser.OpBitOr:
			return types.NewInt(li | ri), nil
		default:
			return types.NewInt(li ^ ri), nil
		}

	case parser.OpShl, parser.OpShr:
		if !lIsInt || !rIsInt {
			return nil, types.NewTypeMismatch("integer operands", l.Type().String()+" "+op.String()+" "+r.Type().String(), loc)
		}
		if ri < 0 || ri >= 32 {
			return nil, types.NewIntegerOverflow(fmt.Sprintf("%d %s %d", li, op, ri), loc)
		}
		if op == parser.OpShl {
			return types.NewInt(li << uint(ri)), nil
		}
		return types.NewInt(li >> uint(ri)), nil

	default:
		return nil, types.NewUnsupportedOperation("unknown binary operator", loc)
	}
}

// compareValues compares two scalars. Integers and chars compare as
// widened integers; pointers and NULL compare as addresses, so NULL
// equals a zero pointer.
func compareValues(op parser.BinOp, l, r types.Value, loc types.SourceLocation) (types.Value, *types.RuntimeError) {
	var la, ra int64

	li, lIsInt := coerceToInt(l)
	ri, rIsInt := coerceToInt(r)
	lp, lIsPtr := types.AsPointer(l)
	rp, rIsPtr := types.AsPointer(r)

	switch {
	case lIsInt && rIsInt:
		la, ra = int64(li), int64(ri)
	case lIsPtr && rIsPtr:
		la, ra = int64(lp), int64(rp)
	default:
		return nil, types.NewTypeMismatch("comparable types", l.Type().String()+" "+op.String()+" "+r.Type().String(), loc)
	}

	switch op {
	case parser.OpEq:
		return boolInt(la == ra), nil
	case parser.OpNe:
		return boolInt(la != ra), nil
	case parser.OpLt:
		return boolInt(la < ra), nil
	case parser.OpLe:
		return boolInt(la <= ra), nil
	case parser.OpGt:
		return boolInt(la > ra), nil
	default:
		return boolInt(la >= ra), nil
	}
}

func checkedAdd(a, b int32, loc types.SourceLocation) (types.Value, *types.RuntimeError) {
	s := int64(a) + int64(b)
	if s > math.MaxInt32 || s < math.MinInt32 {
		return nil, types.NewIntegerOverflow(fmt.Sprintf("%d + %d", a, b), loc)
	}
	return types.NewInt(int32(s)), nil
}

func checkedSub(a, b int32, loc types.SourceLocation) (types.Value, *types.RuntimeError) {
	s := int64(a) - int64(b)
	if s > math.MaxInt32 || s < math.MinInt32 {
		return nil, types.NewIntegerOverflow(fmt.Sprintf("%d - %d", a, b), loc)
	}
	return types.NewInt(int32(s)), nil
}

func checkedMul(a, b int32, loc types.SourceLocation) (types.Value, *types.RuntimeError) {
	s := int64(a) * int64(b)
	if s > math.MaxInt32 || s < math.MinInt32 {
		return nil, types.NewIntegerOverflow(fmt.Sprintf("%d * %d", a, b), loc)
	}
	return types.NewInt(int32(s)), nil
}

// evalUnary evaluates a unary operation
func (i *Interpreter) evalUnary(e *parser.UnaryExpr) types.Result {
	switch e.Op {
	case parser.OpNeg:
		res := i.evalExpr(e.Operand)
		if !res.IsNormal() {
			return res
		}
		v, ok := coerceToInt(res.Val)
		if !ok {
			return types.Err(types.NewTypeMismatch("int", res.Val.Type().String(), e.Pos))
		}
		if v == math.MinInt32 {
			return types.Err(types.NewIntegerOverflow(fmt.Sprintf("-(%d)", v), e.Pos))
		}
		return types.Ok(types.NewInt(-v))

	case parser.OpNot:
		res := i.evalExpr(e.Operand)
		if !res.IsNormal() {
			return res
		}
		b, err := i.valueToBool(res.Val, e.Pos)
		if err != nil {
			return types.Err(err)
		}
		return types.Ok(boolInt(!b))

	case parser.OpBitNot:
		res := i.evalExpr(e.Operand)
		if !res.IsNormal() {
			return res
		}
		v, ok := coerceToInt(res.Val)
		if !ok {
			return types.Err(types.NewTypeMismatch("int", res.Val.Type().String(), e.Pos))
		}
		return types.Ok(types.NewInt(^v))

	case parser.OpPreInc, parser.OpPreDec, parser.OpPostInc, parser.OpPostDec:
		return i.evalIncDec(e)

	case parser.OpDeref:
		res := i.evalExpr(e.Operand)
		if !res.IsNormal() {
			return res
		}
		switch p := res.Val.(type) {
		case types.NullValue:
			return types.Err(types.NewNullDereference(e.Pos))
		case types.PointerValue:
			return i.derefAddress(p.Addr, e.Pos)
		default:
			return types.Err(types.NewTypeMismatch("pointer", res.Val.Type().String(), e.Pos))
		}

	case parser.OpAddrOf:
		v, ok := e.Operand.(*parser.VariableExpr)
		if !ok {
			return types.Err(types.NewUnsupportedOperation("address-of supports variables only", e.Pos))
		}
		frame := i.stack.CurrentFrame()
		if frame == nil {
			return types.Err(types.NewNoStackFrame(e.Pos))
		}
		lv, found := frame.GetVar(v.Name)
		if !found {
			return types.Err(types.NewUndefinedVariable(v.Name, e.Pos))
		}
		return types.Ok(types.NewPointer(lv.Address))

	default:
		return types.Err(types.NewUnsupportedOperation("unknown unary operator", e.Pos))
	}
}

// evalIncDec handles the four increment and decrement forms. Pointer
// operands step by the pointee size, the same scaling as pointer
// addition.
func (i *Interpreter) evalIncDec(e *parser.UnaryExpr) types.Result {
	cur := i.evalExpr(e.Operand)
	if !cur.IsNormal() {
		return cur
	}

	op := parser.OpAdd
	if e.Op == parser.OpPreDec || e.Op == parser.OpPostDec {
		op = parser.OpSub
	}
	next, err := i.applyBinary(op, cur.Val, types.NewInt(1), e.Pos)
	if err != nil {
		return types.Err(err)
	}
	if aerr := i.assignLValue(e.Operand, next, e.Pos); aerr != nil {
		return types.Err(aerr)
	}

	if e.Op == parser.OpPreInc || e.Op == parser.OpPreDec {
		return types.Ok(next)
	}
	return types.Ok(cur.Val)
}

// pointerScale returns the element size that scales arithmetic on a
// pointer, plus the pointee type. Stack pointers resolve through the
// address map to the declared type of the pointed-at variable; heap
// pointers require an entry in the pointee-type side table.
func (i *Interpreter) pointerScale(addr uint64, loc types.SourceLocation) (int, types.CType, *types.RuntimeError) {
	if addr < memory.HeapAddressStart {
		tgt, ok := i.resolveStackPointer(addr)
		if !ok {
			return 0, types.CType{}, types.NewInvalidPointerAt(addr, "address does not name a live stack variable", loc)
		}
		pointee := tgt.v.Type
		if pointee.IsArray() {
			pointee = pointee.ElementType()
		}
		size, serr := memory.SizeOf(pointee, i.structs)
		if serr != nil {
			return 0, types.CType{}, located(serr, loc)
		}
		return size, pointee, nil
	}

	pointee, ok := i.pointerTypes[addr]
	if !ok {
		return 0, types.CType{}, types.NewInvalidPointerAt(addr, "no recorded pointee type", loc)
	}
	size, serr := memory.SizeOf(pointee, i.structs)
	if serr != nil {
		return 0, types.CType{}, located(serr, loc)
	}
	return size, pointee, nil
}

// pointerOffsetAddr computes addr + elems scaled by the pointee size.
// A heap result address inherits the pointee type so chained arithmetic
// and later dereference stay typed.
func (i *Interpreter) pointerOffsetAddr(base uint64, elems int32, loc types.SourceLocation) (uint64, *types.RuntimeError) {
	scale, pointee, err := i.pointerScale(base, loc)
	if err != nil {
		return 0, err
	}
	addr := uint64(int64(base) + int64(elems)*int64(scale))
	if base >= memory.HeapAddressStart {
		if _, known := i.pointerTypes[addr]; !known {
			i.pointerTypes[addr] = pointee
		}
	}
	return addr, nil
}
