package interp

import (
	"rewind/memory"
	"rewind/parser"
	"rewind/types"
)

// coerceValueToType converts a scalar on assignment to a differently
// typed target: int truncates to char, char widens to int. Pointers,
// arrays and structs pass through unchanged.
func coerceValueToType(v types.Value, t types.CType) types.Value {
	if t.IsPointer() || t.IsArray() {
		return v
	}
	switch t.Base {
	case types.BaseChar:
		if iv, ok := v.(types.IntValue); ok {
			return types.NewChar(int8(iv.Val))
		}
	case types.BaseInt:
		if cv, ok := v.(types.CharValue); ok {
			return types.NewInt(int32(cv.Val))
		}
	}
	return v
}

// valueToBool converts a value for use as a condition: integers and
// chars are true iff nonzero, a non-null pointer is true, null is
// false. Anything else is a type error.
func (i *Interpreter) valueToBool(v types.Value, loc types.SourceLocation) (bool, *types.RuntimeError) {
	switch val := v.(type) {
	case types.IntValue:
		return val.Val != 0, nil
	case types.CharValue:
		return val.Val != 0, nil
	case types.PointerValue:
		return val.Addr != 0, nil
	case types.NullValue:
		return false, nil
	default:
		return false, types.NewTypeMismatch("int or pointer", v.Type().String(), loc)
	}
}

// inferExprType predicts the static type of an expression without
// evaluating it. sizeof(expr) and member writeback rely on this.
func (i *Interpreter) inferExprType(e parser.Expr) (types.CType, *types.RuntimeError) {
	switch ex := e.(type) {
	case *parser.IntLit:
		return types.IntType(), nil

	case *parser.CharLit:
		return types.CharType(), nil

	case *parser.StringLit:
		return types.CharType().WithPointer(), nil

	case *parser.NullLit:
		return types.VoidType().WithPointer(), nil

	case *parser.VariableExpr:
		frame := i.stack.CurrentFrame()
		if frame == nil {
			return types.CType{}, types.NewNoStackFrame(ex.Pos)
		}
		v, ok := frame.GetVar(ex.Name)
		if !ok {
			return types.CType{}, types.NewUndefinedVariable(ex.Name, ex.Pos)
		}
		return v.Type, nil

	case *parser.BinaryExpr:
		if ex.Op == parser.OpAdd || ex.Op == parser.OpSub {
			lt, err := i.inferExprType(ex.Left)
			if err != nil {
				return types.CType{}, err
			}
			if lt.IsPointer() {
				return lt, nil
			}
			if lt.IsArray() {
				return lt.ElementType().WithPointer(), nil
			}
			rt, rerr := i.inferExprType(ex.Right)
			if rerr != nil {
				return types.CType{}, rerr
			}
			if rt.IsPointer() {
				return rt, nil
			}
		}
		return types.IntType(), nil

	case *parser.UnaryExpr:
		switch ex.Op {
		case parser.OpDeref:
			t, err := i.inferExprType(ex.Operand)
			if err != nil {
				return types.CType{}, err
			}
			if t.IsArray() {
				return t.ElementType(), nil
			}
			return t.Deref(), nil
		case parser.OpAddrOf:
			t, err := i.inferExprType(ex.Operand)
			if err != nil {
				return types.CType{}, err
			}
			return t.WithPointer(), nil
		case parser.OpNot:
			return types.IntType(), nil
		default:
			return i.inferExprType(ex.Operand)
		}

	case *parser.TernaryExpr:
		return i.inferExprType(ex.ThenExpr)

	case *parser.AssignExpr:
		return i.inferExprType(ex.Target)

	case *parser.CompoundAssignExpr:
		return i.inferExprType(ex.Target)

	case *parser.CallExpr:
		if fn, ok := i.functions[ex.Name]; ok {
			return fn.ReturnType, nil
		}
		if ex.Name == "malloc" {
			return types.VoidType().WithPointer(), nil
		}
		return types.IntType(), nil

	case *parser.IndexExpr:
		t, err := i.inferExprType(ex.Array)
		if err != nil {
			return types.CType{}, err
		}
		if t.IsArray() {
			return t.ElementType(), nil
		}
		return t.Deref(), nil

	case *parser.MemberExpr:
		t, err := i.inferExprType(ex.Object)
		if err != nil {
			return types.CType{}, err
		}
		return memory.FieldType(t.StructName, ex.Member, i.structs)

	case *parser.ArrowExpr:
		t, err := i.inferExprType(ex.Object)
		if err != nil {
			return types.CType{}, err
		}
		pointee := t.Deref()
		return memory.FieldType(pointee.StructName, ex.Member, i.structs)

	case *parser.CastExpr:
		return ex.TargetType, nil

	case *parser.SizeofTypeExpr, *parser.SizeofExpr:
		return types.IntType(), nil

	default:
		return types.CType{}, types.NewUnsupportedOperation("cannot infer expression type", e.Loc())
	}
}
