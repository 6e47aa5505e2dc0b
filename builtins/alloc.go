package builtins

import (
	"rewind/memory"
	"rewind/parser"
	"rewind/types"
)

func builtinMalloc(env Env, args []parser.Expr, loc types.SourceLocation) types.Result {
	if len(args) != 1 {
		return types.Err(types.NewArgumentCountMismatch("malloc", 1, len(args), loc))
	}

	r := env.EvalExpr(args[0])
	if !r.IsNormal() {
		return r
	}

	n, ok := r.Val.(types.IntValue)
	if !ok {
		return types.Err(types.NewTypeMismatch("int", r.Val.Type().String(), loc))
	}
	if n.Val <= 0 {
		return types.Err(types.NewInvalidMallocSize(int(n.Val), loc))
	}

	addr, herr := env.Heap().Allocate(int(n.Val))
	if herr != nil {
		return types.Err(memory.ToRuntime(herr, loc))
	}

	return types.Ok(types.NewPointer(addr))
}

func builtinFree(env Env, args []parser.Expr, loc types.SourceLocation) types.Result {
	if len(args) != 1 {
		return types.Err(types.NewArgumentCountMismatch("free", 1, len(args), loc))
	}

	r := env.EvalExpr(args[0])
	if !r.IsNormal() {
		return r
	}

	switch v := r.Val.(type) {
	case types.NullValue:
		// free(NULL) is a no-op
		return types.Ok(types.NewInt(0))
	case types.PointerValue:
		if herr := env.Heap().Free(v.Addr); herr != nil {
			return types.Err(memory.ToRuntime(herr, loc))
		}
		return types.Ok(types.NewInt(0))
	default:
		return types.Err(types.NewTypeMismatch("pointer", r.Val.Type().String(), loc))
	}
}
