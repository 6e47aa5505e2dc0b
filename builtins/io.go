package builtins

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"rewind/memory"
	"rewind/parser"
	"rewind/types"
)

// MaxHeapString bounds how far %s will walk the heap looking for a
// null terminator. Configurable through the limits file.
var MaxHeapString = 10000

func builtinPrintf(env Env, args []parser.Expr, loc types.SourceLocation) types.Result {
	if len(args) == 0 {
		return types.Err(types.NewInvalidPrintfFormat("printf requires at least one argument", loc))
	}

	format, ok := args[0].(*parser.StringLit)
	if !ok {
		return types.Err(types.NewInvalidPrintfFormat("printf format must be a string literal", loc))
	}

	vals := make([]types.Value, 0, len(args)-1)
	for _, arg := range args[1:] {
		r := env.EvalExpr(arg)
		if !r.IsNormal() {
			return r
		}
		vals = append(vals, r.Val)
	}

	out, rerr := formatPrintf(env, format.Val, vals, loc)
	if rerr != nil {
		return types.Err(rerr)
	}
	env.PrintOutput(out)

	return types.Ok(types.NewInt(0))
}

// expectIntArg fetches args[idx] as an int, widening chars.
func expectIntArg(args []types.Value, idx int, spec byte, loc types.SourceLocation) (int32, *types.RuntimeError) {
	if idx >= len(args) {
		return 0, types.NewInvalidPrintfFormat("Not enough arguments for format string", loc)
	}
	switch v := args[idx].(type) {
	case types.IntValue:
		return v.Val, nil
	case types.CharValue:
		return int32(v.Val), nil
	default:
		return 0, types.NewInvalidPrintfFormat(
			fmt.Sprintf("%%%c expects int, got %s", spec, args[idx].String()), loc)
	}
}

func formatPrintf(env Env, format string, args []types.Value, loc types.SourceLocation) (string, *types.RuntimeError) {
	var out strings.Builder
	argIdx := 0

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			out.WriteByte(ch)
			continue
		}
		if i+1 >= len(format) {
			out.WriteByte('%')
			break
		}
		i++
		spec := format[i]

		switch spec {
		case '%':
			out.WriteByte('%')
		case 'd':
			n, rerr := expectIntArg(args, argIdx, spec, loc)
			if rerr != nil {
				return "", rerr
			}
			out.WriteString(strconv.FormatInt(int64(n), 10))
			argIdx++
		case 'u':
			n, rerr := expectIntArg(args, argIdx, spec, loc)
			if rerr != nil {
				return "", rerr
			}
			out.WriteString(strconv.FormatUint(uint64(uint32(n)), 10))
			argIdx++
		case 'x':
			n, rerr := expectIntArg(args, argIdx, spec, loc)
			if rerr != nil {
				return "", rerr
			}
			out.WriteString(strconv.FormatUint(uint64(uint32(n)), 16))
			argIdx++
		case 'c':
			n, rerr := expectIntArg(args, argIdx, spec, loc)
			if rerr != nil {
				return "", rerr
			}
			out.WriteByte(byte(n))
			argIdx++
		case 's':
			if argIdx >= len(args) {
				return "", types.NewInvalidPrintfFormat("Not enough arguments for format string", loc)
			}
			ptr, ok := args[argIdx].(types.PointerValue)
			if !ok {
				return "", types.NewInvalidPrintfFormat(
					fmt.Sprintf("%%s expects pointer, got %s", args[argIdx].String()), loc)
			}
			s, rerr := readHeapString(env, ptr.Addr, loc)
			if rerr != nil {
				return "", rerr
			}
			out.WriteString(s)
			argIdx++
		case 'n':
			return "", types.NewUnsupportedOperation("%n format specifier not yet implemented", loc)
		default:
			return "", types.NewInvalidPrintfFormat(
				fmt.Sprintf("Unsupported format specifier: %%%c", spec), loc)
		}
	}

	return out.String(), nil
}

// readHeapString walks the heap from addr until a null terminator.
func readHeapString(env Env, addr uint64, loc types.SourceLocation) (string, *types.RuntimeError) {
	var bytes []byte
	for cur := addr; ; cur++ {
		b, herr := env.Heap().ReadByte(cur)
		if herr != nil {
			return "", memory.ToRuntime(herr, loc)
		}
		if b == 0 {
			break
		}
		bytes = append(bytes, b)
		if len(bytes) > MaxHeapString {
			return "", types.NewInvalidString("String too long or missing null terminator", loc)
		}
	}
	if !utf8.Valid(bytes) {
		return "", types.NewInvalidString("Invalid UTF-8 in string", loc)
	}
	return string(bytes), nil
}

func builtinScanf(env Env, args []parser.Expr, loc types.SourceLocation) types.Result {
	if len(args) == 0 {
		return types.Err(types.NewArgumentCountMismatch("scanf", 1, 0, loc))
	}

	format, ok := args[0].(*parser.StringLit)
	if !ok {
		return types.Err(types.NewInvalidPrintfFormat("scanf format must be a string literal", loc))
	}

	matched, rerr := parseScanfInput(env, format.Val, args[1:], loc)
	if rerr != nil {
		return types.Err(rerr)
	}
	return types.Ok(types.NewInt(int32(matched)))
}

// parseScanfInput walks the format string, consuming tokens from the
// stdin queue and writing converted values through the pointer
// arguments. Reports ScanfNeedsInput when the queue runs dry before all
// specifiers are satisfied. Consumed tokens are echoed to the terminal,
// one echo per scanf call.
func parseScanfInput(env Env, format string, args []parser.Expr, loc types.SourceLocation) (int, *types.RuntimeError) {
	var consumed []string
	argIdx := 0
	matched := 0

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 >= len(format) {
			break
		}
		i++
		spec := format[i]

		if argIdx >= len(args) {
			break
		}

		token, ok := env.NextInputToken()
		if !ok {
			return 0, types.NewScanfNeedsInput(loc)
		}
		consumed = append(consumed, token)

		switch spec {
		case 'd', 'i':
			if n, err := strconv.ParseInt(token, 10, 64); err == nil {
				if rerr := writeScanfValue(env, types.NewInt(int32(n)), args[argIdx], loc); rerr != nil {
					return 0, rerr
				}
				matched++
			}
			argIdx++
		case 'u':
			if n, err := strconv.ParseUint(token, 10, 64); err == nil {
				if rerr := writeScanfValue(env, types.NewInt(int32(uint32(n))), args[argIdx], loc); rerr != nil {
					return 0, rerr
				}
				matched++
			}
			argIdx++
		case 'x', 'X':
			digits := strings.TrimPrefix(strings.TrimPrefix(token, "0x"), "0X")
			if n, err := strconv.ParseUint(digits, 16, 32); err == nil {
				if rerr := writeScanfValue(env, types.NewInt(int32(uint32(n))), args[argIdx], loc); rerr != nil {
					return 0, rerr
				}
				matched++
			}
			argIdx++
		case 'c':
			if len(token) > 0 {
				if rerr := writeScanfValue(env, types.NewChar(int8(token[0])), args[argIdx], loc); rerr != nil {
					return 0, rerr
				}
				matched++
			}
			argIdx++
		case 's':
			if rerr := writeScanfString(env, token, args[argIdx], loc); rerr != nil {
				return 0, rerr
			}
			matched++
			argIdx++
		default:
			// Unknown specifier, skip the argument
			argIdx++
		}
	}

	if len(consumed) > 0 {
		env.EchoInput(strings.Join(consumed, " ")+"\n", loc)
	}

	return matched, nil
}

// writeScanfValue stores a scalar through a scanf pointer argument by
// synthesising the dereference lvalue *(arg).
func writeScanfValue(env Env, v types.Value, arg parser.Expr, loc types.SourceLocation) *types.RuntimeError {
	deref := &parser.UnaryExpr{Pos: loc, Op: parser.OpDeref, Operand: arg}
	return env.AssignLValue(deref, v, loc)
}

// writeScanfString stores a null-terminated string into the buffer a %s
// argument points at, one arg[i] = c assignment per character. Works for
// both stack char arrays and heap char pointers.
func writeScanfString(env Env, s string, arg parser.Expr, loc types.SourceLocation) *types.RuntimeError {
	for i := 0; i < len(s); i++ {
		lv := &parser.IndexExpr{
			Pos:   loc,
			Array: arg,
			Index: &parser.IntLit{Pos: loc, Val: int32(i)},
		}
		if rerr := env.AssignLValue(lv, types.NewChar(int8(s[i])), loc); rerr != nil {
			return rerr
		}
	}
	lv := &parser.IndexExpr{
		Pos:   loc,
		Array: arg,
		Index: &parser.IntLit{Pos: loc, Val: int32(len(s))},
	}
	return env.AssignLValue(lv, types.NewChar(0), loc)
}
