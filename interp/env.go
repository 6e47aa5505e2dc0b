package interp

import (
	"rewind/parser"
	"rewind/types"
)

// The interpreter is the environment builtins run against. Builtins
// receive their arguments unevaluated so printf can inspect its format
// literal and scanf can write through its pointer arguments.

// EvalExpr evaluates an argument expression in the current frame
func (i *Interpreter) EvalExpr(e parser.Expr) types.Result {
	return i.evalExpr(e)
}

// AssignLValue writes a value through an lvalue expression
func (i *Interpreter) AssignLValue(lv parser.Expr, v types.Value, loc types.SourceLocation) *types.RuntimeError {
	return i.assignLValue(lv, v, loc)
}

// PrintOutput appends program output attributed to the current statement
func (i *Interpreter) PrintOutput(text string) {
	i.terminal.Print(text, i.location)
}

// EchoInput appends consumed stdin tokens to the output buffer
func (i *Interpreter) EchoInput(text string, loc types.SourceLocation) {
	i.terminal.Print(text, loc)
}

// NextInputToken pops the next queued stdin token
func (i *Interpreter) NextInputToken() (string, bool) {
	if len(i.input) == 0 {
		return "", false
	}
	tok := i.input[0]
	i.input = i.input[1:]
	return tok, true
}
