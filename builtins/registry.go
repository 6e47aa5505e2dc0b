// Package builtins implements the C library functions the interpreter
// handles directly: printf, scanf, malloc and free.
package builtins

import (
	"rewind/memory"
	"rewind/parser"
	"rewind/types"
)

// Env is the interpreter surface builtins run against. Arguments reach
// builtins unevaluated, so printf can inspect its format literal and
// scanf can write through its pointer arguments.
type Env interface {
	// EvalExpr evaluates an argument expression in the current frame.
	EvalExpr(e parser.Expr) types.Result

	// AssignLValue writes a value through an lvalue expression,
	// applying the usual coercion and const rules.
	AssignLValue(lv parser.Expr, v types.Value, loc types.SourceLocation) *types.RuntimeError

	// Heap exposes the simulated heap.
	Heap() *memory.Heap

	// PrintOutput appends program output attributed to the statement
	// currently executing.
	PrintOutput(text string)

	// EchoInput appends consumed stdin tokens to the terminal.
	EchoInput(text string, loc types.SourceLocation)

	// NextInputToken pops the next whitespace-delimited stdin token.
	// The second return is false when the queue is exhausted.
	NextInputToken() (string, bool)
}

// Func is a builtin function implementation
type Func func(env Env, args []parser.Expr, loc types.SourceLocation) types.Result

// Registry holds all registered builtin functions
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates a registry with the standard builtins registered
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}

	r.Register("printf", builtinPrintf)
	r.Register("scanf", builtinScanf)
	r.Register("malloc", builtinMalloc)
	r.Register("free", builtinFree)

	return r
}

// Register adds a builtin function to the registry
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Get retrieves a builtin function by name
// Returns (function, true) if found, (nil, false) if not found
func (r *Registry) Get(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Has checks if a builtin function is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}
