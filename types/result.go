package types

// ControlFlow represents the control flow state of evaluation
type ControlFlow int

const (
	FlowNormal   ControlFlow = iota // Normal execution
	FlowReturn                      // Return statement
	FlowBreak                       // Break statement
	FlowContinue                    // Continue statement
	FlowGoto                        // Goto statement (Label holds the target)
	FlowError                       // Fatal runtime error
)

// Result represents the outcome of evaluating an expression or statement.
// This unifies normal values, control flow (return/break/continue/goto),
// and fatal errors.
type Result struct {
	Val   Value        // The value (if Flow == FlowNormal or FlowReturn)
	Flow  ControlFlow  // Control flow state
	Error *RuntimeError // Only set when Flow == FlowError
	Label string       // Goto target label (only when Flow == FlowGoto)
}

// Ok creates a Result for normal execution with a value
func Ok(v Value) Result {
	return Result{Val: v, Flow: FlowNormal}
}

// Return creates a Result for a return statement
func Return(v Value) Result {
	return Result{Val: v, Flow: FlowReturn}
}

// Err creates a Result for a fatal runtime error
func Err(e *RuntimeError) Result {
	return Result{Flow: FlowError, Error: e}
}

// Break creates a Result for a break statement
func Break() Result {
	return Result{Flow: FlowBreak}
}

// Continue creates a Result for a continue statement
func Continue() Result {
	return Result{Flow: FlowContinue}
}

// Goto creates a Result for a goto statement
func Goto(label string) Result {
	return Result{Flow: FlowGoto, Label: label}
}

// IsNormal returns true if this is normal execution
func (r Result) IsNormal() bool {
	return r.Flow == FlowNormal
}

// IsError returns true if this is a fatal error
func (r Result) IsError() bool {
	return r.Flow == FlowError
}

// IsReturn returns true if this is a return statement
func (r Result) IsReturn() bool {
	return r.Flow == FlowReturn
}

// IsBreak returns true if this is a break statement
func (r Result) IsBreak() bool {
	return r.Flow == FlowBreak
}

// IsContinue returns true if this is a continue statement
func (r Result) IsContinue() bool {
	return r.Flow == FlowContinue
}

// IsGoto returns true if this is a goto statement
func (r Result) IsGoto() bool {
	return r.Flow == FlowGoto
}
