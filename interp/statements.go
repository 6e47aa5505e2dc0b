package interp

import (
	"fmt"

	"rewind/memory"
	"rewind/parser"
	"rewind/snapshot"
	"rewind/types"
)

// located attaches a source location to an error that lacks one. The
// resource-exhaustion kinds stay location-free.
func located(err *types.RuntimeError, loc types.SourceLocation) *types.RuntimeError {
	if err == nil || err.HasLoc {
		return err
	}
	if err.Code == types.ErrOutOfMemory || err.Code == types.ErrSnapshotLimitExceeded {
		return err
	}
	err.Loc = loc
	err.HasLoc = true
	return err
}

// runFunctionBody executes a function body, resolving goto targets
// against the body's top-level statement list.
func (i *Interpreter) runFunctionBody(fn *parser.FunctionDef) types.Result {
	res := i.executeStmts(fn.Body)
	for res.IsGoto() {
		idx := labelIndex(fn.Body, res.Label)
		if idx < 0 {
			return types.Err(types.NewUnsupportedOperation("unknown label '"+res.Label+"'", i.location))
		}
		res = i.executeStmts(fn.Body[idx:])
	}
	return res
}

func labelIndex(body []parser.Stmt, label string) int {
	for idx, s := range body {
		if l, ok := s.(*parser.LabelStmt); ok && l.Name == label {
			return idx
		}
	}
	return -1
}

// executeStmts runs statements in order until one diverts control flow
func (i *Interpreter) executeStmts(stmts []parser.Stmt) types.Result {
	for _, s := range stmts {
		res := i.executeStatement(s)
		if !res.IsNormal() {
			return res
		}
	}
	return types.Ok(nil)
}

// executeScopedBlock runs statements inside a fresh nested scope
func (i *Interpreter) executeScopedBlock(body []parser.Stmt) types.Result {
	frame := i.stack.CurrentFrame()
	if frame == nil {
		return types.Err(types.NewNoStackFrame(i.location))
	}
	frame.PushScope()
	res := i.executeStmts(body)
	frame.PopScope()
	return res
}

// executeStatement runs one statement. Leaf statements record a
// snapshot after mutating state; compound statements snapshot at each
// condition re-evaluation and body entry so every step is independently
// reachable.
func (i *Interpreter) executeStatement(s parser.Stmt) types.Result {
	i.location = s.Loc()
	if frame := i.stack.CurrentFrame(); frame != nil {
		i.tracer.Step(frame.FunctionName, i.location)
	}

	switch st := s.(type) {
	case *parser.VarDeclStmt:
		return i.executeVarDecl(st)

	case *parser.ExprStmt:
		res := i.evalExpr(st.Expr)
		if !res.IsNormal() {
			return res
		}
		return i.statementDone(st.Pos)

	case *parser.ReturnStmt:
		val := types.Value(types.NewInt(0))
		if st.Value != nil {
			res := i.evalExpr(st.Value)
			if !res.IsNormal() {
				return res
			}
			val = res.Val
		}
		if err := i.snapshotAt(st.Pos); err != nil {
			return types.Err(err)
		}
		return types.Return(val)

	case *parser.IfStmt:
		return i.executeIf(st)

	case *parser.WhileStmt:
		return i.executeWhile(st)

	case *parser.DoWhileStmt:
		return i.executeDoWhile(st)

	case *parser.ForStmt:
		return i.executeFor(st)

	case *parser.SwitchStmt:
		return i.executeSwitch(st)

	case *parser.BreakStmt:
		if err := i.snapshotAt(st.Pos); err != nil {
			return types.Err(err)
		}
		return types.Break()

	case *parser.ContinueStmt:
		if err := i.snapshotAt(st.Pos); err != nil {
			return types.Err(err)
		}
		return types.Continue()

	case *parser.GotoStmt:
		if err := i.snapshotAt(st.Pos); err != nil {
			return types.Err(err)
		}
		return types.Goto(st.Label)

	case *parser.LabelStmt:
		return types.Ok(nil)

	case *parser.BlockStmt:
		return i.executeScopedBlock(st.Body)

	default:
		return types.Err(types.NewUnsupportedOperation("unknown statement", s.Loc()))
	}
}

// statementDone records the post-statement snapshot
func (i *Interpreter) statementDone(loc types.SourceLocation) types.Result {
	if err := i.snapshotAt(loc); err != nil {
		return types.Err(err)
	}
	return types.Ok(nil)
}

// executeVarDecl declares a local. Scalars without an initializer stay
// uninitialized with no value; arrays and structs are recursively
// default-constructed (zero ints and chars, null pointers).
func (i *Interpreter) executeVarDecl(s *parser.VarDeclStmt) types.Result {
	frame := i.stack.CurrentFrame()
	if frame == nil {
		return types.Err(types.NewNoStackFrame(s.Pos))
	}

	size, serr := memory.SizeOf(s.Type, i.structs)
	if serr != nil {
		return types.Err(located(serr, s.Pos))
	}
	addr := i.nextStackAddress
	i.nextStackAddress += uint64(size)

	var val types.Value
	var init *memory.InitState
	switch {
	case s.Init != nil:
		if list, ok := s.Init.(*parser.InitListExpr); ok {
			lv, lerr := i.initListValue(list, s.Type)
			if lerr != nil {
				return types.Err(lerr)
			}
			val = lv
		} else {
			res := i.evalExpr(s.Init)
			if !res.IsNormal() {
				return res
			}
			val = coerceValueToType(res.Val, s.Type)
		}
		init = memory.Initialized()
	case s.Type.IsArray() || (s.Type.Base == types.BaseStruct && !s.Type.IsPointer()):
		dv, derr := i.defaultValue(s.Type)
		if derr != nil {
			return types.Err(located(derr, s.Pos))
		}
		val = dv
		init = memory.Initialized()
	default:
		init = memory.Uninitialized()
	}

	frame.DeclareVar(s.Name, s.Type, init, addr)
	if val != nil {
		v, _ := frame.GetVar(s.Name)
		v.Value = val
	}
	i.stackAddresses[addr] = snapshot.VarRef{FrameIndex: i.stack.Depth() - 1, Name: s.Name}

	if p, ok := val.(types.PointerValue); ok && s.Type.IsPointer() {
		i.pointerTypes[p.Addr] = s.Type.Deref()
	}

	return i.statementDone(s.Pos)
}

// initListValue builds an array or struct value from a brace
// initializer. Elements beyond the list fall back to the default
// construction.
func (i *Interpreter) initListValue(list *parser.InitListExpr, t types.CType) (types.Value, *types.RuntimeError) {
	if t.IsArray() {
		dim := t.ArrayDims[0]
		if dim == types.UnsizedDim {
			return nil, types.NewUnsupportedOperation("array declaration requires a size", list.Pos)
		}
		if len(list.Elems) > dim {
			return nil, types.NewUnsupportedOperation(
				fmt.Sprintf("too many initializers: %d for an array of %d", len(list.Elems), dim), list.Pos)
		}
		elemType := t.ElementType()
		elems := make([]types.Value, dim)
		for k := 0; k < dim; k++ {
			if k < len(list.Elems) {
				res := i.evalExpr(list.Elems[k])
				if !res.IsNormal() {
					return nil, res.Error
				}
				elems[k] = coerceValueToType(res.Val, elemType)
				continue
			}
			dv, derr := i.defaultValue(elemType)
			if derr != nil {
				return nil, derr
			}
			elems[k] = dv
		}
		return types.NewArray(elems), nil
	}

	if t.Base == types.BaseStruct && !t.IsPointer() {
		def, ok := i.structs[t.StructName]
		if !ok {
			return nil, types.NewStructNotDefined(t.StructName, list.Pos)
		}
		if len(list.Elems) > len(def.Fields) {
			return nil, types.NewUnsupportedOperation(
				fmt.Sprintf("too many initializers: %d for struct %s", len(list.Elems), t.StructName), list.Pos)
		}
		sv := types.NewStruct()
		for k, f := range def.Fields {
			if k < len(list.Elems) {
				res := i.evalExpr(list.Elems[k])
				if !res.IsNormal() {
					return nil, res.Error
				}
				sv.Fields[f.Name] = coerceValueToType(res.Val, f.Type)
				continue
			}
			dv, derr := i.defaultValue(f.Type)
			if derr != nil {
				return nil, derr
			}
			sv.Fields[f.Name] = dv
		}
		return sv, nil
	}

	if len(list.Elems) == 1 {
		res := i.evalExpr(list.Elems[0])
		if !res.IsNormal() {
			return nil, res.Error
		}
		return coerceValueToType(res.Val, t), nil
	}
	return nil, types.NewUnsupportedOperation("initializer list on a scalar declaration", list.Pos)
}

// defaultValue builds the zero value for an aggregate declaration
func (i *Interpreter) defaultValue(t types.CType) (types.Value, *types.RuntimeError) {
	if t.IsArray() {
		dim := t.ArrayDims[0]
		if dim == types.UnsizedDim {
			return nil, types.NewUnsupportedOperation("array declaration requires a size", i.location)
		}
		elemType := t.ElementType()
		elems := make([]types.Value, dim)
		for k := range elems {
			ev, err := i.defaultValue(elemType)
			if err != nil {
				return nil, err
			}
			elems[k] = ev
		}
		return types.NewArray(elems), nil
	}
	if t.IsPointer() {
		return types.NewNull(), nil
	}
	switch t.Base {
	case types.BaseChar:
		return types.NewChar(0), nil
	case types.BaseStruct:
		def, ok := i.structs[t.StructName]
		if !ok {
			return nil, types.NewStructNotDefined(t.StructName, i.location)
		}
		sv := types.NewStruct()
		for _, f := range def.Fields {
			fv, err := i.defaultValue(f.Type)
			if err != nil {
				return nil, err
			}
			sv.Fields[f.Name] = fv
		}
		return sv, nil
	default:
		return types.NewInt(0), nil
	}
}

func (i *Interpreter) executeIf(s *parser.IfStmt) types.Result {
	res := i.evalExpr(s.Condition)
	if !res.IsNormal() {
		return res
	}
	cond, cerr := i.valueToBool(res.Val, s.Pos)
	if cerr != nil {
		return types.Err(cerr)
	}
	if err := i.snapshotAt(s.Pos); err != nil {
		return types.Err(err)
	}
	if cond {
		return i.executeScopedBlock(s.Then)
	}
	if s.Else != nil {
		return i.executeScopedBlock(s.Else)
	}
	return types.Ok(nil)
}

// loopSignal is the folded outcome of one loop body iteration
type loopSignal int

const (
	loopNext  loopSignal = iota // run the next iteration
	loopBreak                   // break: leave the loop cleanly
	loopExit                    // return, goto, or error: unwind further
)

// executeLoopBody runs one iteration in a fresh scope and folds the
// result: Break and Continue are consumed here, everything stronger
// propagates to the caller.
func (i *Interpreter) executeLoopBody(body []parser.Stmt) (loopSignal, types.Result) {
	frame := i.stack.CurrentFrame()
	if frame == nil {
		return loopExit, types.Err(types.NewNoStackFrame(i.location))
	}
	frame.PushScope()
	res := i.executeStmts(body)
	frame.PopScope()

	switch {
	case res.IsNormal(), res.IsContinue():
		return loopNext, types.Result{}
	case res.IsBreak():
		return loopBreak, types.Result{}
	default:
		return loopExit, res
	}
}

func (i *Interpreter) executeWhile(s *parser.WhileStmt) types.Result {
	for {
		res := i.evalExpr(s.Condition)
		if !res.IsNormal() {
			return res
		}
		cond, cerr := i.valueToBool(res.Val, s.Pos)
		if cerr != nil {
			return types.Err(cerr)
		}
		if err := i.snapshotAt(s.Pos); err != nil {
			return types.Err(err)
		}
		if !cond {
			break
		}
		sig, out := i.executeLoopBody(s.Body)
		if sig == loopExit {
			return out
		}
		if sig == loopBreak {
			break
		}
	}
	return types.Ok(nil)
}

func (i *Interpreter) executeDoWhile(s *parser.DoWhileStmt) types.Result {
	for {
		if err := i.snapshotAt(s.Pos); err != nil {
			return types.Err(err)
		}
		sig, out := i.executeLoopBody(s.Body)
		if sig == loopExit {
			return out
		}
		if sig == loopBreak {
			break
		}
		res := i.evalExpr(s.Condition)
		if !res.IsNormal() {
			return res
		}
		cond, cerr := i.valueToBool(res.Val, s.Pos)
		if cerr != nil {
			return types.Err(cerr)
		}
		if !cond {
			if err := i.snapshotAt(s.Pos); err != nil {
				return types.Err(err)
			}
			break
		}
	}
	return types.Ok(nil)
}

// executeFor runs the init clause in its own scope so the loop variable
// disappears when the loop exits.
func (i *Interpreter) executeFor(s *parser.ForStmt) types.Result {
	frame := i.stack.CurrentFrame()
	if frame == nil {
		return types.Err(types.NewNoStackFrame(s.Pos))
	}
	frame.PushScope()
	res := i.forLoop(s)
	frame.PopScope()
	return res
}

func (i *Interpreter) forLoop(s *parser.ForStmt) types.Result {
	if s.Init != nil {
		res := i.executeStatement(s.Init)
		if !res.IsNormal() {
			return res
		}
	}
	for {
		if s.Condition != nil {
			res := i.evalExpr(s.Condition)
			if !res.IsNormal() {
				return res
			}
			cond, cerr := i.valueToBool(res.Val, s.Pos)
			if cerr != nil {
				return types.Err(cerr)
			}
			if err := i.snapshotAt(s.Pos); err != nil {
				return types.Err(err)
			}
			if !cond {
				break
			}
		}
		sig, out := i.executeLoopBody(s.Body)
		if sig == loopExit {
			return out
		}
		if sig == loopBreak {
			break
		}
		if s.Increment != nil {
			res := i.evalExpr(s.Increment)
			if !res.IsNormal() {
				return res
			}
		}
	}
	return types.Ok(nil)
}

// executeSwitch evaluates the discriminant once, finds the matching
// case (or default), then executes statements from that point through
// the end of the case list unless a break is hit.
func (i *Interpreter) executeSwitch(s *parser.SwitchStmt) types.Result {
	res := i.evalExpr(s.Expr)
	if !res.IsNormal() {
		return res
	}
	if err := i.snapshotAt(s.Pos); err != nil {
		return types.Err(err)
	}

	match := -1
	defaultIdx := -1
	for idx, c := range s.Cases {
		if c.Value == nil {
			if defaultIdx < 0 {
				defaultIdx = idx
			}
			continue
		}
		vres := i.evalExpr(c.Value)
		if !vres.IsNormal() {
			return vres
		}
		if res.Val.Equal(vres.Val) {
			match = idx
			break
		}
	}
	if match < 0 {
		match = defaultIdx
	}
	if match < 0 {
		return types.Ok(nil)
	}

	frame := i.stack.CurrentFrame()
	if frame == nil {
		return types.Err(types.NewNoStackFrame(s.Pos))
	}
	frame.PushScope()
	out := types.Ok(nil)
	for idx := match; idx < len(s.Cases); idx++ {
		c := s.Cases[idx]
		if err := i.snapshotAt(c.Pos); err != nil {
			out = types.Err(err)
			break
		}
		r := i.executeStmts(c.Body)
		if r.IsBreak() {
			break
		}
		if !r.IsNormal() {
			out = r
			break
		}
	}
	frame.PopScope()
	return out
}
