package parser

import "rewind/types"

// Node is the base interface for all AST nodes
type Node interface {
	Loc() types.SourceLocation
}

// Expr represents an expression node
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node
type Stmt interface {
	Node
	stmtNode()
}

// BinOp identifies a binary operator
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// String returns the C spelling of the operator
func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	default:
		return "?"
	}
}

// UnOp identifies a unary operator
type UnOp int

const (
	OpNeg UnOp = iota // -x
	OpNot             // !x
	OpBitNot          // ~x
	OpPreInc          // ++x
	OpPreDec          // --x
	OpPostInc         // x++
	OpPostDec         // x--
	OpDeref           // *x
	OpAddrOf          // &x
)

// String returns the C spelling of the operator
func (op UnOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpBitNot:
		return "~"
	case OpPreInc, OpPostInc:
		return "++"
	case OpPreDec, OpPostDec:
		return "--"
	case OpDeref:
		return "*"
	case OpAddrOf:
		return "&"
	default:
		return "?"
	}
}

// Param is a function parameter
type Param struct {
	Name string
	Type types.CType
}

// Field is a struct field
type Field struct {
	Name string
	Type types.CType
}

// StructDef is a struct definition
type StructDef struct {
	Name   string
	Fields []Field
	Pos    types.SourceLocation
}

func (d *StructDef) Loc() types.SourceLocation { return d.Pos }

// FunctionDef is a function definition
type FunctionDef struct {
	Name       string
	Params     []Param
	ReturnType types.CType
	Body       []Stmt
	Pos        types.SourceLocation
}

func (d *FunctionDef) Loc() types.SourceLocation { return d.Pos }

// Program is a parsed translation unit
type Program struct {
	Structs   []*StructDef
	Functions []*FunctionDef
}

// Expression AST nodes

// IntLit is an integer literal
type IntLit struct {
	Pos types.SourceLocation
	Val int32
}

func (e *IntLit) Loc() types.SourceLocation { return e.Pos }
func (e *IntLit) exprNode()                 {}

// CharLit is a character literal
type CharLit struct {
	Pos types.SourceLocation
	Val int8
}

func (e *CharLit) Loc() types.SourceLocation { return e.Pos }
func (e *CharLit) exprNode()                 {}

// StringLit is a string literal
type StringLit struct {
	Pos types.SourceLocation
	Val string
}

func (e *StringLit) Loc() types.SourceLocation { return e.Pos }
func (e *StringLit) exprNode()                 {}

// InitListExpr is a brace-enclosed initializer list. Only valid as a
// declaration initializer, one level deep.
type InitListExpr struct {
	Pos   types.SourceLocation
	Elems []Expr
}

func (e *InitListExpr) Loc() types.SourceLocation { return e.Pos }
func (e *InitListExpr) exprNode()                 {}

// NullLit is the NULL constant
type NullLit struct {
	Pos types.SourceLocation
}

func (e *NullLit) Loc() types.SourceLocation { return e.Pos }
func (e *NullLit) exprNode()                 {}

// VariableExpr is a variable reference
type VariableExpr struct {
	Pos  types.SourceLocation
	Name string
}

func (e *VariableExpr) Loc() types.SourceLocation { return e.Pos }
func (e *VariableExpr) exprNode()                 {}

// BinaryExpr is a binary operation
type BinaryExpr struct {
	Pos   types.SourceLocation
	Op    BinOp
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Loc() types.SourceLocation { return e.Pos }
func (e *BinaryExpr) exprNode()                 {}

// UnaryExpr is a unary operation, prefix or postfix
type UnaryExpr struct {
	Pos     types.SourceLocation
	Op      UnOp
	Operand Expr
}

func (e *UnaryExpr) Loc() types.SourceLocation { return e.Pos }
func (e *UnaryExpr) exprNode()                 {}

// TernaryExpr is a conditional expression: cond ? a : b
type TernaryExpr struct {
	Pos       types.SourceLocation
	Condition Expr
	ThenExpr  Expr
	ElseExpr  Expr
}

func (e *TernaryExpr) Loc() types.SourceLocation { return e.Pos }
func (e *TernaryExpr) exprNode()                 {}

// AssignExpr is a simple assignment: lvalue = expr
type AssignExpr struct {
	Pos    types.SourceLocation
	Target Expr
	Value  Expr
}

func (e *AssignExpr) Loc() types.SourceLocation { return e.Pos }
func (e *AssignExpr) exprNode()                 {}

// CompoundAssignExpr is a compound assignment: lvalue op= expr
type CompoundAssignExpr struct {
	Pos    types.SourceLocation
	Target Expr
	Op     BinOp // OpAdd, OpSub, OpMul, OpDiv or OpMod
	Value  Expr
}

func (e *CompoundAssignExpr) Loc() types.SourceLocation { return e.Pos }
func (e *CompoundAssignExpr) exprNode()                 {}

// CallExpr is a function call
type CallExpr struct {
	Pos  types.SourceLocation
	Name string
	Args []Expr
}

func (e *CallExpr) Loc() types.SourceLocation { return e.Pos }
func (e *CallExpr) exprNode()                 {}

// IndexExpr is an array subscript: expr[index]
type IndexExpr struct {
	Pos   types.SourceLocation
	Array Expr
	Index Expr
}

func (e *IndexExpr) Loc() types.SourceLocation { return e.Pos }
func (e *IndexExpr) exprNode()                 {}

// MemberExpr is direct member access: expr.member
type MemberExpr struct {
	Pos    types.SourceLocation
	Object Expr
	Member string
}

func (e *MemberExpr) Loc() types.SourceLocation { return e.Pos }
func (e *MemberExpr) exprNode()                 {}

// ArrowExpr is member access through a pointer: expr->member
type ArrowExpr struct {
	Pos    types.SourceLocation
	Object Expr
	Member string
}

func (e *ArrowExpr) Loc() types.SourceLocation { return e.Pos }
func (e *ArrowExpr) exprNode()                 {}

// CastExpr is an explicit type conversion: (type)expr
type CastExpr struct {
	Pos        types.SourceLocation
	TargetType types.CType
	Operand    Expr
}

func (e *CastExpr) Loc() types.SourceLocation { return e.Pos }
func (e *CastExpr) exprNode()                 {}

// SizeofTypeExpr is sizeof applied to a type name
type SizeofTypeExpr struct {
	Pos        types.SourceLocation
	TargetType types.CType
}

func (e *SizeofTypeExpr) Loc() types.SourceLocation { return e.Pos }
func (e *SizeofTypeExpr) exprNode()                 {}

// SizeofExpr is sizeof applied to an expression
type SizeofExpr struct {
	Pos     types.SourceLocation
	Operand Expr
}

func (e *SizeofExpr) Loc() types.SourceLocation { return e.Pos }
func (e *SizeofExpr) exprNode()                 {}

// Statement AST nodes

// VarDeclStmt is a local variable declaration
type VarDeclStmt struct {
	Pos  types.SourceLocation
	Name string
	Type types.CType
	Init Expr // nil when no initializer
}

func (s *VarDeclStmt) Loc() types.SourceLocation { return s.Pos }
func (s *VarDeclStmt) stmtNode()                 {}

// ExprStmt is an expression used as a statement
type ExprStmt struct {
	Pos  types.SourceLocation
	Expr Expr
}

func (s *ExprStmt) Loc() types.SourceLocation { return s.Pos }
func (s *ExprStmt) stmtNode()                 {}

// ReturnStmt is a return statement
type ReturnStmt struct {
	Pos   types.SourceLocation
	Value Expr // nil for bare return
}

func (s *ReturnStmt) Loc() types.SourceLocation { return s.Pos }
func (s *ReturnStmt) stmtNode()                 {}

// IfStmt is an if statement with optional else branch
type IfStmt struct {
	Pos       types.SourceLocation
	Condition Expr
	Then      []Stmt
	Else      []Stmt // nil when absent
}

func (s *IfStmt) Loc() types.SourceLocation { return s.Pos }
func (s *IfStmt) stmtNode()                 {}

// WhileStmt is a while loop
type WhileStmt struct {
	Pos       types.SourceLocation
	Condition Expr
	Body      []Stmt
}

func (s *WhileStmt) Loc() types.SourceLocation { return s.Pos }
func (s *WhileStmt) stmtNode()                 {}

// DoWhileStmt is a do-while loop
type DoWhileStmt struct {
	Pos       types.SourceLocation
	Body      []Stmt
	Condition Expr
}

func (s *DoWhileStmt) Loc() types.SourceLocation { return s.Pos }
func (s *DoWhileStmt) stmtNode()                 {}

// ForStmt is a for loop. Init, Condition and Increment may each be nil.
type ForStmt struct {
	Pos       types.SourceLocation
	Init      Stmt
	Condition Expr
	Increment Expr
	Body      []Stmt
}

func (s *ForStmt) Loc() types.SourceLocation { return s.Pos }
func (s *ForStmt) stmtNode()                 {}

// CaseClause is one case or default arm of a switch
type CaseClause struct {
	Pos   types.SourceLocation
	Value Expr // nil for default
	Body  []Stmt
}

// SwitchStmt is a switch statement
type SwitchStmt struct {
	Pos   types.SourceLocation
	Expr  Expr
	Cases []CaseClause
}

func (s *SwitchStmt) Loc() types.SourceLocation { return s.Pos }
func (s *SwitchStmt) stmtNode()                 {}

// BreakStmt is a break statement
type BreakStmt struct {
	Pos types.SourceLocation
}

func (s *BreakStmt) Loc() types.SourceLocation { return s.Pos }
func (s *BreakStmt) stmtNode()                 {}

// ContinueStmt is a continue statement
type ContinueStmt struct {
	Pos types.SourceLocation
}

func (s *ContinueStmt) Loc() types.SourceLocation { return s.Pos }
func (s *ContinueStmt) stmtNode()                 {}

// GotoStmt is a goto statement
type GotoStmt struct {
	Pos   types.SourceLocation
	Label string
}

func (s *GotoStmt) Loc() types.SourceLocation { return s.Pos }
func (s *GotoStmt) stmtNode()                 {}

// LabelStmt is a statement label
type LabelStmt struct {
	Pos  types.SourceLocation
	Name string
}

func (s *LabelStmt) Loc() types.SourceLocation { return s.Pos }
func (s *LabelStmt) stmtNode()                 {}

// BlockStmt is a braced statement block introducing a scope
type BlockStmt struct {
	Pos  types.SourceLocation
	Body []Stmt
}

func (s *BlockStmt) Loc() types.SourceLocation { return s.Pos }
func (s *BlockStmt) stmtNode()                 {}
