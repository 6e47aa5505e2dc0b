package parser

import (
	"testing"

	"rewind/types"
)

// parseExpr parses a single expression by wrapping it in a function
func parseExpr(t *testing.T, expr string) Expr {
	t.Helper()
	prog := parse(t, "int main() { x = "+expr+"; return 0; }")
	stmt := prog.Functions[0].Body[0].(*ExprStmt)
	return stmt.Expr.(*AssignExpr).Value
}

func TestBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	expr := parseExpr(t, "1 + 2 * 3").(*BinaryExpr)
	if expr.Op != OpAdd {
		t.Fatalf("root op = %s, want +", expr.Op)
	}
	right, ok := expr.Right.(*BinaryExpr)
	if !ok || right.Op != OpMul {
		t.Errorf("right operand is not a multiplication")
	}
}

func TestLeftAssociativity(t *testing.T) {
	// 10 - 4 - 3 parses as (10 - 4) - 3
	expr := parseExpr(t, "10 - 4 - 3").(*BinaryExpr)
	if expr.Op != OpSub {
		t.Fatalf("root op = %s, want -", expr.Op)
	}
	left, ok := expr.Left.(*BinaryExpr)
	if !ok || left.Op != OpSub {
		t.Error("left operand is not a subtraction")
	}
	if lit, ok := expr.Right.(*IntLit); !ok || lit.Val != 3 {
		t.Error("right operand is not 3")
	}
}

func TestComparisonBindsLooserThanArithmetic(t *testing.T) {
	// a + 1 < b * 2 parses as (a + 1) < (b * 2)
	expr := parseExpr(t, "a + 1 < b * 2").(*BinaryExpr)
	if expr.Op != OpLt {
		t.Fatalf("root op = %s, want <", expr.Op)
	}
}

func TestLogicalBindsLoosest(t *testing.T) {
	// a == 1 && b != 2 || c parses as ((a == 1) && (b != 2)) || c
	expr := parseExpr(t, "a == 1 && b != 2 || c").(*BinaryExpr)
	if expr.Op != OpOr {
		t.Fatalf("root op = %s, want ||", expr.Op)
	}
	left, ok := expr.Left.(*BinaryExpr)
	if !ok || left.Op != OpAnd {
		t.Error("left operand is not &&")
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	// (1 + 2) * 3
	expr := parseExpr(t, "(1 + 2) * 3").(*BinaryExpr)
	if expr.Op != OpMul {
		t.Fatalf("root op = %s, want *", expr.Op)
	}
	left, ok := expr.Left.(*BinaryExpr)
	if !ok || left.Op != OpAdd {
		t.Error("left operand is not an addition")
	}
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct {
		input string
		op    UnOp
	}{
		{"-a", OpNeg},
		{"!a", OpNot},
		{"~a", OpBitNot},
		{"++a", OpPreInc},
		{"--a", OpPreDec},
		{"*a", OpDeref},
		{"&a", OpAddrOf},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, ok := parseExpr(t, tt.input).(*UnaryExpr)
			if !ok {
				t.Fatalf("got %T, want *UnaryExpr", parseExpr(t, tt.input))
			}
			if expr.Op != tt.op {
				t.Errorf("op = %s, want %s", expr.Op, tt.op)
			}
		})
	}
}

func TestPostfixIncDec(t *testing.T) {
	inc := parseExpr(t, "a++").(*UnaryExpr)
	if inc.Op != OpPostInc {
		t.Errorf("op = %v, want post-increment", inc.Op)
	}
	dec := parseExpr(t, "a--").(*UnaryExpr)
	if dec.Op != OpPostDec {
		t.Errorf("op = %v, want post-decrement", dec.Op)
	}
}

func TestTernaryExpression(t *testing.T) {
	expr, ok := parseExpr(t, "a > 0 ? a : -a").(*TernaryExpr)
	if !ok {
		t.Fatal("not a ternary expression")
	}
	if _, ok := expr.Condition.(*BinaryExpr); !ok {
		t.Error("condition is not a comparison")
	}
}

func TestChainedAssignment(t *testing.T) {
	// a = b = 1 parses right-associatively
	prog := parse(t, "int main() { a = b = 1; return 0; }")
	outer := prog.Functions[0].Body[0].(*ExprStmt).Expr.(*AssignExpr)
	if _, ok := outer.Value.(*AssignExpr); !ok {
		t.Error("inner assignment not nested in value")
	}
}

func TestCompoundAssignment(t *testing.T) {
	tests := []struct {
		input string
		op    BinOp
	}{
		{"a += 2", OpAdd},
		{"a -= 2", OpSub},
		{"a *= 2", OpMul},
		{"a /= 2", OpDiv},
		{"a %= 2", OpMod},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := parse(t, "int main() { "+tt.input+"; return 0; }")
			expr, ok := prog.Functions[0].Body[0].(*ExprStmt).Expr.(*CompoundAssignExpr)
			if !ok {
				t.Fatal("not a compound assignment")
			}
			if expr.Op != tt.op {
				t.Errorf("op = %s, want %s", expr.Op, tt.op)
			}
		})
	}
}

func TestCastExpression(t *testing.T) {
	expr, ok := parseExpr(t, "(char *)p").(*CastExpr)
	if !ok {
		t.Fatal("not a cast")
	}
	if !expr.TargetType.Equal(types.CharType().WithPointer()) {
		t.Errorf("target type = %s, want char *", expr.TargetType)
	}
}

func TestParenthesizedExprIsNotCast(t *testing.T) {
	// (a) - b must parse as subtraction, not a cast of -b
	expr, ok := parseExpr(t, "(a) - b").(*BinaryExpr)
	if !ok || expr.Op != OpSub {
		t.Fatalf("got %T, want subtraction", parseExpr(t, "(a) - b"))
	}
}

func TestSizeofForms(t *testing.T) {
	t.Run("type", func(t *testing.T) {
		expr, ok := parseExpr(t, "sizeof(int)").(*SizeofTypeExpr)
		if !ok {
			t.Fatal("not a sizeof type expression")
		}
		if !expr.TargetType.Equal(types.IntType()) {
			t.Errorf("target type = %s, want int", expr.TargetType)
		}
	})
	t.Run("struct type", func(t *testing.T) {
		expr, ok := parseExpr(t, "sizeof(struct Point)").(*SizeofTypeExpr)
		if !ok {
			t.Fatal("not a sizeof type expression")
		}
		if !expr.TargetType.Equal(types.StructType("Point")) {
			t.Errorf("target type = %s, want struct Point", expr.TargetType)
		}
	})
	t.Run("expression", func(t *testing.T) {
		if _, ok := parseExpr(t, "sizeof(a)").(*SizeofExpr); !ok {
			t.Fatal("not a sizeof expression")
		}
	})
}

func TestPostfixChains(t *testing.T) {
	// p->next.val[2] builds arrow, member, index in order
	expr := parseExpr(t, "p->next.val[2]")
	idx, ok := expr.(*IndexExpr)
	if !ok {
		t.Fatalf("got %T, want *IndexExpr", expr)
	}
	member, ok := idx.Array.(*MemberExpr)
	if !ok || member.Member != "val" {
		t.Fatal("inner expression is not member access .val")
	}
	arrow, ok := member.Object.(*ArrowExpr)
	if !ok || arrow.Member != "next" {
		t.Fatal("innermost expression is not ->next")
	}
}

func TestFunctionCall(t *testing.T) {
	expr, ok := parseExpr(t, "add(1, x + 2)").(*CallExpr)
	if !ok {
		t.Fatal("not a call")
	}
	if expr.Name != "add" {
		t.Errorf("name = %q, want add", expr.Name)
	}
	if len(expr.Args) != 2 {
		t.Errorf("got %d args, want 2", len(expr.Args))
	}
}

func TestLiterals(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		lit, ok := parseExpr(t, "42").(*IntLit)
		if !ok || lit.Val != 42 {
			t.Errorf("got %v", lit)
		}
	})
	t.Run("char", func(t *testing.T) {
		lit, ok := parseExpr(t, "'z'").(*CharLit)
		if !ok || lit.Val != 'z' {
			t.Errorf("got %v", lit)
		}
	})
	t.Run("string", func(t *testing.T) {
		lit, ok := parseExpr(t, `"hi"`).(*StringLit)
		if !ok || lit.Val != "hi" {
			t.Errorf("got %v", lit)
		}
	})
	t.Run("null", func(t *testing.T) {
		if _, ok := parseExpr(t, "NULL").(*NullLit); !ok {
			t.Error("NULL did not parse as a null literal")
		}
	})
}
