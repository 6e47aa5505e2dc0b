package parser

import (
	"testing"

	"rewind/types"
)

func parse(t *testing.T, source string) *Program {
	t.Helper()
	prog, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return prog
}

func TestParseMinimalProgram(t *testing.T) {
	prog := parse(t, "int main() { return 0; }")

	if len(prog.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "main" {
		t.Errorf("function name = %q, want main", fn.Name)
	}
	if !fn.ReturnType.Equal(types.IntType()) {
		t.Errorf("return type = %s, want int", fn.ReturnType)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ReturnStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ReturnStmt", fn.Body[0])
	}
	lit, ok := ret.Value.(*IntLit)
	if !ok || lit.Val != 0 {
		t.Errorf("return value = %v, want 0", ret.Value)
	}
}

func TestParseFunctionParams(t *testing.T) {
	prog := parse(t, "int add(int x, int y) { return x + y; }")

	fn := prog.Functions[0]
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	if fn.Params[0].Name != "x" || fn.Params[1].Name != "y" {
		t.Errorf("param names = %q, %q", fn.Params[0].Name, fn.Params[1].Name)
	}
}

func TestParseVoidParams(t *testing.T) {
	prog := parse(t, "int main(void) { return 0; }")
	if len(prog.Functions[0].Params) != 0 {
		t.Errorf("got %d params, want 0", len(prog.Functions[0].Params))
	}
}

func TestParseStructDef(t *testing.T) {
	prog := parse(t, `
struct Point {
    int x;
    int y;
};
int main() { return 0; }`)

	if len(prog.Structs) != 1 {
		t.Fatalf("got %d structs, want 1", len(prog.Structs))
	}
	def := prog.Structs[0]
	if def.Name != "Point" {
		t.Errorf("struct name = %q, want Point", def.Name)
	}
	if len(def.Fields) != 2 || def.Fields[0].Name != "x" || def.Fields[1].Name != "y" {
		t.Errorf("fields = %v", def.Fields)
	}
}

func TestParseStructReturnType(t *testing.T) {
	prog := parse(t, `
struct Point { int x; int y; };
struct Point origin() {
    struct Point p;
    return p;
}
int main() { return 0; }`)

	if len(prog.Functions) != 2 {
		t.Fatalf("got %d functions, want 2", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "origin" {
		t.Errorf("function name = %q, want origin", fn.Name)
	}
	if !fn.ReturnType.Equal(types.StructType("Point")) {
		t.Errorf("return type = %s, want struct Point", fn.ReturnType)
	}
}

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantType types.CType
		hasInit  bool
	}{
		{"plain int", "int x;", types.IntType(), false},
		{"initialized int", "int x = 5;", types.IntType(), true},
		{"char", "char c = 'a';", types.CharType(), true},
		{"const int", "const int x = 1;", types.IntType().WithConst(), true},
		{"pointer", "int *p;", types.IntType().WithPointer(), false},
		{"double pointer", "int **pp;", types.IntType().WithPointer().WithPointer(), false},
		{"array", "int arr[5];", types.IntType().WithArray(5), false},
		{"matrix", "int m[2][3];", types.IntType().WithArray(2).WithArray(3), false},
		{"struct var", "struct Point p;", types.StructType("Point"), false},
		{"array initializer", "int arr[3] = {1, 2, 3};", types.IntType().WithArray(3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parse(t, "int main() { "+tt.source+" return 0; }")
			decl, ok := prog.Functions[0].Body[0].(*VarDeclStmt)
			if !ok {
				t.Fatalf("statement is %T, want *VarDeclStmt", prog.Functions[0].Body[0])
			}
			if !decl.Type.Equal(tt.wantType) {
				t.Errorf("type = %s, want %s", decl.Type, tt.wantType)
			}
			if tt.wantType.Const != decl.Type.Const {
				t.Errorf("const = %v, want %v", decl.Type.Const, tt.wantType.Const)
			}
			if (decl.Init != nil) != tt.hasInit {
				t.Errorf("init present = %v, want %v", decl.Init != nil, tt.hasInit)
			}
		})
	}
}

func TestParseControlFlow(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(t *testing.T, stmt Stmt)
	}{
		{
			"if else", "if (x) { y = 1; } else { y = 2; }",
			func(t *testing.T, stmt Stmt) {
				s, ok := stmt.(*IfStmt)
				if !ok {
					t.Fatalf("got %T", stmt)
				}
				if len(s.Then) != 1 || len(s.Else) != 1 {
					t.Errorf("then/else lengths = %d/%d", len(s.Then), len(s.Else))
				}
			},
		},
		{
			"while", "while (x > 0) x--;",
			func(t *testing.T, stmt Stmt) {
				s, ok := stmt.(*WhileStmt)
				if !ok {
					t.Fatalf("got %T", stmt)
				}
				if len(s.Body) != 1 {
					t.Errorf("body length = %d", len(s.Body))
				}
			},
		},
		{
			"do while", "do { x--; } while (x);",
			func(t *testing.T, stmt Stmt) {
				if _, ok := stmt.(*DoWhileStmt); !ok {
					t.Fatalf("got %T", stmt)
				}
			},
		},
		{
			"for", "for (int i = 0; i < 10; i++) { x = i; }",
			func(t *testing.T, stmt Stmt) {
				s, ok := stmt.(*ForStmt)
				if !ok {
					t.Fatalf("got %T", stmt)
				}
				if _, ok := s.Init.(*VarDeclStmt); !ok {
					t.Errorf("init is %T, want *VarDeclStmt", s.Init)
				}
				if s.Condition == nil || s.Increment == nil {
					t.Error("missing condition or increment")
				}
			},
		},
		{
			"for with empty clauses", "for (;;) { break; }",
			func(t *testing.T, stmt Stmt) {
				s, ok := stmt.(*ForStmt)
				if !ok {
					t.Fatalf("got %T", stmt)
				}
				if s.Init != nil || s.Condition != nil || s.Increment != nil {
					t.Error("expected all clauses nil")
				}
			},
		},
		{
			"goto and label", "goto done; done: x = 1;",
			func(t *testing.T, stmt Stmt) {
				s, ok := stmt.(*GotoStmt)
				if !ok {
					t.Fatalf("got %T", stmt)
				}
				if s.Label != "done" {
					t.Errorf("label = %q", s.Label)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parse(t, "int main() { int x; int y; "+tt.source+" return 0; }")
			tt.check(t, prog.Functions[0].Body[2])
		})
	}
}

func TestParseSwitch(t *testing.T) {
	prog := parse(t, `
int main() {
    int x = 2;
    switch (x) {
        case 1:
            x = 10;
            break;
        case 2:
        case 3:
            x = 20;
            break;
        default:
            x = 30;
    }
    return x;
}`)

	sw, ok := prog.Functions[0].Body[1].(*SwitchStmt)
	if !ok {
		t.Fatalf("statement is %T, want *SwitchStmt", prog.Functions[0].Body[1])
	}
	if len(sw.Cases) != 4 {
		t.Fatalf("got %d cases, want 4", len(sw.Cases))
	}
	if sw.Cases[1].Value == nil || len(sw.Cases[1].Body) != 0 {
		t.Error("empty case arm should have no statements")
	}
	if sw.Cases[3].Value != nil {
		t.Error("last arm should be default")
	}
}

func TestParseLabelStatement(t *testing.T) {
	prog := parse(t, "int main() { top: return 0; }")
	label, ok := prog.Functions[0].Body[0].(*LabelStmt)
	if !ok {
		t.Fatalf("statement is %T, want *LabelStmt", prog.Functions[0].Body[0])
	}
	if label.Name != "top" {
		t.Errorf("label name = %q, want top", label.Name)
	}
}

func TestParseInitializerList(t *testing.T) {
	prog := parse(t, "int main() { int arr[4] = {1, 2, 3}; return 0; }")
	decl, ok := prog.Functions[0].Body[0].(*VarDeclStmt)
	if !ok {
		t.Fatalf("statement is %T, want *VarDeclStmt", prog.Functions[0].Body[0])
	}
	list, ok := decl.Init.(*InitListExpr)
	if !ok {
		t.Fatalf("init is %T, want *InitListExpr", decl.Init)
	}
	if len(list.Elems) != 3 {
		t.Errorf("initializer count = %d, want 3", len(list.Elems))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing semicolon", "int main() { int x = 5 return 0; }"},
		{"missing paren", "int main( { return 0; }"},
		{"missing brace", "int main() { return 0;"},
		{"bad switch body", "int main() { switch (1) { int x; } return 0; }"},
		{"non-constant array size", "int main() { int n = 3; int arr[n]; return 0; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.source); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}
