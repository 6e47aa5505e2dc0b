package memory

import (
	"testing"

	"rewind/parser"
	"rewind/types"
)

func testStructs() map[string]*parser.StructDef {
	return map[string]*parser.StructDef{
		"Point": {
			Name: "Point",
			Fields: []parser.Field{
				{Name: "x", Type: types.IntType()},
				{Name: "y", Type: types.IntType()},
			},
		},
		"Mixed": {
			Name: "Mixed",
			Fields: []parser.Field{
				{Name: "n", Type: types.IntType()},
				{Name: "c", Type: types.CharType()},
			},
		},
	}
}

func TestSizeOf(t *testing.T) {
	structs := testStructs()
	tests := []struct {
		name string
		typ  types.CType
		want int
	}{
		{"int", types.IntType(), 4},
		{"char", types.CharType(), 1},
		{"void", types.VoidType(), 0},
		{"int pointer", types.IntType().WithPointer(), 8},
		{"char double pointer", types.CharType().WithPointer().WithPointer(), 8},
		{"struct pointer", types.StructType("Point").WithPointer(), 8},
		{"struct of two ints", types.StructType("Point"), 8},
		{"struct without padding", types.StructType("Mixed"), 5},
		{"int array", types.IntType().WithArray(5), 20},
		{"char matrix", types.CharType().WithArray(2).WithArray(3), 6},
		{"array of structs", types.StructType("Mixed").WithArray(4), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SizeOf(tt.typ, structs)
			if err != nil {
				t.Fatalf("SizeOf failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SizeOf(%s) = %d, want %d", tt.typ, got, tt.want)
			}
		})
	}
}

func TestSizeOfUnknownStruct(t *testing.T) {
	_, err := SizeOf(types.StructType("Missing"), testStructs())
	if err == nil {
		t.Fatal("expected error for unknown struct")
	}
	if err.Code != types.ErrStructNotDefined {
		t.Errorf("code = %v, want ErrStructNotDefined", err.Code)
	}
}

func TestFieldOffset(t *testing.T) {
	structs := testStructs()
	tests := []struct {
		structName string
		field      string
		want       int
	}{
		{"Point", "x", 0},
		{"Point", "y", 4},
		{"Mixed", "n", 0},
		{"Mixed", "c", 4},
	}
	for _, tt := range tests {
		t.Run(tt.structName+"."+tt.field, func(t *testing.T) {
			got, err := FieldOffset(tt.structName, tt.field, structs)
			if err != nil {
				t.Fatalf("FieldOffset failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("offset = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFieldOffsetMissingField(t *testing.T) {
	_, err := FieldOffset("Point", "z", testStructs())
	if err == nil {
		t.Fatal("expected error for missing field")
	}
	if err.Code != types.ErrMissingStructField {
		t.Errorf("code = %v, want ErrMissingStructField", err.Code)
	}
}

func TestPointerArithmetic(t *testing.T) {
	structs := testStructs()
	base := uint64(0x1000_0000)

	t.Run("add scales by pointee size", func(t *testing.T) {
		addr, err := PointerAdd(base, 2, types.IntType(), structs)
		if err != nil {
			t.Fatalf("PointerAdd failed: %v", err)
		}
		if addr != base+8 {
			t.Errorf("addr = 0x%x, want 0x%x", addr, base+8)
		}
	})

	t.Run("char pointer advances by one", func(t *testing.T) {
		addr, err := PointerAdd(base, 3, types.CharType(), structs)
		if err != nil {
			t.Fatalf("PointerAdd failed: %v", err)
		}
		if addr != base+3 {
			t.Errorf("addr = 0x%x, want 0x%x", addr, base+3)
		}
	})

	t.Run("sub undoes add", func(t *testing.T) {
		addr, _ := PointerAdd(base, 2, types.IntType(), structs)
		back, err := PointerSub(addr, 2, types.IntType(), structs)
		if err != nil {
			t.Fatalf("PointerSub failed: %v", err)
		}
		if back != base {
			t.Errorf("addr = 0x%x, want 0x%x", back, base)
		}
	})

	t.Run("diff yields element count", func(t *testing.T) {
		addr, _ := PointerAdd(base, 2, types.IntType(), structs)
		diff, err := PointerDiff(addr, base, types.IntType(), structs)
		if err != nil {
			t.Fatalf("PointerDiff failed: %v", err)
		}
		if diff != 2 {
			t.Errorf("diff = %d, want 2", diff)
		}
	})
}
