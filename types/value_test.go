package types

import "testing"

func TestNullPointerEquality(t *testing.T) {
	// NULL and a pointer holding address 0 compare equal everywhere
	tests := []struct {
		name string
		a    Value
		b    Value
		want bool
	}{
		{"null vs null", NewNull(), NewNull(), true},
		{"null vs zero pointer", NewNull(), NewPointer(0), true},
		{"zero pointer vs null", NewPointer(0), NewNull(), true},
		{"null vs nonzero pointer", NewNull(), NewPointer(0x10000000), false},
		{"nonzero pointer vs null", NewPointer(0x10000000), NewNull(), false},
		{"same pointers", NewPointer(0x10000004), NewPointer(0x10000004), true},
		{"different pointers", NewPointer(0x10000004), NewPointer(0x10000008), false},
		{"null vs int zero", NewNull(), NewInt(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAsPointer(t *testing.T) {
	if addr, ok := AsPointer(NewNull()); !ok || addr != 0 {
		t.Errorf("AsPointer(NULL) = (%d, %v), want (0, true)", addr, ok)
	}
	if addr, ok := AsPointer(NewPointer(0x10000000)); !ok || addr != 0x10000000 {
		t.Errorf("AsPointer(ptr) = (%d, %v), want (0x10000000, true)", addr, ok)
	}
	if _, ok := AsPointer(NewInt(7)); ok {
		t.Error("AsPointer(int) should not succeed")
	}
}

func TestStructClone(t *testing.T) {
	s := NewStruct()
	s.Fields["x"] = NewInt(1)
	s.Fields["next"] = NewPointer(0x10000000)

	c := s.Clone().(StructValue)
	c.Fields["x"] = NewInt(99)

	if !s.Fields["x"].Equal(NewInt(1)) {
		t.Error("mutating a clone changed the original struct")
	}
	if !s.Equal(StructValue{Fields: map[string]Value{
		"x":    NewInt(1),
		"next": NewPointer(0x10000000),
	}}) {
		t.Error("struct equality failed after clone")
	}
}

func TestArrayClone(t *testing.T) {
	inner := NewStruct()
	inner.Fields["v"] = NewInt(5)
	a := NewArray([]Value{NewInt(1), inner})

	c := a.Clone().(ArrayValue)
	c.Elems[0] = NewInt(42)
	c.Elems[1].(StructValue).Fields["v"] = NewInt(6)

	if !a.Elems[0].Equal(NewInt(1)) {
		t.Error("mutating a cloned element changed the original array")
	}
	if !a.Elems[1].(StructValue).Fields["v"].Equal(NewInt(5)) {
		t.Error("mutating a cloned nested struct changed the original")
	}
}

func TestCTypeString(t *testing.T) {
	tests := []struct {
		typ  CType
		want string
	}{
		{IntType(), "int"},
		{CharType().WithPointer(), "char *"},
		{IntType().WithPointer().WithPointer(), "int **"},
		{IntType().WithArray(5), "int[5]"},
		{StructType("Point").WithPointer(), "struct Point *"},
		{IntType().WithConst(), "const int"},
		{CharType().WithArray(UnsizedDim), "char[]"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("CType.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrCodeRoundTrip(t *testing.T) {
	for c := ErrNone; c <= ErrScanfNeedsInput; c++ {
		got, ok := ErrCodeFromString(c.String())
		if !ok || got != c {
			t.Errorf("ErrCodeFromString(%q) = (%v, %v), want (%v, true)", c.String(), got, ok, c)
		}
	}
	if _, ok := ErrCodeFromString("NotAnError"); ok {
		t.Error("ErrCodeFromString should reject unknown names")
	}
}
