package types

import "strings"

// ArrayValue represents a fixed-size array of values
type ArrayValue struct {
	Elems []Value
}

// Type returns the type code for arrays
func (a ArrayValue) Type() TypeCode {
	return TYPE_ARRAY
}

// String returns the literal representation
func (a ArrayValue) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, e := range a.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteString("}")
	return b.String()
}

// Equal checks deep equality
func (a ArrayValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	otherArr, ok := other.(ArrayValue)
	if !ok {
		return false
	}
	if len(a.Elems) != len(otherArr.Elems) {
		return false
	}
	for i, e := range a.Elems {
		if !e.Equal(otherArr.Elems[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent deep copy
func (a ArrayValue) Clone() Value {
	elems := make([]Value, len(a.Elems))
	for i, e := range a.Elems {
		elems[i] = e.Clone()
	}
	return ArrayValue{Elems: elems}
}

// NewArray creates an ArrayValue from elements
func NewArray(elems []Value) ArrayValue {
	return ArrayValue{Elems: elems}
}
