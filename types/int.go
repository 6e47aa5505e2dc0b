package types

import "fmt"

// IntValue represents a 32-bit signed int
type IntValue struct {
	Val int32
}

// Type returns the type code for integers
func (i IntValue) Type() TypeCode {
	return TYPE_INT
}

// String returns the literal representation
func (i IntValue) String() string {
	return fmt.Sprintf("%d", i.Val)
}

// Equal checks deep equality
func (i IntValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	otherInt, ok := other.(IntValue)
	if !ok {
		return false
	}
	return i.Val == otherInt.Val
}

// Clone returns a copy
func (i IntValue) Clone() Value {
	return i
}

// NewInt creates a new IntValue
func NewInt(val int32) IntValue {
	return IntValue{Val: val}
}
