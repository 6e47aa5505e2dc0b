package types

import "fmt"

// CharValue represents an 8-bit signed char
type CharValue struct {
	Val int8
}

// Type returns the type code for characters
func (c CharValue) Type() TypeCode {
	return TYPE_CHAR
}

// String returns the literal representation
func (c CharValue) String() string {
	if c.Val >= 32 && c.Val < 127 {
		return fmt.Sprintf("'%c'", byte(c.Val))
	}
	return fmt.Sprintf("'\\x%02x'", byte(c.Val))
}

// Equal checks deep equality
func (c CharValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	otherChar, ok := other.(CharValue)
	if !ok {
		return false
	}
	return c.Val == otherChar.Val
}

// Clone returns a copy
func (c CharValue) Clone() Value {
	return c
}

// NewChar creates a new CharValue
func NewChar(val int8) CharValue {
	return CharValue{Val: val}
}
