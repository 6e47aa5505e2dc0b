package types

// UninitValue marks storage that has been declared but never written.
// Reading it through an expression is a runtime error, not a default zero.
type UninitValue struct{}

// Type returns the type code for uninitialized storage
func (u UninitValue) Type() TypeCode {
	return TYPE_UNINIT
}

// String returns the display representation
func (u UninitValue) String() string {
	return "<uninitialized>"
}

// Equal checks deep equality
func (u UninitValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	_, ok := other.(UninitValue)
	return ok
}

// Clone returns a copy
func (u UninitValue) Clone() Value {
	return u
}

// NewUninit creates an UninitValue
func NewUninit() UninitValue {
	return UninitValue{}
}
