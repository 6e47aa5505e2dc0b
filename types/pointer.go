package types

import "fmt"

// PointerValue represents a 64-bit simulated address, stack or heap
type PointerValue struct {
	Addr uint64
}

// Type returns the type code for pointers
func (p PointerValue) Type() TypeCode {
	return TYPE_POINTER
}

// String returns the literal representation
func (p PointerValue) String() string {
	return fmt.Sprintf("0x%x", p.Addr)
}

// Equal checks deep equality. A pointer holding address 0 equals NULL.
func (p PointerValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	switch o := other.(type) {
	case PointerValue:
		return p.Addr == o.Addr
	case NullValue:
		return p.Addr == 0
	default:
		return false
	}
}

// Clone returns a copy
func (p PointerValue) Clone() Value {
	return p
}

// NewPointer creates a new PointerValue
func NewPointer(addr uint64) PointerValue {
	return PointerValue{Addr: addr}
}

// NullValue represents the NULL pointer constant
type NullValue struct{}

// Type returns the type code for NULL
func (n NullValue) Type() TypeCode {
	return TYPE_NULL
}

// String returns the literal representation
func (n NullValue) String() string {
	return "NULL"
}

// Equal checks deep equality. NULL equals a pointer holding address 0.
func (n NullValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	switch o := other.(type) {
	case NullValue:
		return true
	case PointerValue:
		return o.Addr == 0
	default:
		return false
	}
}

// Clone returns a copy
func (n NullValue) Clone() Value {
	return n
}

// NewNull creates a NullValue
func NewNull() NullValue {
	return NullValue{}
}
