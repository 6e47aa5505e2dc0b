package types

// Value is the interface all runtime values implement.
// The set of implementations is closed: IntValue, CharValue, PointerValue,
// NullValue, StructValue, ArrayValue, UninitValue.
type Value interface {
	Type() TypeCode
	String() string   // C-literal-ish representation for display
	Equal(Value) bool // Deep equality; NULL and Pointer(0) compare equal
	Clone() Value     // Independent deep copy (snapshots rely on this)
}

// AsPointer returns the address a value holds when treated as a pointer.
// NULL is address 0. The second return is false for non-pointer values.
func AsPointer(v Value) (uint64, bool) {
	switch p := v.(type) {
	case PointerValue:
		return p.Addr, true
	case NullValue:
		return 0, true
	default:
		return 0, false
	}
}
