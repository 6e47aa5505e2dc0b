package types

// TypeCode identifies a runtime value variant
type TypeCode int

const (
	TYPE_INT TypeCode = iota
	TYPE_CHAR
	TYPE_POINTER
	TYPE_NULL
	TYPE_STRUCT
	TYPE_ARRAY
	TYPE_UNINIT
)

// String returns the string representation of the type code
func (t TypeCode) String() string {
	switch t {
	case TYPE_INT:
		return "INT"
	case TYPE_CHAR:
		return "CHAR"
	case TYPE_POINTER:
		return "POINTER"
	case TYPE_NULL:
		return "NULL"
	case TYPE_STRUCT:
		return "STRUCT"
	case TYPE_ARRAY:
		return "ARRAY"
	case TYPE_UNINIT:
		return "UNINIT"
	default:
		return "UNKNOWN"
	}
}
