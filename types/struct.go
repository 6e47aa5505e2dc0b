package types

import (
	"sort"
	"strings"
)

// StructValue represents a struct instance.
// Only fields that have been assigned are present in the map.
type StructValue struct {
	Fields map[string]Value
}

// Type returns the type code for structs
func (s StructValue) Type() TypeCode {
	return TYPE_STRUCT
}

// String returns the literal representation with fields in sorted order
func (s StructValue) String() string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("." + name + " = " + s.Fields[name].String())
	}
	b.WriteString("}")
	return b.String()
}

// Equal checks deep equality
func (s StructValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	otherStruct, ok := other.(StructValue)
	if !ok {
		return false
	}
	if len(s.Fields) != len(otherStruct.Fields) {
		return false
	}
	for name, val := range s.Fields {
		otherVal, ok := otherStruct.Fields[name]
		if !ok || !val.Equal(otherVal) {
			return false
		}
	}
	return true
}

// Clone returns an independent deep copy
func (s StructValue) Clone() Value {
	fields := make(map[string]Value, len(s.Fields))
	for name, val := range s.Fields {
		fields[name] = val.Clone()
	}
	return StructValue{Fields: fields}
}

// Get returns the value of a field, or (nil, false) if never assigned
func (s StructValue) Get(name string) (Value, bool) {
	v, ok := s.Fields[name]
	return v, ok
}

// NewStruct creates an empty StructValue
func NewStruct() StructValue {
	return StructValue{Fields: make(map[string]Value)}
}
