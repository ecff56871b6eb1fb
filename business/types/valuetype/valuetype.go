// Package valuetype represents the value type of a form data entry.
package valuetype

import (
	"fmt"
	"time"
)

// The set of value types that can be used.
var (
	String  = newValueType("string")
	Number  = newValueType("number")
	Boolean = newValueType("boolean")
	Date    = newValueType("date")
	Unknown = newValueType("unknown")
	None    = newValueType("none")
)

// =============================================================================

// Set of known value types.
var valueTypes = make(map[string]ValueType)

// ValueType represents a value type in the system.
type ValueType struct {
	value string
}

func newValueType(valueType string) ValueType {
	vt := ValueType{valueType}
	valueTypes[valueType] = vt
	return vt
}

// String returns the name of the value type.
func (vt ValueType) String() string {
	return vt.value
}

// Equal provides support for the go-cmp package and testing.
func (vt ValueType) Equal(vt2 ValueType) bool {
	return vt.value == vt2.value
}

// MarshalText provides support for logging and any marshal needs.
func (vt ValueType) MarshalText() ([]byte, error) {
	return []byte(vt.value), nil
}

// UnmarshalText provides support for unmarshaling stored entries.
func (vt *ValueType) UnmarshalText(data []byte) error {
	valueType, err := Parse(string(data))
	if err != nil {
		return err
	}

	*vt = valueType
	return nil
}

// Accepts reports whether the given raw value is valid for this value type.
// Numbers arrive from JSON decoding as float64. Dates must be RFC 3339.
func (vt ValueType) Accepts(value any) bool {
	switch vt {
	case String:
		_, ok := value.(string)
		return ok

	case Number:
		switch value.(type) {
		case float64, int, int64:
			return true
		}
		return false

	case Boolean:
		_, ok := value.(bool)
		return ok

	case Date:
		s, ok := value.(string)
		if !ok {
			return false
		}
		_, err := time.Parse(time.RFC3339, s)
		return err == nil

	case Unknown, None:
		return true
	}

	return false
}

// =============================================================================

// Parse parses the string value and returns a value type if one exists.
func Parse(value string) (ValueType, error) {
	valueType, exists := valueTypes[value]
	if !exists {
		return ValueType{}, fmt.Errorf("invalid value type %q", value)
	}

	return valueType, nil
}

// MustParse parses the string value and returns a value type if one exists.
// If an error occurs the function panics.
func MustParse(value string) ValueType {
	valueType, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return valueType
}
