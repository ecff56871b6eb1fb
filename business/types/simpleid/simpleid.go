// Package simpleid represents a human readable identifier in the system.
package simpleid

import (
	"fmt"
	"regexp"
)

// SimpleID represents a slug style identifier, used for forms and usernames.
type SimpleID struct {
	value string
}

var simpleIDRegEx = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// String returns the value of the simple id.
func (id SimpleID) String() string {
	return id.value
}

// Equal provides support for the go-cmp package and testing.
func (id SimpleID) Equal(id2 SimpleID) bool {
	return id.value == id2.value
}

// MarshalText provides support for logging and any marshal needs.
func (id SimpleID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// =============================================================================

// Parse parses the string value and returns a simple id if the value complies
// with the rules for an id.
func Parse(value string) (SimpleID, error) {
	if !simpleIDRegEx.MatchString(value) {
		return SimpleID{}, fmt.Errorf("invalid simple id %q", value)
	}

	return SimpleID{value}, nil
}

// MustParse parses the string value and returns a simple id if the value
// complies with the rules for an id. If an error occurs the function panics.
func MustParse(value string) SimpleID {
	id, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return id
}
