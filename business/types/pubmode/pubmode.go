// Package pubmode represents the public access mode of a privilege rule.
package pubmode

import "fmt"

// The set of public modes that can be used. OnlyPublic grants access to
// signed-out requesters exclusively; signed-in requesters are refused even
// when they appear on an allow list.
var (
	False      = newMode("false")
	True       = newMode("true")
	OnlyPublic = newMode("onlyPublic")
)

// =============================================================================

// Set of known modes.
var modes = make(map[string]Mode)

// Mode represents a public access mode in the system.
type Mode struct {
	value string
}

func newMode(mode string) Mode {
	m := Mode{mode}
	modes[mode] = m
	return m
}

// String returns the name of the mode.
func (m Mode) String() string {
	return m.value
}

// Equal provides support for the go-cmp package and testing.
func (m Mode) Equal(m2 Mode) bool {
	return m.value == m2.value
}

// MarshalText provides support for logging and any marshal needs. The zero
// mode marshals as false so an unset mode survives a storage round trip.
func (m Mode) MarshalText() ([]byte, error) {
	if m.value == "" {
		return []byte(False.value), nil
	}
	return []byte(m.value), nil
}

// UnmarshalText provides support for unmarshaling stored rules. An empty
// value reads back as false, matching what an unset mode evaluates to.
func (m *Mode) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*m = False
		return nil
	}

	mode, err := Parse(string(data))
	if err != nil {
		return err
	}

	*m = mode
	return nil
}

// =============================================================================

// Parse parses the string value and returns a mode if one exists.
func Parse(value string) (Mode, error) {
	mode, exists := modes[value]
	if !exists {
		return Mode{}, fmt.Errorf("invalid public mode %q", value)
	}

	return mode, nil
}

// MustParse parses the string value and returns a mode if one exists. If
// an error occurs the function panics.
func MustParse(value string) Mode {
	mode, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return mode
}
