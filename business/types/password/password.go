// Package password represents a password in the system.
package password

import "fmt"

const (
	minLength = 8
	maxLength = 72 // bcrypt input limit.
)

// Password represents a password in the system.
type Password struct {
	value string
}

// String returns a masked representation so the value never lands in logs.
func (p Password) String() string {
	return "[REDACTED]"
}

// Plain returns the raw value for hashing.
func (p Password) Plain() string {
	return p.value
}

// Equal provides support for the go-cmp package and testing.
func (p Password) Equal(p2 Password) bool {
	return p.value == p2.value
}

// MarshalText provides support for logging and any marshal needs.
func (p Password) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// =============================================================================

// Parse parses the string value and returns a password if the value complies
// with the rules for a password.
func Parse(value string) (Password, error) {
	if len(value) < minLength || len(value) > maxLength {
		return Password{}, fmt.Errorf("password must be between %d and %d characters", minLength, maxLength)
	}

	return Password{value}, nil
}

// MustParse parses the string value and returns a password if the value
// complies with the rules for a password. If an error occurs the function
// panics.
func MustParse(value string) Password {
	p, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return p
}
