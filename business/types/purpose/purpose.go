// Package purpose represents the stated purpose on an access request.
package purpose

import "fmt"

const (
	minLength = 10
	maxLength = 1000
)

// Purpose represents the purpose text on an access request.
type Purpose struct {
	value string
}

// String returns the value of the purpose.
func (p Purpose) String() string {
	return p.value
}

// Equal provides support for the go-cmp package and testing.
func (p Purpose) Equal(p2 Purpose) bool {
	return p.value == p2.value
}

// MarshalText provides support for logging and any marshal needs.
func (p Purpose) MarshalText() ([]byte, error) {
	return []byte(p.value), nil
}

// =============================================================================

// Parse parses the string value and returns a purpose if the value complies
// with the rules for a purpose.
func Parse(value string) (Purpose, error) {
	if len(value) < minLength || len(value) > maxLength {
		return Purpose{}, fmt.Errorf("purpose must be between %d and %d characters", minLength, maxLength)
	}

	return Purpose{value}, nil
}

// MustParse parses the string value and returns a purpose if the value
// complies with the rules for a purpose. If an error occurs the function
// panics.
func MustParse(value string) Purpose {
	p, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return p
}
