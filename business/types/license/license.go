// Package license represents the license tier type in the system.
package license

import "fmt"

// The set of license tiers that can be used.
var (
	Personal     = newKind("PERSONAL")
	Creative     = newKind("CREATIVE")
	Professional = newKind("PROFESSIONAL")
	Enterprise   = newKind("ENTERPRISE")
)

// =============================================================================

// Set of known license tiers.
var kinds = make(map[string]Kind)

// Kind represents a license tier in the system.
type Kind struct {
	value string
}

func newKind(kind string) Kind {
	k := Kind{kind}
	kinds[kind] = k
	return k
}

// String returns the name of the license tier.
func (k Kind) String() string {
	return k.value
}

// Equal provides support for the go-cmp package and testing.
func (k Kind) Equal(k2 Kind) bool {
	return k.value == k2.value
}

// MarshalText provides support for logging and any marshal needs.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.value), nil
}

// =============================================================================

// Parse parses the string value and returns a license tier if one exists.
// Unknown tiers are a hard error, there is no fallback tier.
func Parse(value string) (Kind, error) {
	kind, exists := kinds[value]
	if !exists {
		return Kind{}, fmt.Errorf("invalid license tier %q", value)
	}

	return kind, nil
}

// MustParse parses the string value and returns a license tier if one
// exists. If an error occurs the function panics.
func MustParse(value string) Kind {
	kind, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return kind
}
