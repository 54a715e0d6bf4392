// Package sourcekind represents the code hosting provider a dataset is
// connected from.
package sourcekind

import "fmt"

// The set of source kinds that can be used.
var (
	GitHub    = newKind("GITHUB")
	GitLab    = newKind("GITLAB")
	Bitbucket = newKind("BITBUCKET")
)

// =============================================================================

// Set of known source kinds.
var kinds = make(map[string]Kind)

// Kind represents a source kind in the system.
type Kind struct {
	value string
}

func newKind(kind string) Kind {
	k := Kind{kind}
	kinds[kind] = k
	return k
}

// String returns the name of the source kind.
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

// Parse parses the string value and returns a source kind if one exists.
func Parse(value string) (Kind, error) {
	kind, exists := kinds[value]
	if !exists {
		return Kind{}, fmt.Errorf("invalid source kind %q", value)
	}

	return kind, nil
}

// MustParse parses the string value and returns a source kind if one exists.
// If an error occurs the function panics.
func MustParse(value string) Kind {
	kind, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return kind
}
