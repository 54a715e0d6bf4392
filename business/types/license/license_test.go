package license_test

import (
	"testing"

	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	for _, value := range []string{"PERSONAL", "CREATIVE", "PROFESSIONAL", "ENTERPRISE"} {
		kind, err := license.Parse(value)
		if err != nil {
			t.Fatalf("parsing %q: %s", value, err)
		}

		if got := kind.String(); got != value {
			t.Errorf("String() = %q, want %q", got, value)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := license.Parse("FREEMIUM"); err == nil {
		t.Fatal("expected an error for an unknown license tier")
	}

	// Case matters: the catalog is keyed by the canonical upper-case name.
	if _, err := license.Parse("personal"); err == nil {
		t.Fatal("expected an error for a lower-case license tier")
	}
}

func TestEqual(t *testing.T) {
	if diff := cmp.Diff(license.Personal, license.MustParse("PERSONAL")); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if license.Personal.Equal(license.Enterprise) {
		t.Error("distinct tiers compare equal")
	}
}
