package aggregates

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestRequireFieldsTrimsAndValidates(t *testing.T) {
	first, last := "  Ann ", "Lee\t"
	if err := requireFields([]string{"first", "last"}, &first, &last); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if first != "Ann" || last != "Lee" {
		t.Fatalf("expected trimmed values, got %q %q", first, last)
	}

	number, kind := "555-1000", "   "
	err := requireFields([]string{"phone_number", "kind"}, &number, &kind)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddressLockKey(t *testing.T) {
	if got := AddressLockKey(uuid.Nil); got != "address:00000000-0000-0000-0000-000000000000" {
		t.Fatalf("unexpected key %q", got)
	}
}
