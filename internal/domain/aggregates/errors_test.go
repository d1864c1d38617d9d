package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageFormats(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeNotFound, Op: "Contacts.Address.Get", Message: "address not found"}, "Contacts.Address.Get: address not found (not_found)"},
		{&Error{Code: CodeForbidden, Op: "Contacts.Address.Update"}, "Contacts.Address.Update (forbidden)"},
		{&Error{Code: CodeValidation, Message: "first is required"}, "first is required (validation)"},
		{&Error{Code: CodeInternal}, "internal"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want=%q got=%q", tc.want, got)
		}
	}
}

func TestIsCodeSeesThroughWrapping(t *testing.T) {
	base := NewError(CodeForbidden, "op", "not owner", nil)
	wrapped := fmt.Errorf("edit address: %w", base)
	if !IsCode(wrapped, CodeForbidden) {
		t.Fatalf("expected forbidden through wrap")
	}
	if CodeOf(wrapped) != CodeForbidden {
		t.Fatalf("CodeOf: got=%q", CodeOf(wrapped))
	}
	if IsCode(errors.New("plain"), CodeForbidden) || CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors must not carry a code")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeInternal, "op", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
}
