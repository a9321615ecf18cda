package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWalksWrapChain(t *testing.T) {
	base := New(Validation, "roster is empty")
	wrapped := fmt.Errorf("extraction: %w", base)

	if got := KindOf(wrapped); got != Validation {
		t.Fatalf("expected kind %q, got %q", Validation, got)
	}
	if !Is(wrapped, Validation) {
		t.Fatalf("expected Is to match the validation kind")
	}
}

func TestKindOfUnknownForForeignErrors(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != Unknown {
		t.Fatalf("expected unknown kind, got %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ModelUnavailable, cause, "loading embedding model")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
	if got := KindOf(err); got != ModelUnavailable {
		t.Fatalf("expected kind %q, got %q", ModelUnavailable, got)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(Embedding, nil, "whatever"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWithContextLabelsMessage(t *testing.T) {
	err := New(Notification, "delivery failed").WithContext("emailer")
	if err.Error() != "emailer: delivery failed" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
