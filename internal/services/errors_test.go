package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/limenVTech/UDCS-Packer/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrIO, "inventory", "hash file", "unreadable", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"inventory", "hash file", "unreadable"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToIO(t *testing.T) {
	err := services.Wrap(nil, "archive", "create tar", "", nil)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected default i/o marker, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	fatal := services.Wrap(services.ErrValidation, "metadata", "verify header", "mismatch", nil)
	if !services.IsFatal(fatal) {
		t.Fatalf("expected validation error to be fatal")
	}
	skip := services.Wrap(services.ErrPrecondition, "register", "find record", "missing", nil)
	if services.IsFatal(skip) {
		t.Fatalf("expected precondition error to be non-fatal")
	}
}
