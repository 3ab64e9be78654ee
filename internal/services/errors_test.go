package services_test

import (
	"errors"
	"strings"
	"testing"

	"dreamart/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrPrerequisite, "finalise", "preflight", "missing mockup MU-03", nil)
	if !errors.Is(err, services.ErrPrerequisite) {
		t.Fatalf("expected prerequisite marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "MU-03") {
		t.Fatalf("expected detail in message, got %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := services.Wrap(services.ErrUnexpected, "registry", "save", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToUnexpected(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrUnexpected) {
		t.Fatalf("expected unexpected marker, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"not found", services.Wrap(services.ErrNotFound, "analyze", "resolve", "", nil), 1},
		{"invalid input", services.Wrap(services.ErrInvalidInput, "analyze", "resolve", "out of scope", nil), 1},
		{"prerequisite", services.Wrap(services.ErrPrerequisite, "finalise", "preflight", "", nil), 1},
		{"unexpected", errors.New("boom"), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRecoverable(t *testing.T) {
	if !services.Recoverable(services.Wrap(services.ErrCorrupt, "sku", "read tracker", "", nil)) {
		t.Fatal("corrupt state should be recoverable")
	}
	if services.Recoverable(errors.New("disk on fire")) {
		t.Fatal("unknown errors are not recoverable")
	}
}
