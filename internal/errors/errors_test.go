package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "concept must not be empty")
	if err.Code != CodeValidation {
		t.Errorf("expected code %q, got %q", CodeValidation, err.Code)
	}
	want := "[VALIDATION] concept must not be empty"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(CodePersistence, "failed to write store file").
		WithSuggestion("Check that the storage directory is writable")
	if err.Suggestion != "Check that the storage directory is writable" {
		t.Errorf("unexpected suggestion: %q", err.Suggestion)
	}
}

func TestWrap(t *testing.T) {
	underlying := fmt.Errorf("permission denied")
	err := Wrap(CodePersistence, "failed to write store file", underlying)

	var ee *EngramError
	if !errors.As(err, &ee) {
		t.Fatal("expected errors.As to find EngramError")
	}
	if ee.Code != CodePersistence {
		t.Errorf("expected code %q, got %q", CodePersistence, ee.Code)
	}
	if !errors.Is(err, underlying) {
		t.Error("expected wrapped error to match errors.Is")
	}
	want := "[PERSISTENCE] failed to write store file: permission denied"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(CodeValidation, "first")
	b := New(CodeValidation, "second")
	c := New(CodePersistence, "third")

	if !errors.Is(a, b) {
		t.Error("expected same-code errors to match")
	}
	if errors.Is(a, c) {
		t.Error("expected different-code errors not to match")
	}
}

func TestAsCode(t *testing.T) {
	if code := AsCode(New(CodeDriverInvalid, "unknown driver")); code != CodeDriverInvalid {
		t.Errorf("expected %q, got %q", CodeDriverInvalid, code)
	}
	wrapped := fmt.Errorf("outer: %w", New(CodeStoreClosed, "store closed"))
	if code := AsCode(wrapped); code != CodeStoreClosed {
		t.Errorf("expected code to survive wrapping, got %q", code)
	}
	if code := AsCode(fmt.Errorf("plain")); code != "" {
		t.Errorf("expected empty code for plain error, got %q", code)
	}
	if code := AsCode(nil); code != "" {
		t.Errorf("expected empty code for nil error, got %q", code)
	}
}

func TestSuggestion(t *testing.T) {
	err := New(CodeConfigInvalid, "bad driver").
		WithSuggestion("Use json, sqlite, or memory")
	if s := Suggestion(err); s != "Use json, sqlite, or memory" {
		t.Errorf("unexpected suggestion: %q", s)
	}
	if s := Suggestion(fmt.Errorf("plain")); s != "" {
		t.Errorf("expected empty suggestion, got %q", s)
	}
}
