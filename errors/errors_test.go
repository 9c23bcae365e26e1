package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"name collision", ErrNameCollision, true},
		{"not found", ErrNotFound, true},
		{"ambiguous descriptor", ErrAmbiguousDescriptor, true},
		{"incorrect parameter type", ErrIncorrectParameterType, true},
		{"invalid value", ErrInvalidValue, true},
		{"invalid config", ErrInvalidConfig, true},
		{"type mismatch is fatal, not invalid", ErrTypeMismatch, false},
		{"plain error", fmt.Errorf("something else"), false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"type mismatch", ErrTypeMismatch, true},
		{"not found", ErrNotFound, false},
		{"name collision", ErrNameCollision, false},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, true},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsFatal(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil defaults to transient", nil, ErrorTransient},
		{"not found is invalid", ErrNotFound, ErrorInvalid},
		{"type mismatch is fatal", ErrTypeMismatch, ErrorFatal},
		{"unknown is transient", fmt.Errorf("mystery"), ErrorTransient},
		{"classified wins", &ClassifiedError{Class: ErrorFatal, Err: ErrNotFound}, ErrorFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("underlying problem")

	wrapped := Wrap(base, "Component", "AddSub", "name reservation")
	if wrapped == nil {
		t.Fatal("Wrap returned nil for non-nil error")
	}

	expected := "Component.AddSub: name reservation failed: underlying problem"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}

	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match the underlying error with errors.Is")
	}

	if Wrap(nil, "Component", "AddSub", "anything") != nil {
		t.Error("Wrap of nil should return nil")
	}
}

func TestWrapInvalid(t *testing.T) {
	wrapped := WrapInvalid(ErrNameCollision, "Component", "AddSub", "duplicate name check")

	var ce *ClassifiedError
	if !errors.As(wrapped, &ce) {
		t.Fatal("expected a ClassifiedError")
	}
	if ce.Class != ErrorInvalid {
		t.Errorf("expected invalid class, got %v", ce.Class)
	}
	if ce.Component != "Component" || ce.Operation != "AddSub" {
		t.Errorf("context not preserved: %+v", ce)
	}
	if !errors.Is(wrapped, ErrNameCollision) {
		t.Error("sentinel should survive classification wrapping")
	}
	if WrapInvalid(nil, "a", "b", "c") != nil {
		t.Error("WrapInvalid of nil should return nil")
	}
}

func TestWrapFatal(t *testing.T) {
	wrapped := WrapFatal(ErrTypeMismatch, "Component", "SubAs", "capability check")

	if !IsFatal(wrapped) {
		t.Error("WrapFatal result should classify as fatal")
	}
	if !errors.Is(wrapped, ErrTypeMismatch) {
		t.Error("sentinel should survive classification wrapping")
	}
	if !strings.Contains(wrapped.Error(), "Component.SubAs") {
		t.Errorf("context missing from message: %s", wrapped.Error())
	}
}

func TestClassifiedError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	ce := &ClassifiedError{Class: ErrorInvalid, Err: inner}

	if !errors.Is(ce, inner) {
		t.Error("Unwrap should expose the inner error")
	}
	if ce.Error() != "inner" {
		t.Errorf("empty Message should fall back to Err.Error(), got %q", ce.Error())
	}

	ce.Message = "outer message"
	if ce.Error() != "outer message" {
		t.Errorf("Message should take precedence, got %q", ce.Error())
	}
}
