package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNoSectionToCut, "No section to %s from", "graft")

	if err.Code != ErrCodeNoSectionToCut {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNoSectionToCut)
	}

	if err.Message != "No section to graft from" {
		t.Errorf("Message = %v, want %v", err.Message, "No section to graft from")
	}

	expected := "NO_SECTION_TO_CUT: No section to graft from"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected token")
	err := Wrap(ErrCodeInvalidFormat, cause, "parse neuron.swc")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNoAxon, "Neuron has no axon"), ErrCodeNoAxon, true},
		{"non-matching code", New(ErrCodeNoAxon, "Neuron has no axon"), ErrCodeTooManyAxons, false},
		{"wrapped error", Wrap(ErrCodeInternal, New(ErrCodeNoAxon, "inner"), "outer"), ErrCodeInternal, true},
		{"non-Error type", errors.New("plain error"), ErrCodeNoAxon, false},
		{"nil error", nil, ErrCodeNoAxon, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeTooManyAxons, "test"), ErrCodeTooManyAxons},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNoAxon, "Neuron has no axon")); got != "Neuron has no axon" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestIsExpected(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeNoAxon, ""), true},
		{New(ErrCodeTooManyAxons, ""), true},
		{New(ErrCodeNoSectionToCut, ""), true},
		{New(ErrCodeNoAxonAnnotation, ""), true},
		{Wrap(ErrCodeNoAxon, errors.New("x"), "wrapped"), true},
		{New(ErrCodeInvalidFormat, ""), false},
		{New(ErrCodeInternal, ""), false},
		{errors.New("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsExpected(tt.err); got != tt.want {
			t.Errorf("IsExpected(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeNoAxon,
		ErrCodeTooManyAxons,
		ErrCodeNoSectionToCut,
		ErrCodeNoAxonAnnotation,
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
