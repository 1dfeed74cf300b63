package api

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewRequestError_SynthesizesMessage(t *testing.T) {
	err := NewRequestError("notes", 502, "")
	if err.Message != "request failed with status 502" {
		t.Errorf("expected synthesized message, got %q", err.Message)
	}

	err = NewRequestError("notes", 400, "bad input")
	if err.Message != "bad input" {
		t.Errorf("expected server message preserved, got %q", err.Message)
	}
}

func TestRequestError_Error(t *testing.T) {
	err := NewRequestError("shipments", 404, "Shipment not found")
	msg := err.Error()
	if !strings.Contains(msg, "shipments") || !strings.Contains(msg, "404") || !strings.Contains(msg, "Shipment not found") {
		t.Errorf("unexpected error string: %q", msg)
	}
}

func TestIsAuthFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"401", NewRequestError("notes", 401, "JWT expired"), true},
		{"403", NewRequestError("notes", 403, ""), true},
		{"500", NewRequestError("notes", 500, ""), false},
		{"wrapped 401", fmt.Errorf("fetch notes: %w", NewRequestError("notes", 401, "")), true},
		{"local auth sentinel", ErrAuthRequired, false},
		{"plain error mentioning 401", errors.New("got 401 unauthorized"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		if got := IsAuthFailure(tt.err); got != tt.want {
			t.Errorf("%s: IsAuthFailure = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMalformedResponseError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &MalformedResponseError{Resource: "notes", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "notes") {
		t.Errorf("unexpected error string: %q", err.Error())
	}
}
