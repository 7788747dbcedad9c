package internal

import (
	"errors"
	"testing"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "simple", input: "alice", expected: "alice"},
		{name: "trimmed", input: "  bob_99 ", expected: "bob_99"},
		{name: "dots and dashes", input: "j.doe-2", expected: "j.doe-2"},
		{name: "too short", input: "ab", expectError: true},
		{name: "too long", input: "abcdefghijklmnopqrstuvwxyz0123456", expectError: true},
		{name: "spaces inside", input: "al ice", expectError: true},
		{name: "mention syntax", input: "<@123>", expectError: true},
		{name: "non ascii", input: "zoë", expectError: true},
		{name: "empty", input: "   ", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUsername(tt.input)
			if tt.expectError {
				if !errors.Is(err, ErrInvalidUsername) {
					t.Errorf("expected ErrInvalidUsername, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
