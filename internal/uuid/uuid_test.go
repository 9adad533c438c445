// Package uuid tests for UUID generation and validation.
package uuid

import "testing"

// TestNew verifies New generates valid, unique UUID v4 strings.
func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if !IsValid(id) {
			t.Fatalf("New() produced invalid UUID v4: %q", id)
		}
		if seen[id] {
			t.Fatalf("New() produced duplicate UUID: %q", id)
		}
		seen[id] = true
	}
}

// TestIsValid verifies format checking.
func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid v4", "b3c9d7f0-4f1a-4d8e-9b2a-1c3d5e7f9a0b", true},
		{"empty", "", false},
		{"no dashes", "b3c9d7f04f1a4d8e9b2a1c3d5e7f9a0b", false},
		{"wrong version", "b3c9d7f0-4f1a-1d8e-9b2a-1c3d5e7f9a0b", false},
		{"wrong variant", "b3c9d7f0-4f1a-4d8e-0b2a-1c3d5e7f9a0b", false},
		{"not hex", "zzzzzzzz-zzzz-4zzz-9zzz-zzzzzzzzzzzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.id); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
