package core

import (
	"strings"
	"testing"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		lower bool
		want  string
	}{
		{name: "trims", in: "  hey  ", want: "hey"},
		{name: "keeps case", in: " HeY ", want: "HeY"},
		{name: "lowers", in: " HeY ", lower: true, want: "hey"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.lower {
				got = CleanString(tt.in, true)
			} else {
				got = CleanString(tt.in)
			}
			if got != tt.want {
				t.Errorf("CleanString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "alice mwangi", want: "Alice Mwangi"},
		{in: "ben", want: "Ben"},
		{in: "  double  spaced", want: "  Double  Spaced"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.in); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRandomPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pwd := RandomPassword()
		if len(pwd) != 8 {
			t.Errorf("RandomPassword() len = %d, want 8", len(pwd))
		}
		for _, c := range pwd {
			if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyz0123456789", c) {
				t.Errorf("RandomPassword() unexpected char %q", c)
			}
		}
		seen[pwd] = true
	}
	if len(seen) < 2 {
		t.Error("RandomPassword() must not be constant")
	}
}
