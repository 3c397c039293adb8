package security

import (
	"strings"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Trim whitespace",
			input:    "  TSM 1-0 C9  ",
			expected: "TSM 1-0 C9",
		},
		{
			name:     "Remove null bytes",
			input:    "hello\x00world",
			expected: "helloworld",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.input); got != tt.expected {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeString_LimitsLength(t *testing.T) {
	long := strings.Repeat("a", 2000)
	if got := SanitizeString(long); len(got) != 1000 {
		t.Errorf("SanitizeString() length = %d, want 1000", len(got))
	}
}

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Strip script tag",
			input:    "<script>alert(1)</script>result",
			expected: "result",
		},
		{
			name:     "Strip bold tag",
			input:    "<b>TSM</b> wins",
			expected: "TSM wins",
		},
		{
			name:     "Plain text untouched",
			input:    "TSM 1-0 C9",
			expected: "TSM 1-0 C9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeHTML(tt.input); got != tt.expected {
				t.Errorf("SanitizeHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateTeamAbbrev(t *testing.T) {
	tests := []struct {
		abbrev string
		want   bool
	}{
		{"TSM", true},
		{"C9", true},
		{"team1", true},
		{"", false},
		{"TOO-LONG!!", false},
		{"has space", false},
		{"ABCDEFGHIJK", false},
	}

	for _, tt := range tests {
		if got := ValidateTeamAbbrev(tt.abbrev); got != tt.want {
			t.Errorf("ValidateTeamAbbrev(%q) = %v, want %v", tt.abbrev, got, tt.want)
		}
	}
}

func TestValidateIGN(t *testing.T) {
	tests := []struct {
		ign  string
		want bool
	}{
		{"Shadowfax", true},
		{"The Night King", true},
		{"a", false},
		{strings.Repeat("x", 33), false},
		{"bad\nname", false},
	}

	for _, tt := range tests {
		if got := ValidateIGN(tt.ign); got != tt.want {
			t.Errorf("ValidateIGN(%q) = %v, want %v", tt.ign, got, tt.want)
		}
	}
}
