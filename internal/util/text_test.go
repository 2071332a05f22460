package util

import "testing"

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than limit", "Emily", 10, "Emily"},
		{"exactly at limit", "Emily", 5, "Emily"},
		{"truncated", "trapped in an elevator", 7, "trapped..."},
		{"multi-byte runes", "ночь в лифте", 4, "ночь..."},
		{"empty", "", 3, ""},
		{"zero limit", "Emily", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	got := Preview("The doors\n  sealed shut.\n\nEmily waited.", 20)
	want := "The doors sealed shu..."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if got := Preview("  short  ", 20); got != "short" {
		t.Errorf("Expected %q, got %q", "short", got)
	}
}
