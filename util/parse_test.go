package util

import "testing"

func TestParseSize(t *testing.T) {
	const def = int64(7)
	tests := []struct {
		input string
		want  int64
	}{
		{"10MB", 10 << 20},
		{"512KB", 512 << 10},
		{"2GB", 2 << 30},
		{"1024", 1024},
		{"1024B", 1024},
		{"  10mb  ", 10 << 20},
		{"", def},
		{"lots", def},
		{"-5MB", def},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseSize(tc.input, def); got != tc.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input  string
		prefix int
		want   string
	}{
		{"AIzaSyExampleKey", 4, "AIza***"},
		{"abcd", 4, "***"},
		{"", 4, "***"},
	}
	for _, tc := range tests {
		if got := MaskSecret(tc.input, tc.prefix); got != tc.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.input, tc.prefix, got, tc.want)
		}
	}
}
