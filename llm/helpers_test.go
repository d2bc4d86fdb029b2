package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"intent":"unknown"}`, `{"intent":"unknown"}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", `Sure! Here it is: {"a":{"b":2}} hope that helps`, `{"a":{"b":2}}`},
		{"no object", "not json", "not json"},
		{"whitespace", "  \n{\"a\":1}\n ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	if got := StripFences("```json {\"x\":true} ```"); got != `{"x":true}` {
		t.Fatalf("StripFences = %q", got)
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(fmt.Errorf("gemini: %w", ErrRateLimited)) {
		t.Fatal("wrapped ErrRateLimited should be detected")
	}
	if IsRateLimited(errors.New("500")) {
		t.Fatal("other errors are not rate limits")
	}
}
