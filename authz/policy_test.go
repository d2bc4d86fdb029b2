package authz

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, permission string
		want                bool
	}{
		{"*", "audio_jobs:read_any", true},
		{"*:*", "audio_jobs:read_any", true},
		{"audio_jobs:*", "audio_jobs:read_any", true},
		{"*:read_any", "audio_jobs:read_any", true},
		{"audio_jobs:read_any", "audio_jobs:read_any", true},
		{"audio_jobs:read_own", "audio_jobs:read_any", false},
		{"sessions:*", "audio_jobs:read_any", false},
		{"audio_jobs", "audio_jobs:read_any", false},
		{"audio_jobs:*", "audio_jobs", false},
	}
	for _, tt := range tests {
		if got := Match(tt.pattern, tt.permission); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.permission, got, tt.want)
		}
	}
}

func TestPolicy(t *testing.T) {
	p := NewPolicy(map[string][]string{"support": {"audio_jobs:read_any"}})
	if !AnyRole(p, []string{"user", "support"}, "audio_jobs:read_any") {
		t.Error("support denied")
	}
	if AnyRole(p, []string{"user"}, "audio_jobs:read_any") {
		t.Error("user allowed")
	}
	if AnyRole(p, []string{"admin"}, "audio_jobs:read_any") {
		t.Error("admin allowed by a table that does not list it")
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := NewPolicy(nil)
	if !p.HasPermission("admin", "audio_jobs:read_any") {
		t.Error("default admin denied")
	}
	if p.HasPermission("user", "audio_jobs:read_any") {
		t.Error("default user allowed")
	}
}

func TestCheckerFunc(t *testing.T) {
	c := CheckerFunc(func(role, _ string) bool { return role == "ops" })
	if !AnyRole(c, []string{"ops"}, "anything") || AnyRole(c, nil, "anything") {
		t.Error("CheckerFunc not consulted")
	}
}
