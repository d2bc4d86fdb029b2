package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	cfg := &Config{Level: level, Format: "json"}
	cfg.ApplyDefaults()
	return NewWithWriter(cfg, "speechturn", buf)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", buf.String(), err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("speechturn")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "speechturn" {
		t.Errorf("expected service 'speechturn', got %q", l.service)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn should be written, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "nonsense")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWithComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug").WithComponent("orchestrator")
	l.Info("stage finished", StageFields("transcribing", 0), Fields(FieldTurnID, "t-1"))

	m := decode(t, &buf)
	if m[FieldComponent] != "orchestrator" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m[FieldStage] != "transcribing" {
		t.Errorf("stage = %v", m[FieldStage])
	}
	if m[FieldTurnID] != "t-1" {
		t.Errorf("turn_id = %v", m[FieldTurnID])
	}
	if m["service"] != "speechturn" {
		t.Errorf("service = %v", m["service"])
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "req-9")
	ctx = ContextWithUserID(ctx, "alice")
	jsonLogger(&buf, "info").WithContext(ctx).Info("hello")

	m := decode(t, &buf)
	if m[FieldRequestID] != "req-9" || m[FieldUserID] != "alice" {
		t.Fatalf("context fields missing: %v", m)
	}
	if RequestIDFromContext(ctx) != "req-9" {
		t.Fatal("RequestIDFromContext mismatch")
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		leak     string
		expected string
	}{
		{"bearer header", "Authorization: Bearer eyJhbGci.abc.def", "eyJhbGci", "Bearer [REDACTED]"},
		{"lowercase bearer", "bearer tok123", "tok123", "bearer [REDACTED]"},
		{"query refresh token", "/auth/refresh?refresh_token=r3fr3sh&x=1", "r3fr3sh", "refresh_token=[REDACTED]&x=1"},
		{"json refresh token", `{"refresh_token":"abc.def"}`, "abc.def", `"refresh_token":"[REDACTED]"`},
		{"no secret", "plain message", "", "plain message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(Redact([]byte(tt.in)))
			if tt.leak != "" && strings.Contains(out, tt.leak) {
				t.Fatalf("secret leaked: %q", out)
			}
			if !strings.Contains(out, tt.expected) {
				t.Fatalf("expected %q in %q", tt.expected, out)
			}
		})
	}
}

func TestLoggerRedactsByDefault(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").Info("incoming", Fields("authorization", "Bearer secret-token"))
	if strings.Contains(buf.String(), "secret-token") {
		t.Fatalf("token leaked into log: %q", buf.String())
	}
}

func TestLoggerRedactionDisabled(t *testing.T) {
	var buf bytes.Buffer
	off := false
	cfg := &Config{Level: "info", Format: "json", Redact: &off}
	NewWithWriter(cfg, "speechturn", &buf).Info("Bearer visible")
	if !strings.Contains(buf.String(), "Bearer visible") {
		t.Fatalf("expected raw output, got %q", buf.String())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"bad level", Config{Level: "loud"}, true},
		{"bad format", Config{Format: "xml"}, true},
		{"bad output", Config{Output: "file"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
