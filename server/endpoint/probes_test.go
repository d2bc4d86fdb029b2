package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechturn/component"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, p Probes, path string) (int, map[string]any) {
	t.Helper()
	r := gin.New()
	Register(r, p)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return rec.Code, body
}

func checkerOf(statuses ...component.HealthStatus) HealthChecker {
	return func(context.Context) []component.Health {
		out := make([]component.Health, len(statuses))
		for i, s := range statuses {
			out[i] = component.Health{Name: "c", Status: s}
		}
		return out
	}
}

func caps(m map[string]bool) Capabilities { return func() map[string]bool { return m } }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		probes     Probes
		wantStatus string
		wantCode   int
	}{
		{"empty", Probes{}, "healthy", http.StatusOK},
		{"all healthy", Probes{Check: checkerOf(component.StatusHealthy), Capabilities: caps(map[string]bool{"speech": true})}, "healthy", http.StatusOK},
		{"missing capability degrades", Probes{Check: checkerOf(component.StatusHealthy), Capabilities: caps(map[string]bool{"speech": false})}, "degraded", http.StatusOK},
		{"degraded component", Probes{Check: checkerOf(component.StatusDegraded)}, "degraded", http.StatusOK},
		{"unhealthy wins", Probes{Check: checkerOf(component.StatusDegraded, component.StatusUnhealthy)}, "unhealthy", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, tt.probes, "/health")
			if code != tt.wantCode || body["status"] != tt.wantStatus {
				t.Fatalf("got %d %v", code, body["status"])
			}
		})
	}
}

func TestReadyIgnoresCapabilities(t *testing.T) {
	code, body := serve(t, Probes{Check: checkerOf(component.StatusHealthy), Capabilities: caps(map[string]bool{"speech": false})}, "/ready")
	if code != http.StatusOK || body["status"] != "ready" {
		t.Fatalf("got %d %v", code, body)
	}
	code, body = serve(t, Probes{Check: checkerOf(component.StatusUnhealthy)}, "/ready")
	if code != http.StatusServiceUnavailable || body["status"] != "not_ready" {
		t.Fatalf("got %d %v", code, body)
	}
}

func TestLiveAndInfo(t *testing.T) {
	p := Probes{Service: "speechturn", Capabilities: caps(map[string]bool{"speech": true, "auth": true, "audio_tokens": false})}
	code, body := serve(t, p, "/live")
	if code != http.StatusOK || body["status"] != "alive" {
		t.Fatalf("live: %d %v", code, body)
	}
	code, body = serve(t, p, "/info")
	if code != http.StatusOK || body["service"] != "speechturn" || body["version"] == "" {
		t.Fatalf("info: %d %v", code, body)
	}
	enabled, _ := body["capabilities"].([]any)
	if len(enabled) != 2 || enabled[0] != "auth" || enabled[1] != "speech" {
		t.Fatalf("capabilities = %v", body["capabilities"])
	}
}
