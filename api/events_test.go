package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechturn/audiojob"
	"github.com/kbukum/speechturn/session"
	"github.com/kbukum/speechturn/sse"
)

type streamHarness struct {
	router   *gin.Engine
	jobs     *audiojob.Registry
	hub      *sse.Hub
	sessions *session.Service
}

func newStreamHarness(t *testing.T, push bool, poll time.Duration) *streamHarness {
	t.Helper()
	h := &streamHarness{router: gin.New(), sessions: session.New(sessionConfig("alice"), nil, nil)}
	var opts []audiojob.Option
	var events JobEvents
	if push {
		h.hub = sse.NewHub(nil)
		go h.hub.Run()
		t.Cleanup(h.hub.Stop)
		hub := h.hub
		opts = append(opts, audiojob.WithNotifier(func(_ context.Context, job audiojob.Job) {
			hub.Publish(JobTopic(job.ID)+":*", JobEvent(job))
		}))
		events = hub
	}
	h.jobs = audiojob.NewRegistry(nil, nil, opts...)
	New(&fakeTurns{max: 1}, h.jobs, nil, h.sessions, Options{Events: events, PollInterval: poll}, nil).Register(h.router)
	return h
}

func accessToken(t *testing.T, user string) string {
	t.Helper()
	pair, err := session.New(sessionConfig(user), nil, nil).Login(context.Background(), user, "pw")
	if err != nil {
		t.Fatal(err)
	}
	return pair.AccessToken
}

func (h *streamHarness) request(t *testing.T, id, user string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/speech/audio/"+id+"/events", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, user))
	return req
}

func jobEvents(body string) []string {
	var out []string
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		if strings.HasPrefix(block, "event: job\n") {
			out = append(out, strings.TrimPrefix(block, "event: job\ndata: "))
		}
	}
	return out
}

func TestJobStreamTerminalJobEndsImmediately(t *testing.T) {
	h := newStreamHarness(t, true, time.Hour)
	ctx := context.Background()
	job, _ := h.jobs.Create(ctx, "alice")
	_ = h.jobs.Complete(ctx, job.ID, audiojob.Audio{URL: "https://tutor.example/static/audio/a.wav"})

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, h.request(t, job.ID, "alice"))

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	events := jobEvents(rec.Body.String())
	if len(events) != 1 || !strings.Contains(events[0], `"status":"ready"`) {
		t.Fatalf("events = %q", events)
	}
}

func TestJobStreamPushedCompletion(t *testing.T) {
	h := newStreamHarness(t, true, time.Hour)
	ctx := context.Background()
	job, _ := h.jobs.Create(ctx, "alice")

	srv := httptest.NewServer(h.router)
	defer srv.Close()
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/speech/audio/"+job.ID+"/events", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, "alice"))

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	deadline := time.Now().Add(time.Second)
	for h.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := h.jobs.Fail(ctx, job.ID, "EXTERNAL_SERVICE_ERROR: tts"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	body, _ := io.ReadAll(resp.Body)
	events := jobEvents(string(body))
	if len(events) != 2 {
		t.Fatalf("events = %q", events)
	}
	if !strings.Contains(events[0], `"status":"pending"`) || !strings.Contains(events[1], `"status":"error"`) {
		t.Fatalf("events = %q", events)
	}
}

func TestJobStreamPollsWithoutHub(t *testing.T) {
	h := newStreamHarness(t, false, 10*time.Millisecond)
	ctx := context.Background()
	job, _ := h.jobs.Create(ctx, "alice")

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = h.jobs.Complete(ctx, job.ID, audiojob.Audio{Base64: "UklGRg==", MIMEType: "audio/wav"})
	}()

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, h.request(t, job.ID, "alice"))

	events := jobEvents(rec.Body.String())
	if len(events) != 2 || !strings.Contains(events[1], `"status":"ready"`) {
		t.Fatalf("events = %q", events)
	}
}

func TestJobStreamRejectsNonOwner(t *testing.T) {
	h := newStreamHarness(t, true, time.Hour)
	job, _ := h.jobs.Create(context.Background(), "alice")

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, h.request(t, job.ID, "mallory"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if h.hub.ClientCount() != 0 {
		t.Fatal("rejected request subscribed")
	}
}
