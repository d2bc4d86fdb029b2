package speechturn

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/speechturn/llm"
	"github.com/kbukum/speechturn/transcription"
	"github.com/kbukum/speechturn/tts"
)

type fakeTranscriber struct {
	text   string
	err    error
	before func()
}

func (f *fakeTranscriber) Name() string                     { return "fake-stt" }
func (f *fakeTranscriber) IsAvailable(context.Context) bool { return true }
func (f *fakeTranscriber) Transcribe(_ context.Context, _ transcription.Request) (*transcription.Response, error) {
	if f.before != nil {
		f.before()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &transcription.Response{Text: f.text}, nil
}

// fakeLLM answers Complete with completion and CompleteStructured with the
// next entry of structured (the last entry repeats).
type fakeLLM struct {
	mu              sync.Mutex
	completion      string
	completeErr     error
	structured      []string
	structuredErrs  []error
	completeCalls   int
	structuredCalls int
}

func (f *fakeLLM) Name() string                     { return "fake-llm" }
func (f *fakeLLM) IsAvailable(context.Context) bool { return true }

func (f *fakeLLM) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &llm.CompletionResponse{Content: f.completion}, nil
}

func (f *fakeLLM) CompleteStructured(_ context.Context, _ llm.StructuredRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.structuredCalls
	f.structuredCalls++
	if i < len(f.structuredErrs) && f.structuredErrs[i] != nil {
		return nil, f.structuredErrs[i]
	}
	if len(f.structured) == 0 {
		return &llm.CompletionResponse{Content: "{}"}, nil
	}
	if i >= len(f.structured) {
		i = len(f.structured) - 1
	}
	return &llm.CompletionResponse{Content: f.structured[i]}, nil
}

func (f *fakeLLM) calls() (complete, structured int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completeCalls, f.structuredCalls
}

type fakeSynth struct {
	mu    sync.Mutex
	audio []byte
	mime  string
	err   error
	panic bool
	block chan struct{}
	last  tts.Request
	calls int
}

func (f *fakeSynth) Name() string                     { return "fake-tts" }
func (f *fakeSynth) IsAvailable(context.Context) bool { return true }
func (f *fakeSynth) Synthesize(ctx context.Context, req tts.Request) (*tts.Result, error) {
	f.mu.Lock()
	f.last = req
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panic {
		panic("synth exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &tts.Result{Audio: f.audio, MIMEType: f.mime}, nil
}

func (f *fakeSynth) lastRequest() tts.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type fakeSigner struct{}

func (fakeSigner) SignAudio(filename string) (string, error) { return "tok-" + filename[:8], nil }

// fakeClock is a goroutine-safe manual clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
