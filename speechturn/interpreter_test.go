package speechturn

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/llm"
	"github.com/kbukum/speechturn/resilience"
)

func TestLanguageName(t *testing.T) {
	tests := map[string]string{"zh": "chinese", "JA": "japanese", "ko": "korean", "es": "spanish", "fr": "french", "de": "german", "it": "it"}
	for code, want := range tests {
		if got := LanguageName(code); got != want {
			t.Errorf("LanguageName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestLooksLikeTranslateRequest(t *testing.T) {
	i := NewInterpreter(nil)
	tests := []struct {
		transcript string
		target     string
		want       bool
	}{
		{"How do I say thank you in Chinese", "zh", true},
		{"how do i say good night", "zh", true},
		{"Can you say hello in Japanese", "ja", true},
		{"what is this in chinese", "zh", true},
		{"what is this in chinese", "ja", false},
		{"I like dumplings", "zh", false},
		{"say it again", "zh", false},
		{"I am interested in energy", "en", false},
		{"what is this in en", "en", false},
		{"say hello in en", "en", true},
	}
	for _, tt := range tests {
		t.Run(tt.transcript+"/"+tt.target, func(t *testing.T) {
			if got := i.LooksLikeTranslateRequest(tt.transcript, tt.target); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterpretHeuristicSkipsModel(t *testing.T) {
	fake := &fakeLLM{}
	i := NewInterpreter(fake)

	got, heuristic, err := i.Interpret(context.Background(), "How do I say thank you in Chinese", "en", "zh", "")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if !heuristic {
		t.Fatal("expected heuristic path")
	}
	if _, structured := fake.calls(); structured != 0 {
		t.Fatalf("model called %d times", structured)
	}
	if got.Intent != IntentTranslate || got.TargetText != "" || got.Romanization != "" {
		t.Fatalf("result = %+v", got)
	}
	if got.NormalizedRequest != "How do I say thank you in Chinese" {
		t.Fatalf("normalized = %q", got.NormalizedRequest)
	}
	if len(got.Notes) != 1 || got.Notes[0] != HeuristicNote {
		t.Fatalf("notes = %v", got.Notes)
	}
}

func TestInterpretCustomPhrases(t *testing.T) {
	i := NewInterpreter(&fakeLLM{}, WithPhrases("what's the word for"))
	if !i.LooksLikeTranslateRequest("What's the word for apple", "zh") {
		t.Fatal("custom phrase not matched")
	}
	if i.LooksLikeTranslateRequest("how do I say apple", "ja") {
		t.Fatal("default phrase should be replaced")
	}
}

func noSleep(waits *[]time.Duration) resilience.RetryConfig {
	cfg := DefaultInterpretRetry()
	cfg.Sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return cfg
}

func rateLimited() error {
	return apperrors.RateLimited().WithCause(llm.ErrRateLimited)
}

func TestInterpretRetriesRateLimits(t *testing.T) {
	var waits []time.Duration
	fake := &fakeLLM{
		structured:     []string{`{"normalized_request":"How do I say apple?","intent":"translate_request","chinese":"苹果","pinyin":"píngguǒ","notes":[]}`},
		structuredErrs: []error{rateLimited(), rateLimited(), nil},
	}
	i := NewInterpreter(fake, WithRetry(noSleep(&waits)))

	got, heuristic, err := i.Interpret(context.Background(), "apple please", "en", "zh", "market")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if heuristic {
		t.Fatal("model path expected")
	}
	if got.TargetText != "苹果" || got.Romanization != "píngguǒ" {
		t.Fatalf("result = %+v", got)
	}
	want := []time.Duration{500 * time.Millisecond, time.Second}
	if len(waits) != len(want) || waits[0] != want[0] || waits[1] != want[1] {
		t.Fatalf("waits = %v, want %v", waits, want)
	}
}

func TestInterpretGivesUpAfterThreeRetries(t *testing.T) {
	var waits []time.Duration
	fake := &fakeLLM{structuredErrs: []error{rateLimited(), rateLimited(), rateLimited(), rateLimited(), rateLimited()}}
	i := NewInterpreter(fake, WithRetry(noSleep(&waits)))

	_, _, err := i.Interpret(context.Background(), "apple please", "en", "zh", "")
	if !apperrors.HasCode(err, apperrors.ErrCodeRateLimited) {
		t.Fatalf("err = %v, want RATE_LIMITED", err)
	}
	if _, calls := fake.calls(); calls != 4 {
		t.Fatalf("calls = %d, want 4", calls)
	}
	want := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}
	for idx := range want {
		if waits[idx] != want[idx] {
			t.Fatalf("waits = %v, want %v", waits, want)
		}
	}
}

func TestInterpretOtherErrorsAreFatal(t *testing.T) {
	var waits []time.Duration
	boom := apperrors.ExternalServiceError("llm", errors.New("500"))
	fake := &fakeLLM{structuredErrs: []error{boom}}
	i := NewInterpreter(fake, WithRetry(noSleep(&waits)))

	_, _, err := i.Interpret(context.Background(), "apple please", "en", "zh", "")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, calls := fake.calls(); calls != 1 || len(waits) != 0 {
		t.Fatalf("calls = %d waits = %v", calls, waits)
	}
}

func TestInterpretMalformedOutput(t *testing.T) {
	i := NewInterpreter(&fakeLLM{structured: []string{"not json"}})
	got, _, err := i.Interpret(context.Background(), "apple please", "en", "zh", "")
	if err != nil {
		t.Fatalf("malformed output must not error: %v", err)
	}
	if got.Intent != IntentUnknown || got.TargetText != "" || got.Romanization != "" {
		t.Fatalf("result = %+v", got)
	}
	if len(got.Notes) != 1 || got.Notes[0] != ParseFailureNote {
		t.Fatalf("notes = %v", got.Notes)
	}
}
