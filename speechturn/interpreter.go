package speechturn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/speechturn/llm"
	"github.com/kbukum/speechturn/resilience"
)

// HeuristicNote marks a result produced without a model call.
const HeuristicNote = "Heuristic: detected translation request."

// languageNames maps language codes to the English names used in prompts and
// in the translation-request heuristic.
var languageNames = map[string]string{
	"zh": "chinese",
	"ja": "japanese",
	"ko": "korean",
	"es": "spanish",
	"fr": "french",
	"de": "german",
}

// LanguageName returns the lowercase English name for code, or the code itself.
func LanguageName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// DefaultPhrases trigger the translation-request shortcut. The check is a
// cheap pattern match, not a classifier: it trades recall on unusual
// phrasings for skipping a model call on the common one.
var DefaultPhrases = []string{"how do i say"}

// DefaultInterpretRetry retries 429 responses three times after the first
// attempt, waiting 0.5s, 1s and 2s.
func DefaultInterpretRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    4,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		BackoffFactor:  2,
		RetryIf:        llm.IsRateLimited,
	}
}

// Interpreter classifies a transcript and produces the translation.
type Interpreter struct {
	llm     llm.Provider
	phrases []string
	retry   resilience.RetryConfig
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithPhrases replaces the heuristic phrase list.
func WithPhrases(phrases ...string) InterpreterOption {
	return func(i *Interpreter) { i.phrases = phrases }
}

// WithRetry replaces the rate-limit retry policy.
func WithRetry(cfg resilience.RetryConfig) InterpreterOption {
	return func(i *Interpreter) {
		if cfg.RetryIf == nil {
			cfg.RetryIf = llm.IsRateLimited
		}
		i.retry = cfg
	}
}

// NewInterpreter creates an Interpreter backed by p.
func NewInterpreter(p llm.Provider, opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{llm: p, phrases: DefaultPhrases, retry: DefaultInterpretRetry()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// LooksLikeTranslateRequest matches the lowercase transcript against the
// phrase list and "say ... in <target>". A bare "in <target>" counts only
// for languages with a known name.
func (i *Interpreter) LooksLikeTranslateRequest(transcript, targetLang string) bool {
	s := strings.ToLower(transcript)
	for _, p := range i.phrases {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	inTarget := "in " + LanguageName(targetLang)
	if strings.Contains(s, "say ") && strings.Contains(s, " "+inTarget) {
		return true
	}
	// A bare code such as "en" is too short to match on its own.
	if _, ok := languageNames[strings.ToLower(strings.TrimSpace(targetLang))]; !ok {
		return false
	}
	return strings.Contains(s, inTarget)
}

// Interpret returns the TextResult for transcript. heuristic is true when the
// shortcut answered without calling the model. Rate-limited calls are retried;
// any other upstream error is returned. Malformed model output never errors.
func (i *Interpreter) Interpret(ctx context.Context, transcript, sourceLang, targetLang, scenario string) (result TextResult, heuristic bool, err error) {
	if i.LooksLikeTranslateRequest(transcript, targetLang) {
		return TextResult{
			NormalizedRequest: transcript,
			Intent:            IntentTranslate,
			Notes:             []string{HeuristicNote},
		}, true, nil
	}

	req := llm.StructuredRequest{
		Prompt: interpretPrompt(transcript, sourceLang, targetLang, scenario),
		Schema: textResultSchema,
	}
	resp, err := resilience.Retry(ctx, i.retry, func(ctx context.Context) (*llm.CompletionResponse, error) {
		return i.llm.CompleteStructured(ctx, req)
	})
	if err != nil {
		return TextResult{}, false, err
	}
	return ParseTextResult(resp.Content, transcript), false, nil
}

func interpretPrompt(transcript, sourceLang, targetLang, scenario string) string {
	name := LanguageName(targetLang)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if scenario == "" {
		scenario = "general"
	}
	return fmt.Sprintf("You are a %s tutor. Decide if the user is asking how to say something in the target language. "+
		"If so, translate it and give the romanization. Return JSON only.\n"+
		"Source language: %s\nTarget language: %s\nScenario: %s\nTranscript: %s",
		name, sourceLang, targetLang, scenario, transcript)
}

var textResultSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"normalized_request": {Type: llm.TypeString},
		"intent":             {Type: llm.TypeString, Enum: []string{string(IntentTranslate), string(IntentUnknown)}},
		"chinese":            {Type: llm.TypeString},
		"pinyin":             {Type: llm.TypeString},
		"notes":              {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
	},
	Required: []string{"normalized_request", "intent", "chinese", "pinyin", "notes"},
}
