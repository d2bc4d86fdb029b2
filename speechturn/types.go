package speechturn

import (
	"time"

	"github.com/kbukum/speechturn/tts"
)

// Intent is the classified purpose of an utterance.
type Intent string

const (
	IntentTranslate Intent = "translate_request"
	IntentUnknown   Intent = "unknown"
)

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	return i == IntentTranslate || i == IntentUnknown
}

// Stage names a step of the turn state machine.
type Stage string

const (
	StageStarted      Stage = "started"
	StageTranscribing Stage = "transcribing"
	StageInterpreting Stage = "interpreting"
	StageShaping      Stage = "shaping"
	StageSynthesizing Stage = "synthesizing"
	StageCompleted    Stage = "completed"
	StageDeferred     Stage = "deferred"
)

// TextResult is the interpreted form of a transcript. When Intent is
// IntentUnknown, TargetText and Romanization are empty.
type TextResult struct {
	NormalizedRequest string   `json:"normalized_request"`
	Intent            Intent   `json:"intent"`
	TargetText        string   `json:"chinese"`
	Romanization      string   `json:"pinyin"`
	Notes             []string `json:"notes"`
}

// TurnRequest is one inbound utterance.
type TurnRequest struct {
	Audio      []byte
	MIMEType   string
	SourceLang string
	TargetLang string
	Scenario   string
	Level      string
	Voice      tts.Voice
	// BaseURL is the externally visible origin used for audio links.
	BaseURL string
}

func (r TurnRequest) baseURL(fallback string) string {
	if r.BaseURL != "" {
		return r.BaseURL
	}
	return fallback
}

// Caller identifies who submitted the turn. Deferred audio jobs belong to UserID.
type Caller struct {
	UserID string
	Roles  []string
}

// Audio points at playable audio by URL, inline base64, or both.
type Audio struct {
	Format string `json:"format"`
	URL    string `json:"url,omitempty"`
	Base64 string `json:"base64,omitempty"`
}

// Analysis is a placeholder for pronunciation scoring and is always empty.
type Analysis struct {
	OverallScore      *float64  `json:"overall_score"`
	PhonemeConfidence []float64 `json:"phoneme_confidence"`
}

// Timings records stage latencies in milliseconds.
type Timings struct {
	TranscribeMS  int64 `json:"stt_ms"`
	InterpretMS   int64 `json:"llm_ms"`
	SynthesizeMS  int64 `json:"tts_ms,omitempty"`
	TotalMS       int64 `json:"total_ms"`
	Stage         Stage `json:"stage"`
	HeuristicPath bool  `json:"heuristic,omitempty"`
}

// TurnResponse is the externally visible result of a turn. It carries either
// audio, a pending job id, or a tts_error.
type TurnResponse struct {
	AssistantText     string   `json:"assistant_text"`
	SourceLang        string   `json:"source_lang"`
	TargetLang        string   `json:"target_lang"`
	Scenario          *string  `json:"scenario"`
	Transcript        string   `json:"transcript"`
	NormalizedRequest string   `json:"normalized_request"`
	Intent            Intent   `json:"intent"`
	TargetText        string   `json:"chinese"`
	Romanization      string   `json:"pinyin"`
	Notes             []string `json:"notes"`
	Audio             *Audio   `json:"audio"`
	AudioURL          *string  `json:"audio_url"`
	AudioBase64       *string  `json:"audio_base64"`
	AudioMIME         *string  `json:"audio_mime"`
	TTSError          *string  `json:"tts_error"`
	AudioPending      bool     `json:"audio_pending"`
	AudioJobID        *string  `json:"audio_job_id"`
	Analysis          Analysis `json:"analysis"`
	Timings           Timings  `json:"timings"`
}

// SynthesizedAudio is the outcome of a successful synthesis step.
type SynthesizedAudio struct {
	Filename string
	URL      string
	MIMEType string
	Format   string
	Base64   string
	Duration time.Duration
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
