package speechturn

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/speechturn/audiojob"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/llm"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/observability"
	"github.com/kbukum/speechturn/resilience"
	"github.com/kbukum/speechturn/transcription"
	"github.com/kbukum/speechturn/tts"
)

// Defaults for Options.
const (
	DefaultSyncBudget      = 15 * time.Second
	DefaultMaxAudioBytes   = 10 << 20
	DefaultDeferredTimeout = 2 * time.Minute
	DefaultMaxDeferred     = 16
	DefaultSourceLang      = "en"
	DefaultTargetLang      = "zh"
)

// JobStore is the part of the audio job registry the orchestrator writes to.
type JobStore interface {
	Create(ctx context.Context, ownerID string) (*audiojob.Job, error)
	Complete(ctx context.Context, id string, audio audiojob.Audio) error
	Fail(ctx context.Context, id, message string) error
}

// AudioSigner issues the short-lived token that authorizes fetching one cached file.
type AudioSigner interface {
	SignAudio(filename string) (string, error)
}

// Options tunes the orchestrator.
type Options struct {
	// SyncBudget is the elapsed time after which synthesis is deferred to a job.
	SyncBudget    time.Duration `yaml:"sync_budget" mapstructure:"sync_budget"`
	MaxAudioBytes int64         `yaml:"max_audio_bytes" mapstructure:"max_audio_bytes"`
	// IncludeInlineAudio adds base64 audio next to the URL.
	IncludeInlineAudio bool `yaml:"include_inline_audio" mapstructure:"include_inline_audio"`
	// BaseURL prefixes audio URLs when the request does not supply one.
	BaseURL         string        `yaml:"base_url" mapstructure:"base_url"`
	DeferredTimeout time.Duration `yaml:"deferred_timeout" mapstructure:"deferred_timeout"`
	MaxDeferred     int           `yaml:"max_deferred" mapstructure:"max_deferred"`
	// GarbledMarkers overrides DefaultGarbledMarkers when non-empty.
	GarbledMarkers []string `yaml:"garbled_markers" mapstructure:"garbled_markers"`
	// HeuristicPhrases overrides DefaultPhrases when non-empty.
	HeuristicPhrases []string `yaml:"heuristic_phrases" mapstructure:"heuristic_phrases"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (o *Options) ApplyDefaults() {
	if o.SyncBudget <= 0 {
		o.SyncBudget = DefaultSyncBudget
	}
	if o.MaxAudioBytes <= 0 {
		o.MaxAudioBytes = DefaultMaxAudioBytes
	}
	if o.DeferredTimeout <= 0 {
		o.DeferredTimeout = DefaultDeferredTimeout
	}
	if o.MaxDeferred <= 0 {
		o.MaxDeferred = DefaultMaxDeferred
	}
}

// Deps are the collaborators of a Service. Nil capabilities make Process
// fail with a service-unavailable error instead of panicking.
type Deps struct {
	Transcriber transcription.Provider
	Generator   llm.Provider
	Synthesizer tts.Provider
	Cache       *AudioCache
	Jobs        JobStore
	Signer      AudioSigner
	Metrics     *observability.TurnMetrics
	Logger      *logger.Logger
}

// Service runs speech turns.
type Service struct {
	deps        Deps
	opts        Options
	normalizer  *Normalizer
	interpreter *Interpreter
	deferred    *resilience.Bulkhead
	log         *logger.Logger
	now         func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock replaces time.Now for latency accounting.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithInterpreterOptions forwards options to the interpreter.
func WithInterpreterOptions(opts ...InterpreterOption) ServiceOption {
	return func(s *Service) { s.interpreter = NewInterpreter(s.deps.Generator, append(s.interpreterOpts(), opts...)...) }
}

// NewService creates a Service.
func NewService(deps Deps, opts Options, extra ...ServiceOption) *Service {
	opts.ApplyDefaults()
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	log := deps.Logger.WithComponent("speechturn")
	s := &Service{
		deps: deps,
		opts: opts,
		log:  log,
		now:  time.Now,
	}
	s.normalizer = NewNormalizer(deps.Generator, nonEmpty(opts.GarbledMarkers))
	s.interpreter = NewInterpreter(deps.Generator, s.interpreterOpts()...)
	s.deferred = resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "deferred-synthesis",
		MaxConcurrent: opts.MaxDeferred,
		OnReject: func(name string) {
			log.Warn("deferred synthesis rejected", map[string]interface{}{"bulkhead": name})
		},
	})
	for _, o := range extra {
		o(s)
	}
	return s
}

func (s *Service) interpreterOpts() []InterpreterOption {
	if len(s.opts.HeuristicPhrases) == 0 {
		return nil
	}
	return []InterpreterOption{WithPhrases(s.opts.HeuristicPhrases...)}
}

func nonEmpty(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return list
}

// MaxAudioBytes returns the accepted upload ceiling.
func (s *Service) MaxAudioBytes() int64 { return s.opts.MaxAudioBytes }

// Configured reports whether all three capabilities are wired.
func (s *Service) Configured() bool {
	return s.deps.Transcriber != nil && s.deps.Generator != nil && s.deps.Synthesizer != nil
}

// ValidateAudio rejects empty payloads and payloads over the ceiling. A
// payload of exactly MaxAudioBytes is accepted.
func (s *Service) ValidateAudio(size int64) error {
	if size <= 0 {
		return apperrors.InvalidInput("audio", "audio file is empty")
	}
	if size > s.opts.MaxAudioBytes {
		return apperrors.PayloadTooLarge("audio", s.opts.MaxAudioBytes)
	}
	return nil
}

// turn carries per-turn bookkeeping.
type turn struct {
	id      string
	start   time.Time
	mark    time.Time
	timings Timings
	log     *logger.Logger
}

// enter logs the transition to stage and returns the time spent in the previous stage.
func (s *Service) enter(ctx context.Context, t *turn, stage Stage) time.Duration {
	now := s.now()
	spent := now.Sub(t.mark)
	t.mark = now
	t.timings.Stage = stage
	t.log.Debug("turn stage", map[string]interface{}{
		logger.FieldStage:    string(stage),
		logger.FieldDuration: now.Sub(t.start).Milliseconds(),
	})
	observability.SetSpanAttribute(ctx, observability.AttrTurnStage, string(stage))
	return spent
}

// Process runs one turn. Input is validated before any upstream call.
// Transcription and interpretation errors abort the turn; synthesis errors
// are reported in TTSError.
func (s *Service) Process(ctx context.Context, req TurnRequest, caller Caller) (resp *TurnResponse, err error) {
	if err := s.ValidateAudio(int64(len(req.Audio))); err != nil {
		return nil, err
	}
	if !s.Configured() {
		return nil, apperrors.NotConfigured("speech capabilities")
	}
	if req.SourceLang == "" {
		req.SourceLang = DefaultSourceLang
	}
	if req.TargetLang == "" {
		req.TargetLang = DefaultTargetLang
	}

	t := &turn{id: uuid.NewString(), start: s.now()}
	t.mark = t.start
	ctx = logger.ContextWithTurnID(ctx, t.id)
	ctx, span := observability.StartSpan(ctx, "speechturn.Process")
	defer span.End()
	t.log = s.log.WithContext(ctx)
	s.enter(ctx, t, StageStarted)

	intent := "none"
	defer func() {
		outcome := string(t.timings.Stage)
		if err != nil {
			outcome = "failed"
			observability.SetSpanError(ctx, err)
			t.log.Warn("turn failed", logger.Fields(logger.FieldStage, string(t.timings.Stage), logger.FieldError, err.Error()))
		}
		s.deps.Metrics.RecordTurn(ctx, outcome, intent)
	}()

	s.enter(ctx, t, StageTranscribing)
	transcript, err := s.transcribe(ctx, req)
	if err != nil {
		return nil, err
	}

	d := s.enter(ctx, t, StageInterpreting)
	t.timings.TranscribeMS = d.Milliseconds()
	s.deps.Metrics.RecordStage(ctx, string(StageTranscribing), d)

	result, heuristic, err := s.interpreter.Interpret(ctx, transcript, req.SourceLang, req.TargetLang, req.Scenario)
	if err != nil {
		return nil, upstream("llm", err)
	}
	intent = string(result.Intent)
	t.timings.HeuristicPath = heuristic
	if heuristic {
		s.deps.Metrics.RecordHeuristicHit(ctx)
	}
	observability.SetSpanAttribute(ctx, observability.AttrTurnIntent, intent)

	d = s.enter(ctx, t, StageShaping)
	t.timings.InterpretMS = d.Milliseconds()
	s.deps.Metrics.RecordStage(ctx, string(StageInterpreting), d)

	shaped := Shape(transcript, result)
	resp = &TurnResponse{
		AssistantText:     shaped.TTSText,
		SourceLang:        req.SourceLang,
		TargetLang:        req.TargetLang,
		Scenario:          strPtr(req.Scenario),
		Transcript:        transcript,
		NormalizedRequest: result.NormalizedRequest,
		Intent:            result.Intent,
		TargetText:        shaped.TargetText,
		Romanization:      shaped.Romanization,
		Notes:             shaped.Notes,
		Analysis:          Analysis{PhonemeConfidence: []float64{}},
	}

	if elapsed := s.now().Sub(t.start); elapsed > s.opts.SyncBudget {
		if s.deferSynthesis(ctx, t, req, caller, shaped.TTSText, resp) {
			s.enter(ctx, t, StageDeferred)
			observability.SetSpanAttribute(ctx, observability.AttrTurnDeferred, true)
			return s.finish(t, resp), nil
		}
	}

	s.enter(ctx, t, StageSynthesizing)
	audio, ttsErr := s.synthesize(ctx, shaped.TTSText, req)
	d = s.enter(ctx, t, StageCompleted)
	t.timings.SynthesizeMS = d.Milliseconds()
	s.deps.Metrics.RecordStage(ctx, string(StageSynthesizing), d)
	if ttsErr != "" {
		resp.TTSError = &ttsErr
	} else {
		applyAudio(resp, audio)
	}
	return s.finish(t, resp), nil
}

func (s *Service) finish(t *turn, resp *TurnResponse) *TurnResponse {
	t.timings.TotalMS = s.now().Sub(t.start).Milliseconds()
	resp.Timings = t.timings
	t.log.Info("turn finished", map[string]interface{}{
		logger.FieldStage:    string(t.timings.Stage),
		logger.FieldDuration: t.timings.TotalMS,
		"intent":             string(resp.Intent),
		"heuristic":          t.timings.HeuristicPath,
		"audio_pending":      resp.AudioPending,
		"tts_failed":         resp.TTSError != nil,
	})
	return resp
}

func (s *Service) transcribe(ctx context.Context, req TurnRequest) (string, error) {
	out, err := s.deps.Transcriber.Transcribe(ctx, transcription.Request{
		Audio:    req.Audio,
		MIMEType: req.MIMEType,
		Language: req.SourceLang,
	})
	if err != nil {
		return "", upstream("transcription", err)
	}
	text, err := s.normalizer.Normalize(ctx, out.Text)
	if err != nil {
		return "", upstream("transcription", err)
	}
	if text == "" {
		return "", apperrors.ExternalServiceError("transcription", transcription.ErrEmptyTranscript)
	}
	return text, nil
}

// upstream keeps taxonomy errors and wraps anything else as an upstream failure.
func upstream(service string, err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.ExternalServiceError(service, err)
}

// synthesize never fails the turn: errors come back as "<kind>: <message>".
func (s *Service) synthesize(ctx context.Context, text string, req TurnRequest) (*SynthesizedAudio, string) {
	start := s.now()
	audio, err := s.render(ctx, text, req)
	if err != nil {
		s.deps.Metrics.RecordTTSFailure(ctx)
		s.log.WithContext(ctx).Warn("synthesis failed", logger.ErrorFields("synthesize", err))
		return nil, describeError(err)
	}
	audio.Duration = s.now().Sub(start)
	return audio, ""
}

func (s *Service) render(ctx context.Context, text string, req TurnRequest) (*SynthesizedAudio, error) {
	result, err := s.deps.Synthesizer.Synthesize(ctx, tts.Request{Text: text, TargetLang: req.TargetLang, Voice: req.Voice})
	if err != nil {
		return nil, err
	}
	playable, err := tts.Package(result)
	if err != nil {
		return nil, err
	}

	out := &SynthesizedAudio{MIMEType: playable.MIMEType, Format: playable.Extension}
	if s.opts.IncludeInlineAudio || s.deps.Cache == nil {
		out.Base64 = base64.StdEncoding.EncodeToString(playable.Data)
	}
	if s.deps.Cache == nil {
		return out, nil
	}

	filename, err := s.deps.Cache.Put(ctx, playable.Data, playable.Extension)
	if err != nil {
		return nil, err
	}
	out.Filename = filename
	out.URL, err = s.audioURL(req.baseURL(s.opts.BaseURL), filename)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) audioURL(base, filename string) (string, error) {
	u := strings.TrimRight(base, "/") + "/static/audio/" + filename
	if s.deps.Signer == nil {
		return u, nil
	}
	token, err := s.deps.Signer.SignAudio(filename)
	if err != nil {
		return "", err
	}
	return u + "?token=" + url.QueryEscape(token), nil
}

func applyAudio(resp *TurnResponse, a *SynthesizedAudio) {
	resp.Audio = &Audio{Format: a.Format, URL: a.URL, Base64: a.Base64}
	resp.AudioURL = strPtr(a.URL)
	resp.AudioBase64 = strPtr(a.Base64)
	resp.AudioMIME = strPtr(a.MIMEType)
}

func describeError(err error) string {
	if _, ok := apperrors.AsAppError(err); ok {
		return err.Error()
	}
	return fmt.Sprintf("SynthesisError: %v", err)
}
