package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/provider"
	"github.com/kbukum/speechturn/tts"
)

// Synthesizer implements tts.Provider.
type Synthesizer struct {
	client *Client
	rr     provider.RequestResponse[call, *genai.GenerateContentResponse]
}

var _ tts.Provider = (*Synthesizer)(nil)

// NewSynthesizer creates a speech-synthesis adapter.
func NewSynthesizer(c *Client) *Synthesizer {
	return &Synthesizer{client: c, rr: c.endpoint("gemini-tts")}
}

func (s *Synthesizer) Name() string                         { return s.rr.Name() }
func (s *Synthesizer) IsAvailable(ctx context.Context) bool { return s.rr.IsAvailable(ctx) }

// Synthesize asks for an AUDIO modality response and returns the first
// inline audio part with its reported MIME type.
func (s *Synthesizer) Synthesize(ctx context.Context, req tts.Request) (*tts.Result, error) {
	if req.Text == "" {
		return nil, apperrors.InvalidInput("text", "text to synthesize is empty")
	}
	lang := req.TargetLang
	if lang == "" {
		lang = "zh"
	}

	resp, err := s.rr.Execute(ctx, call{
		model:    s.client.cfg.TTSModel,
		contents: userContent(genai.NewPartFromText(synthesisPrompt(lang, req.Text))),
		config: &genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice.UpstreamName()},
				},
			},
		},
		timeout: s.client.cfg.TTSTimeout,
	})
	if err != nil {
		return nil, err
	}

	blob := firstAudio(resp)
	if blob == nil {
		return nil, apperrors.ExternalServiceError("synthesis", tts.ErrNoAudio)
	}
	return &tts.Result{Audio: blob.Data, MIMEType: blob.MIMEType}, nil
}

func synthesisPrompt(lang, text string) string {
	return fmt.Sprintf("Read the following aloud in %s Chinese, natural tone: %s", lang, text)
}

func firstAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}
