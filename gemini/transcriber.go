package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/provider"
	"github.com/kbukum/speechturn/transcription"
)

const transcribePrompt = "Transcribe the following audio."

// Transcriber implements transcription.Provider.
type Transcriber struct {
	client *Client
	rr     provider.RequestResponse[call, *genai.GenerateContentResponse]
}

var _ transcription.Provider = (*Transcriber)(nil)

// NewTranscriber creates a speech-to-text adapter.
func NewTranscriber(c *Client) *Transcriber {
	return &Transcriber{client: c, rr: c.endpoint("gemini-stt")}
}

func (t *Transcriber) Name() string                         { return t.rr.Name() }
func (t *Transcriber) IsAvailable(ctx context.Context) bool { return t.rr.IsAvailable(ctx) }

// Transcribe sends the audio inline and returns the trimmed transcript.
func (t *Transcriber) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if len(req.Audio) == 0 {
		return nil, apperrors.InvalidInput("audio", "audio file is empty")
	}
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	lang := req.Language
	if lang == "" {
		lang = "en"
	}

	resp, err := t.rr.Execute(ctx, call{
		model: t.client.cfg.STTModel,
		contents: userContent(
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(req.Audio, mimeType),
		),
		config: &genai.GenerateContentConfig{
			SystemInstruction: systemInstruction(transcriptionInstruction(lang)),
			Temperature:       genai.Ptr[float32](0),
		},
		timeout: t.client.cfg.STTTimeout,
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, apperrors.ExternalServiceError("transcription", transcription.ErrEmptyTranscript)
	}
	return &transcription.Response{Text: text, Language: lang}, nil
}

func transcriptionInstruction(lang string) string {
	return fmt.Sprintf("You are a transcription engine. Return only the verbatim transcript in %s. "+
		"Do not add commentary or punctuation not present.", lang)
}
