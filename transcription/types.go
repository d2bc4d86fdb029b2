package transcription

import "errors"

// ErrEmptyTranscript is returned when the backend produced no text.
var ErrEmptyTranscript = errors.New("transcription: empty transcript")

// Request holds parameters for a transcription call.
type Request struct {
	Audio    []byte `json:"-"`
	MIMEType string `json:"mime_type"`
	// Language is the expected spoken language code, e.g. "en".
	Language string `json:"language,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}
