package tts

import "errors"

// ErrNoAudio is returned when the backend answered without audio data.
var ErrNoAudio = errors.New("tts: response contained no audio")

// Request holds parameters for a synthesis call.
type Request struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
	Voice      Voice  `json:"voice"`
}

// Result is synthesized audio plus the format metadata reported upstream.
// Zero format fields mean the upstream did not report them.
type Result struct {
	Audio      []byte `json:"-"`
	MIMEType   string `json:"mime_type"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitDepth   int    `json:"bit_depth"`
}
