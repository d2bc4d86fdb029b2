package tts

import "strings"

// Voice is a client-facing voice preset.
type Voice string

const (
	VoiceWarm   Voice = "warm"
	VoiceBright Voice = "bright"
	VoiceDeep   Voice = "deep"

	DefaultVoice = VoiceWarm
)

// upstreamVoices maps presets to prebuilt Gemini voice names.
var upstreamVoices = map[Voice]string{
	VoiceWarm:   "Kore",
	VoiceBright: "Puck",
	VoiceDeep:   "Charon",
}

// ParseVoice normalizes a client label. Unknown or empty labels become DefaultVoice.
func ParseVoice(label string) Voice {
	v := Voice(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := upstreamVoices[v]; ok {
		return v
	}
	return DefaultVoice
}

// UpstreamName returns the backend voice identifier for v.
func (v Voice) UpstreamName() string {
	if name, ok := upstreamVoices[v]; ok {
		return name
	}
	return upstreamVoices[DefaultVoice]
}
