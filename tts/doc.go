// Package tts defines the speech-synthesis capability, the voice presets
// exposed to clients, and the WAV container used to make headerless PCM
// playable.
package tts
