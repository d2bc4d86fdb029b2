// Package transcription defines the speech-to-text capability consumed by
// the speech-turn pipeline.
package transcription
