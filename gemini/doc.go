// Package gemini implements the transcription, text-generation and speech
// synthesis capabilities on top of the Gemini API (google.golang.org/genai).
//
// A single genai.Client is shared by the three adapters. Every adapter call
// runs through a provider middleware chain (logging, tracing, circuit
// breaker) and maps upstream failures onto the errors taxonomy: HTTP 429
// becomes RateLimited wrapping llm.ErrRateLimited, everything else becomes
// ExternalServiceError.
package gemini
