package speechturn

import (
	"context"
	"strings"

	"github.com/kbukum/speechturn/llm"
)

// DefaultGarbledMarkers are substrings the recognizer emits when it failed
// to hear part of the utterance.
var DefaultGarbledMarkers = []string{
	"[inaudible]",
	"(inaudible)",
	"[unintelligible]",
	"[music]",
	"[noise]",
	"�",
	"...",
}

const normalizeInstruction = "You repair speech-recognition transcripts. Return only the corrected transcript. " +
	"Never shorten, summarize or translate it. Only replace words that were likely misheard with " +
	"phonetically similar words that make the sentence coherent. If nothing needs fixing, return it unchanged."

// Normalizer cleans transcripts and repairs suspicious ones with a
// constrained generation call.
type Normalizer struct {
	llm       llm.Provider
	markers   []string
	maxTokens int
}

// NewNormalizer creates a Normalizer. A nil markers slice uses DefaultGarbledMarkers.
// A nil provider disables the repair call; flagged transcripts are only cleaned.
func NewNormalizer(p llm.Provider, markers []string) *Normalizer {
	if markers == nil {
		markers = DefaultGarbledMarkers
	}
	return &Normalizer{llm: p, markers: markers, maxTokens: 256}
}

// Clean collapses whitespace runs and trims the transcript.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NeedsRepair reports whether the transcript is too short or contains a garbled marker.
func (n *Normalizer) NeedsRepair(transcript string) bool {
	if len(strings.Fields(transcript)) <= 2 {
		return true
	}
	lower := strings.ToLower(transcript)
	for _, m := range n.markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// Normalize returns the cleaned transcript, repaired when flagged. A repair
// that comes back empty or with fewer words than the input is discarded;
// sound-alike swaps may change its length in characters. Repair call
// failures are returned to the caller.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (string, error) {
	cleaned := Clean(raw)
	if cleaned == "" || n.llm == nil || !n.NeedsRepair(cleaned) {
		return cleaned, nil
	}

	resp, err := n.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: normalizeInstruction,
		Messages:     []llm.Message{{Role: "user", Content: cleaned}},
		Temperature:  llm.Float32(0),
		MaxTokens:    n.maxTokens,
	})
	if err != nil {
		return "", err
	}

	repaired := Clean(llm.StripFences(resp.Content))
	if repaired == "" || len(strings.Fields(repaired)) < len(strings.Fields(cleaned)) {
		return cleaned, nil
	}
	return repaired, nil
}
