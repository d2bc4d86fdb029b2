package speechturn

import "strings"

// IncompleteNote is appended when a translation request came back without target text.
const IncompleteNote = "Translation incomplete; speaking a fallback. Please retry."

// Shaped is the speakable form of a TextResult.
type Shaped struct {
	TargetText   string
	Romanization string
	Notes        []string
	TTSText      string
	// Incomplete marks a translate_request answered without target text.
	Incomplete bool
}

// Shape decides what to speak. Target-language audio is only produced for
// target-language text; otherwise the transcript is echoed back.
func Shape(transcript string, r TextResult) Shaped {
	out := Shaped{
		TargetText:   r.TargetText,
		Romanization: r.Romanization,
		Notes:        append([]string{}, r.Notes...),
	}
	if r.Intent != IntentTranslate {
		out.TargetText, out.Romanization = "", ""
	}
	if r.Intent == IntentTranslate && strings.TrimSpace(r.TargetText) == "" {
		out.Notes = append(out.Notes, IncompleteNote)
		out.TargetText, out.Romanization = "", ""
		out.Incomplete = true
	}

	out.TTSText = out.TargetText
	if strings.TrimSpace(out.TTSText) == "" {
		out.TTSText = "I heard: " + transcript
	}
	return out
}
