package speechturn

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/speechturn/llm"
)

// ParseFailureNote is the only note on a result whose model output could not be decoded.
const ParseFailureNote = "Unable to parse Gemini response."

// rawTextResult decodes loosely: every field may be missing or mistyped.
type rawTextResult struct {
	NormalizedRequest any `json:"normalized_request"`
	Intent            any `json:"intent"`
	Chinese           any `json:"chinese"`
	Pinyin            any `json:"pinyin"`
	Notes             any `json:"notes"`
}

// ParseTextResult decodes model output into a TextResult and never fails.
// Code fences are stripped and the outermost object is used. Unknown intents
// become IntentUnknown, which always carries empty target text.
func ParseTextResult(content, transcript string) TextResult {
	var raw rawTextResult
	text := llm.ExtractJSON(content)
	if !strings.HasPrefix(text, "{") || json.Unmarshal([]byte(text), &raw) != nil {
		return TextResult{
			NormalizedRequest: defaultNormalizedRequest(transcript),
			Intent:            IntentUnknown,
			Notes:             []string{ParseFailureNote},
		}
	}

	intent := Intent(asString(raw.Intent))
	if !intent.Valid() {
		intent = IntentUnknown
	}
	result := TextResult{
		NormalizedRequest: asString(raw.NormalizedRequest),
		Intent:            intent,
		TargetText:        asString(raw.Chinese),
		Romanization:      asString(raw.Pinyin),
		Notes:             normalizeNotes(raw.Notes),
	}
	if result.NormalizedRequest == "" {
		result.NormalizedRequest = defaultNormalizedRequest(transcript)
	}
	if intent == IntentUnknown {
		result.TargetText, result.Romanization = "", ""
	}
	return result
}

func defaultNormalizedRequest(transcript string) string {
	return fmt.Sprintf("How do I say: '%s'?", transcript)
}

// asString renders scalars; null and containers become "".
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// normalizeNotes accepts a string, a list, or nothing.
func normalizeNotes(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		if t == "" {
			return []string{}
		}
		return []string{t}
	case []any:
		notes := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			if s, ok := item.(string); ok {
				notes = append(notes, s)
				continue
			}
			notes = append(notes, fmt.Sprint(item))
		}
		return notes
	default:
		return []string{fmt.Sprint(t)}
	}
}
