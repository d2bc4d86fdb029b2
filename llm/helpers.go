package llm

import (
	"errors"
	"regexp"
	"strings"
)

// ErrRateLimited marks an upstream 429 / RESOURCE_EXHAUSTED response.
var ErrRateLimited = errors.New("llm: rate limited")

// ErrEmptyResponse marks a response without any text content.
var ErrEmptyResponse = errors.New("llm: empty response")

// IsRateLimited reports whether err carries ErrRateLimited.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*|\\s*```$")

// StripFences removes a leading ```json (or bare ```) fence and a trailing ``` fence.
func StripFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

// ExtractJSON returns the outermost JSON object in s: fences are stripped,
// then the text from the first "{" to the last "}" is kept. When no object
// delimiters exist the fence-stripped text is returned unchanged.
func ExtractJSON(s string) string {
	s = StripFences(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
