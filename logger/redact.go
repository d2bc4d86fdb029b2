package logger

import (
	"io"
	"regexp"
)

const redacted = "[REDACTED]"

var (
	bearerPattern  = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`)
	refreshPattern = regexp.MustCompile(`(?i)(refresh_token["']?\s*[=:]\s*["']?)[^\s"'&,}]+`)
)

// RedactingWriter masks bearer tokens and refresh tokens before forwarding
// each write to the wrapped writer.
type RedactingWriter struct {
	out io.Writer
}

// NewRedactingWriter wraps out with token redaction.
func NewRedactingWriter(out io.Writer) *RedactingWriter {
	return &RedactingWriter{out: out}
}

// Write redacts p and writes it through. It reports len(p) on success so
// callers do not treat the length change as a short write.
func (w *RedactingWriter) Write(p []byte) (int, error) {
	if _, err := w.out.Write(Redact(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Redact returns a copy of p with credentials masked.
func Redact(p []byte) []byte {
	p = bearerPattern.ReplaceAll(p, []byte("${1}"+redacted))
	return refreshPattern.ReplaceAll(p, []byte("${1}"+redacted))
}
