package sse

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Event names.
const (
	EventJob   = "job"
	EventError = "error"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data []byte
}

// ErrStreamingUnsupported is returned when the response cannot be flushed.
var ErrStreamingUnsupported = errors.New("sse: streaming not supported")

// Writer frames events onto an HTTP response.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter sets the stream headers and lifts the write deadline, which
// would otherwise cut long streams at the server WriteTimeout.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	// Not every writer supports deadlines; keep-alives still hold the stream.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-store")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes e and flushes. Multi-line data is split into data lines.
func (sw *Writer) Send(e Event) error {
	var buf bytes.Buffer
	if e.Name != "" {
		fmt.Fprintf(&buf, "event: %s\n", e.Name)
	}
	for _, line := range bytes.Split(e.Data, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	if _, err := sw.w.Write(buf.Bytes()); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

// KeepAlive writes a comment line that proxies treat as traffic.
func (sw *Writer) KeepAlive() error {
	if _, err := fmt.Fprintf(sw.w, ": keepalive %d\n\n", time.Now().Unix()); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}
