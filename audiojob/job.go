package audiojob

import "time"

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Terminal reports whether s is ready or error.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// Job is the pollable state of deferred audio.
type Job struct {
	ID          string    `json:"job_id"`
	Status      Status    `json:"status"`
	AudioURL    *string   `json:"audio_url"`
	AudioBase64 *string   `json:"audio_base64"`
	AudioMIME   *string   `json:"audio_mime"`
	Error       *string   `json:"error"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Audio is the payload of a ready job. At least one of URL and Base64 is set.
type Audio struct {
	URL      string
	Base64   string
	MIMEType string
}

// Requester is the identity reading a job.
type Requester struct {
	ID    string
	Roles []string
}
