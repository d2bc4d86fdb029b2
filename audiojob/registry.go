package audiojob

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/speechturn/authz"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/provider"
)

// PermissionReadAny lets a role read jobs owned by anyone.
const PermissionReadAny = "audio_jobs:read_any"

// DefaultTTL bounds how long a job stays pollable.
const DefaultTTL = time.Hour

// Registry creates, completes and authorizes audio jobs.
type Registry struct {
	store   provider.ContextStore[Job]
	checker authz.Checker
	ttl     time.Duration
	now     func() time.Time
	notify  Notifier

	// mu serializes terminal writes within this process.
	mu sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL sets the job retention window.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// Notifier is told about every job that reached a terminal state.
type Notifier func(ctx context.Context, job Job)

// WithNotifier calls n after each successful terminal write.
func WithNotifier(n Notifier) Option {
	return func(r *Registry) { r.notify = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a Registry over store. A nil store keeps jobs in memory.
// A nil checker uses authz.DefaultGrants.
func NewRegistry(store provider.ContextStore[Job], checker authz.Checker, opts ...Option) *Registry {
	if store == nil {
		store = provider.NewMemoryStore[Job]()
	}
	if checker == nil {
		checker = authz.NewPolicy(nil)
	}
	r := &Registry{store: store, checker: checker, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new pending job owned by ownerID.
func (r *Registry) Create(ctx context.Context, ownerID string) (*Job, error) {
	now := r.now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Save(ctx, job.ID, job, r.ttl); err != nil {
		return nil, fmt.Errorf("audiojob: create: %w", err)
	}
	return job, nil
}

// Get returns the job if requester owns it or may read any job.
func (r *Registry) Get(ctx context.Context, id string, requester Requester) (*Job, error) {
	job, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if job == nil {
		return nil, apperrors.NotFound("audio job", id)
	}
	if job.OwnerID != requester.ID && !r.canReadAny(requester) {
		return nil, apperrors.Forbidden("not allowed to read this audio job")
	}
	return job, nil
}

func (r *Registry) canReadAny(req Requester) bool {
	return authz.AnyRole(r.checker, req.Roles, PermissionReadAny)
}

// Complete moves a pending job to ready.
func (r *Registry) Complete(ctx context.Context, id string, audio Audio) error {
	if audio.URL == "" && audio.Base64 == "" {
		return apperrors.InvalidInput("audio", "ready job needs a url or inline audio")
	}
	return r.finish(ctx, id, func(j *Job) {
		j.Status = StatusReady
		j.AudioURL = optional(audio.URL)
		j.AudioBase64 = optional(audio.Base64)
		j.AudioMIME = optional(audio.MIMEType)
	})
}

// Fail moves a pending job to error.
func (r *Registry) Fail(ctx context.Context, id, message string) error {
	if message == "" {
		message = "audio synthesis failed"
	}
	return r.finish(ctx, id, func(j *Job) {
		j.Status = StatusError
		j.Error = &message
	})
}

// finish applies the single terminal write. Jobs already terminal are a Conflict.
func (r *Registry) finish(ctx context.Context, id string, apply func(*Job)) error {
	job, err := r.write(ctx, id, apply)
	if err != nil {
		return err
	}
	if r.notify != nil {
		r.notify(ctx, *job)
	}
	return nil
}

func (r *Registry) write(ctx context.Context, id string, apply func(*Job)) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if job == nil {
		return nil, apperrors.NotFound("audio job", id)
	}
	if job.Status.Terminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("audio job %s already %s", id, job.Status))
	}

	apply(job)
	job.UpdatedAt = r.now().UTC()
	ttl := r.ttl - job.UpdatedAt.Sub(job.CreatedAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := r.store.Save(ctx, id, job, ttl); err != nil {
		return nil, apperrors.Internal(err)
	}
	return job, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
