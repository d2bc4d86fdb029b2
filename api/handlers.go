package api

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechturn/audiojob"
	"github.com/kbukum/speechturn/auth/authctx"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/server/middleware"
	"github.com/kbukum/speechturn/session"
	"github.com/kbukum/speechturn/speechturn"
	"github.com/kbukum/speechturn/sse"
)

// TurnProcessor runs speech turns.
type TurnProcessor interface {
	Process(ctx context.Context, req speechturn.TurnRequest, caller speechturn.Caller) (*speechturn.TurnResponse, error)
	MaxAudioBytes() int64
}

// JobReader reads deferred audio jobs on behalf of a requester.
type JobReader interface {
	Get(ctx context.Context, id string, requester audiojob.Requester) (*audiojob.Job, error)
}

// AudioFiles opens cached audio by filename.
type AudioFiles interface {
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

// Sessions issues and checks credentials.
type Sessions interface {
	Login(ctx context.Context, username, password string) (*session.TokenPair, error)
	Refresh(ctx context.Context, token string) (*session.TokenPair, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(token string) (any, error)
	VerifyAudio(token, filename string) error
}

// JobEvents subscribes job status streams.
type JobEvents interface {
	Register(c *sse.Client) bool
	Unregister(c *sse.Client)
}

// Options configures the routes.
type Options struct {
	// PublicURL prefixes audio links. Empty derives the origin from each request.
	PublicURL string
	RateLimit middleware.RateLimitConfig
	// Events pushes job completions to streams. Nil streams poll only.
	Events JobEvents
	// PollInterval is how often a stream re-reads its job.
	PollInterval time.Duration
	KeepAlive    time.Duration
}

// JobTopic is the client ID prefix for streams watching job id.
func JobTopic(id string) string { return "job:" + id }

// Handlers holds the route dependencies.
type Handlers struct {
	turns    TurnProcessor
	jobs     JobReader
	audio    AudioFiles
	sessions Sessions
	opts     Options
	log      *logger.Logger
}

// New creates Handlers.
func New(turns TurnProcessor, jobs JobReader, audio AudioFiles, sessions Sessions, opts Options, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = 15 * time.Second
	}
	return &Handlers{
		turns:    turns,
		jobs:     jobs,
		audio:    audio,
		sessions: sessions,
		opts:     opts,
		log:      log.WithComponent("api"),
	}
}

// Register mounts every route on r.
func (h *Handlers) Register(r gin.IRouter) {
	authenticated := middleware.Auth(h.sessions)
	limit := middleware.RateLimit(h.opts.RateLimit)

	turn := []gin.HandlerFunc{authenticated, middleware.RequireScopes(session.ScopeSpeechWrite), limit, h.Turn}
	r.POST("/v1/speech/turn", turn...)
	r.POST("/speech_turn", turn...)
	r.GET("/v1/speech/audio/:job_id", authenticated, middleware.RequireScopes(session.ScopeSpeechRead), h.AudioJob)
	r.GET("/v1/speech/audio/:job_id/events", authenticated, middleware.RequireScopes(session.ScopeSpeechRead), h.AudioJobEvents)
	r.GET("/static/audio/:filename", h.StaticAudio)

	a := r.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)

	r.POST("/v1/chat", h.Chat)
	r.POST("/chat", h.Chat)
}

// claims returns the session claims placed by middleware.Auth.
func claims(c *gin.Context) (*session.Claims, error) {
	cl, err := authctx.GetOrError[*session.Claims](c.Request.Context())
	if err != nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	return cl, nil
}

// baseURL is the origin used in audio links.
func (h *Handlers) baseURL(c *gin.Context) string {
	if h.opts.PublicURL != "" {
		return strings.TrimRight(h.opts.PublicURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}
