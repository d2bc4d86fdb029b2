package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/speechturn/api"
	"github.com/kbukum/speechturn/audiojob"
	"github.com/kbukum/speechturn/authz"
	"github.com/kbukum/speechturn/bootstrap"
	"github.com/kbukum/speechturn/encryption"
	"github.com/kbukum/speechturn/gemini"
	"github.com/kbukum/speechturn/httpclient"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/observability"
	"github.com/kbukum/speechturn/provider"
	"github.com/kbukum/speechturn/redis"
	"github.com/kbukum/speechturn/server"
	"github.com/kbukum/speechturn/server/endpoint"
	"github.com/kbukum/speechturn/session"
	"github.com/kbukum/speechturn/speechturn"
	"github.com/kbukum/speechturn/sse"
	"github.com/kbukum/speechturn/storage"
	"github.com/kbukum/speechturn/util"
	"github.com/kbukum/speechturn/version"
)

// Redis key prefixes.
const (
	refreshKeyPrefix = "speechturn:refresh:"
	jobKeyPrefix     = "speechturn:job:"
)

// storePruneInterval is how often in-memory job and refresh stores drop
// expired entries when Redis is disabled.
const storePruneInterval = 5 * time.Minute

// New builds the application. Backends start first; the turn pipeline and
// the HTTP server are assembled once storage and Redis are connected.
func New(cfg *Config, opts ...bootstrap.Option) (*bootstrap.App[*Config], error) {
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	telemetry := observability.NewComponent(cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: version.Get().Short(),
		Environment:    cfg.Environment,
	})
	if err := a.RegisterComponent(telemetry); err != nil {
		return nil, err
	}

	store := storage.NewComponent(cfg.Storage, a.Logger)
	if err := a.RegisterComponent(store); err != nil {
		return nil, err
	}

	var rdb *redis.Component
	if cfg.Redis.Enabled {
		rdb = redis.NewComponent(cfg.Redis, a.Logger)
		if err := a.RegisterComponent(rdb); err != nil {
			return nil, err
		}
	}

	a.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
		return configure(ctx, a, store.Storage(), rdb)
	})
	return a, nil
}

func configure(ctx context.Context, a *bootstrap.App[*Config], files storage.Storage, rdb *redis.Component) error {
	cfg := a.Cfg
	log := a.Logger

	deps, err := upstreams(ctx, cfg, log)
	if err != nil {
		return err
	}

	var (
		refreshStore provider.ContextStore[session.RefreshRecord]
		jobStore     provider.ContextStore[audiojob.Job]
	)
	var janitor *provider.Janitor
	if rdb != nil {
		refreshStore = redis.NewTypedStore[session.RefreshRecord](rdb.Client(), refreshKeyPrefix)
		jobStore = redis.NewTypedStore[audiojob.Job](rdb.Client(), jobKeyPrefix)
	} else {
		refreshMem := provider.NewMemoryStore[session.RefreshRecord]()
		jobMem := provider.NewMemoryStore[audiojob.Job]()
		refreshStore, jobStore = refreshMem, jobMem
		janitor = provider.NewJanitor(storePruneInterval, log, refreshMem, jobMem)
	}

	sessions := session.New(cfg.Auth, refreshStore, log)
	if !sessions.Configured() {
		log.Warn("auth secrets missing; protected routes answer 503")
	}
	// Registered after the server so it stops first and open streams end
	// before the server drains connections.
	streams := sse.NewComponent(log)
	hub := streams.Hub()
	jobs := audiojob.NewRegistry(jobStore, authz.NewPolicy(cfg.Permissions),
		audiojob.WithTTL(cfg.Jobs.TTL),
		audiojob.WithNotifier(func(_ context.Context, job audiojob.Job) {
			hub.Publish(api.JobTopic(job.ID)+":*", api.JobEvent(job))
		}),
	)
	var cacheOpts []speechturn.CacheOption
	if cfg.Audio.EncryptionKey != "" {
		enc, err := encryption.New(cfg.Audio.EncryptionKey, encryption.WithAlgorithm(cfg.Audio.EncryptionAlgorithm))
		if err != nil {
			return err
		}
		cacheOpts = append(cacheOpts, speechturn.WithEncryptor(enc))
	}
	cache := speechturn.NewAudioCache(files, cfg.Audio.Prefix, cfg.Audio.TTL, log, cacheOpts...)

	metrics, err := observability.NewTurnMetrics(nil)
	if err != nil {
		return fmt.Errorf("turn metrics: %w", err)
	}

	deps.Cache = cache
	deps.Jobs = jobs
	deps.Signer = sessions
	deps.Metrics = metrics
	deps.Logger = log
	svc := speechturn.NewService(deps, cfg.Speech)
	a.OnStop(svc.Drain)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	endpoint.Register(srv.Engine(), endpoint.Probes{
		Service: cfg.Name,
		Check:   a.Components.HealthAll,
		Capabilities: func() map[string]bool {
			return map[string]bool{
				"speech":       svc.Configured(),
				"auth":         sessions.Configured(),
				"audio_tokens": sessions.AudioConfigured(),
			}
		},
	})
	api.New(svc, jobs, cache, sessions, api.Options{
		PublicURL: cfg.Server.PublicURL,
		RateLimit: cfg.Server.RateLimit,
		Events:    hub,
	}, log).Register(srv.Engine())

	if err := a.RegisterComponent(speechturn.NewSweeperComponent(cache, cfg.Audio.SweepInterval)); err != nil {
		return err
	}
	if janitor != nil {
		if err := a.RegisterComponent(janitor); err != nil {
			return err
		}
	}
	if err := a.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}
	return a.RegisterComponent(streams)
}

// upstreams connects the model adapters. A missing API key leaves them nil
// so turns fail with 503 while auth and chat keep working.
func upstreams(ctx context.Context, cfg *Config, log *logger.Logger) (speechturn.Deps, error) {
	var deps speechturn.Deps
	if !cfg.Gemini.Configured() {
		log.Warn("GEMINI_API_KEY not set; speech turns answer 503")
		return deps, nil
	}

	httpClient, err := httpclient.New(cfg.HTTPClient)
	if err != nil {
		return deps, fmt.Errorf("http client: %w", err)
	}
	client, err := gemini.New(ctx, cfg.Gemini, log, httpClient)
	if err != nil {
		return deps, fmt.Errorf("gemini: %w", err)
	}
	log.Info("gemini configured", logger.Fields(
		"api_key", util.MaskSecret(cfg.Gemini.APIKey, 4),
		"stt_model", cfg.Gemini.STTModel,
		"text_model", cfg.Gemini.TextModel,
		"tts_model", cfg.Gemini.TTSModel,
	))

	deps.Transcriber = gemini.NewTranscriber(client)
	deps.Generator = gemini.NewGenerator(client)
	deps.Synthesizer = gemini.NewSynthesizer(client)
	return deps, nil
}
