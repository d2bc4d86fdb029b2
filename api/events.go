package api

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/speechturn/audiojob"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/server"
	"github.com/kbukum/speechturn/sse"
)

// AudioJobEvents handles GET /v1/speech/audio/:job_id/events. The job is
// sent as a "job" event on connect and again when it turns ready or error,
// after which the stream ends. Pushed completions arrive immediately;
// completions written by another instance are found by polling.
func (h *Handlers) AudioJobEvents(c *gin.Context) {
	cl, err := claims(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("job_id")
	requester := audiojob.Requester{ID: cl.Subject, Roles: cl.Roles}

	job, err := h.jobs.Get(ctx, id, requester)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	var updates <-chan sse.Event
	if h.opts.Events != nil && !job.Status.Terminal() {
		client := sse.NewClient(JobTopic(id) + ":" + uuid.NewString())
		if h.opts.Events.Register(client) {
			defer h.opts.Events.Unregister(client)
			updates = client.Events()
			// Re-read so a completion between Get and Register is not missed.
			if job, err = h.jobs.Get(ctx, id, requester); err != nil {
				server.RespondWithError(c, err)
				return
			}
		}
	}

	w, err := sse.NewWriter(c.Writer)
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	log := h.log.WithContext(ctx)
	if err := w.Send(jobEvent(job)); err != nil || job.Status.Terminal() {
		return
	}

	poll := time.NewTicker(h.opts.PollInterval)
	defer poll.Stop()
	keepAlive := time.NewTicker(h.opts.KeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-updates:
			if !ok {
				// Hub stopped: the process is shutting down.
				return
			}
			_ = w.Send(e)
			return
		case <-poll.C:
			j, err := h.jobs.Get(ctx, id, requester)
			if err != nil {
				log.Warn("job stream poll failed", logger.Fields(logger.FieldJobID, id, logger.FieldError, err.Error()))
				_ = w.Send(errorEvent(err))
				return
			}
			if j.Status.Terminal() {
				_ = w.Send(jobEvent(j))
				return
			}
		case <-keepAlive.C:
			if err := w.KeepAlive(); err != nil {
				return
			}
		}
	}
}

// JobEvent renders job as a stream event.
func JobEvent(job audiojob.Job) sse.Event {
	data, _ := json.Marshal(job)
	return sse.Event{Name: sse.EventJob, Data: data}
}

func jobEvent(job *audiojob.Job) sse.Event { return JobEvent(*job) }

func errorEvent(err error) sse.Event {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	data, _ := json.Marshal(appErr.ToResponse())
	return sse.Event{Name: sse.EventError, Data: data}
}
