package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechturn/audiojob"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/server"
	"github.com/kbukum/speechturn/speechturn"
)

// AudioJob handles GET /v1/speech/audio/:job_id.
func (h *Handlers) AudioJob(c *gin.Context) {
	cl, err := claims(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	id := c.Param("job_id")
	job, err := h.jobs.Get(c.Request.Context(), id, audiojob.Requester{ID: cl.Subject, Roles: cl.Roles})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, job)
}

// StaticAudio handles GET /static/audio/:filename?token=. The token must be
// an audio token issued for exactly this filename.
func (h *Handlers) StaticAudio(c *gin.Context) {
	filename := c.Param("filename")
	if !speechturn.ValidAudioFilename(filename) {
		server.RespondWithError(c, apperrors.NotFound("audio file", ""))
		return
	}
	token := c.Query("token")
	if token == "" {
		server.RespondWithError(c, apperrors.Unauthorized("Audio token required."))
		return
	}
	if err := h.sessions.VerifyAudio(token, filename); err != nil {
		server.RespondWithError(c, err)
		return
	}

	rc, err := h.audio.Open(c.Request.Context(), filename)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	defer rc.Close()

	h.log.WithContext(c.Request.Context()).Debug("serving audio", logger.Fields("file", filename))
	c.DataFromReader(http.StatusOK, -1, speechturn.AudioContentType(filename), rc, map[string]string{
		"Cache-Control": "private, max-age=600",
	})
}
