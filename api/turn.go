package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/server"
	"github.com/kbukum/speechturn/speechturn"
	"github.com/kbukum/speechturn/tts"
	"github.com/kbukum/speechturn/validation"
)

var langTag = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)

// turnForm is the non-file part of the multipart turn request.
type turnForm struct {
	Level      string `form:"level" validate:"omitempty,oneof=beginner intermediate"`
	Scenario   string `form:"scenario" validate:"max=64"`
	SourceLang string `form:"source_lang"`
	TargetLang string `form:"target_lang"`
	Voice      string `form:"voice" validate:"omitempty,oneof=warm bright deep"`
}

func (f *turnForm) validate() error {
	if err := validation.Validate(f); err != nil {
		return err
	}
	return validation.New().
		Pattern("source_lang", f.SourceLang, langTag).
		Pattern("target_lang", f.TargetLang, langTag).
		Error()
}

// Turn handles POST /v1/speech/turn: multipart "audio" plus level, scenario,
// source_lang, target_lang and voice.
func (h *Handlers) Turn(c *gin.Context) {
	cl, err := claims(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	var form turnForm
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		server.RespondWithError(c, bodyError(err, h.turns.MaxAudioBytes()))
		return
	}
	if err := form.validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}

	audio, mimeType, err := readAudio(c, h.turns.MaxAudioBytes())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	resp, err := h.turns.Process(c.Request.Context(), speechturn.TurnRequest{
		Audio:      audio,
		MIMEType:   mimeType,
		SourceLang: form.SourceLang,
		TargetLang: form.TargetLang,
		Scenario:   form.Scenario,
		Level:      form.Level,
		Voice:      tts.ParseVoice(form.Voice),
		BaseURL:    h.baseURL(c),
	}, speechturn.Caller{UserID: cl.Subject, Roles: cl.Roles})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// readAudio returns the uploaded audio. Oversized parts are rejected from
// the part header before reading; an empty part is left to Process, which
// rejects it before any upstream call.
func readAudio(c *gin.Context, limit int64) ([]byte, string, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", apperrors.MissingField("audio")
		}
		return nil, "", bodyError(err, limit)
	}
	if fh.Size > limit {
		return nil, "", apperrors.PayloadTooLarge("audio", limit)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	if int64(len(data)) > limit {
		return nil, "", apperrors.PayloadTooLarge("audio", limit)
	}
	return data, audioMIME(fh), nil
}

func audioMIME(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return "audio/wav"
}

// bodyError maps body parsing failures onto the taxonomy.
func bodyError(err error, limit int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.PayloadTooLarge("body", tooLarge.Limit)
	}
	if errors.Is(err, multipart.ErrMessageTooLarge) {
		return apperrors.PayloadTooLarge("audio", limit)
	}
	return apperrors.InvalidInput("body", "expected multipart/form-data with an audio part")
}
