package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechturn/server"
	"github.com/kbukum/speechturn/tutor"
)

type chatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
	Level   string `json:"level" validate:"omitempty,oneof=beginner intermediate"`
}

// Chat handles POST /v1/chat with a typed message.
func (h *Handlers) Chat(c *gin.Context) {
	req := chatRequest{Level: tutor.LevelBeginner}
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, tutor.Respond(req.Message, req.Level))
}
