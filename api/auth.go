package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/server"
	"github.com/kbukum/speechturn/validation"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// bindJSON decodes and validates the request body into dst.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.InvalidInput("body", "malformed JSON body")
	}
	return validation.Validate(dst)
}

// Login handles POST /auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	pair, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, pair)
}

// Refresh handles POST /auth/refresh. The presented refresh token is
// consumed and a new pair returned.
func (h *Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	pair, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, pair)
}

// Logout handles POST /auth/logout. Unknown or invalid tokens still get 204.
func (h *Handlers) Logout(c *gin.Context) {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
