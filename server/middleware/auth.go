package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechturn/auth"
	"github.com/kbukum/speechturn/auth/authctx"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
)

// UserIDKey is the gin context key holding the authenticated subject.
const UserIDKey = "user_id"

// Auth validates "Authorization: Bearer <token>" with validator. The claims
// go into the request context via authctx; claims implementing auth.Subject
// also set UserIDKey and the logger user id.
func Auth(validator auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.Unauthorized("authorization header required"))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, apperrors.Unauthorized("invalid authorization header format"))
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok {
				abort(c, appErr)
				return
			}
			abort(c, apperrors.InvalidToken())
			return
		}

		ctx := authctx.Set(c.Request.Context(), claims)
		if sub, ok := claims.(auth.Subject); ok {
			c.Set(UserIDKey, sub.SubjectID())
			ctx = logger.ContextWithUserID(ctx, sub.SubjectID())
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireScopes rejects requests whose claims lack any of scopes with 403.
// It must run after Auth.
func RequireScopes(scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		holder, ok := authctx.Get[auth.ScopeHolder](c.Request.Context())
		if !ok {
			abort(c, apperrors.Unauthorized("authentication required"))
			return
		}
		for _, s := range scopes {
			if !holder.HasScope(s) {
				abort(c, apperrors.Forbidden("missing scope "+s))
				return
			}
		}
		c.Next()
	}
}

func abort(c *gin.Context, err *apperrors.AppError) {
	if err.Retryable && err.HTTPStatus == http.StatusTooManyRequests {
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
