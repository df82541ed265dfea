package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/masterplan/internal/http/response"
	"github.com/alexanderramin/masterplan/internal/platform/ctxutil"
)

// HeaderUserID carries the caller identity. It is recorded, never verified.
const HeaderUserID = "X-User-Id"

var errMissingCaller = errors.New("X-User-Id header is required")

// AttachCaller records the caller id when the header is present.
func AttachCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(HeaderUserID)); id != "" {
			c.Request = c.Request.WithContext(ctxutil.WithActor(c.Request.Context(), id))
		}
		c.Next()
	}
}

// RequireCaller rejects requests without a caller id with 401.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if id == "" {
			response.RespondError(c, http.StatusUnauthorized, response.CodeUnauthorized, errMissingCaller)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithActor(c.Request.Context(), id))
		c.Next()
	}
}
