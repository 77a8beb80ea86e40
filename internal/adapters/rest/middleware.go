package rest

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/whisper/internal/ctxutil"
	"github.com/example/whisper/internal/logger"
)

// userIDKey is the gin context key holding the authenticated user.
const userIDKey = "userId"

// TokenValidator resolves a bearer token to the user it was issued to.
type TokenValidator interface {
	UserIDFromToken(token string) (string, error)
}

// RequestLogger logs every request with its outcome and timing.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 400 {
			event = logger.Warn()
		}
		if status >= 500 {
			event = logger.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("user_id", c.GetString(userIDKey)).
			Msg("request")
	}
}

// Recovery turns panics into a 500 envelope and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")

				fail(c, http.StatusInternalServerError, CodeInternal, "an unexpected error occurred")
			}
		}()

		c.Next()
	}
}

// BearerAuth requires a valid bearer token and records its user as the
// request's acting user.
func BearerAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, http.StatusUnauthorized, CodeAuth, "authorization header required")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || scheme != "Bearer" || token == "" {
			fail(c, http.StatusUnauthorized, CodeAuth, "invalid authorization header format")
			return
		}

		userID, err := tokens.UserIDFromToken(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, CodeAuth, "invalid or expired token")
			return
		}

		c.Set(userIDKey, userID)
		c.Request = c.Request.WithContext(ctxutil.WithActorID(c.Request.Context(), userID))
		c.Next()
	}
}
