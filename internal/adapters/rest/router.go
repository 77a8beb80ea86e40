package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures NewRouter.
type Options struct {
	Messages    *MessageHandler
	Tokens      TokenValidator
	SendLimiter Limiter
	CORSOrigins []string
	// Ping checks the database for /api/health. Optional.
	Ping func(ctx context.Context) error
	// StoreFailures reports absorbed store failures for /api/health. Optional.
	StoreFailures func() int64
}

// NewRouter builds the gin engine serving the API.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger())
	r.Use(Recovery())
	r.Use(corsMiddleware(opts.CORSOrigins))

	api := r.Group("/api")
	api.GET("/health", health(opts))

	dm := api.Group("/private-messages")
	dm.Use(BearerAuth(opts.Tokens))
	{
		send := []gin.HandlerFunc{}
		if opts.SendLimiter != nil {
			send = append(send, RateLimit(opts.SendLimiter, "send_private_message"))
		}
		send = append(send, opts.Messages.Send)

		dm.POST("", send...)
		dm.GET("", opts.Messages.List)
		dm.GET("/conversations", opts.Messages.Conversations)
		dm.GET("/conversation/:userId", opts.Messages.Thread)
		dm.GET("/unread", opts.Messages.Unread)
		dm.GET("/:id", opts.Messages.Get)
		dm.PUT("/:id/read", opts.Messages.MarkRead)
		dm.DELETE("/:id", opts.Messages.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowOrigins = nil
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	}
	return cors.New(config)
}

func health(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		checks := gin.H{"database": "ok"}

		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
				checks["database"] = err.Error()
			}
		}

		var failures int64
		if opts.StoreFailures != nil {
			failures = opts.StoreFailures()
		}

		c.JSON(code, gin.H{
			"status":        status,
			"checks":        checks,
			"storeFailures": failures,
			"time":          time.Now().UTC().Format(time.RFC3339),
		})
	}
}
