// Package wire provides dependency injection for the whisper application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	cliadapter "github.com/example/whisper/internal/adapters/cli"
	"github.com/example/whisper/internal/adapters/rest"
	"github.com/example/whisper/internal/adapters/sqlite"
	"github.com/example/whisper/internal/app"
	"github.com/example/whisper/internal/auth"
	"github.com/example/whisper/internal/config"
	"github.com/example/whisper/internal/core/message"
	"github.com/example/whisper/internal/db"
	"github.com/example/whisper/internal/logger"
	"github.com/example/whisper/internal/ports/primary"
)

var (
	cfg *config.Config

	database       *sql.DB
	messageService *app.MessageServiceImpl
	userService    primary.UserService
	auditService   primary.AuditService
	once           sync.Once

	redisClient *redis.Client
)

// Configure sets the configuration every singleton is built from.
// It must be called before any other accessor.
func Configure(c *config.Config) {
	cfg = c
}

// Config returns the configuration passed to Configure.
func Config() *config.Config {
	return cfg
}

// Database returns the shared database connection.
func Database() *sql.DB {
	once.Do(initServices)
	return database
}

// MessageService returns the singleton MessageService instance.
func MessageService() primary.MessageService {
	once.Do(initServices)
	return messageService
}

// UserService returns the singleton UserService instance.
func UserService() primary.UserService {
	once.Do(initServices)
	return userService
}

// AuditService returns the singleton AuditService instance.
func AuditService() primary.AuditService {
	once.Do(initServices)
	return auditService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	if cfg == nil {
		logger.Fatal().Msg("wire.Configure was not called")
	}

	conn, err := db.GetDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to initialize database")
	}
	database = conn

	// Secondary ports
	messageRepo := sqlite.NewMessageRepository(database)
	userRepo := sqlite.NewUserRepository(database)
	auditRepo := sqlite.NewAuditLogRepository(database)
	auditWriter := sqlite.NewAuditLogWriter(auditRepo)

	limits := message.PageLimits{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize}
	if limits.Default <= 0 || limits.Max < limits.Default {
		limits = message.DefaultPageLimits
	}

	// Primary ports
	messageService = app.NewMessageService(messageRepo, userRepo, auditWriter, limits)
	userService = app.NewUserService(userRepo, auditWriter)
	auditService = app.NewAuditService(auditRepo)
}

// TokenIssuer returns a token issuer built from the configured secret.
func TokenIssuer() *auth.Issuer {
	return auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
}

// SendLimiter returns the limiter applied to message sends: shared through
// Redis when redis_addr is set, in process memory otherwise.
func SendLimiter() rest.Limiter {
	if cfg.RedisAddr == "" {
		return rest.NewMemoryLimiter(cfg.SendRatePerMinute)
	}

	if redisClient == nil {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}
	return rest.NewRedisLimiter(redisClient, cfg.SendRatePerMinute, time.Minute)
}

// Router returns the REST router wired to the singleton services.
func Router() *gin.Engine {
	once.Do(initServices)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return rest.NewRouter(rest.Options{
		Messages:      rest.NewMessageHandler(messageService),
		Tokens:        TokenIssuer(),
		SendLimiter:   SendLimiter(),
		CORSOrigins:   cfg.CORSOrigins,
		Ping:          database.PingContext,
		StoreFailures: messageService.StoreFailures,
	})
}

// Shutdown releases the database and Redis connections.
func Shutdown() error {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis client")
		}
		redisClient = nil
	}
	return db.Close()
}

// MessageAdapter returns a new MessageAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func MessageAdapter() *cliadapter.MessageAdapter {
	return MessageAdapterWithOutput(os.Stdout)
}

// MessageAdapterWithOutput returns a new MessageAdapter writing to the given output.
func MessageAdapterWithOutput(out io.Writer) *cliadapter.MessageAdapter {
	once.Do(initServices)
	return cliadapter.NewMessageAdapter(messageService, out)
}

// UserAdapter returns a new UserAdapter writing to stdout.
func UserAdapter() *cliadapter.UserAdapter {
	return UserAdapterWithOutput(os.Stdout)
}

// UserAdapterWithOutput returns a new UserAdapter writing to the given output.
func UserAdapterWithOutput(out io.Writer) *cliadapter.UserAdapter {
	once.Do(initServices)
	return cliadapter.NewUserAdapter(userService, out)
}
