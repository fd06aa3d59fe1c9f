// Package server initializes and runs the auth service: it opens the
// database, applies migrations, wires services and the HTTP API, and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/RTHeLL/mg-test/internal/logging"
	"github.com/RTHeLL/mg-test/internal/server/api"
	"github.com/RTHeLL/mg-test/internal/server/auth"
	"github.com/RTHeLL/mg-test/internal/server/config"
	"github.com/RTHeLL/mg-test/internal/server/ratelimit"
	"github.com/RTHeLL/mg-test/internal/server/repositories/repomanager"
	"github.com/RTHeLL/mg-test/internal/server/services"
)

// App owns the process-level wiring of the auth server.
type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *api.Server
}

// NewApp builds the full object graph from configuration. The signing secret
// and token lifetimes are injected here, once, and treated as immutable for
// the process lifetime.
func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec := auth.NewCodec([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewRedisLimiter(client, cfg.SignInRateLimit, cfg.SignInRateWindow, logger)
	}

	sessionService := services.NewSessionService(db, repos, codec, logger)
	userService := services.NewUserService(db, repos, logger)

	apiServer := api.NewServer(cfg.EndpointAddr, cfg.Environment, sessionService, userService, codec, limiter, logger)

	return &App{config: cfg, logger: logger, db: db, api: apiServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until an OS signal arrives, then shuts the API down and closes
// the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting auth server", "addr", app.config.EndpointAddr, "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	if err := app.api.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
