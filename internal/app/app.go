package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/braindump"
	"github.com/jryandunlap/brain-dump/internal/calendar"
	"github.com/jryandunlap/brain-dump/internal/config"
	"github.com/jryandunlap/brain-dump/internal/handlers"
	"github.com/jryandunlap/brain-dump/internal/llm"
	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/middleware"
	"github.com/jryandunlap/brain-dump/internal/repository/inmemory"
	"github.com/jryandunlap/brain-dump/internal/repository/postgres"
	"github.com/jryandunlap/brain-dump/internal/service"
	"github.com/jryandunlap/brain-dump/internal/worker"
)

const (
	Version         = "1.0.0"
	shutdownTimeout = 15 * time.Second
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.Repository
	handler    *handlers.Handler
	worker     *worker.TokenRefreshWorker
	shutdowns  []func() // run in reverse order on shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// OpenRepository returns the configured store and its close function.
// The postgres store is migrated before it is returned.
func OpenRepository(ctx context.Context, cfg *config.Config) (service.Repository, func(), error) {
	switch cfg.Repository.Type {
	case config.RepositoryInMemory:
		logger.Info("App: using in-memory repository")
		return inmemory.NewStorage(), func() {}, nil
	default:
		storage, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := storage.Migrate(ctx); err != nil {
			storage.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return storage, storage.Close, nil
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	repository, closeRepo, err := OpenRepository(ctx, a.config)
	if err != nil {
		return err
	}
	a.repository = repository
	a.shutdowns = append(a.shutdowns, closeRepo)

	a.initServices()
	a.initRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "brain-dump"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}
	return nil
}

func (a *App) initServices() {
	extractor := braindump.NewPipeline(llm.NewAnthropicClient(a.config.LLM))

	var scheduler service.EventScheduler
	var calendarAuth handlers.CalendarAuth
	if a.config.Google.ClientID != "" {
		tokens := calendar.NewTokenCache(calendar.NewOAuthConfig(a.config.Google)).
			WithStateSecret(a.config.Auth.JWTSecret)
		scheduler = calendar.NewClient(a.config.Google.CalendarURL, tokens)
		calendarAuth = tokens
		a.worker = worker.NewTokenRefreshWorker(tokens,
			&a.config.Worker.TokenRefreshInterval,
			&a.config.Worker.TokenRefreshWindow,
			&a.config.Worker.BatchSize)
	} else {
		logger.Warn("App: google client id not set, calendar endpoints disabled")
	}

	a.handler = handlers.NewHandler(
		service.NewTaskService(a.repository, extractor, scheduler),
		service.NewCategoryService(a.repository),
		service.NewGoalsService(a.repository, a.repository),
		calendarAuth,
	)
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))
	r.Use(middleware.Auth(a.config.Auth.JWTSecret, handlers.OAuthCallbackPath))

	a.handler.RegisterRoutes(r)

	hcfg := huma.DefaultConfig("Brain Dump API", Version)
	api := humachi.New(r, hcfg)
	a.handler.RegisterStatsAPI(api)

	a.router = r
}

// Handler exposes the full middleware stack, mostly for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled or the listener fails, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	if a.worker != nil {
		go a.worker.Start(workerCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("App: shutdown requested")
	case err := <-errCh:
		logger.Error("App: server failed", err)
		runErr = err
	}

	stopWorker()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: graceful shutdown failed", err)
		if runErr == nil {
			runErr = err
		}
	}
	a.Shutdown()
	return runErr
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
