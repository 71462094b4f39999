package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/csemotors/dealer/config"
	"github.com/csemotors/dealer/internal/auth"
	"github.com/csemotors/dealer/internal/db"
	"github.com/csemotors/dealer/internal/flash"
	"github.com/csemotors/dealer/internal/handlers"
	"github.com/csemotors/dealer/internal/mq"
	"github.com/csemotors/dealer/internal/services"
	"github.com/csemotors/dealer/internal/storage"
	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/internal/validation"
	"github.com/csemotors/dealer/internal/views"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Logger         *zap.Logger
	Views          *views.Renderer
	Flash          flash.Store
	Tokens         *auth.TokenIssuer
	Accounts       *services.AccountService
	Inventory      *services.InventoryService
	Validator      *validation.Validator
	Images         *storage.Images
	DB             handlers.Pinger
	Secure         bool
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP routes and middleware chain.
func NewRouter(deps Deps) *chi.Mux {
	site := handlers.NewSite(deps.Views, deps.Inventory, deps.Flash, deps.Logger, deps.Secure)

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.RequestLogger(deps.Logger),
		site.LoadIdentity(deps.Tokens),
		site.Recoverer,
		middleware.Timeout(timeout),
	)
	router.NotFound(site.NotFound)

	router.Get("/", site.Home)
	router.Get("/healthz", handlers.Healthz(deps.DB))
	router.Get("/test/error-test", site.ErrorTest)
	router.Get(storage.MediaPrefix+"*", site.Media(deps.Images))
	router.Route("/account", func(r chi.Router) {
		handlers.AccountRouter(r, site, deps.Accounts, deps.Validator)
	})
	router.Route("/inv", func(r chi.Router) {
		handlers.InventoryRouter(r, site, deps.Inventory, deps.Validator, deps.Images)
	})

	return router
}

// Server wraps the HTTP server and the connections it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sqlx.DB
	redis      *redis.Client
	events     *mq.Events
	logger     *zap.Logger
}

// New connects to the configured backends and builds the server.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	s := &Server{db: dbConn, logger: logger}
	fail := func(err error) (*Server, error) {
		_ = s.close()
		return nil, err
	}

	notices, err := s.flashStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	backend, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fail(fmt.Errorf("object storage: %w", err))
	}
	if backend != nil {
		if err := backend.EnsureBucket(ctx); err != nil {
			return fail(fmt.Errorf("ensure bucket %s: %w", backend.Bucket(), err))
		}
	}

	broker, err := mq.New(ctx, cfg.MQ)
	if err != nil {
		return fail(fmt.Errorf("message queue: %w", err))
	}
	s.events = mq.NewEvents(broker, logger)

	accountRepo := store.NewAccountRepository(dbConn)
	inventoryRepo := store.NewInventoryRepository(dbConn)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	s.router = NewRouter(Deps{
		Logger:         logger,
		Views:          renderer,
		Flash:          notices,
		Tokens:         tokens,
		Accounts:       services.NewAccountService(accountRepo, auth.NewPasswordHasher(cfg.Auth.BcryptCost), tokens, s.events),
		Inventory:      services.NewInventoryService(inventoryRepo, s.events),
		Validator:      validation.New(accountRepo),
		Images:         storage.NewImages(backend),
		DB:             dbConn,
		Secure:         cfg.Secure(),
		RequestTimeout: cfg.RequestTimeout,
	})

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) flashStore(ctx context.Context, cfg config.Config) (flash.Store, error) {
	if cfg.Redis.Addr == "" {
		return flash.NewCookieStore(cfg.Auth.SessionSecret, cfg.Secure())
	}

	s.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	notices := flash.NewRedisStore(s.redis, cfg.Secure())
	if err := notices.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return notices, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits for in-flight ones and closes
// the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	return errors.Join(err, s.close())
}

func (s *Server) close() error {
	var errs []error
	if s.events != nil {
		errs = append(errs, s.events.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
