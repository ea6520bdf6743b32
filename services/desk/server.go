package desk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	httpmw "github.com/diagnosis/libdesk/internal/http/middleware"
	"github.com/diagnosis/libdesk/pkg/config"
	"github.com/diagnosis/libdesk/pkg/events"
	"github.com/diagnosis/libdesk/pkg/logger"
	mw "github.com/diagnosis/libdesk/pkg/middleware"
	"github.com/diagnosis/libdesk/services/desk/internal/handlers"
	"github.com/diagnosis/libdesk/services/desk/internal/service"
	"github.com/diagnosis/libdesk/services/desk/internal/session"
)

const shutdownTimeout = 30 * time.Second

// Server is the desk HTTP service with the connections it owns.
type Server struct {
	cfg       *config.Config
	srv       *http.Server
	publisher events.Publisher
	redis     *redis.Client
}

func New(cfg *config.Config) (*Server, error) {
	authn, err := newAuthenticator(cfg)
	if err != nil {
		return nil, err
	}

	publisher := events.Multi{events.NewLogPublisher()}
	if cfg.NATS.URL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			return nil, err
		}
		publisher = append(publisher, natsPub)
		logger.Info("Publishing records to NATS", "url", cfg.NATS.URL)
	}

	s := &Server{cfg: cfg, publisher: publisher}

	var counter httpmw.Counter = httpmw.NewMemoryCounter(nil)
	if cfg.Redis.URL != "" {
		client, err := newRedisClient(cfg.Redis)
		if err != nil {
			_ = publisher.Close()
			return nil, err
		}
		s.redis = client
		counter = httpmw.NewRedisCounter(client)
	}
	limiter := httpmw.NewRateLimiter(counter, httpmw.RateLimitConfig{
		Requests:   cfg.Auth.LoginRateLimit,
		Window:     cfg.Auth.LoginRateWindow,
		TrustProxy: cfg.Auth.TrustProxy,
	})

	gate := session.NewGate(authn, session.NewStore(nil), session.GateConfig{
		Secret:   cfg.Auth.JWTSecret,
		TTL:      cfg.Auth.SessionTTL,
		Location: cfg.Location(),
	})
	desk := service.NewDeskService(publisher, gate.Today)
	h := handlers.New(gate, desk, limiter.Middleware())

	s.srv = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewRouter(cfg, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s, nil
}

func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("desk"))
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)

	h.Routes(r)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting desk service", "port", s.cfg.Server.Port, "auth_mode", s.cfg.Auth.Mode)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("desk service: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down desk service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("desk service shutdown: %w", err)
	}
	return nil
}

func (s *Server) close() {
	if err := s.publisher.Close(); err != nil {
		logger.Error("Failed to close publisher", "error", err)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Error("Failed to close redis client", "error", err)
		}
	}
}

func newAuthenticator(cfg *config.Config) (session.Authenticator, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeCredentials:
		authn, err := session.LoadUsersFile(cfg.Auth.UsersFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Credential authentication enabled", "users_file", cfg.Auth.UsersFile)
		return authn, nil
	default:
		logger.Warn("Stub authentication enabled: every login is granted admin")
		return session.StubAuthenticator{}, nil
	}
}

func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return redis.NewClient(opts), nil
}
