package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/mimic/pkg/composer"
	"github.com/getmockd/mimic/pkg/config"
	"github.com/getmockd/mimic/pkg/identity"
	"github.com/getmockd/mimic/pkg/logging"
	"github.com/getmockd/mimic/pkg/metrics"
	"github.com/getmockd/mimic/pkg/plugin"
	"github.com/getmockd/mimic/pkg/resolver"
	"github.com/getmockd/mimic/pkg/session"
)

// DefaultShutdownTimeout bounds the graceful shutdown done by Run.
const DefaultShutdownTimeout = 5 * time.Second

var (
	// ErrAlreadyStarted is returned by Start on a running server.
	ErrAlreadyStarted = errors.New("server already started")
	// ErrNotStarted is returned by WaitReady before Start.
	ErrNotStarted = errors.New("server not started")
)

// Server is a mimic server.
type Server struct {
	cfg      *config.ServerConfiguration
	log      *slog.Logger
	store    *session.Store
	registry *plugin.Registry
	metrics  *metrics.ServerMetrics

	resolver *resolver.Resolver
	composer *composer.Composer

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	baseURL string
	started bool
	done    chan struct{} // closed when Serve returns
	err     error         // Serve error, readable after done is closed
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore uses store instead of a new session store. The store's own
// options, such as its observer, are left as they are.
func WithStore(store *session.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRegistry serves the plugins of reg instead of those of the
// configuration.
func WithRegistry(reg *plugin.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// New creates a Server for cfg. Plugins are mounted when the server starts.
func New(cfg *config.ServerConfiguration, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		log:     logging.Nop(),
		metrics: metrics.NewServerMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = session.NewStore(
			session.WithTokenLifetime(time.Duration(cfg.TokenLifetime)),
			session.WithObserver(s.metrics.StoreObserver()),
			session.WithLogger(logging.Component(s.log, "session")),
		)
	}
	if s.registry == nil {
		reg, err := RegistryFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		s.registry = reg
	}
	s.composer = composer.New(s.registry, composer.WithLogger(logging.Component(s.log, "composer")))
	return s, nil
}

// Store returns the session store of the server.
func (s *Server) Store() *session.Store { return s.store }

// Registry returns the plugin registry of the server.
func (s *Server) Registry() *plugin.Registry { return s.registry }

// Resolver returns the resolver of a started server, or nil.
func (s *Server) Resolver() *resolver.Resolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver
}

// Start listens on the configured address, mounts every plugin and serves
// in the background. When the configured port is 0 the base URL is taken
// from the bound address.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer func() {
		if !s.started {
			_ = ln.Close()
		}
	}()

	baseURL := s.cfg.BaseURL
	if _, port, _ := net.SplitHostPort(s.cfg.Listen); port == "0" || baseURL == "" {
		baseURL = "http://" + ln.Addr().String()
	}

	res := resolver.New(baseURL, s.store,
		resolver.WithRegions(s.cfg.Regions...),
		resolver.WithLogger(logging.Component(s.log, "resolver")),
	)
	if err := res.Bind(s.registry); err != nil {
		return err
	}

	s.ln = ln
	s.baseURL = baseURL
	s.resolver = res
	s.srv = &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.started = true
	s.done = make(chan struct{})
	s.err = nil

	go func(srv *http.Server, done chan<- struct{}) {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.err = err
		}
		close(done)
	}(s.srv, s.done)

	s.log.Info("mimic server started",
		"addr", ln.Addr().String(),
		"base_url", baseURL,
		"plugins", s.registry.Len(),
	)
	return nil
}

// handler assembles the routes of a started server.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	s.registerAdmin(mux)

	identity.NewHandler(s.store, s.composer, s.resolver,
		identity.WithLogger(logging.Component(s.log, "identity")),
		identity.WithCatalogObserver(s.metrics.ObserveCatalog),
	).Register(mux)

	mux.Handle("/", s.resolver)

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.resolver.HasDomain(r.Host) {
			s.resolver.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
	return observe(root, logging.Component(s.log, "http"), s.metrics)
}

// Run starts the server and blocks until ctx is cancelled or serving fails.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-done
		if s.err != nil {
			return fmt.Errorf("serve: %w", s.err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Addr returns the address the server listens on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// BaseURL returns the public base URL of a started server.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// WaitReady polls the health endpoint until it answers 200 or ctx is done.
func (s *Server) WaitReady(ctx context.Context) error {
	addr := s.Addr()
	if addr == "" {
		return ErrNotStarted
	}
	url := "http://" + addr + HealthPath
	client := &http.Client{Timeout: 200 * time.Millisecond}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(10*time.Millisecond),
		backoff.WithMaxInterval(200*time.Millisecond),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		res, err := client.Do(req)
		if err != nil {
			return err
		}
		_ = res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("health check returned %d", res.StatusCode)
		}
		return nil
	}, backoff.WithContext(b, ctx))
}

// Shutdown gracefully stops a started server. It is a no-op otherwise.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	srv, done := s.srv, s.done
	s.started = false
	s.mu.Unlock()

	err := srv.Shutdown(ctx)
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	s.log.Info("mimic server stopped")
	return err
}
