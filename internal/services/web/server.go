// Package web hosts the browser-facing auth and organization service.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/spawnbot/internal/platform/timeouts"
	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	webapp "github.com/louisbranch/spawnbot/internal/services/web/app"
	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"github.com/louisbranch/spawnbot/internal/services/web/email/outbox"
	"github.com/louisbranch/spawnbot/internal/services/web/email/resend"
	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/engine/devengine"
	"github.com/louisbranch/spawnbot/internal/services/web/engine/httpengine"
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/modules"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/metrics"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/observability"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/requestgate"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/revalidate"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/webctx"
	"github.com/louisbranch/spawnbot/internal/services/web/queries"
	webstatic "github.com/louisbranch/spawnbot/internal/services/web/static"
	"go.opentelemetry.io/otel"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr string
	// PublicURL is the browser-facing origin used for absolute email links.
	PublicURL           string
	TrustForwardedProto bool
	// EngineURL selects the HTTP engine; empty runs the in-memory
	// development engine.
	EngineURL       string
	EngineTimeout   time.Duration
	HookSecret      string
	DevEngineSecret string
	AdminUserIDs    []string
	EmailFrom       string
	ResendAPIKey    string
	ResendBaseURL   string
	// OutboxPath stores outgoing email in sqlite when no Resend key is set.
	OutboxPath     string
	GatePaths      []string
	MetricsEnabled bool
	Logger         *log.Logger
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	closers    []io.Closer
}

// services are the shared collaborators built from Config.
type services struct {
	deps    module.Dependencies
	metrics *metrics.Metrics
	closers []io.Closer
}

func (cfg Config) logger() *log.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return log.Default()
}

func newSender(cfg Config) (email.Sender, io.Closer, error) {
	logger := cfg.logger()
	if key := strings.TrimSpace(cfg.ResendAPIKey); key != "" {
		client, err := resend.New(key, cfg.ResendBaseURL, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("init resend client: %w", err)
		}
		return client, nil, nil
	}
	if path := strings.TrimSpace(cfg.OutboxPath); path != "" {
		store, err := outbox.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open email outbox: %w", err)
		}
		logger.Printf("email delivery: outbox path=%s", path)
		return store, store, nil
	}
	logger.Printf("email delivery: log only")
	return email.SenderFunc(func(_ context.Context, msg email.Message) error {
		logger.Printf("email not sent to=%s subject=%q", msg.To, msg.Subject)
		return nil
	}), nil, nil
}

func newEngine(cfg Config, mailer *email.Mailer, m *metrics.Metrics) (engine.Engine, error) {
	baseURL := strings.TrimSpace(cfg.EngineURL)
	if baseURL == "" {
		cfg.logger().Printf("auth engine: in-memory development engine")
		return devengine.New(
			devengine.WithMailer(mailer),
			devengine.WithSecret(cfg.DevEngineSecret),
		), nil
	}
	timeout := cfg.EngineTimeout
	if timeout <= 0 {
		timeout = timeouts.EngineRequest
	}
	client, err := httpengine.New(baseURL,
		httpengine.WithTimeout(timeout),
		httpengine.WithMetrics(m),
		httpengine.WithTracerProvider(otel.GetTracerProvider()),
		httpengine.WithPropagator(otel.GetTextMapPropagator()),
	)
	if err != nil {
		return nil, fmt.Errorf("init engine client: %w", err)
	}
	return client, nil
}

func newServices(cfg Config) (services, error) {
	logger := cfg.logger()
	m := metrics.New(cfg.MetricsEnabled)
	sender, closer, err := newSender(cfg)
	if err != nil {
		return services{}, err
	}
	var closers []io.Closer
	if closer != nil {
		closers = append(closers, closer)
	}
	mailer := email.NewMailer(sender, email.WithFrom(cfg.EmailFrom), email.WithBaseURL(cfg.PublicURL))
	eng, err := newEngine(cfg, mailer, m)
	if err != nil {
		closeAll(closers)
		return services{}, err
	}
	deps := module.Dependencies{
		Actions: actions.NewDispatcher(eng,
			actions.WithNotifier(revalidate.RequestNotifier{}),
			actions.WithMetrics(m),
			actions.WithTracerProvider(otel.GetTracerProvider()),
			actions.WithLogger(logger),
		),
		Queries: queries.NewLoader(eng,
			queries.WithMetrics(m),
			queries.WithLogger(logger),
			queries.WithAdminUserIDs(cfg.AdminUserIDs),
		),
		Mailer:       mailer,
		HookSecret:   strings.TrimSpace(cfg.HookSecret),
		SchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		Logger:       logger,
	}
	return services{deps: deps, metrics: m, closers: closers}, nil
}

// NewHandler builds the root handler for deps from the default module
// registry groups.
func NewHandler(deps module.Dependencies, m *metrics.Metrics, gatePaths []string) (http.Handler, error) {
	gate, err := requestgate.New(requestgate.Config{
		Patterns:   gatePaths,
		Marker:     sessioncookie.Marker,
		RedirectTo: "/",
	})
	if err != nil {
		return nil, fmt.Errorf("compile request gate: %w", err)
	}
	cfg := webapp.Config{
		PublicModules:    modules.DefaultPublicModules(deps),
		ProtectedModules: modules.DefaultProtectedModules(deps),
		SchemePolicy:     deps.SchemePolicy,
		Static:           webstatic.FS,
	}
	if m.Enabled() {
		cfg.Metrics = m.Handler()
	}
	root, err := webapp.BuildRootHandler(cfg)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return httpx.Chain(root,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(logger),
		gate.Middleware(),
		webctx.Middleware(),
		queries.WithRequestState(),
		revalidate.Middleware(),
	), nil
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	svc, err := newServices(cfg)
	if err != nil {
		return nil, err
	}
	handler, err := NewHandler(svc.deps, svc.metrics, cfg.GatePaths)
	if err != nil {
		closeAll(svc.closers)
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		closers: svc.closers,
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	closeAll(s.closers)
}

func closeAll(closers []io.Closer) {
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			log.Printf("close web resource: %v", err)
		}
	}
}
