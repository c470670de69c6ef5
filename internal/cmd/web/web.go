// Package web parses web service flags and launches the service.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/spawnbot/internal/platform/cmd"
	"github.com/louisbranch/spawnbot/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"SPAWNBOT_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	PublicURL           string        `env:"SPAWNBOT_WEB_PUBLIC_URL"`
	TrustForwardedProto bool          `env:"SPAWNBOT_WEB_TRUST_FORWARDED_PROTO"`
	EngineURL           string        `env:"SPAWNBOT_AUTH_ENGINE_URL"`
	EngineTimeout       time.Duration `env:"SPAWNBOT_AUTH_ENGINE_TIMEOUT" envDefault:"5s"`
	HookSecret          string        `env:"SPAWNBOT_AUTH_HOOK_SECRET"`
	DevEngineSecret     string        `env:"SPAWNBOT_DEV_ENGINE_SECRET"`
	AdminUserIDs        []string      `env:"SPAWNBOT_ADMIN_USER_IDS" envSeparator:","`
	EmailFrom           string        `env:"SPAWNBOT_EMAIL_FROM" envDefault:"delivered@resend.dev"`
	ResendAPIKey        string        `env:"SPAWNBOT_RESEND_API_KEY"`
	ResendBaseURL       string        `env:"SPAWNBOT_RESEND_BASE_URL"`
	OutboxPath          string        `env:"SPAWNBOT_EMAIL_OUTBOX_PATH"`
	GatePaths           []string      `env:"SPAWNBOT_GATE_PATHS" envSeparator:"," envDefault:"/dashboard,/dashboard/:path*"`
	MetricsEnabled      bool          `env:"SPAWNBOT_METRICS_ENABLED"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "Browser-facing origin used in email links")
	fs.StringVar(&cfg.EngineURL, "engine-url", cfg.EngineURL, "Auth engine base URL (empty runs the development engine)")
	fs.DurationVar(&cfg.EngineTimeout, "engine-timeout", cfg.EngineTimeout, "Auth engine request timeout")
	fs.StringVar(&cfg.OutboxPath, "email-outbox", cfg.OutboxPath, "SQLite path recording outgoing email")
	fs.BoolVar(&cfg.MetricsEnabled, "metrics", cfg.MetricsEnabled, "Serve Prometheus metrics at /metrics")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			PublicURL:           cfg.PublicURL,
			TrustForwardedProto: cfg.TrustForwardedProto,
			EngineURL:           cfg.EngineURL,
			EngineTimeout:       cfg.EngineTimeout,
			HookSecret:          cfg.HookSecret,
			DevEngineSecret:     cfg.DevEngineSecret,
			AdminUserIDs:        cfg.AdminUserIDs,
			EmailFrom:           cfg.EmailFrom,
			ResendAPIKey:        cfg.ResendAPIKey,
			ResendBaseURL:       cfg.ResendBaseURL,
			OutboxPath:          cfg.OutboxPath,
			GatePaths:           cfg.GatePaths,
			MetricsEnabled:      cfg.MetricsEnabled,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
