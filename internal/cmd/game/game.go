// Package game parses game command flags and starts the game server.
package game

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/tictac/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/tictac/internal/platform/grpc"
	"github.com/louisbranch/tictac/internal/platform/i18n/catalog"
	"github.com/louisbranch/tictac/internal/platform/logging"
	"github.com/louisbranch/tictac/internal/platform/timeouts"
	server "github.com/louisbranch/tictac/internal/services/game/app"
)

// Config holds game command configuration.
type Config struct {
	Addr      string `env:"GAME_ADDR"       envDefault:"127.0.0.1:12345"`
	HTTPAddr  string `env:"GAME_HTTP_ADDR"`
	AdminAddr string `env:"GAME_ADMIN_ADDR"`
	Locale    string `env:"GAME_LOCALE"     envDefault:"en-US"`
	LogLevel  string `env:"LOG_LEVEL"       envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"      envDefault:"console"`

	// CheckHealth probes AdminAddr and exits instead of serving.
	CheckHealth bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "TCP line protocol listen address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address for /up and /ws (empty disables)")
	fs.StringVar(&cfg.AdminAddr, "admin-addr", cfg.AdminAddr, "gRPC health listen address (empty disables)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "language of protocol messages")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")
	fs.BoolVar(&cfg.CheckHealth, "check-health", cfg.CheckHealth, "probe the admin health endpoint and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if !catalog.Default().HasLocale(cfg.Locale) {
		return Config{}, fmt.Errorf("unsupported locale %q (available: %v)", cfg.Locale, catalog.Default().Locales())
	}
	return cfg, nil
}

// Run starts the game server, or probes a running one when CheckHealth is set.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named(entrypoint.ServiceGame)

	if cfg.CheckHealth {
		return CheckHealth(ctx, cfg, logger)
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:      cfg.Addr,
			HTTPAddr:  cfg.HTTPAddr,
			AdminAddr: cfg.AdminAddr,
			Locale:    cfg.Locale,
			Logger:    logger,
		})
	})
}

// CheckHealth reports whether the server at cfg.AdminAddr is SERVING.
func CheckHealth(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if cfg.AdminAddr == "" {
		return errors.New("check health: admin address is required")
	}
	if err := platformgrpc.Probe(ctx, cfg.AdminAddr, server.HealthService, timeouts.HealthProbe, logger); err != nil {
		return fmt.Errorf("check health: %w", err)
	}
	logger.Info("game server is serving", zap.String("admin_addr", cfg.AdminAddr))
	return nil
}
