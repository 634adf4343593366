// Package storefront parses storefront client flags and runs the shell.
package storefront

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
	"github.com/louisbranch/storefront/internal/services/storefront/app"
	"github.com/louisbranch/storefront/internal/services/storefront/remote"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/sqlite"
)

// Config holds storefront command configuration. Env names carry the
// STOREFRONT_ prefix.
type Config struct {
	APIURL         string        `env:"API_URL"         envDefault:"http://localhost:5000"`
	AdminURL       string        `env:"ADMIN_URL"       envDefault:"http://localhost:3000/admin"`
	DBPath         string        `env:"DB_PATH"         envDefault:"storefront.db"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	Locale         string        `env:"LOCALE"          envDefault:"en-US"`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	LogDevelopment bool          `env:"LOG_DEV"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Backend base URL")
	fs.StringVar(&cfg.AdminURL, "admin-url", cfg.AdminURL, "Admin dashboard base URL")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Cart and wishlist snapshot database (empty disables persistence)")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Timeout for each backend request")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Message locale")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.LogDevelopment, "log-dev", cfg.LogDevelopment, "Human-readable development logs")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts a storefront session reading commands from in.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	logger, err := entrypoint.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceStorefront, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		client, err := remote.NewClient(remote.Config{
			BaseURL: cfg.APIURL,
			Timeout: cfg.RequestTimeout,
			Logger:  logger.Named("remote"),
		})
		if err != nil {
			return fmt.Errorf("remote client: %w", err)
		}

		var store storage.Store
		if path := strings.TrimSpace(cfg.DBPath); path != "" {
			sqliteStore, err := sqlite.Open(path)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer func() {
				if err := sqliteStore.Close(); err != nil {
					logger.Warn("close snapshot store", zap.Error(err))
				}
			}()
			store = sqliteStore
		}

		session := app.New(client, app.Config{
			AdminURL: cfg.AdminURL,
			Locale:   cfg.Locale,
			Store:    store,
			Logger:   logger,
		})
		defer session.Teardown()

		if err := session.Init(ctx, ""); err != nil {
			logger.Warn("initial catalog load", zap.String("api_url", cfg.APIURL), zap.Error(err))
		}
		logger.Info("storefront ready", zap.String("api_url", cfg.APIURL))
		if err := app.NewShell(session, out).Run(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}
