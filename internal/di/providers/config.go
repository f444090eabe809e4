// Package providers registers the FlixLens server components with the
// samber/do injector. Each long-lived component comes wrapped in a handle
// whose Shutdown the injector calls in reverse dependency order.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/logger"
)

// ProvideConfig reads flags, environment and .env.
func ProvideConfig(do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger builds the application logger. Development adds source
// locations to every record.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
		AddSource:   cfg.App.Environment == "development",
	})
	log.Info("Starting FlixLens",
		"environment", cfg.App.Environment,
		"dataset", cfg.Dataset.Path,
		"watch", cfg.Dataset.Watch,
	)
	return log, nil
}

// ProvideSlogLogger exposes the plain *slog.Logger.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	return do.MustInvoke[*logger.Logger](i).Logger, nil
}
