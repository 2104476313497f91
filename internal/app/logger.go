package app

import (
	"io"
	"log/slog"

	"github.com/felixgeelhaar/nexus/pkg/config"
	"github.com/felixgeelhaar/nexus/pkg/observability"
)

// NewLogger builds the process logger from configuration. Production
// defaults to JSON, development forces debug level.
func NewLogger(out io.Writer, cfg *config.Config, version string) *slog.Logger {
	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Output = out
	if cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	if cfg.LogFormat != "" {
		logCfg.Format = observability.LogFormat(cfg.LogFormat)
	}
	if cfg.IsDevelopment() {
		logCfg.Level = observability.LogLevelDebug
	}
	if version != "" {
		logCfg.ServiceVersion = version
	}
	return observability.NewLogger(logCfg)
}
