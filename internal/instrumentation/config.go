package instrumentation

import (
	"os"
	"strconv"
	"time"
)

// Exporter types for metrics.
const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: gale).
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: false for
	// an interactive session; set INSTRUMENTATION_ENABLED=true to enable).
	Enabled bool

	// MetricsExporter specifies the metrics exporter type.
	// Options: "stdout", "none" (default: "stdout" when enabled).
	MetricsExporter string

	// ExportInterval is the periodic export interval (default: 60s).
	ExportInterval time.Duration
}

// ConfigFromEnv builds an instrumentation config from the environment.
func ConfigFromEnv(version string) Config {
	cfg := Config{
		ServiceName:     "gale",
		ServiceVersion:  version,
		MetricsExporter: ExporterStdout,
		ExportInterval:  60 * time.Second,
	}

	if v := os.Getenv("INSTRUMENTATION_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = enabled
		}
	}
	if v := os.Getenv("INSTRUMENTATION_METRICS_EXPORTER"); v != "" {
		cfg.MetricsExporter = v
	}
	if v := os.Getenv("INSTRUMENTATION_EXPORT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ExportInterval = d
		}
	}
	return cfg
}
