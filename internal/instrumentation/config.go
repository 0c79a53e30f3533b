package instrumentation

import (
	"fmt"
	"os"
)

// Metrics exporter types.
const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: dayplan)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Enabled determines whether instrumentation is active.
	Enabled bool

	// MetricsExporter specifies the metrics exporter type.
	// Options: "stdout", "none" (default: "none")
	MetricsExporter string
}

// DefaultConfig returns the default instrumentation configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:     "dayplan",
		ServiceVersion:  "dev",
		Enabled:         false,
		MetricsExporter: ExporterNone,
	}
}

// ConfigFromEnv builds an instrumentation config from environment variables.
// DAYPLAN_METRICS_EXPORTER selects the exporter; anything other than "none"
// enables instrumentation.
func ConfigFromEnv(version string) (Config, error) {
	config := DefaultConfig()
	config.ServiceVersion = version

	if v := os.Getenv("DAYPLAN_METRICS_EXPORTER"); v != "" {
		switch v {
		case ExporterStdout, ExporterNone:
			config.MetricsExporter = v
		default:
			return config, fmt.Errorf("invalid DAYPLAN_METRICS_EXPORTER %q (expected %q or %q)", v, ExporterStdout, ExporterNone)
		}
	}
	config.Enabled = config.MetricsExporter != ExporterNone

	return config, nil
}
