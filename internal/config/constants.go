package config

// DefaultConfigPath is where sentryd looks for its config when --config is
// not given.
const DefaultConfigPath = "/etc/cybersentry/config.yaml"

const (
	// DefaultMaxUploadBytes matches the client-side 10 MB upload cap.
	DefaultMaxUploadBytes = 10 * 1024 * 1024

	// DefaultBatchSize is the number of records per telemetry POST.
	DefaultBatchSize = 100

	// DefaultSinkTimeoutSeconds bounds each outbound sink call. The sink
	// protocol itself has no timeout, so a hung endpoint would otherwise
	// stall the analysis assembly indefinitely.
	DefaultSinkTimeoutSeconds = 15

	// DefaultMaxIntegrations caps live custom sink integrations.
	DefaultMaxIntegrations = 4

	// DefaultTelemetryEndpoint is the fixed default sink.
	DefaultTelemetryEndpoint = "https://telemetry.cybersentry.dev/v1/logs"
)
