package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/signature"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/utils/logger"
)

// ServerConfig configures the HTTP API.
// ServerConfig 配置 HTTP API。
type ServerConfig struct {
	Listen string `yaml:"listen"`
	// MaxUploadBytes caps fileContent size; requests over the cap are
	// rejected before any parser invocation.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// TelemetryConfig configures the default telemetry sink.
// TelemetryConfig 配置默认遥测接收端。
type TelemetryConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
	// BatchSize is the number of records per POST. Batches go out
	// sequentially; the first non-2xx aborts the rest.
	BatchSize int `yaml:"batch_size"`
	// TimeoutSeconds bounds each outbound sink call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ArchiveConfig configures the optional Elasticsearch record archive.
type ArchiveConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

// IntegrationsConfig configures the custom sink registry.
type IntegrationsConfig struct {
	// StorePath is the YAML file backing the registry; empty keeps the
	// registry in memory only.
	StorePath string `yaml:"store_path"`
	MaxActive int    `yaml:"max_active"`
}

// DetectionConfig carries user-defined rules evaluated after the built-in
// signature table.
type DetectionConfig struct {
	Rules []signature.RuleConfig `yaml:"rules"`
}

// GlobalConfig is the root configuration document.
// GlobalConfig 是根配置文档。
type GlobalConfig struct {
	Logging      logger.LoggingConfig `yaml:"logging"`
	Server       ServerConfig         `yaml:"server"`
	Telemetry    TelemetryConfig      `yaml:"telemetry"`
	Archive      ArchiveConfig        `yaml:"archive"`
	Integrations IntegrationsConfig   `yaml:"integrations"`
	Detection    DetectionConfig      `yaml:"detection"`
}

// DefaultGlobalConfig returns a config with every section populated with
// usable defaults.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Logging: logger.LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		Server: ServerConfig{
			Listen:         ":11820",
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Telemetry: TelemetryConfig{
			Endpoint:       DefaultTelemetryEndpoint,
			BatchSize:      DefaultBatchSize,
			TimeoutSeconds: DefaultSinkTimeoutSeconds,
		},
		Archive: ArchiveConfig{
			Index: "cybersentry-logs",
		},
		Integrations: IntegrationsConfig{
			MaxActive: DefaultMaxIntegrations,
		},
	}
}

// LoadGlobalConfig reads and validates the YAML config at path. A missing
// file yields the defaults rather than an error so the CLI works unconfigured.
// LoadGlobalConfig 读取并验证指定路径的 YAML 配置。
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveGlobalConfig writes the config back to path as YAML.
func SaveGlobalConfig(path string, cfg *GlobalConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks cross-field constraints and fills zero values with defaults.
func (c *GlobalConfig) Validate() error {
	if c.Telemetry.BatchSize <= 0 {
		c.Telemetry.BatchSize = DefaultBatchSize
	}
	if c.Telemetry.TimeoutSeconds <= 0 {
		c.Telemetry.TimeoutSeconds = DefaultSinkTimeoutSeconds
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Integrations.MaxActive <= 0 {
		c.Integrations.MaxActive = DefaultMaxIntegrations
	}
	if c.Archive.Enabled && len(c.Archive.Addresses) == 0 {
		return fmt.Errorf("archive enabled but no addresses configured")
	}
	for _, rule := range c.Detection.Rules {
		if rule.ID == "" {
			return fmt.Errorf("detection rule with empty id")
		}
	}
	return nil
}
