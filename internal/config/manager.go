package config

import (
	"sync"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/signature"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/utils/logger"
)

// Manager handles configuration access in a centralized, concurrency-safe
// manner.
// Manager 以集中方式处理所有配置相关操作。
type Manager struct {
	configPath string
	mutex      sync.RWMutex
	config     *GlobalConfig
}

// NewManager creates a new configuration manager instance.
func NewManager(configPath string) *Manager {
	return &Manager{configPath: configPath}
}

// Load loads the configuration from the configured path.
func (m *Manager) Load() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	cfg, err := LoadGlobalConfig(m.configPath)
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Save writes the current configuration back to the configured path.
func (m *Manager) Save() error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	return SaveGlobalConfig(m.configPath, m.config)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *GlobalConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	cfgCopy := *m.config
	return &cfgCopy
}

// Update replaces the current configuration.
func (m *Manager) Update(newConfig *GlobalConfig) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.config = newConfig
}

// GetLoggingConfig returns the logging section.
func (m *Manager) GetLoggingConfig() *logger.LoggingConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	cfg := m.config.Logging
	return &cfg
}

// GetServerConfig returns the server section.
func (m *Manager) GetServerConfig() *ServerConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	cfg := m.config.Server
	return &cfg
}

// GetTelemetryConfig returns the telemetry section.
func (m *Manager) GetTelemetryConfig() *TelemetryConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	cfg := m.config.Telemetry
	return &cfg
}

// GetArchiveConfig returns the archive section.
func (m *Manager) GetArchiveConfig() *ArchiveConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	cfg := m.config.Archive
	return &cfg
}

// GetIntegrationsConfig returns the integrations section.
func (m *Manager) GetIntegrationsConfig() *IntegrationsConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	cfg := m.config.Integrations
	return &cfg
}

// GetDetectionRules returns the configured custom detection rules.
func (m *Manager) GetDetectionRules() []signature.RuleConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	rules := make([]signature.RuleConfig, len(m.config.Detection.Rules))
	copy(rules, m.config.Detection.Rules)
	return rules
}

// GetConfigPath returns the configuration file path.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// Validate validates the current configuration.
func (m *Manager) Validate() error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}
	return m.config.Validate()
}
