package integrations

import "time"

// SinkIntegration is a stored, user-managed configuration describing one
// custom telemetry sink.
// SinkIntegration 描述一个用户自定义遥测接收端的持久化配置。
type SinkIntegration struct {
	ID           string     `yaml:"id" json:"id"`
	Name         string     `yaml:"name" json:"name"`
	Endpoint     string     `yaml:"endpoint" json:"endpoint"`
	APIKey       string     `yaml:"api_key" json:"apiKey"`
	IsActive     bool       `yaml:"is_active" json:"isActive"`
	LastTestedAt *time.Time `yaml:"last_tested_at,omitempty" json:"lastTestedAt,omitempty"`
}

// Store is the interface for persisting integrations. The registry owns all
// business rules; stores only move bytes.
// Store 是用于持久化集成配置的接口。
type Store interface {
	// Put inserts or replaces the integration with the same ID.
	Put(integration SinkIntegration) error
	// Delete removes the integration outright.
	Delete(id string) error
	// LoadAll returns all stored integrations.
	LoadAll() ([]SinkIntegration, error)
}
