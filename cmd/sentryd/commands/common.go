package commands

import (
	"context"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/analysis"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/config"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/integrations"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/signature"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/sink"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/utils/logger"
)

// pipeline bundles everything a command needs to run analyses.
type pipeline struct {
	cfg      *config.GlobalConfig
	sessions *analysis.SessionManager
	registry *integrations.Registry
}

// buildPipeline loads the config and wires engine, registry, forwarder and
// session manager together. The Elasticsearch archiver is optional: when it
// cannot be reached at startup the pipeline runs without it.
func buildPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := config.LoadGlobalConfig(effectiveConfigPath())
	if err != nil {
		return nil, err
	}

	engine := signature.NewEngine()
	if err := engine.LoadCustomRules(cfg.Detection.Rules); err != nil {
		return nil, err
	}

	var store integrations.Store
	if cfg.Integrations.StorePath != "" {
		store = integrations.NewYAMLStore(cfg.Integrations.StorePath)
	} else {
		store = integrations.NewMemoryStore()
	}
	registry := integrations.NewRegistry(store, cfg.Integrations.MaxActive, nil)

	var archiver *sink.Archiver
	if cfg.Archive.Enabled {
		archiver, err = sink.NewArchiver(cfg.Archive)
		if err != nil {
			logger.Get(ctx).Warnf("[ARCHIVE] Disabled, cluster unreachable: %v", err)
			archiver = nil
		}
	}

	forwarder := sink.NewForwarder(cfg.Telemetry, registry, archiver)
	notifier := analysis.LogNotifier{Logger: logger.Get(ctx)}
	sessions := analysis.NewSessionManager(engine, forwarder, notifier, cfg.Server.MaxUploadBytes)

	return &pipeline{cfg: cfg, sessions: sessions, registry: registry}, nil
}
