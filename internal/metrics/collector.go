package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cybersentry_analyses_total",
			Help: "Total analysis runs by outcome",
		},
		[]string{"status"},
	)
	FindingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cybersentry_findings_total",
			Help: "Total findings emitted by threat level",
		},
		[]string{"threat_level"},
	)
	RecordsParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cybersentry_records_parsed_total",
			Help: "Total log records produced by the parser",
		},
	)

	// Sink metrics
	SinkForwardTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cybersentry_sink_forward_total",
			Help: "Total sink forward attempts by target and result",
		},
		[]string{"target", "result"},
	)

	// Workflow metrics
	HistoryEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cybersentry_history_entries",
			Help: "History entries currently held per session",
		},
		[]string{"session"},
	)
)
