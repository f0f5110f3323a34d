package analysis

import (
	"time"

	"go.uber.org/zap"
)

// EventType classifies a workflow notification.
type EventType string

const (
	EventAnalysisStarted   EventType = "analysis_started"
	EventAnalysisCompleted EventType = "analysis_completed"
	EventAnalysisFailed    EventType = "analysis_failed"
	EventAnalysisBlocked   EventType = "analysis_blocked"
	EventAnalysisResolved  EventType = "analysis_resolved"
	EventSinkFailed        EventType = "sink_failed"
)

// Event is one structured workflow notification. The pipeline emits events
// instead of driving UI side effects directly, so it stays independently
// testable from its shell.
type Event struct {
	Type     EventType `json:"type"`
	Message  string    `json:"message"`
	FileName string    `json:"fileName,omitempty"`
	Time     time.Time `json:"time"`
}

// Notifier receives workflow events.
type Notifier interface {
	Notify(event Event)
}

// NopNotifier discards all events. Used by tests.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

// LogNotifier writes events to the zap logger.
type LogNotifier struct {
	Logger *zap.SugaredLogger
}

func (n LogNotifier) Notify(event Event) {
	if n.Logger == nil {
		return
	}
	n.Logger.Infof("[EVENT] %s file=%s: %s", event.Type, event.FileName, event.Message)
}

func newEvent(eventType EventType, fileName, message string) Event {
	return Event{
		Type:     eventType,
		Message:  message,
		FileName: fileName,
		Time:     time.Now().UTC(),
	}
}
