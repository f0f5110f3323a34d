package model

import "time"

// Level is the normalized severity of a single log record.
// Level 是单条日志记录的标准化级别。
type Level string

const (
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelTrace Level = "trace"
)

// ValidLevel reports whether l is one of the fixed level values.
func ValidLevel(l Level) bool {
	switch l {
	case LevelInfo, LevelDebug, LevelWarn, LevelError, LevelTrace:
		return true
	}
	return false
}

// ThreatLevel classifies a finding, totally ordered low < medium < high.
// ThreatLevel 对检测结果进行分级，全序 low < medium < high。
type ThreatLevel string

const (
	ThreatLow    ThreatLevel = "low"
	ThreatMedium ThreatLevel = "medium"
	ThreatHigh   ThreatLevel = "high"
)

// Rank maps a threat level onto the total order. Unknown levels rank lowest.
func (t ThreatLevel) Rank() int {
	switch t {
	case ThreatHigh:
		return 3
	case ThreatMedium:
		return 2
	case ThreatLow:
		return 1
	}
	return 0
}

// LogRecord is one normalized unit of log data after format-specific
// extraction. Produced exclusively by the parser; immutable once created.
type LogRecord struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Level     Level  `json:"level"`
	UserID    string `json:"userId,omitempty"`
}

// HighlightedLine points from a finding back to the record that triggered it.
// Index is the 1-based position within the parsed record sequence, not the
// raw file line number; for CSV/JSON inputs the two can diverge.
type HighlightedLine struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
	Reason  string `json:"reason"`
}

// Finding is one detected threat pattern with aggregated evidence.
type Finding struct {
	ID             string            `json:"id"`
	Summary        string            `json:"summary"`
	ThreatLevel    ThreatLevel       `json:"threatLevel"`
	MatchedLines   []HighlightedLine `json:"matchedLines"`
	Recommendation string            `json:"recommendation"`
}

// SinkOutcome describes one forwarding attempt. It is always data; a failed
// forward never surfaces as an error to the analysis pipeline.
type SinkOutcome struct {
	Succeeded bool      `json:"succeeded"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisResult is the immutable product of one analysis call. Only the
// Resolved flag changes after creation.
type AnalysisResult struct {
	Timestamp   string            `json:"timestamp"`
	FileName    string            `json:"fileName"`
	FileType    string            `json:"fileType"`
	FileSize    int               `json:"fileSize"`
	RawContent  string            `json:"rawLogContent"`
	Records     []LogRecord       `json:"logs"`
	Findings    []Finding         `json:"insights"`
	Highlighted []HighlightedLine `json:"highlightedLines"`
	SinkOutcome SinkOutcome       `json:"sinkIntegration"`
	Resolved    bool              `json:"resolved"`
	SinkID      string            `json:"sinkId,omitempty"`
}

// HighestThreatLevel returns the maximum threat level over the findings.
// An empty list yields low, matching the synthetic "clean" finding.
func HighestThreatLevel(findings []Finding) ThreatLevel {
	highest := ThreatLow
	for _, f := range findings {
		if f.ThreatLevel.Rank() > highest.Rank() {
			highest = f.ThreatLevel
		}
	}
	return highest
}
