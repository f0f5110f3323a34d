package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/parser"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/signature"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/sink"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/metrics"
	sentryerrors "github.com/dhirendraxd/CyberSentry-sub000/pkg/errors"
)

// Session owns one user's analysis workflow: the single-flight gate, the
// current result, and the append-only history. States move
// Idle → Analyzing → Completed(unresolved) → Resolved; only the Resolved
// flag ever mutates a result after creation.
// Session 管理单个用户的分析工作流：单飞闸门、当前结果和仅追加的历史记录。
type Session struct {
	id        string
	mu        sync.Mutex
	analyzing bool
	current   *model.AnalysisResult
	history   []*model.AnalysisResult

	engine    *signature.Engine
	forwarder *sink.Forwarder
	notifier  Notifier
	maxUpload int64
}

// NewSession creates an idle session.
func NewSession(id string, engine *signature.Engine, forwarder *sink.Forwarder, notifier Notifier, maxUpload int64) *Session {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Session{
		id:        id,
		engine:    engine,
		forwarder: forwarder,
		notifier:  notifier,
		maxUpload: maxUpload,
	}
}

// Analyze runs the full pipeline for one uploaded file: validate, parse,
// then detection and forwarding concurrently, then result assembly. The new
// result becomes the current, unresolved analysis and is prepended to
// history. A second call while one is in flight is rejected.
func (s *Session) Analyze(ctx context.Context, fileName, content, sinkID string) (model.AnalysisResult, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if !parser.SupportedExtension(ext) {
		metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
		return model.AnalysisResult{}, sentryerrors.NewExtensionError(ext)
	}
	if s.maxUpload > 0 && int64(len(content)) > s.maxUpload {
		metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
		return model.AnalysisResult{}, sentryerrors.NewFileSizeError(int64(len(content)), s.maxUpload)
	}
	if strings.TrimSpace(content) == "" {
		metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
		return model.AnalysisResult{}, sentryerrors.ErrEmptyContent
	}

	s.mu.Lock()
	if s.analyzing {
		s.mu.Unlock()
		s.notifier.Notify(newEvent(EventAnalysisBlocked, fileName, "another analysis is already in progress"))
		return model.AnalysisResult{}, sentryerrors.ErrAnalysisInFlight
	}
	s.analyzing = true
	s.mu.Unlock()

	s.notifier.Notify(newEvent(EventAnalysisStarted, fileName, "analysis started"))

	records := parser.Parse(content, ext)
	if len(records) == 0 {
		s.mu.Lock()
		s.analyzing = false
		s.mu.Unlock()
		metrics.AnalysesTotal.WithLabelValues("failed").Inc()
		s.notifier.Notify(newEvent(EventAnalysisFailed, fileName, "no log records could be parsed"))
		return model.AnalysisResult{}, sentryerrors.ErrNoRecords
	}
	metrics.RecordsParsed.Add(float64(len(records)))

	// Detection is pure computation and forwarding is network I/O; both
	// depend only on the parsed records, so they run concurrently.
	var (
		findings    []model.Finding
		highlighted []model.HighlightedLine
		outcome     model.SinkOutcome
		wg          sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		findings, highlighted = s.engine.Detect(records)
	}()
	go func() {
		defer wg.Done()
		if s.forwarder == nil {
			outcome = model.SinkOutcome{
				Status:    "disabled",
				Message:   "no forwarder configured",
				Timestamp: time.Now().UTC(),
			}
			return
		}
		outcome = s.forwarder.Forward(ctx, records, sink.Meta{FileName: fileName, SinkID: sinkID})
	}()
	wg.Wait()

	for _, f := range findings {
		metrics.FindingsTotal.WithLabelValues(string(f.ThreatLevel)).Inc()
	}
	target := "default"
	if sinkID != "" {
		target = "custom"
	}
	if outcome.Succeeded {
		metrics.SinkForwardTotal.WithLabelValues(target, "success").Inc()
	} else {
		metrics.SinkForwardTotal.WithLabelValues(target, "failure").Inc()
		s.notifier.Notify(newEvent(EventSinkFailed, fileName, outcome.Message))
	}

	result := &model.AnalysisResult{
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		FileName:    fileName,
		FileType:    ext,
		FileSize:    len(content),
		RawContent:  content,
		Records:     records,
		Findings:    findings,
		Highlighted: highlighted,
		SinkOutcome: outcome,
		Resolved:    false,
		SinkID:      sinkID,
	}

	s.mu.Lock()
	s.current = result
	s.history = append([]*model.AnalysisResult{result}, s.history...)
	s.analyzing = false
	historyLen := len(s.history)
	s.mu.Unlock()

	metrics.AnalysesTotal.WithLabelValues("completed").Inc()
	metrics.HistoryEntries.WithLabelValues(s.id).Set(float64(historyLen))
	s.notifier.Notify(newEvent(EventAnalysisCompleted, fileName,
		fmt.Sprintf("%d findings, highest threat level %s", len(findings), model.HighestThreatLevel(findings))))

	return *result, nil
}

// RequestNewAnalysis enforces the resolution gate: while the current result
// exists and is unresolved, starting a new analysis is a policy violation
// surfaced as a blocking notice, not applied inside Analyze itself.
func (s *Session) RequestNewAnalysis() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.current.Resolved {
		s.notifier.Notify(newEvent(EventAnalysisBlocked, s.current.FileName, "resolve the current analysis before starting a new one"))
		return sentryerrors.ErrUnresolvedAnalysis
	}
	return nil
}

// MarkResolved sets resolved on the current result and on the history entry
// sharing its (fileName, timestamp) key. Idempotent.
func (s *Session) MarkResolved() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return sentryerrors.ErrNoCurrentAnalysis
	}
	s.current.Resolved = true
	for _, entry := range s.history {
		if entry.FileName == s.current.FileName && entry.Timestamp == s.current.Timestamp {
			entry.Resolved = true
		}
	}
	s.notifier.Notify(newEvent(EventAnalysisResolved, s.current.FileName, "analysis marked resolved"))
	return nil
}

// DeleteFromHistory removes the entry with the given timestamp. If it was
// the current result, current becomes undefined.
func (s *Session) DeleteFromHistory(timestamp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.history {
		if entry.Timestamp != timestamp {
			continue
		}
		s.history = append(s.history[:i], s.history[i+1:]...)
		if s.current != nil && s.current.Timestamp == timestamp {
			s.current = nil
		}
		metrics.HistoryEntries.WithLabelValues(s.id).Set(float64(len(s.history)))
		return nil
	}
	return sentryerrors.ErrHistoryEntryNotFound
}

// View sets current to the matching history entry without touching its
// resolved flag.
func (s *Session) View(timestamp string) (model.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.history {
		if entry.Timestamp == timestamp {
			s.current = entry
			return *entry, nil
		}
	}
	return model.AnalysisResult{}, sentryerrors.ErrHistoryEntryNotFound
}

// Reanalyze resubmits the current result's raw content through the full
// pipeline, producing a new result and a new history entry. The original
// entry is left untouched.
func (s *Session) Reanalyze(ctx context.Context) (model.AnalysisResult, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return model.AnalysisResult{}, sentryerrors.ErrNoCurrentAnalysis
	}
	fileName := s.current.FileName
	content := s.current.RawContent
	sinkID := s.current.SinkID
	s.mu.Unlock()

	return s.Analyze(ctx, fileName, content, sinkID)
}

// Current returns a copy of the current result.
func (s *Session) Current() (model.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.AnalysisResult{}, false
	}
	return *s.current, true
}

// History returns copies of all entries, newest first.
func (s *Session) History() []model.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AnalysisResult, 0, len(s.history))
	for _, entry := range s.history {
		out = append(out, *entry)
	}
	return out
}
