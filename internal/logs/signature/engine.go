package signature

import (
	"fmt"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
)

// Engine scans normalized log records against the signature table and emits
// severity-ranked findings. Detection is total: it never fails and always
// produces at least one finding.
// Engine 扫描标准化日志记录并输出按严重性分级的检测结果。
type Engine struct {
	signatures []Signature
	customs    []customRule
}

// NewEngine creates an engine holding the built-in signature table.
func NewEngine() *Engine {
	return &Engine{signatures: Builtin()}
}

// Detect tests every signature against every record's message, then emits one
// finding per signature that matched at least once, in table order. Custom
// rules run after the built-in table. Zero matches overall yield exactly one
// synthetic low-severity finding.
func (e *Engine) Detect(records []model.LogRecord) ([]model.Finding, []model.HighlightedLine) {
	counts := make(map[string]int)
	byReason := make(map[string][]model.HighlightedLine)
	highlighted := []model.HighlightedLine{}

	for i, rec := range records {
		for _, sig := range e.signatures {
			if !sig.Pattern.MatchString(rec.Message) {
				continue
			}
			counts[sig.ID]++
			line := model.HighlightedLine{
				Index:   i + 1,
				Content: rec.Message,
				Reason:  sig.Reason,
			}
			highlighted = append(highlighted, line)
			byReason[sig.Reason] = append(byReason[sig.Reason], line)
		}
		for ci := range e.customs {
			cr := &e.customs[ci]
			if !cr.matches(rec) {
				continue
			}
			counts[cr.meta.ID]++
			line := model.HighlightedLine{
				Index:   i + 1,
				Content: rec.Message,
				Reason:  cr.meta.Reason,
			}
			highlighted = append(highlighted, line)
			byReason[cr.meta.Reason] = append(byReason[cr.meta.Reason], line)
		}
	}

	findings := []model.Finding{}
	for _, sig := range e.signatures {
		n := counts[sig.ID]
		if n == 0 {
			continue
		}
		findings = append(findings, model.Finding{
			ID:             sig.ID,
			Summary:        summarize(n, sig.Name),
			ThreatLevel:    sig.ThreatLevel,
			MatchedLines:   byReason[sig.Reason],
			Recommendation: sig.Recommendation,
		})
	}
	for i := range e.customs {
		cr := &e.customs[i]
		n := counts[cr.meta.ID]
		if n == 0 {
			continue
		}
		findings = append(findings, model.Finding{
			ID:             cr.meta.ID,
			Summary:        summarize(n, cr.meta.Name),
			ThreatLevel:    cr.meta.ThreatLevel,
			MatchedLines:   byReason[cr.meta.Reason],
			Recommendation: cr.meta.Recommendation,
		})
	}

	if len(findings) == 0 {
		findings = append(findings, cleanFinding())
	}
	return findings, highlighted
}

func summarize(count int, name string) string {
	unit := "occurrences"
	if count == 1 {
		unit = "occurrence"
	}
	return fmt.Sprintf("Detected %d %s of %s", count, unit, name)
}

// cleanFinding is the synthetic result when nothing matched.
func cleanFinding() model.Finding {
	return model.Finding{
		ID:             "clean",
		Summary:        "No known threat patterns detected",
		ThreatLevel:    model.ThreatLow,
		MatchedLines:   []model.HighlightedLine{},
		Recommendation: "No action required. Keep forwarding logs so future anomalies are caught early.",
	}
}
