package parser

import (
	"encoding/csv"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
)

// Parse converts raw file content plus its declared extension into an ordered
// sequence of normalized log records. Recoverable issues never fail the parse;
// an unrecoverable structural failure yields an empty slice, which the caller
// treats as the failure condition.
// Parse 将原始文件内容和声明的扩展名转换为有序的标准化日志记录序列。
func Parse(content string, ext string) []model.LogRecord {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return parseJSON(content)
	case "csv":
		return parseCSV(content)
	case "txt", "log":
		return parseText(content)
	}
	return nil
}

// SupportedExtension reports whether ext is one of the four accepted formats.
func SupportedExtension(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json", "csv", "txt", "log":
		return true
	}
	return false
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// normalizeLevel maps free-form level strings onto the fixed enum.
// warning collapses to warn, critical and fatal collapse to error.
func normalizeLevel(s string) model.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err", "critical", "crit", "fatal":
		return model.LevelError
	case "warn", "warning":
		return model.LevelWarn
	case "debug":
		return model.LevelDebug
	case "trace":
		return model.LevelTrace
	default:
		return model.LevelInfo
	}
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

// parseJSON accepts either a top-level array or an object carrying a "logs"
// array. Unknown elements degrade to a record whose message is the serialized
// element itself.
func parseJSON(content string) []model.LogRecord {
	var root interface{}
	if err := json.Unmarshal([]byte(content), &root); err != nil {
		return nil
	}

	var items []interface{}
	switch v := root.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		arr, ok := v["logs"].([]interface{})
		if !ok {
			return nil
		}
		items = arr
	default:
		return nil
	}

	records := make([]model.LogRecord, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			raw, _ := json.Marshal(item)
			records = append(records, model.LogRecord{
				Timestamp: now(),
				Message:   string(raw),
				Level:     model.LevelInfo,
			})
			continue
		}

		rec := model.LogRecord{
			Timestamp: now(),
			Level:     model.LevelInfo,
		}
		if v, ok := strField(obj, "timestamp", "time"); ok {
			rec.Timestamp = v
		}
		if v, ok := strField(obj, "message", "msg", "text"); ok {
			rec.Message = v
		} else {
			raw, _ := json.Marshal(obj)
			rec.Message = string(raw)
		}
		if v, ok := strField(obj, "level", "severity"); ok {
			rec.Level = normalizeLevel(v)
		}
		if v, ok := strField(obj, "userId", "user_id", "user"); ok {
			rec.UserID = v
		}
		records = append(records, rec)
	}
	return records
}

// strField returns the first non-empty value among keys, stringified.
func strField(obj map[string]interface{}, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				return val, true
			}
		case float64:
			raw, _ := json.Marshal(val)
			return string(raw), true
		case bool:
			raw, _ := json.Marshal(val)
			return string(raw), true
		}
	}
	return "", false
}

// ---------------------------------------------------------------------------
// CSV
// ---------------------------------------------------------------------------

// csvColumns resolves header names to field roles by case-insensitive
// substring match, independent of column order or presence.
type csvColumns struct {
	timestamp int
	message   int
	level     int
	user      int
}

func resolveColumns(header []string) csvColumns {
	cols := csvColumns{timestamp: -1, message: -1, level: -1, user: -1}
	for i, name := range header {
		n := strings.ToLower(strings.TrimSpace(name))
		switch {
		case cols.timestamp < 0 && (strings.Contains(n, "time") || strings.Contains(n, "date")):
			cols.timestamp = i
		case cols.message < 0 && (strings.Contains(n, "message") || strings.Contains(n, "msg")):
			cols.message = i
		case cols.level < 0 && (strings.Contains(n, "level") || strings.Contains(n, "severity")):
			cols.level = i
		case cols.user < 0 && strings.Contains(n, "user"):
			cols.user = i
		}
	}
	return cols
}

func parseCSV(content string) []model.LogRecord {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil || len(rows) < 2 {
		return nil
	}

	cols := resolveColumns(rows[0])
	records := make([]model.LogRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rec := model.LogRecord{
			Timestamp: now(),
			Message:   row[0],
			Level:     model.LevelInfo,
		}
		if v := cell(row, cols.timestamp); v != "" {
			rec.Timestamp = v
		}
		if v := cell(row, cols.message); v != "" {
			rec.Message = v
		}
		if v := cell(row, cols.level); v != "" {
			rec.Level = normalizeLevel(v)
		}
		rec.UserID = cell(row, cols.user)
		records = append(records, rec)
	}
	return records
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ---------------------------------------------------------------------------
// Plain text / .log
// ---------------------------------------------------------------------------

var (
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)
	levelRe     = regexp.MustCompile(`(?i)\b(ERROR|WARN(?:ING)?|INFO|DEBUG|TRACE|CRITICAL|FATAL)\b`)
	userRe      = regexp.MustCompile(`(?i)\buser[_-]?(?:id)?\s*[=:]\s*([A-Za-z0-9@._-]+)`)
	bracketRe   = regexp.MustCompile(`^\s*\[[^\]]*\]\s*`)
)

// parseText runs line-oriented heuristic extraction. A line is never dropped
// just because nothing matched; defaults fill the gaps.
func parseText(content string) []model.LogRecord {
	lines := strings.Split(content, "\n")
	records := make([]model.LogRecord, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec := model.LogRecord{
			Timestamp: now(),
			Level:     model.LevelInfo,
		}
		msg := line

		if m := timestampRe.FindString(line); m != "" {
			rec.Timestamp = m
			msg = strings.Replace(msg, m, "", 1)
		}
		if m := levelRe.FindString(msg); m != "" {
			rec.Level = normalizeLevel(m)
			msg = strings.Replace(msg, m, "", 1)
		}
		if m := userRe.FindStringSubmatch(msg); m != nil {
			rec.UserID = m[1]
			msg = strings.Replace(msg, m[0], "", 1)
		}

		msg = bracketRe.ReplaceAllString(msg, "")
		msg = strings.Trim(msg, " \t-:|")
		if msg == "" {
			msg = strings.TrimSpace(line)
		}
		rec.Message = msg
		records = append(records, rec)
	}
	return records
}
