package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
)

func record(msg string) model.LogRecord {
	return model.LogRecord{
		Timestamp: "2024-01-01T00:00:00Z",
		Message:   msg,
		Level:     model.LevelInfo,
	}
}

// TestDetect_FailedLogin tests classification of a failed login record
// TestDetect_FailedLogin 测试失败登录记录的分类
func TestDetect_FailedLogin(t *testing.T) {
	engine := NewEngine()
	findings, highlighted := engine.Detect([]model.LogRecord{
		record("failed login attempt for user=alice123"),
	})

	require.Len(t, findings, 1)
	assert.Equal(t, "failed-login", findings[0].ID)
	assert.Contains(t, findings[0].Summary, "Failed Login Attempts")
	assert.Equal(t, model.ThreatMedium, findings[0].ThreatLevel)
	require.Len(t, highlighted, 1)
	assert.Equal(t, 1, highlighted[0].Index)
}

func TestDetect_TableOrderNotCountOrder(t *testing.T) {
	engine := NewEngine()
	// Three low-severity access-denied hits vs one medium failed login:
	// the finding order still follows the signature table.
	findings, _ := engine.Detect([]model.LogRecord{
		record("access denied on /admin"),
		record("access denied on /etc"),
		record("access denied on /root"),
		record("login failed for bob"),
	})

	require.Len(t, findings, 2)
	assert.Equal(t, "failed-login", findings[0].ID)
	assert.Equal(t, "access-denied", findings[1].ID)
	assert.Contains(t, findings[1].Summary, "3 occurrences")
}

func TestDetect_MatchedLinesPerFinding(t *testing.T) {
	engine := NewEngine()
	findings, highlighted := engine.Detect([]model.LogRecord{
		record("unhandled exception in worker"),
		record("nothing interesting"),
		record("login failed again"),
	})

	require.Len(t, findings, 2)
	assert.Len(t, highlighted, 2)

	// Every matched line index resolves to a record and every finding only
	// carries its own evidence.
	for _, f := range findings {
		for _, line := range f.MatchedLines {
			assert.GreaterOrEqual(t, line.Index, 1)
			assert.LessOrEqual(t, line.Index, 3)
		}
		require.Len(t, f.MatchedLines, 1)
	}
	assert.Equal(t, 3, findings[0].MatchedLines[0].Index) // failed-login record
	assert.Equal(t, 1, findings[1].MatchedLines[0].Index) // exception record
}

func TestDetect_ServerErrorPatterns(t *testing.T) {
	engine := NewEngine()
	tests := []struct {
		name    string
		message string
	}{
		{"5xx status", `GET /checkout returned 503`},
		{"Exception", "caught exception while flushing"},
		{"Panic", "panic: runtime error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, _ := engine.Detect([]model.LogRecord{record(tt.message)})
			require.Len(t, findings, 1)
			assert.Equal(t, "server-error", findings[0].ID)
			assert.Equal(t, model.ThreatHigh, findings[0].ThreatLevel)
		})
	}
}

func TestDetect_CaseInsensitive(t *testing.T) {
	engine := NewEngine()
	findings, _ := engine.Detect([]model.LogRecord{record("FAILED LOGIN from 10.0.0.9")})
	require.Len(t, findings, 1)
	assert.Equal(t, "failed-login", findings[0].ID)
}

// TestDetect_CleanFinding tests the synthetic result for clean input
// TestDetect_CleanFinding 测试无匹配时的合成结果
func TestDetect_CleanFinding(t *testing.T) {
	engine := NewEngine()
	findings, highlighted := engine.Detect([]model.LogRecord{
		record("user logged in"),
		record("cache warmed"),
	})

	require.Len(t, findings, 1)
	assert.Equal(t, "clean", findings[0].ID)
	assert.Equal(t, model.ThreatLow, findings[0].ThreatLevel)
	assert.Empty(t, findings[0].MatchedLines)
	assert.Empty(t, highlighted)
	assert.Equal(t, model.ThreatLow, model.HighestThreatLevel(findings))
}

func TestDetect_MultiplePatternsOneRecord(t *testing.T) {
	engine := NewEngine()
	findings, highlighted := engine.Detect([]model.LogRecord{
		record("exception: access denied during login failed handling"),
	})

	// One record can feed several findings.
	require.Len(t, findings, 3)
	assert.Len(t, highlighted, 3)
	for _, line := range highlighted {
		assert.Equal(t, 1, line.Index)
	}
}
