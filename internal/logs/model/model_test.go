package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighestThreatLevel(t *testing.T) {
	tests := []struct {
		name     string
		findings []Finding
		expected ThreatLevel
	}{
		{"Empty list", nil, ThreatLow},
		{"Single low", []Finding{{ThreatLevel: ThreatLow}}, ThreatLow},
		{"Medium beats low", []Finding{{ThreatLevel: ThreatLow}, {ThreatLevel: ThreatMedium}}, ThreatMedium},
		{"High beats all", []Finding{{ThreatLevel: ThreatHigh}, {ThreatLevel: ThreatMedium}}, ThreatHigh},
		{"Unknown ranks below low", []Finding{{ThreatLevel: "weird"}, {ThreatLevel: ThreatLow}}, ThreatLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HighestThreatLevel(tt.findings))
		})
	}
}

func TestThreatLevelRank_TotalOrder(t *testing.T) {
	assert.Greater(t, ThreatHigh.Rank(), ThreatMedium.Rank())
	assert.Greater(t, ThreatMedium.Rank(), ThreatLow.Rank())
	assert.Greater(t, ThreatLow.Rank(), ThreatLevel("").Rank())
}

func TestValidLevel(t *testing.T) {
	for _, l := range []Level{LevelInfo, LevelDebug, LevelWarn, LevelError, LevelTrace} {
		assert.True(t, ValidLevel(l))
	}
	assert.False(t, ValidLevel("warning"))
	assert.False(t, ValidLevel(""))
}

// TestAnalysisResult_ExportRoundTrip tests that an exported result survives
// re-import without loss, the contract behind the export/import feature.
// TestAnalysisResult_ExportRoundTrip 测试导出结果可无损重新导入
func TestAnalysisResult_ExportRoundTrip(t *testing.T) {
	original := AnalysisResult{
		Timestamp:  "2024-06-01T12:00:00.000000000Z",
		FileName:   "auth.log",
		FileType:   "log",
		FileSize:   120,
		RawContent: "2024-06-01T12:00:00Z ERROR failed login for user=alice",
		Records: []LogRecord{
			{Timestamp: "2024-06-01T12:00:00Z", Message: "failed login for user=alice", Level: LevelError, UserID: "alice"},
		},
		Findings: []Finding{
			{
				ID:          "failed-login",
				Summary:     "Detected 1 occurrence of Failed Login Attempts",
				ThreatLevel: ThreatMedium,
				MatchedLines: []HighlightedLine{
					{Index: 1, Content: "failed login for user=alice", Reason: "Failed login attempt"},
				},
				Recommendation: "Review authentication sources",
			},
		},
		Highlighted: []HighlightedLine{
			{Index: 1, Content: "failed login for user=alice", Reason: "Failed login attempt"},
		},
		SinkOutcome: SinkOutcome{Succeeded: true, Status: "200", Message: "forwarded 1 records in 1 batches"},
		Resolved:    true,
		SinkID:      "ab12cd34",
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored AnalysisResult
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, original, restored)
}

func TestAnalysisResult_WireFieldNames(t *testing.T) {
	data, err := json.Marshal(AnalysisResult{})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"timestamp", "fileName", "fileType", "fileSize", "rawLogContent",
		"logs", "insights", "highlightedLines", "sinkIntegration", "resolved",
	} {
		assert.Contains(t, raw, key)
	}
	// sinkId is omitted when the default sink was used.
	assert.NotContains(t, raw, "sinkId")
}
