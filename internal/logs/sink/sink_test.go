package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/config"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/integrations"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
)

func makeRecords(n int) []model.LogRecord {
	records := make([]model.LogRecord, n)
	for i := range records {
		records[i] = model.LogRecord{
			Timestamp: "2024-01-01T00:00:00Z",
			Message:   fmt.Sprintf("record %d", i),
			Level:     model.LevelInfo,
		}
	}
	return records
}

// TestForwardDefault_Batching tests that records are shipped in fixed-size
// batches to the telemetry endpoint.
// TestForwardDefault_Batching 测试记录按固定大小批次发送到遥测端点
func TestForwardDefault_Batching(t *testing.T) {
	var mu sync.Mutex
	var batchSizes []int
	var tokens []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []model.LogRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		mu.Lock()
		batchSizes = append(batchSizes, len(batch))
		tokens = append(tokens, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := NewForwarder(config.TelemetryConfig{
		Endpoint:  server.URL,
		Token:     "secret-token",
		BatchSize: 100,
	}, nil, nil)

	outcome := f.Forward(context.Background(), makeRecords(250), Meta{FileName: "big.log"})

	require.True(t, outcome.Succeeded)
	assert.Equal(t, "200", outcome.Status)
	assert.Equal(t, "forwarded 250 records in 3 batches", outcome.Message)
	assert.Equal(t, []int{100, 100, 50}, batchSizes)
	for _, token := range tokens {
		assert.Equal(t, "Bearer secret-token", token)
	}
}

func TestForwardDefault_AbortsOnRejectedBatch(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := NewForwarder(config.TelemetryConfig{Endpoint: server.URL, BatchSize: 100}, nil, nil)
	outcome := f.Forward(context.Background(), makeRecords(250), Meta{})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "500", outcome.Status)
	assert.Contains(t, outcome.Message, "batch 2/3")
	// The third batch is never attempted.
	assert.Equal(t, 2, calls)
}

func TestForwardDefault_NoEndpoint(t *testing.T) {
	f := NewForwarder(config.TelemetryConfig{}, nil, nil)
	outcome := f.Forward(context.Background(), makeRecords(1), Meta{})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "disabled", outcome.Status)
}

func TestForwardCustom_Success(t *testing.T) {
	var got customPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"id":"evt-42"}`)
	}))
	defer server.Close()

	registry := integrations.NewRegistry(integrations.NewMemoryStore(), 4, nil)
	integration, err := registry.Add("SIEM", server.URL, "key-123")
	require.NoError(t, err)

	f := NewForwarder(config.TelemetryConfig{Endpoint: "http://unused.invalid"}, registry, nil)
	outcome := f.Forward(context.Background(), makeRecords(3), Meta{
		FileName: "auth.log",
		SinkID:   integration.ID,
	})

	require.True(t, outcome.Succeeded)
	assert.Contains(t, outcome.Message, "forwarded 3 records to SIEM")
	assert.Contains(t, outcome.Message, "id=evt-42")

	assert.Equal(t, "auth.log", got.FileName)
	assert.Equal(t, "cybersentry", got.Source)
	var embedded []model.LogRecord
	require.NoError(t, json.Unmarshal([]byte(got.Content), &embedded))
	assert.Len(t, embedded, 3)
}

func TestForwardCustom_NotFound(t *testing.T) {
	registry := integrations.NewRegistry(integrations.NewMemoryStore(), 4, nil)
	f := NewForwarder(config.TelemetryConfig{}, registry, nil)

	outcome := f.Forward(context.Background(), makeRecords(1), Meta{SinkID: "missing"})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "not_found", outcome.Status)
}

func TestForwardCustom_Inactive(t *testing.T) {
	store := integrations.NewMemoryStore()
	require.NoError(t, store.Put(integrations.SinkIntegration{
		ID:       "dormant",
		Name:     "Dormant",
		Endpoint: "http://unused.invalid",
		IsActive: false,
	}))

	registry := integrations.NewRegistry(store, 4, nil)
	f := NewForwarder(config.TelemetryConfig{}, registry, nil)

	outcome := f.Forward(context.Background(), makeRecords(1), Meta{SinkID: "dormant"})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "inactive", outcome.Status)
	assert.Contains(t, outcome.Message, "Dormant")
}

func TestForwardCustom_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	registry := integrations.NewRegistry(integrations.NewMemoryStore(), 4, nil)
	integration, err := registry.Add("Strict", server.URL, "bad-key")
	require.NoError(t, err)

	f := NewForwarder(config.TelemetryConfig{}, registry, nil)
	outcome := f.Forward(context.Background(), makeRecords(1), Meta{SinkID: integration.ID})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "403", outcome.Status)
}

func TestChunk(t *testing.T) {
	assert.Len(t, chunk(makeRecords(250), 100), 3)
	assert.Len(t, chunk(makeRecords(100), 100), 1)
	assert.Empty(t, chunk(nil, 100))
}
