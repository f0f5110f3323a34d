package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/config"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/integrations"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/utils/logger"
)

// Meta carries the analysis context a forward call needs.
type Meta struct {
	FileName string
	SinkID   string
}

// Forwarder ships a copy of the ingested records to the default telemetry
// endpoint or a user-selected custom integration. Forwarding failure is
// always returned as data and never fails the analysis.
// Forwarder 将日志记录副本转发到默认遥测端点或用户自定义接收端。
type Forwarder struct {
	cfg      config.TelemetryConfig
	registry *integrations.Registry
	archiver *Archiver
	client   *http.Client
}

// NewForwarder creates a forwarder. Every outbound call is bounded by the
// configured timeout. The archiver is optional.
func NewForwarder(cfg config.TelemetryConfig, registry *integrations.Registry, archiver *Archiver) *Forwarder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultBatchSize
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultSinkTimeoutSeconds * time.Second
	}
	return &Forwarder{
		cfg:      cfg,
		registry: registry,
		archiver: archiver,
		client:   &http.Client{Timeout: timeout},
	}
}

// Forward ships records to the selected sink and returns the outcome as
// data. When an archiver is configured it additionally archives the records;
// archive failures are logged, never surfaced.
func (f *Forwarder) Forward(ctx context.Context, records []model.LogRecord, meta Meta) model.SinkOutcome {
	var outcome model.SinkOutcome
	if meta.SinkID != "" {
		outcome = f.forwardCustom(ctx, records, meta)
	} else {
		outcome = f.forwardDefault(ctx, records)
	}

	if f.archiver != nil {
		if err := f.archiver.Archive(ctx, records, meta); err != nil {
			logger.Named(ctx, "sink").Warnf("Archive failed for %s: %v", meta.FileName, err)
		}
	}
	return outcome
}

// forwardDefault chunks records into batches and POSTs them sequentially to
// the fixed telemetry endpoint. The first non-2xx response aborts the
// remaining batches.
func (f *Forwarder) forwardDefault(ctx context.Context, records []model.LogRecord) model.SinkOutcome {
	if f.cfg.Endpoint == "" {
		return failure("disabled", "no telemetry endpoint configured")
	}

	batches := chunk(records, f.cfg.BatchSize)
	for i, batch := range batches {
		body, err := json.Marshal(batch)
		if err != nil {
			return failure("error", fmt.Sprintf("failed to encode batch %d/%d: %v", i+1, len(batches), err))
		}

		status, _, err := f.post(ctx, f.cfg.Endpoint, f.cfg.Token, body)
		if err != nil {
			return failure("error", fmt.Sprintf("batch %d/%d: %v", i+1, len(batches), err))
		}
		if status < 200 || status > 299 {
			return failure(fmt.Sprintf("%d", status), fmt.Sprintf("telemetry sink rejected batch %d/%d", i+1, len(batches)))
		}
	}

	return model.SinkOutcome{
		Succeeded: true,
		Status:    "200",
		Message:   fmt.Sprintf("forwarded %d records in %d batches", len(records), len(batches)),
		Timestamp: time.Now().UTC(),
	}
}

// customPayload is the single-POST body the custom sink protocol expects.
type customPayload struct {
	Timestamp string `json:"timestamp"`
	FileName  string `json:"fileName"`
	Content   string `json:"content"`
	Source    string `json:"source"`
}

// forwardCustom looks the integration up and issues one POST with the full
// record set. A missing or inactive integration is a failure outcome, not an
// error.
func (f *Forwarder) forwardCustom(ctx context.Context, records []model.LogRecord, meta Meta) model.SinkOutcome {
	if f.registry == nil {
		return failure("not_found", "no integration registry configured")
	}

	integration, err := f.registry.Get(meta.SinkID)
	if err != nil {
		return failure("not_found", fmt.Sprintf("integration %s not found", meta.SinkID))
	}
	if !integration.IsActive {
		return failure("inactive", fmt.Sprintf("integration %s is inactive", integration.Name))
	}

	content, err := json.Marshal(records)
	if err != nil {
		return failure("error", fmt.Sprintf("failed to encode records: %v", err))
	}
	body, err := json.Marshal(customPayload{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		FileName:  meta.FileName,
		Content:   string(content),
		Source:    "cybersentry",
	})
	if err != nil {
		return failure("error", fmt.Sprintf("failed to encode payload: %v", err))
	}

	status, respBody, err := f.post(ctx, integration.Endpoint, integration.APIKey, body)
	if err != nil {
		return failure("error", err.Error())
	}
	if status < 200 || status > 299 {
		return failure(fmt.Sprintf("%d", status), fmt.Sprintf("custom sink %s rejected payload", integration.Name))
	}

	message := fmt.Sprintf("forwarded %d records to %s", len(records), integration.Name)
	// The sink may echo an id for the accepted payload.
	var ack struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(respBody, &ack) == nil && ack.ID != "" {
		message = fmt.Sprintf("%s (id=%s)", message, ack.ID)
	}

	return model.SinkOutcome{
		Succeeded: true,
		Status:    fmt.Sprintf("%d", status),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func (f *Forwarder) post(ctx context.Context, endpoint, token string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return resp.StatusCode, respBody, nil
}

func chunk(records []model.LogRecord, size int) [][]model.LogRecord {
	var batches [][]model.LogRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

func failure(status, message string) model.SinkOutcome {
	return model.SinkOutcome{
		Succeeded: false,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
