package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/config"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
)

// Archiver bulk-indexes parsed records into Elasticsearch so analyses stay
// queryable after the session is gone. It is a best-effort side channel: the
// forwarder logs archive failures and moves on.
// Archiver 将解析后的记录批量写入 Elasticsearch。
type Archiver struct {
	client *elasticsearch.Client
	index  string
}

// NewArchiver builds an archiver from the archive config and verifies the
// cluster is reachable.
func NewArchiver(cfg config.ArchiveConfig) (*Archiver, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	resp, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("elasticsearch info failed: %s", resp.String())
	}

	index := cfg.Index
	if index == "" {
		index = "cybersentry-logs"
	}
	return &Archiver{client: client, index: index}, nil
}

// archiveDoc is the indexed document: one record plus its analysis context.
type archiveDoc struct {
	FileName   string    `json:"fileName"`
	Timestamp  string    `json:"timestamp"`
	Message    string    `json:"message"`
	Level      string    `json:"level"`
	UserID     string    `json:"userId,omitempty"`
	ArchivedAt time.Time `json:"archivedAt"`
}

// Archive writes all records for one analysis as a single bulk request.
func (a *Archiver) Archive(ctx context.Context, records []model.LogRecord, meta Meta) error {
	if len(records) == 0 {
		return nil
	}

	archivedAt := time.Now().UTC()
	var buf bytes.Buffer
	for _, rec := range records {
		action, _ := json.Marshal(map[string]interface{}{
			"index": map[string]interface{}{"_index": a.index},
		})
		doc, err := json.Marshal(archiveDoc{
			FileName:   meta.FileName,
			Timestamp:  rec.Timestamp,
			Message:    rec.Message,
			Level:      string(rec.Level),
			UserID:     rec.UserID,
			ArchivedAt: archivedAt,
		})
		if err != nil {
			return err
		}
		buf.Write(action)
		buf.WriteByte('\n')
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Index: a.index,
		Body:  bytes.NewReader(buf.Bytes()),
	}
	resp, err := req.Do(ctx, a.client)
	if err != nil {
		return fmt.Errorf("bulk archive request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("bulk archive rejected: %s", resp.String())
	}
	return nil
}
