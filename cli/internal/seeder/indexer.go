// Package seeder loads generated threat alerts into OpenSearch so dashboards
// and detections can be exercised against realistic data.
package seeder

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"

	"github.com/nctirs/nctirs-stack/common/models"
)

// maxReportedErrors caps Result.Errors; the counters stay exact.
const maxReportedErrors = 20

// alertMapping pins the fields dashboards aggregate on to keyword/date types.
const alertMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "timestamp":     {"type": "date"},
      "title":         {"type": "text"},
      "description":   {"type": "text"},
      "severity":      {"type": "keyword"},
      "status":        {"type": "keyword"},
      "attackVector":  {"type": "keyword"},
      "targetSystem":  {"type": "keyword"},
      "targetSector":  {"type": "keyword"},
      "sourceIP":      {"type": "ip"},
      "sourceCountry": {"type": "keyword"},
      "destinationIP": {"type": "ip"},
      "riskScore":     {"type": "integer"},
      "confidence":    {"type": "integer"}
    }
  }
}`

type OpenSearchConfig struct {
	URL      string
	Username string
	Password string
	Insecure bool
	Index    string

	Workers       int
	FlushBytes    int
	FlushInterval time.Duration
}

// Result summarises a bulk load.
type Result struct {
	Indexed uint64   `json:"indexed"`
	Failed  uint64   `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

type Indexer struct {
	client *opensearch.Client
	cfg    OpenSearchConfig
}

// NewIndexer connects to OpenSearch and verifies the cluster responds.
func NewIndexer(cfg OpenSearchConfig) (*Indexer, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.FlushBytes <= 0 {
		cfg.FlushBytes = 1 << 20
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.Insecure}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return nil, fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	return &Indexer{client: client, cfg: cfg}, nil
}

// EnsureIndex creates the alert index with its mapping if it does not exist.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := ix.client.Indices.Exists([]string{ix.cfg.Index},
		ix.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", ix.cfg.Index, err)
	}
	exists.Body.Close()

	switch exists.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("check index %s: %s", ix.cfg.Index, exists.Status())
	}

	created, err := ix.client.Indices.Create(ix.cfg.Index,
		ix.client.Indices.Create.WithBody(strings.NewReader(alertMapping)),
		ix.client.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create index %s: %w", ix.cfg.Index, err)
	}
	defer created.Body.Close()

	if created.IsError() {
		return fmt.Errorf("create index %s: %s", ix.cfg.Index, created.Status())
	}
	return nil
}

// IndexAlerts bulk-indexes alerts. Each document gets a fresh uuid as its
// _id: generated alert ids are only millisecond-unique and must not
// overwrite each other.
func (ix *Indexer) IndexAlerts(ctx context.Context, alerts []models.ThreatAlert) (*Result, error) {
	res := &Result{}
	var mu sync.Mutex
	recordError := func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		if len(res.Errors) < maxReportedErrors {
			res.Errors = append(res.Errors, msg)
		}
	}

	bi, err := opensearchutil.NewBulkIndexer(opensearchutil.BulkIndexerConfig{
		Client:        ix.client,
		Index:         ix.cfg.Index,
		NumWorkers:    ix.cfg.Workers,
		FlushBytes:    ix.cfg.FlushBytes,
		FlushInterval: ix.cfg.FlushInterval,
		OnError: func(_ context.Context, err error) {
			recordError(err.Error())
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	for _, alert := range alerts {
		data, err := json.Marshal(alert)
		if err != nil {
			recordError(fmt.Sprintf("marshal %s: %v", alert.ID, err))
			continue
		}

		err = bi.Add(ctx, opensearchutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: uuid.NewString(),
			Body:       bytes.NewReader(data),
			OnFailure: func(_ context.Context, _ opensearchutil.BulkIndexerItem, resp opensearchutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					recordError(fmt.Sprintf("%s: %v", alert.ID, err))
					return
				}
				recordError(fmt.Sprintf("%s: %s: %s", alert.ID, resp.Error.Type, resp.Error.Reason))
			},
		})
		if err != nil {
			// The indexer stops accepting items once ctx is done.
			recordError(fmt.Sprintf("add %s: %v", alert.ID, err))
			break
		}
	}

	closeErr := bi.Close(ctx)

	stats := bi.Stats()
	res.Indexed = stats.NumIndexed
	// Anything not indexed failed: rejected items, unflushed batches and
	// alerts never added.
	res.Failed = uint64(len(alerts)) - stats.NumIndexed

	if closeErr != nil {
		return res, fmt.Errorf("failed to flush bulk indexer: %w", closeErr)
	}
	return res, nil
}
