// Package opensearch indexes extracted document text so processed uploads
// can be found again by content, not just by identifier.
package opensearch

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v3"
	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/pkg/errors"
)

// NewClient connects to the configured cluster.
func NewClient(cfg config.OpenSearchConfig) (*opensearchapi.Client, error) {
	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: cfg.Addresses,
			Username:  cfg.User,
			Password:  cfg.Password,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "connect to search cluster")
	}
	return client, nil
}

// IndexedDocument is the searchable projection of a processed upload.
type IndexedDocument struct {
	DocumentID string    `json:"document_id"`
	ClaimID    string    `json:"claim_id,omitempty"`
	TypeTag    string    `json:"type_tag"`
	Status     string    `json:"status"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// Indexer writes and queries the documents index.
type Indexer struct {
	client *opensearchapi.Client
	index  string
	logger logging.Logger
}

// NewIndexer builds an Indexer under the configured index prefix.
func NewIndexer(client *opensearchapi.Client, cfg config.OpenSearchConfig, logger logging.Logger) *Indexer {
	prefix := cfg.IndexPrefix
	if prefix == "" {
		prefix = "claimlens"
	}
	return &Indexer{
		client: client,
		index:  prefix + "-documents",
		logger: logger.Named("opensearch"),
	}
}

// IndexDocument upserts the searchable projection of doc.
func (i *Indexer) IndexDocument(ctx context.Context, doc *document.UploadedDocument) error {
	body, err := json.Marshal(IndexedDocument{
		DocumentID: doc.ID.String(),
		ClaimID:    doc.ClaimID.String(),
		TypeTag:    doc.TypeTag,
		Status:     string(doc.Status),
		Text:       doc.Extraction.Text,
		Confidence: doc.Extraction.Confidence,
		IndexedAt:  time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode index document")
	}

	_, err = i.client.Index(ctx, opensearchapi.IndexReq{
		Index:      i.index,
		DocumentID: doc.ID.String(),
		Body:       strings.NewReader(string(body)),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "index document text")
	}

	i.logger.Debug("document indexed",
		logging.String("document_id", doc.ID.String()),
		logging.String("index", i.index))
	return nil
}

// SearchText runs a full-text match over extracted document text.
func (i *Indexer) SearchText(ctx context.Context, query string, limit int) ([]IndexedDocument, error) {
	if limit <= 0 {
		limit = 20
	}
	body, err := json.Marshal(map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"text": query,
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode search query")
	}

	resp, err := i.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{i.index},
		Body:    strings.NewReader(string(body)),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "search documents")
	}

	out := make([]IndexedDocument, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var doc IndexedDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}
