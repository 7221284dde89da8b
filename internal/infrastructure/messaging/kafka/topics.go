package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Pipeline topics.
const (
	TopicDocumentUploaded    = "document.uploaded"
	TopicDocumentProcessed   = "document.processed"
	TopicDocumentNeedsReview = "document.needs_review"
	TopicClaimAnalyzed       = "claim.analyzed"
)

const schemaVersion = "1.0"

// EventEnvelope standardizes event messages across topics.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEnvelope wraps a payload for publication.
func NewEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       raw,
	}, nil
}

// DocumentUploadedPayload announces a stored upload awaiting processing.
type DocumentUploadedPayload struct {
	DocumentID string    `json:"document_id"`
	ClaimID    string    `json:"claim_id,omitempty"`
	TypeTag    string    `json:"type_tag"`
	Kind       string    `json:"kind"`
	ObjectKey  string    `json:"object_key"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DocumentProcessedPayload reports a pipeline outcome; the same shape
// serves both the processed and needs_review topics.
type DocumentProcessedPayload struct {
	DocumentID           string    `json:"document_id"`
	TypeTag              string    `json:"type_tag"`
	Status               string    `json:"status"`
	ExtractionConfidence float64   `json:"extraction_confidence"`
	ValidationErrors     int       `json:"validation_errors"`
	ValidationWarnings   int       `json:"validation_warnings"`
	ProcessedAt          time.Time `json:"processed_at"`
}

// ClaimAnalyzedPayload reports a completed eligibility analysis.
type ClaimAnalyzedPayload struct {
	ClaimID            string    `json:"claim_id"`
	ReportID           string    `json:"report_id"`
	RecommendedSchemes int       `json:"recommended_schemes"`
	TotalBenefit       int64     `json:"total_benefit"`
	AnalyzedAt         time.Time `json:"analyzed_at"`
}
