// Package document defines the uploaded-document aggregate, its lifecycle,
// and the static registry of supported document types that drives both
// extraction expectations and validation rules.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/claimlens/claimlens/pkg/types/common"
)

// FileKind is the declared content kind of an uploaded file.  It selects the
// text-extraction strategy.
type FileKind string

const (
	KindText  FileKind = "text"
	KindPDF   FileKind = "pdf"
	KindImage FileKind = "image"
)

// ParseFileKind maps a declared kind or MIME type onto a FileKind.
func ParseFileKind(s string) (FileKind, error) {
	switch s {
	case "text", "text/plain":
		return KindText, nil
	case "pdf", "application/pdf":
		return KindPDF, nil
	case "image", "image/png", "image/jpeg", "image/tiff":
		return KindImage, nil
	}
	return "", fmt.Errorf("unsupported file kind %q", s)
}

// Status is the document lifecycle state.  Only the pipeline and the manual
// review step move a document between states; a single document is never
// processed concurrently.
type Status string

const (
	StatusUploaded    Status = "uploaded"
	StatusProcessing  Status = "processing"
	StatusProcessed   Status = "processed"
	StatusNeedsReview Status = "needs_review"
	StatusVerified    Status = "verified"
	StatusRejected    Status = "rejected"
)

var statusTransitions = map[Status][]Status{
	StatusUploaded:    {StatusProcessing},
	StatusProcessing:  {StatusProcessed, StatusNeedsReview},
	StatusProcessed:   {StatusVerified, StatusRejected},
	StatusNeedsReview: {StatusVerified, StatusRejected},
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// EntitySet holds the named entities and pattern-matched identifiers
// recognised in a document's raw text.  Every slice is trimmed and
// deduplicated; ordering carries no meaning.
type EntitySet struct {
	People        []string    `json:"people"`
	Organizations []string    `json:"organizations"`
	Locations     []string    `json:"locations"`
	Dates         []string    `json:"dates"`
	Numbers       []string    `json:"numbers"`
	Emails        []string    `json:"emails"`
	Phones        []string    `json:"phones"`
	Identifiers   Identifiers `json:"identifiers"`
}

// Identifiers groups the fixed-pattern ID categories.
type Identifiers struct {
	NationalIDs []string `json:"national_ids"`
	TaxIDs      []string `json:"tax_ids"`
}

// EmptyEntitySet returns a set with every category initialised to an empty
// slice so that JSON output never contains null arrays.
func EmptyEntitySet() EntitySet {
	return EntitySet{
		People:        []string{},
		Organizations: []string{},
		Locations:     []string{},
		Dates:         []string{},
		Numbers:       []string{},
		Emails:        []string{},
		Phones:        []string{},
		Identifiers: Identifiers{
			NationalIDs: []string{},
			TaxIDs:      []string{},
		},
	}
}

// FieldSet maps field names to extracted or caller-supplied values.  Values
// are strings, numbers, dates (as strings), or small arrays of these.
type FieldSet map[string]interface{}

// DataQuality is the three-part quality score attached to a validation
// result, each component in [0, 100].
type DataQuality struct {
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
}

// ValidationResult is the outcome of running the field validator against a
// document's structured fields.  IsValid is true exactly when Errors is
// empty.
type ValidationResult struct {
	IsValid     bool        `json:"is_valid"`
	Errors      []string    `json:"errors"`
	Warnings    []string    `json:"warnings"`
	Confidence  float64     `json:"confidence"`
	DataQuality DataQuality `json:"data_quality"`
}

// ExtractionResult is the text-recognition output attached to a document.
type ExtractionResult struct {
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
	LanguageTag string  `json:"language_tag"`
	EngineNote  string  `json:"engine_note"`
}

// UploadedDocument is the aggregate produced by an upload and mutated only
// by the pipeline and the later manual review step.
type UploadedDocument struct {
	ID       common.ID `json:"id"`
	FileName string    `json:"file_name"`
	FileSize int64     `json:"file_size"`
	Kind     FileKind  `json:"kind"`
	TypeTag  string    `json:"type_tag"`

	// ClaimID links the document to the claim it supports, when known at
	// upload time.
	ClaimID common.ID `json:"claim_id,omitempty"`

	// ObjectKey locates the original upload in object storage.
	ObjectKey string `json:"object_key"`

	Extraction ExtractionResult  `json:"extraction"`
	Entities   EntitySet         `json:"entities"`
	Fields     FieldSet          `json:"fields"`
	Validation *ValidationResult `json:"validation,omitempty"`

	Status     Status            `json:"status"`
	ReviewNote string            `json:"review_note,omitempty"`
	UploadedAt common.Timestamp  `json:"uploaded_at"`
	ProcessedAt *common.Timestamp `json:"processed_at,omitempty"`
	ReviewedAt  *common.Timestamp `json:"reviewed_at,omitempty"`
}

// NewUploadedDocument constructs a document in the uploaded state.
func NewUploadedDocument(fileName string, fileSize int64, kind FileKind, typeTag string) *UploadedDocument {
	return &UploadedDocument{
		ID:         common.GenerateID("doc"),
		FileName:   fileName,
		FileSize:   fileSize,
		Kind:       kind,
		TypeTag:    typeTag,
		Entities:   EmptyEntitySet(),
		Fields:     FieldSet{},
		Status:     StatusUploaded,
		UploadedAt: common.Now(),
	}
}

// Transition moves the document to next, enforcing lifecycle legality.
func (d *UploadedDocument) Transition(next Status) error {
	if !d.Status.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s", d.Status, next)
	}
	d.Status = next
	return nil
}

// MarshalFields renders the field set as canonical JSON for persistence.
func (d *UploadedDocument) MarshalFields() ([]byte, error) {
	if d.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.Fields)
}
