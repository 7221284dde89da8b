// Package documents orchestrates the per-document pipeline: store the
// upload, extract text, pull entities and fields, validate, persist, index
// and announce the outcome.  The pipeline for one document is strictly
// sequential; independent documents run in parallel without coordination.
package documents

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/messaging/kafka"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/prometheus"
	"github.com/claimlens/claimlens/internal/intelligence/ner"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// needsReviewConfidence is the extraction-confidence floor below which a
// document goes to manual review even when validation passes.
const needsReviewConfidence = 0.8

// Extractor turns raw bytes into text plus a confidence.
type Extractor interface {
	Extract(ctx context.Context, kind document.FileKind, data []byte) document.ExtractionResult
}

// Validator applies document-type rules to a field set.
type Validator interface {
	Validate(typeTag string, fields document.FieldSet) (*document.ValidationResult, error)
}

// Indexer makes processed text searchable.  Indexing is best-effort.
type Indexer interface {
	IndexDocument(ctx context.Context, doc *document.UploadedDocument) error
}

// Producer announces pipeline outcomes.  Publication is best-effort.
type Producer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// UploadRequest carries one file through ExtractAndValidate.  Fields may
// pre-seed structured values (operator-entered fallbacks); extracted values
// never overwrite them.
type UploadRequest struct {
	FileName string
	Kind     document.FileKind
	TypeTag  string
	ClaimID  common.ID
	Data     []byte
	Fields   document.FieldSet
}

// Service runs the document pipeline.
type Service struct {
	registry  *document.Registry
	extractor Extractor
	validator Validator
	repo      document.Repository
	store     document.ObjectStore
	indexer   Indexer
	producer  Producer
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
}

// NewService wires the pipeline.  indexer, producer and metrics may be nil;
// the corresponding steps are skipped.
func NewService(
	registry *document.Registry,
	extractor Extractor,
	validator Validator,
	repo document.Repository,
	store document.ObjectStore,
	indexer Indexer,
	producer Producer,
	metrics *prometheus.AppMetrics,
	logger logging.Logger,
) *Service {
	return &Service{
		registry:  registry,
		extractor: extractor,
		validator: validator,
		repo:      repo,
		store:     store,
		indexer:   indexer,
		producer:  producer,
		metrics:   metrics,
		logger:    logger.Named("documents"),
	}
}

// ExtractAndValidate runs the full pipeline for one upload.  Extraction
// failures degrade into a needs_review outcome; the only hard rejections
// are an unknown document type, a disallowed kind, or an oversized file.
func (s *Service) ExtractAndValidate(ctx context.Context, req UploadRequest) (*document.UploadedDocument, error) {
	spec, err := s.registry.Get(req.TypeTag)
	if err != nil {
		return nil, err
	}
	if !spec.AllowsKind(req.Kind) {
		return nil, errors.Newf(errors.ErrCodeUnsupportedFileKind,
			"document type %s does not accept %s uploads", req.TypeTag, req.Kind)
	}
	if int64(len(req.Data)) > spec.MaxFileSize {
		return nil, errors.Newf(errors.ErrCodeDocumentTooLarge,
			"file exceeds the %d byte limit for %s", spec.MaxFileSize, req.TypeTag)
	}

	doc := document.NewUploadedDocument(req.FileName, int64(len(req.Data)), req.Kind, req.TypeTag)
	doc.ClaimID = req.ClaimID
	doc.ObjectKey = fmt.Sprintf("documents/%s/%s", doc.ID, req.FileName)

	if err := s.store.Upload(ctx, doc.ObjectKey, req.Data, contentType(req.Kind)); err != nil {
		return nil, err
	}
	if err := doc.Transition(document.StatusProcessing); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "start processing")
	}
	if s.metrics != nil {
		s.metrics.PipelineActiveDocuments.Inc()
		defer s.metrics.PipelineActiveDocuments.Dec()
	}

	start := time.Now()
	doc.Extraction = s.extractor.Extract(ctx, req.Kind, req.Data)
	doc.Entities = ner.Extract(doc.Extraction.Text)
	doc.Fields = mergeFields(req.Fields, DeriveFields(spec, doc.Extraction.Text))

	validation, err := s.validator.Validate(req.TypeTag, doc.Fields)
	if err != nil {
		return nil, err
	}
	doc.Validation = validation

	next := document.StatusProcessed
	if !validation.IsValid || doc.Extraction.Confidence < needsReviewConfidence {
		next = document.StatusNeedsReview
	}
	if err := doc.Transition(next); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "finish processing")
	}
	now := common.Now()
	doc.ProcessedAt = &now

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.observe(doc, time.Since(start))
	s.indexText(ctx, doc)
	s.announce(ctx, doc)

	s.logger.Info("document processed",
		logging.String("document_id", doc.ID.String()),
		logging.String("type_tag", doc.TypeTag),
		logging.String("status", string(doc.Status)),
		logging.Float64("confidence", doc.Extraction.Confidence),
		logging.Int("errors", len(validation.Errors)),
		logging.Int("warnings", len(validation.Warnings)))
	return doc, nil
}

// GetDocument loads one document record.
func (s *Service) GetDocument(ctx context.Context, id common.ID) (*document.UploadedDocument, error) {
	return s.repo.GetByID(ctx, id)
}

// DownloadURL returns a short-lived presigned link to the original upload,
// for reviewers who need to see the scanned file rather than the extraction.
func (s *Service) DownloadURL(ctx context.Context, id common.ID) (string, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignDownload(ctx, doc.ObjectKey)
}

// ListByClaim returns the documents attached to a claim, newest first.
func (s *Service) ListByClaim(ctx context.Context, claimID common.ID) ([]*document.UploadedDocument, error) {
	return s.repo.ListByClaim(ctx, claimID)
}

// ListByStatus pages through documents in one lifecycle status; the review
// queue is ListByStatus(needs_review, ...).
func (s *Service) ListByStatus(ctx context.Context, status document.Status, limit, offset int) ([]*document.UploadedDocument, error) {
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// ReviewDocument applies a manual verdict to a document awaiting review.
func (s *Service) ReviewDocument(ctx context.Context, id common.ID, verdict document.Status, note string) (*document.UploadedDocument, error) {
	if verdict != document.StatusVerified && verdict != document.StatusRejected {
		return nil, errors.Newf(errors.ErrCodeInvalidReview,
			"review verdict must be %s or %s", document.StatusVerified, document.StatusRejected)
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Transition(verdict); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidReview, "apply review verdict")
	}
	doc.ReviewNote = note
	now := common.Now()
	doc.ReviewedAt = &now

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.announce(ctx, doc)
	return doc, nil
}

func (s *Service) observe(doc *document.UploadedDocument, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.DocumentsProcessedTotal.WithLabelValues(doc.TypeTag, string(doc.Status)).Inc()
	s.metrics.ExtractionDuration.WithLabelValues(string(doc.Kind)).Observe(elapsed.Seconds())
	s.metrics.ExtractionConfidence.Observe(doc.Extraction.Confidence)
	if doc.Validation != nil {
		s.metrics.ValidationIssuesTotal.WithLabelValues(doc.TypeTag, "error").Add(float64(len(doc.Validation.Errors)))
		s.metrics.ValidationIssuesTotal.WithLabelValues(doc.TypeTag, "warning").Add(float64(len(doc.Validation.Warnings)))
	}
}

func (s *Service) indexText(ctx context.Context, doc *document.UploadedDocument) {
	if s.indexer == nil || doc.Extraction.Text == "" {
		return
	}
	if err := s.indexer.IndexDocument(ctx, doc); err != nil {
		s.logger.Warn("text indexing failed",
			logging.String("document_id", doc.ID.String()),
			logging.Err(err))
	}
}

func (s *Service) announce(ctx context.Context, doc *document.UploadedDocument) {
	if s.producer == nil {
		return
	}
	topic := kafka.TopicDocumentProcessed
	if doc.Status == document.StatusNeedsReview {
		topic = kafka.TopicDocumentNeedsReview
	}
	payload := kafka.DocumentProcessedPayload{
		DocumentID:           doc.ID.String(),
		TypeTag:              doc.TypeTag,
		Status:               string(doc.Status),
		ExtractionConfidence: doc.Extraction.Confidence,
		ProcessedAt:          time.Now().UTC(),
	}
	if doc.Validation != nil {
		payload.ValidationErrors = len(doc.Validation.Errors)
		payload.ValidationWarnings = len(doc.Validation.Warnings)
	}
	if err := s.producer.Publish(ctx, topic, doc.ID.String(), payload); err != nil {
		s.logger.Warn("event publish failed",
			logging.String("topic", topic),
			logging.String("document_id", doc.ID.String()),
			logging.Err(err))
		return
	}
	if s.metrics != nil {
		s.metrics.EventsPublishedTotal.WithLabelValues(topic).Inc()
	}
}

// mergeFields overlays derived values under caller-provided ones.
func mergeFields(provided, derived document.FieldSet) document.FieldSet {
	out := document.FieldSet{}
	for k, v := range derived {
		out[k] = v
	}
	for k, v := range provided {
		out[k] = v
	}
	return out
}

// DeriveFields pulls labelled values out of extracted text: a field named
// land_area_hectares matches a "Land Area Hectares: <value>" line, with the
// value parsed per the field's constraint kind.
func DeriveFields(spec *document.TypeSpec, text string) document.FieldSet {
	fields := document.FieldSet{}
	if strings.TrimSpace(text) == "" {
		return fields
	}
	for i := range spec.Fields {
		rule := &spec.Fields[i]
		raw, ok := labelledValue(text, rule.Name)
		if !ok {
			continue
		}
		switch rule.Kind {
		case document.FieldNumber:
			if n, err := strconv.ParseFloat(firstNumber(raw), 64); err == nil {
				fields[rule.Name] = n
			}
		case document.FieldArray:
			parts := []interface{}{}
			for _, p := range strings.Split(raw, ",") {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
			if len(parts) > 0 {
				fields[rule.Name] = parts
			}
		case document.FieldGeoPoint:
			// Coordinates come from structured input, not free text.
		default:
			fields[rule.Name] = raw
		}
	}
	return fields
}

var numberRe = regexp.MustCompile(`-?[0-9]+(?:\.[0-9]+)?`)

func firstNumber(s string) string {
	if m := numberRe.FindString(s); m != "" {
		return m
	}
	return s
}

// labelledValue finds "<label>: <value>" on a single line, with the label
// matched case-insensitively and underscores treated as spaces.
func labelledValue(text, fieldName string) (string, bool) {
	label := regexp.QuoteMeta(strings.ReplaceAll(fieldName, "_", " "))
	label = strings.ReplaceAll(label, ` `, `[ _]`)
	re, err := regexp.Compile(`(?im)^[^\S\n]*` + label + `[^\S\n]*[:\-][^\S\n]*(.+)$`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	value := strings.TrimSpace(m[1])
	return value, value != ""
}

func contentType(kind document.FileKind) string {
	switch kind {
	case document.KindText:
		return "text/plain"
	case document.KindPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
