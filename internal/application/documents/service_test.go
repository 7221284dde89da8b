package documents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/messaging/kafka"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/internal/validation"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

type fakeRepo struct {
	created []*document.UploadedDocument
	updated []*document.UploadedDocument
	byID    map[common.ID]*document.UploadedDocument
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[common.ID]*document.UploadedDocument{}}
}

func (r *fakeRepo) Create(_ context.Context, doc *document.UploadedDocument) error {
	r.created = append(r.created, doc)
	r.byID[doc.ID] = doc
	return nil
}

func (r *fakeRepo) Update(_ context.Context, doc *document.UploadedDocument) error {
	r.updated = append(r.updated, doc)
	r.byID[doc.ID] = doc
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id common.ID) (*document.UploadedDocument, error) {
	if doc, ok := r.byID[id]; ok {
		return doc, nil
	}
	return nil, errors.NewNotFoundError("document " + id.String() + " not found")
}

func (r *fakeRepo) ListByClaim(context.Context, common.ID) ([]*document.UploadedDocument, error) {
	return nil, nil
}

func (r *fakeRepo) ListByStatus(context.Context, document.Status, int, int) ([]*document.UploadedDocument, error) {
	return nil, nil
}

type fakeStore struct {
	objects map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (s *fakeStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	s.objects[key] = data
	return nil
}

func (s *fakeStore) Download(_ context.Context, key string) ([]byte, error) {
	return s.objects[key], nil
}

func (s *fakeStore) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://store.local/" + key, nil
}

type fakeExtractor struct {
	result document.ExtractionResult
}

func (e *fakeExtractor) Extract(context.Context, document.FileKind, []byte) document.ExtractionResult {
	return e.result
}

type fakeProducer struct {
	topics   []string
	payloads []interface{}
}

func (p *fakeProducer) Publish(_ context.Context, topic, _ string, payload interface{}) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

const formText = `Forest Rights Claim Form
Applicant Name: Ramu Majhi
Village: Salebhata
District: Bargarh
State: Odisha
Land Area Hectares: 1.5 hectares
Land Use Type: agriculture
Occupation Date: 2003-06-15
`

func validFields() document.FieldSet {
	return document.FieldSet{
		"applicant_name":     "Ramu Majhi",
		"village":            "Salebhata",
		"district":           "Bargarh",
		"land_area_hectares": 1.5,
		"land_use_type":      "agriculture",
		"occupation_date":    "2003-06-15",
	}
}

func newTestService(t *testing.T, ex Extractor, repo *fakeRepo, producer *fakeProducer) *Service {
	t.Helper()
	registry := document.DefaultRegistry()
	var p Producer
	if producer != nil {
		p = producer
	}
	return NewService(registry, ex, validation.New(registry), repo, newFakeStore(),
		nil, p, nil, logging.NewNopLogger())
}

func TestExtractAndValidateProcessed(t *testing.T) {
	repo := newFakeRepo()
	producer := &fakeProducer{}
	ex := &fakeExtractor{result: document.ExtractionResult{Text: formText, Confidence: 1.0, LanguageTag: "en"}}
	svc := newTestService(t, ex, repo, producer)

	doc, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "claim.txt",
		Kind:     document.KindText,
		TypeTag:  "fra_claim_form",
		ClaimID:  "clm-1",
		Data:     []byte(formText),
		Fields:   validFields(),
	})
	require.NoError(t, err)

	assert.Equal(t, document.StatusProcessed, doc.Status)
	require.NotNil(t, doc.Validation)
	assert.True(t, doc.Validation.IsValid)
	assert.Equal(t, common.ID("clm-1"), doc.ClaimID)
	assert.Contains(t, doc.ObjectKey, "documents/")
	assert.NotNil(t, doc.ProcessedAt)
	assert.Contains(t, doc.Entities.People, "Ramu Majhi")

	require.Len(t, repo.created, 1)
	require.Len(t, producer.topics, 1)
	assert.Equal(t, kafka.TopicDocumentProcessed, producer.topics[0])
}

func TestExtractAndValidateLowConfidenceNeedsReview(t *testing.T) {
	repo := newFakeRepo()
	producer := &fakeProducer{}
	ex := &fakeExtractor{result: document.ExtractionResult{Text: formText, Confidence: 0.62, LanguageTag: "en"}}
	svc := newTestService(t, ex, repo, producer)

	doc, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "scan.png",
		Kind:     document.KindImage,
		TypeTag:  "fra_claim_form",
		Data:     []byte{0x89, 0x50},
		Fields:   validFields(),
	})
	require.NoError(t, err)

	assert.Equal(t, document.StatusNeedsReview, doc.Status)
	assert.True(t, doc.Validation.IsValid, "low confidence alone routes to review")
	require.Len(t, producer.topics, 1)
	assert.Equal(t, kafka.TopicDocumentNeedsReview, producer.topics[0])
}

func TestExtractAndValidateInvalidFieldsNeedReview(t *testing.T) {
	repo := newFakeRepo()
	ex := &fakeExtractor{result: document.ExtractionResult{Text: formText, Confidence: 1.0, LanguageTag: "en"}}
	svc := newTestService(t, ex, repo, nil)

	fields := validFields()
	delete(fields, "land_area_hectares")

	doc, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "claim.txt",
		Kind:     document.KindText,
		TypeTag:  "fra_claim_form",
		Data:     []byte("Applicant Name: Ramu Majhi\n"),
		Fields:   fields,
	})
	require.NoError(t, err, "validation failures degrade, they do not abort")

	assert.Equal(t, document.StatusNeedsReview, doc.Status)
	assert.False(t, doc.Validation.IsValid)
}

func TestExtractAndValidateExtractionFailureDegrades(t *testing.T) {
	repo := newFakeRepo()
	ex := &fakeExtractor{result: document.ExtractionResult{
		Text: "", Confidence: 0, LanguageTag: "en",
		EngineNote: "ocr-error: tesseract: exit status 1",
	}}
	svc := newTestService(t, ex, repo, nil)

	doc, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "blurry.png",
		Kind:     document.KindImage,
		TypeTag:  "fra_claim_form",
		Data:     []byte{0x00},
		Fields:   validFields(),
	})
	require.NoError(t, err)

	assert.Equal(t, document.StatusNeedsReview, doc.Status)
	assert.Equal(t, "", doc.Extraction.Text)
	assert.Contains(t, doc.Extraction.EngineNote, "ocr-error")
}

func TestExtractAndValidateRejections(t *testing.T) {
	svc := newTestService(t,
		&fakeExtractor{result: document.ExtractionResult{Text: "x", Confidence: 1.0}},
		newFakeRepo(), nil)

	_, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "a.txt", Kind: document.KindText, TypeTag: "ration_card", Data: []byte("x"),
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownDocumentType))

	_, err = svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "map.txt", Kind: document.KindText, TypeTag: "survey_map", Data: []byte("x"),
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedFileKind))

	spec, specErr := document.DefaultRegistry().Get("fra_claim_form")
	require.NoError(t, specErr)
	huge := []byte(strings.Repeat("a", int(spec.MaxFileSize)+1))
	_, err = svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "big.txt", Kind: document.KindText, TypeTag: "fra_claim_form", Data: huge,
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentTooLarge))
}

func TestDeriveFieldsFromText(t *testing.T) {
	repo := newFakeRepo()
	ex := &fakeExtractor{result: document.ExtractionResult{Text: formText, Confidence: 1.0, LanguageTag: "en"}}
	svc := newTestService(t, ex, repo, nil)

	doc, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "claim.txt",
		Kind:     document.KindText,
		TypeTag:  "fra_claim_form",
		Data:     []byte(formText),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ramu Majhi", doc.Fields["applicant_name"])
	assert.Equal(t, "Bargarh", doc.Fields["district"])
	assert.Equal(t, 1.5, doc.Fields["land_area_hectares"])
	assert.Equal(t, "agriculture", doc.Fields["land_use_type"])
	assert.Equal(t, "2003-06-15", doc.Fields["occupation_date"])
}

func TestMergeFieldsProvidedWins(t *testing.T) {
	out := mergeFields(
		document.FieldSet{"district": "Koraput"},
		document.FieldSet{"district": "Bargarh", "village": "Salebhata"},
	)
	assert.Equal(t, "Koraput", out["district"])
	assert.Equal(t, "Salebhata", out["village"])
}

func TestReviewDocument(t *testing.T) {
	repo := newFakeRepo()
	producer := &fakeProducer{}
	ex := &fakeExtractor{result: document.ExtractionResult{Text: formText, Confidence: 0.5, LanguageTag: "en"}}
	svc := newTestService(t, ex, repo, producer)

	doc, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "scan.png",
		Kind:     document.KindImage,
		TypeTag:  "fra_claim_form",
		Data:     []byte{0x01},
		Fields:   validFields(),
	})
	require.NoError(t, err)
	require.Equal(t, document.StatusNeedsReview, doc.Status)

	reviewed, err := svc.ReviewDocument(context.Background(), doc.ID, document.StatusVerified, "checked against paper record")
	require.NoError(t, err)
	assert.Equal(t, document.StatusVerified, reviewed.Status)
	assert.Equal(t, "checked against paper record", reviewed.ReviewNote)
	assert.NotNil(t, reviewed.ReviewedAt)
	require.Len(t, repo.updated, 1)
}

func TestReviewDocumentBadVerdict(t *testing.T) {
	svc := newTestService(t,
		&fakeExtractor{result: document.ExtractionResult{}}, newFakeRepo(), nil)

	_, err := svc.ReviewDocument(context.Background(), "doc-x", document.StatusProcessed, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidReview))
}

func TestReviewDocumentWrongState(t *testing.T) {
	repo := newFakeRepo()
	ex := &fakeExtractor{result: document.ExtractionResult{Text: formText, Confidence: 1.0, LanguageTag: "en"}}
	svc := newTestService(t, ex, repo, nil)

	doc, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "claim.txt",
		Kind:     document.KindText,
		TypeTag:  "fra_claim_form",
		Data:     []byte(formText),
		Fields:   validFields(),
	})
	require.NoError(t, err)
	require.Equal(t, document.StatusProcessed, doc.Status)

	// processed documents accept verification directly
	reviewed, err := svc.ReviewDocument(context.Background(), doc.ID, document.StatusVerified, "")
	require.NoError(t, err)

	_, err = svc.ReviewDocument(context.Background(), reviewed.ID, document.StatusRejected, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidReview), "verified is terminal")
}

func TestDownloadURL(t *testing.T) {
	repo := newFakeRepo()
	ex := &fakeExtractor{result: document.ExtractionResult{Text: formText, Confidence: 1.0, LanguageTag: "en"}}
	svc := newTestService(t, ex, repo, nil)

	doc, err := svc.ExtractAndValidate(context.Background(), UploadRequest{
		FileName: "claim.txt",
		Kind:     document.KindText,
		TypeTag:  "fra_claim_form",
		Data:     []byte(formText),
		Fields:   validFields(),
	})
	require.NoError(t, err)

	url, err := svc.DownloadURL(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Contains(t, url, doc.ObjectKey)

	_, err = svc.DownloadURL(context.Background(), "doc-missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestGetDocumentNotFound(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{}, newFakeRepo(), nil)
	_, err := svc.GetDocument(context.Background(), "doc-missing")
	assert.True(t, errors.IsNotFound(err))
}
