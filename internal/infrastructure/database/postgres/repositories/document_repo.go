package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// DocumentRepository implements document.Repository.
type DocumentRepository struct {
	db DBTX
}

// NewDocumentRepository builds the repository.
func NewDocumentRepository(db DBTX) *DocumentRepository {
	return &DocumentRepository{db: db}
}

var _ document.Repository = (*DocumentRepository)(nil)

const documentColumns = `id, claim_id, file_name, file_size, kind, type_tag, object_key,
	extraction, entities, fields, validation, status, review_note,
	uploaded_at, processed_at, reviewed_at`

// Create stores a freshly uploaded document.
func (r *DocumentRepository) Create(ctx context.Context, doc *document.UploadedDocument) error {
	extraction, entities, fields, validation, err := encodeDocumentJSON(doc)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		doc.ID.String(), doc.ClaimID.String(), doc.FileName, doc.FileSize,
		string(doc.Kind), doc.TypeTag, doc.ObjectKey,
		extraction, entities, fields, validation,
		string(doc.Status), doc.ReviewNote,
		time.Time(doc.UploadedAt), timePtr(doc.ProcessedAt), timePtr(doc.ReviewedAt))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert document")
	}
	return nil
}

// Update stores extraction, validation and status changes.
func (r *DocumentRepository) Update(ctx context.Context, doc *document.UploadedDocument) error {
	extraction, entities, fields, validation, err := encodeDocumentJSON(doc)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE documents
		SET claim_id = NULLIF($2, ''), extraction = $3, entities = $4, fields = $5,
			validation = $6, status = $7, review_note = $8,
			processed_at = $9, reviewed_at = $10
		WHERE id = $1`,
		doc.ID.String(), doc.ClaimID.String(),
		extraction, entities, fields, validation,
		string(doc.Status), doc.ReviewNote,
		timePtr(doc.ProcessedAt), timePtr(doc.ReviewedAt))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update document")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document not found: "+doc.ID.String())
	}
	return nil
}

// GetByID returns the document or a not-found error.
func (r *DocumentRepository) GetByID(ctx context.Context, id common.ID) (*document.UploadedDocument, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE id = $1`, id.String())
	doc, err := scanDocument(row)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document not found: "+id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "load document")
	}
	return doc, nil
}

// ListByClaim returns all documents attached to a claim, newest first.
func (r *DocumentRepository) ListByClaim(ctx context.Context, claimID common.ID) ([]*document.UploadedDocument, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE claim_id = $1
		ORDER BY uploaded_at DESC`, claimID.String())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list documents by claim")
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListByStatus pages through documents in a lifecycle status.
func (r *DocumentRepository) ListByStatus(ctx context.Context, status document.Status, limit, offset int) ([]*document.UploadedDocument, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE status = $1
		ORDER BY uploaded_at DESC
		LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list documents by status")
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func collectDocuments(rows pgx.Rows) ([]*document.UploadedDocument, error) {
	docs := []*document.UploadedDocument{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan document")
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate documents")
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*document.UploadedDocument, error) {
	var (
		doc        document.UploadedDocument
		id         string
		claimID    *string
		kind       string
		status     string
		extraction []byte
		entities   []byte
		fields     []byte
		validation []byte
		uploadedAt time.Time
		processed  *time.Time
		reviewed   *time.Time
	)
	err := row.Scan(&id, &claimID, &doc.FileName, &doc.FileSize, &kind, &doc.TypeTag, &doc.ObjectKey,
		&extraction, &entities, &fields, &validation, &status, &doc.ReviewNote,
		&uploadedAt, &processed, &reviewed)
	if err != nil {
		return nil, err
	}

	doc.ID = common.ID(id)
	if claimID != nil {
		doc.ClaimID = common.ID(*claimID)
	}
	doc.Kind = document.FileKind(kind)
	doc.Status = document.Status(status)
	doc.UploadedAt = common.Timestamp(uploadedAt)
	doc.ProcessedAt = tsPtr(processed)
	doc.ReviewedAt = tsPtr(reviewed)

	if err := json.Unmarshal(extraction, &doc.Extraction); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(entities, &doc.Entities); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fields, &doc.Fields); err != nil {
		return nil, err
	}
	if len(validation) > 0 {
		doc.Validation = &document.ValidationResult{}
		if err := json.Unmarshal(validation, doc.Validation); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func encodeDocumentJSON(doc *document.UploadedDocument) (extraction, entities, fields, validation []byte, err error) {
	if extraction, err = json.Marshal(doc.Extraction); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode extraction")
	}
	if entities, err = json.Marshal(doc.Entities); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode entities")
	}
	if fields, err = doc.MarshalFields(); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode fields")
	}
	if doc.Validation != nil {
		if validation, err = json.Marshal(doc.Validation); err != nil {
			return nil, nil, nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode validation")
		}
	}
	return extraction, entities, fields, validation, nil
}

func timePtr(ts *common.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := time.Time(*ts)
	return &t
}

func tsPtr(t *time.Time) *common.Timestamp {
	if t == nil {
		return nil
	}
	ts := common.Timestamp(*t)
	return &ts
}
