package document

import (
	"context"

	"github.com/claimlens/claimlens/pkg/types/common"
)

// Repository persists uploaded documents and their processing outcomes.
type Repository interface {
	// Create stores a freshly uploaded document.
	Create(ctx context.Context, doc *UploadedDocument) error
	// Update stores extraction, validation and status changes.
	Update(ctx context.Context, doc *UploadedDocument) error
	// GetByID returns the document or a DOC_002 not-found error.
	GetByID(ctx context.Context, id common.ID) (*UploadedDocument, error)
	// ListByClaim returns all documents attached to a claim, newest first.
	ListByClaim(ctx context.Context, claimID common.ID) ([]*UploadedDocument, error)
	// ListByStatus pages through documents in a given lifecycle status.
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*UploadedDocument, error)
}

// ObjectStore holds the raw uploaded bytes, keyed by storage path.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	// PresignDownload returns a short-lived URL for fetching the object
	// without credentials.
	PresignDownload(ctx context.Context, key string) (string, error)
}
