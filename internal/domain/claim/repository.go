package claim

import (
	"context"

	"github.com/claimlens/claimlens/pkg/types/common"
)

// Repository persists claim snapshots.
type Repository interface {
	Create(ctx context.Context, snap *Snapshot) error
	Update(ctx context.Context, snap *Snapshot) error
	// GetByID returns the claim or a CLAIM_001 not-found error.
	GetByID(ctx context.Context, id common.ID) (*Snapshot, error)
	ListByDistrict(ctx context.Context, district string, limit, offset int) ([]*Snapshot, error)
}
