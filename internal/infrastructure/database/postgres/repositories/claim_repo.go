package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// ClaimRepository implements claim.Repository.
type ClaimRepository struct {
	db DBTX
}

// NewClaimRepository builds the repository.
func NewClaimRepository(db DBTX) *ClaimRepository {
	return &ClaimRepository{db: db}
}

var _ claim.Repository = (*ClaimRepository)(nil)

const claimColumns = `id, applicant, village, district, state, land, status,
	document_ids, created_at, updated_at`

// Create stores a new claim snapshot.
func (r *ClaimRepository) Create(ctx context.Context, snap *claim.Snapshot) error {
	applicant, land, docIDs, err := encodeClaimJSON(snap)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO claims (`+claimColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		snap.ID.String(), applicant, snap.Village, snap.District, snap.State,
		land, string(snap.Status), docIDs,
		time.Time(snap.CreatedAt), time.Time(snap.UpdatedAt))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert claim")
	}
	return nil
}

// Update rewrites a claim snapshot.
func (r *ClaimRepository) Update(ctx context.Context, snap *claim.Snapshot) error {
	applicant, land, docIDs, err := encodeClaimJSON(snap)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE claims
		SET applicant = $2, village = $3, district = $4, state = $5,
			land = $6, status = $7, document_ids = $8, updated_at = $9
		WHERE id = $1`,
		snap.ID.String(), applicant, snap.Village, snap.District, snap.State,
		land, string(snap.Status), docIDs, time.Time(snap.UpdatedAt))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update claim")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeClaimNotFound, "claim not found: "+snap.ID.String())
	}
	return nil
}

// GetByID returns the claim or a not-found error.
func (r *ClaimRepository) GetByID(ctx context.Context, id common.ID) (*claim.Snapshot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+claimColumns+`
		FROM claims WHERE id = $1`, id.String())
	snap, err := scanClaim(row)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeClaimNotFound, "claim not found: "+id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "load claim")
	}
	return snap, nil
}

// ListByDistrict pages claims in a district, newest first.
func (r *ClaimRepository) ListByDistrict(ctx context.Context, district string, limit, offset int) ([]*claim.Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+claimColumns+`
		FROM claims WHERE district = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`, district, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list claims by district")
	}
	defer rows.Close()

	snaps := []*claim.Snapshot{}
	for rows.Next() {
		snap, err := scanClaim(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan claim")
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate claims")
	}
	return snaps, nil
}

func scanClaim(row rowScanner) (*claim.Snapshot, error) {
	var (
		snap      claim.Snapshot
		id        string
		applicant []byte
		land      []byte
		status    string
		docIDs    []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&id, &applicant, &snap.Village, &snap.District, &snap.State,
		&land, &status, &docIDs, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	snap.ID = common.ID(id)
	snap.Status = claim.Status(status)
	snap.CreatedAt = common.Timestamp(createdAt)
	snap.UpdatedAt = common.Timestamp(updatedAt)

	if err := json.Unmarshal(applicant, &snap.Applicant); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(land, &snap.Land); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docIDs, &snap.DocumentIDs); err != nil {
		return nil, err
	}
	if snap.DocumentIDs == nil {
		snap.DocumentIDs = []common.ID{}
	}
	return &snap, nil
}

func encodeClaimJSON(snap *claim.Snapshot) (applicant, land, docIDs []byte, err error) {
	if applicant, err = json.Marshal(snap.Applicant); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode applicant")
	}
	if land, err = json.Marshal(snap.Land); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode land")
	}
	ids := snap.DocumentIDs
	if ids == nil {
		ids = []common.ID{}
	}
	if docIDs, err = json.Marshal(ids); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode document list")
	}
	return applicant, land, docIDs, nil
}
