package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// StoredReport is a persisted analysis report.  The report body is opaque
// jsonb; only the identifiers and timestamps are relational.
type StoredReport struct {
	ID        common.ID        `json:"id"`
	ClaimID   common.ID        `json:"claim_id"`
	Body      json.RawMessage  `json:"body"`
	CreatedAt common.Timestamp `json:"created_at"`
}

// ReportRepository persists analysis reports for audit and display.
type ReportRepository struct {
	db DBTX
}

// NewReportRepository builds the repository.
func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save stores one report run.
func (r *ReportRepository) Save(ctx context.Context, report *StoredReport) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO analysis_reports (id, claim_id, body, created_at)
		VALUES ($1, $2, $3, $4)`,
		report.ID.String(), report.ClaimID.String(), []byte(report.Body), time.Time(report.CreatedAt))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeReportNotStored, "insert analysis report")
	}
	return nil
}

// GetLatestByClaim returns the most recent report for a claim.
func (r *ReportRepository) GetLatestByClaim(ctx context.Context, claimID common.ID) (*StoredReport, error) {
	var (
		report    StoredReport
		id        string
		claim     string
		body      []byte
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, claim_id, body, created_at
		FROM analysis_reports WHERE claim_id = $1
		ORDER BY created_at DESC LIMIT 1`, claimID.String()).
		Scan(&id, &claim, &body, &createdAt)
	if err == pgx.ErrNoRows {
		return nil, errors.NewNotFoundError("no report for claim: " + claimID.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "load analysis report")
	}
	report.ID = common.ID(id)
	report.ClaimID = common.ID(claim)
	report.Body = json.RawMessage(body)
	report.CreatedAt = common.Timestamp(createdAt)
	return &report, nil
}
