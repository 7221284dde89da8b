// Package claims manages the claim registry: registration, document
// attachment and the administrative status flow.
package claims

import (
	"context"
	"strings"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// RegisterRequest carries the applicant-supplied registration data.
type RegisterRequest struct {
	Applicant claim.Applicant `json:"applicant"`
	Village   string          `json:"village"`
	District  string          `json:"district"`
	State     string          `json:"state"`
	Land      claim.Land      `json:"land"`
}

// DocumentReader resolves attached documents; only verified uploads may be
// linked to a claim.
type DocumentReader interface {
	GetByID(ctx context.Context, id common.ID) (*document.UploadedDocument, error)
}

// Service manages claim snapshots.
type Service struct {
	repo   claim.Repository
	docs   DocumentReader
	logger logging.Logger
}

// NewService wires the claim registry.  docs may be nil, in which case
// document attachment skips the verification check.
func NewService(repo claim.Repository, docs DocumentReader, logger logging.Logger) *Service {
	return &Service{repo: repo, docs: docs, logger: logger.Named("claims")}
}

// Register creates a draft claim.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*claim.Snapshot, error) {
	if strings.TrimSpace(req.Applicant.Name) == "" {
		return nil, errors.NewInvalidInputError("applicant name is required")
	}
	if req.Land.AreaHectares < 0 {
		return nil, errors.NewInvalidInputError("land area cannot be negative")
	}

	snap := claim.NewSnapshot(req.Applicant, req.Village, req.District, req.State, req.Land)
	if err := s.repo.Create(ctx, snap); err != nil {
		return nil, err
	}
	s.logger.Info("claim registered",
		logging.String("claim_id", snap.ID.String()),
		logging.String("district", snap.District))
	return snap, nil
}

// Get loads one claim.
func (s *Service) Get(ctx context.Context, id common.ID) (*claim.Snapshot, error) {
	return s.repo.GetByID(ctx, id)
}

// AttachDocument links a processed upload to the claim.
func (s *Service) AttachDocument(ctx context.Context, claimID, docID common.ID) (*claim.Snapshot, error) {
	snap, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if s.docs != nil {
		doc, err := s.docs.GetByID(ctx, docID)
		if err != nil {
			return nil, err
		}
		switch doc.Status {
		case document.StatusProcessed, document.StatusVerified:
		default:
			return nil, errors.Newf(errors.ErrCodeClaimInvalid,
				"document %s is %s; only processed or verified uploads attach to a claim",
				docID, doc.Status)
		}
	}
	snap.AttachDocument(docID)
	if err := s.repo.Update(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// SetStatus moves the claim through its administrative flow.
func (s *Service) SetStatus(ctx context.Context, id common.ID, to claim.Status) (*claim.Snapshot, error) {
	switch to {
	case claim.StatusSubmitted, claim.StatusApproved, claim.StatusRejected:
	default:
		return nil, errors.NewInvalidInputError("unknown claim status: " + string(to))
	}
	snap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := snap.Transition(to); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeClaimInvalid, "change claim status")
	}
	if err := s.repo.Update(ctx, snap); err != nil {
		return nil, err
	}
	s.logger.Info("claim status changed",
		logging.String("claim_id", snap.ID.String()),
		logging.String("status", string(snap.Status)))
	return snap, nil
}

// ListByDistrict pages through the claims of one district.
func (s *Service) ListByDistrict(ctx context.Context, district string, limit, offset int) ([]*claim.Snapshot, error) {
	if strings.TrimSpace(district) == "" {
		return nil, errors.NewInvalidInputError("district is required")
	}
	return s.repo.ListByDistrict(ctx, district, limit, offset)
}
