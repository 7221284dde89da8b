// Package claim models the welfare-claim snapshot that eligibility analysis
// runs against.  A snapshot is assembled from verified documents plus
// applicant-supplied registration data; analysis never mutates it.
package claim

import (
	"fmt"
	"strings"

	"github.com/claimlens/claimlens/pkg/types/common"
)

// LandUse is the declared use of the claimed land.
type LandUse string

const (
	UseAgriculture LandUse = "agriculture"
	UseHabitation  LandUse = "habitation"
	UseBoth        LandUse = "both"
)

// Satisfies reports whether this use falls within an allowed use.  "both"
// is satisfied only by an exact match; a scheme allowing "both" also admits
// either single use.
func (u LandUse) Satisfies(allowed LandUse) bool {
	if u == allowed {
		return true
	}
	return allowed == UseBoth && (u == UseAgriculture || u == UseHabitation)
}

// Applicant identifies the person behind the claim.
type Applicant struct {
	Name          string `json:"name"`
	TribalGroup   string `json:"tribal_group,omitempty"`
	ForestDweller bool   `json:"forest_dweller"`
}

// Land describes the claimed parcel.
type Land struct {
	AreaHectares float64 `json:"area_hectares"`
	UseType      LandUse `json:"use_type"`
	SurveyNumber string  `json:"survey_number,omitempty"`
}

// Status is the administrative state of the claim itself, distinct from the
// lifecycle of its documents.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

var statusTransitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
	StatusApproved:  {},
	StatusRejected:  {StatusSubmitted},
}

// CanTransition reports whether the administrative state may move from
// one status to another.  A rejected claim may be resubmitted.
func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Snapshot is the analysis input: one claim, frozen at UpdatedAt.
type Snapshot struct {
	ID        common.ID `json:"id"`
	Applicant Applicant `json:"applicant"`

	Village  string `json:"village"`
	District string `json:"district"`
	State    string `json:"state"`

	Land   Land   `json:"land"`
	Status Status `json:"status"`

	// DocumentIDs lists the uploads attached to the claim, in upload order.
	DocumentIDs []common.ID `json:"document_ids"`

	CreatedAt common.Timestamp `json:"created_at"`
	UpdatedAt common.Timestamp `json:"updated_at"`
}

// NewSnapshot constructs a draft claim.
func NewSnapshot(applicant Applicant, village, district, state string, land Land) *Snapshot {
	now := common.Now()
	return &Snapshot{
		ID:          common.GenerateID("clm"),
		Applicant:   applicant,
		Village:     village,
		District:    district,
		State:       state,
		Land:        land,
		Status:      StatusDraft,
		DocumentIDs: []common.ID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition moves the claim to a new administrative status, enforcing the
// allowed edges.
func (s *Snapshot) Transition(to Status) error {
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("claim status cannot move from %s to %s", s.Status, to)
	}
	s.Status = to
	s.UpdatedAt = common.Now()
	return nil
}

// AttachDocument links an upload to the claim, ignoring duplicates.
func (s *Snapshot) AttachDocument(docID common.ID) {
	for _, id := range s.DocumentIDs {
		if id == docID {
			return
		}
	}
	s.DocumentIDs = append(s.DocumentIDs, docID)
	s.UpdatedAt = common.Now()
}

// InRegion reports whether the claim falls inside a scheme's region list.
// Matching is case-insensitive on state or district; an empty list means
// nationwide coverage.
func (s *Snapshot) InRegion(regions []string) bool {
	if len(regions) == 0 {
		return true
	}
	for _, r := range regions {
		if strings.EqualFold(r, s.State) || strings.EqualFold(r, s.District) {
			return true
		}
	}
	return false
}
