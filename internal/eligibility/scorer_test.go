package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/domain/scheme"
	"github.com/claimlens/claimlens/pkg/types/common"
)

func approvedClaim() *claim.Snapshot {
	snap := claim.NewSnapshot(
		claim.Applicant{Name: "Ramu Majhi", TribalGroup: "Gond", ForestDweller: true},
		"Salepali", "Bargarh", "Odisha",
		claim.Land{AreaHectares: 1.8, UseType: claim.UseAgriculture},
	)
	snap.Status = claim.StatusApproved
	snap.AttachDocument(common.GenerateID("doc"))
	return snap
}

func strictScheme() *scheme.Definition {
	return &scheme.Definition{
		ID:               "approved_ag",
		Name:             "Approved Agricultural Support",
		Agency:           "Test Agency",
		Regions:          []string{"Odisha"},
		RequiresApproval: true,
		Land: scheme.LandRule{
			MaxAreaHectares: 2.0,
			AllowedUses:     []claim.LandUse{claim.UseAgriculture},
		},
		Benefit: scheme.Benefit{Model: scheme.BenefitFlat, Amount: 6000},
		Horizon: scheme.HorizonShort,
	}
}

func TestFullySatisfiedClaimScoresOne(t *testing.T) {
	a := NewScorer(scheme.DefaultScoringConfig()).Assess(approvedClaim(), strictScheme())

	assert.True(t, a.Eligible)
	assert.Equal(t, 1.0, a.Score)
	assert.Equal(t, PriorityHigh, a.Priority)
	assert.Empty(t, a.ConditionsPending)
	assert.Len(t, a.ConditionsMet, 4, "geographic, status, land, documentation")
	assert.Equal(t, int64(6000), a.EstimatedBenefit.Amount)
}

func TestPendingClaimAgainstApprovalGatedScheme(t *testing.T) {
	snap := approvedClaim()
	snap.Status = claim.StatusSubmitted

	a := NewScorer(scheme.DefaultScoringConfig()).Assess(snap, strictScheme())

	// geographic 0.20 + land 0.20 + documentation 0.20 over a 0.85 max.
	assert.InDelta(t, 0.60/0.85, a.Score, 1e-9)
	assert.True(t, a.Eligible, "remaining categories clear the threshold here")
	require.Len(t, a.ConditionsPending, 1)
	assert.Contains(t, a.ConditionsPending[0], "status")
}

func TestStatusFailureAloneCanSinkEligibility(t *testing.T) {
	snap := approvedClaim()
	snap.Status = claim.StatusSubmitted
	snap.DocumentIDs = nil

	def := &scheme.Definition{
		ID: "gated", Name: "Gated", Agency: "X",
		RequiresApproval: true,
		Benefit:          scheme.Benefit{Model: scheme.BenefitFlat, Amount: 1000},
		Horizon:          scheme.HorizonMedium,
	}
	a := NewScorer(scheme.DefaultScoringConfig()).Assess(snap, def)

	// Only status (failed) and documentation (failed) apply.
	assert.Equal(t, 0.0, a.Score)
	assert.False(t, a.Eligible)
}

func TestInapplicableCategoriesAreOmitted(t *testing.T) {
	snap := approvedClaim()
	def := &scheme.Definition{
		ID: "open", Name: "Open", Agency: "X",
		Benefit: scheme.Benefit{Model: scheme.BenefitFlat, Amount: 1000},
		Horizon: scheme.HorizonShort,
	}

	a := NewScorer(scheme.DefaultScoringConfig()).Assess(snap, def)

	// No regions, no priority rule, no land rule: only status and
	// documentation apply, both satisfied.
	assert.Equal(t, 1.0, a.Score)
	assert.Len(t, a.ConditionsMet, 2)
}

func TestEligibleMatchesThresholdExactly(t *testing.T) {
	scorer := NewScorer(scheme.DefaultScoringConfig())
	catalog := scheme.DefaultCatalog()

	claims := []*claim.Snapshot{approvedClaim()}
	pending := approvedClaim()
	pending.Status = claim.StatusSubmitted
	claims = append(claims, pending)
	undocumented := approvedClaim()
	undocumented.DocumentIDs = nil
	undocumented.Applicant.ForestDweller = false
	undocumented.Applicant.TribalGroup = ""
	claims = append(claims, undocumented)
	large := approvedClaim()
	large.Land.AreaHectares = 5.2
	claims = append(claims, large)

	for _, snap := range claims {
		for _, def := range catalog.All() {
			def := def
			a := scorer.Assess(snap, &def)
			assert.Equal(t, a.Score >= 0.6, a.Eligible, "scheme %s", def.ID)
			assert.GreaterOrEqual(t, a.Score, 0.0)
			assert.LessOrEqual(t, a.Score, 1.0)
		}
	}
}

func TestPriorityTiers(t *testing.T) {
	cfg := scheme.DefaultScoringConfig()
	scorer := NewScorer(cfg)
	def := strictScheme()

	// High needs both the priority flag and a 0.8 score.
	a := scorer.Assess(approvedClaim(), def)
	assert.Equal(t, PriorityHigh, a.Priority)

	plain := approvedClaim()
	plain.Applicant.ForestDweller = false
	plain.Applicant.TribalGroup = ""
	a = scorer.Assess(plain, def)
	assert.Equal(t, PriorityMedium, a.Priority, "score 1.0 without the flag stays Medium")

	weak := approvedClaim()
	weak.Status = claim.StatusSubmitted
	weak.DocumentIDs = nil
	a = scorer.Assess(weak, def)
	assert.Equal(t, PriorityLow, a.Priority)
}

func TestPerHectareBenefit(t *testing.T) {
	def := strictScheme()
	def.Benefit = scheme.Benefit{Model: scheme.BenefitPerHectare, Amount: 25000}

	a := NewScorer(scheme.DefaultScoringConfig()).Assess(approvedClaim(), def)
	assert.Equal(t, int64(45000), a.EstimatedBenefit.Amount, "1.8 ha at 25000/ha")
	assert.Equal(t, "INR", a.EstimatedBenefit.Currency)
}
