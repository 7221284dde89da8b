package eligibility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/domain/scheme"
)

func defaultRanker(t *testing.T) *Ranker {
	t.Helper()
	return NewRanker(NewScorer(scheme.DefaultScoringConfig()), scheme.DefaultCatalog())
}

func TestRankOrdersByTierThenScore(t *testing.T) {
	ranked, err := defaultRanker(t).Rank(context.Background(), approvedClaim())
	require.NoError(t, err)
	require.NotEmpty(t, ranked)

	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		if prev.Priority.Rank() == cur.Priority.Rank() {
			assert.GreaterOrEqual(t, prev.Score, cur.Score)
		} else {
			assert.Greater(t, prev.Priority.Rank(), cur.Priority.Rank())
		}
		assert.True(t, cur.Eligible)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	r := defaultRanker(t)
	snap := approvedClaim()

	first, err := r.Rank(context.Background(), snap)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.Rank(context.Background(), snap)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRankTiesKeepCatalogOrder(t *testing.T) {
	// Two schemes with identical applicable categories produce identical
	// (tier, score) pairs; catalog order must break the tie.
	defs := []scheme.Definition{
		{ID: "first", Name: "First", Agency: "X", Benefit: scheme.Benefit{Model: scheme.BenefitFlat, Amount: 100}, Horizon: scheme.HorizonShort},
		{ID: "second", Name: "Second", Agency: "X", Benefit: scheme.Benefit{Model: scheme.BenefitFlat, Amount: 200}, Horizon: scheme.HorizonShort},
	}
	catalog, err := scheme.NewCatalog(defs)
	require.NoError(t, err)

	r := NewRanker(NewScorer(scheme.DefaultScoringConfig()), catalog)
	ranked, err := r.Rank(context.Background(), approvedClaim())
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].SchemeID)
	assert.Equal(t, "second", ranked[1].SchemeID)
}

func TestRankEmptyCatalogAndNoEligible(t *testing.T) {
	empty, err := scheme.NewCatalog(nil)
	require.NoError(t, err)
	r := NewRanker(NewScorer(scheme.DefaultScoringConfig()), empty)

	ranked, err := r.Rank(context.Background(), approvedClaim())
	require.NoError(t, err)
	assert.Empty(t, ranked)

	// A claim with nothing going for it keeps an empty result valid too.
	bare := claim.NewSnapshot(claim.Applicant{Name: "x"}, "", "", "", claim.Land{})
	gated, err := scheme.NewCatalog([]scheme.Definition{{
		ID: "gated", Name: "Gated", Agency: "X",
		RequiresApproval: true,
		Benefit:          scheme.Benefit{Model: scheme.BenefitFlat, Amount: 100},
		Horizon:          scheme.HorizonLong,
	}})
	require.NoError(t, err)
	ranked, err = NewRanker(NewScorer(scheme.DefaultScoringConfig()), gated).Rank(context.Background(), bare)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := defaultRanker(t).Rank(ctx, approvedClaim())
	assert.Error(t, err)
}
