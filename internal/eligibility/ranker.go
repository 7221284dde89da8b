package eligibility

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/domain/scheme"
)

// Ranker runs the scorer over the full catalog and orders the eligible
// results.
type Ranker struct {
	scorer  *Scorer
	catalog *scheme.Catalog
}

// NewRanker builds a Ranker over an immutable catalog.
func NewRanker(scorer *Scorer, catalog *scheme.Catalog) *Ranker {
	return &Ranker{scorer: scorer, catalog: catalog}
}

// AssessAll scores the claim against every scheme in catalog order.
// Schemes are independent, so scoring fans out; results land in a
// positional slice so concurrency never perturbs the order.
func (r *Ranker) AssessAll(ctx context.Context, snap *claim.Snapshot) ([]Assessment, error) {
	defs := r.catalog.All()
	results := make([]Assessment, len(defs))

	g, _ := errgroup.WithContext(ctx)
	for i := range defs {
		i := i
		g.Go(func() error {
			results[i] = r.scorer.Assess(snap, &defs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Rank returns the eligible assessments ordered by priority tier then
// score.  The sort is stable, so equal (tier, score) pairs keep catalog
// order.  An empty list is a valid outcome, not an error.
func (r *Ranker) Rank(ctx context.Context, snap *claim.Snapshot) ([]Assessment, error) {
	all, err := r.AssessAll(ctx, snap)
	if err != nil {
		return nil, err
	}
	return RankAssessments(all), nil
}

// RankAssessments filters and orders an already-computed assessment slice,
// assumed to be in catalog order.
func RankAssessments(all []Assessment) []Assessment {
	ranked := make([]Assessment, 0, len(all))
	for _, a := range all {
		if a.Eligible {
			ranked = append(ranked, a)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority.Rank() != ranked[j].Priority.Rank() {
			return ranked[i].Priority.Rank() > ranked[j].Priority.Rank()
		}
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
