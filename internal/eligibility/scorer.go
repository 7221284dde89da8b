// Package eligibility scores a claim against the scheme catalog, ranks the
// eligible schemes, and derives the implementation plan and impact summary
// that round out a decision-support report.  Everything here is pure given
// (claim, catalog, config, clock); determinism is what makes the reports
// auditable.
package eligibility

import (
	"fmt"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/domain/scheme"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// Priority is the coarse ranking tier, the primary sort key ahead of raw
// score.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank maps a tier to its numeric order.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Assessment is the outcome of scoring one claim against one scheme.  It is
// computed fresh per analysis request and never cached across claim
// mutations.
type Assessment struct {
	SchemeID   string `json:"scheme_id"`
	SchemeName string `json:"scheme_name"`
	Agency     string `json:"agency"`

	Eligible          bool     `json:"eligible"`
	Score             float64  `json:"score"`
	ConditionsMet     []string `json:"conditions_met"`
	ConditionsPending []string `json:"conditions_pending"`
	Priority          Priority `json:"priority_level"`

	EstimatedBenefit common.Money `json:"estimated_benefit"`

	Urgent  bool           `json:"urgent"`
	Horizon scheme.Horizon `json:"horizon"`
}

// Scorer evaluates the weighted category conditions.
type Scorer struct {
	cfg scheme.ScoringConfig
}

// NewScorer builds a Scorer; zero-value configs get the defaults.
func NewScorer(cfg scheme.ScoringConfig) *Scorer {
	if cfg == (scheme.ScoringConfig{}) {
		cfg = scheme.DefaultScoringConfig()
	}
	return &Scorer{cfg: cfg}
}

// category is one weighted condition outcome.  Categories a scheme does not
// constrain are never emitted, so they drop out of both the numerator and
// the denominator.
type category struct {
	weight    float64
	satisfied bool
	met       string
	pending   string
}

// Assess scores one claim against one scheme.
func (s *Scorer) Assess(snap *claim.Snapshot, def *scheme.Definition) Assessment {
	cats := s.categories(snap, def)

	var score, max float64
	met := []string{}
	pending := []string{}
	for _, c := range cats {
		max += c.weight
		if c.satisfied {
			score += c.weight
			met = append(met, c.met)
		} else {
			pending = append(pending, c.pending)
		}
	}

	normalized := 0.0
	if max > 0 {
		normalized = score / max
	}

	a := Assessment{
		SchemeID:          def.ID,
		SchemeName:        def.Name,
		Agency:            def.Agency,
		Eligible:          normalized >= s.cfg.EligibleThreshold,
		Score:             normalized,
		ConditionsMet:     met,
		ConditionsPending: pending,
		Priority:          s.priority(snap, normalized),
		EstimatedBenefit:  def.EstimateBenefit(snap),
		Urgent:            def.Urgent,
		Horizon:           def.Horizon,
	}
	return a
}

func (s *Scorer) categories(snap *claim.Snapshot, def *scheme.Definition) []category {
	var cats []category

	if len(def.Regions) > 0 {
		cats = append(cats, category{
			weight:    s.cfg.GeographicWeight,
			satisfied: snap.InRegion(def.Regions),
			met:       "geographic: claim location lies within scheme coverage",
			pending:   fmt.Sprintf("geographic: claim location is outside scheme coverage (%s)", snap.District),
		})
	}

	statusOK := !def.RequiresApproval || snap.Status == claim.StatusApproved
	statusMet := "status: claim status satisfies the scheme precondition"
	statusPending := fmt.Sprintf("status: scheme requires an approved claim, current status is %s", snap.Status)
	cats = append(cats, category{
		weight:    s.cfg.StatusWeight,
		satisfied: statusOK,
		met:       statusMet,
		pending:   statusPending,
	})

	if def.PriorityPopulation != "" {
		cats = append(cats, category{
			weight:    s.cfg.CommunityWeight,
			satisfied: communityMatch(snap, def.PriorityPopulation),
			met:       "community: applicant belongs to the scheme's priority population",
			pending:   fmt.Sprintf("community: applicant does not match priority population %q", def.PriorityPopulation),
		})
	}

	if !def.Land.Empty() {
		cats = append(cats, category{
			weight:    s.cfg.LandWeight,
			satisfied: landMatch(snap, def.Land),
			met:       "land: claimed area and use satisfy the scheme's land rules",
			pending:   landPending(snap, def.Land),
		})
	}

	cats = append(cats, category{
		weight:    s.cfg.DocumentationWeight,
		satisfied: len(snap.DocumentIDs) > 0,
		met:       "documentation: supporting documents are attached",
		pending:   "documentation: no supporting documents attached",
	})

	return cats
}

func (s *Scorer) priority(snap *claim.Snapshot, score float64) Priority {
	priorityFlag := snap.Applicant.ForestDweller || snap.Applicant.TribalGroup != ""
	switch {
	case priorityFlag && score >= s.cfg.HighThreshold:
		return PriorityHigh
	case score >= s.cfg.MediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func communityMatch(snap *claim.Snapshot, population string) bool {
	if population == "forest_dweller" {
		return snap.Applicant.ForestDweller
	}
	return snap.Applicant.TribalGroup == population
}

func landMatch(snap *claim.Snapshot, rule scheme.LandRule) bool {
	if rule.MaxAreaHectares > 0 && snap.Land.AreaHectares > rule.MaxAreaHectares {
		return false
	}
	if len(rule.AllowedUses) > 0 {
		for _, use := range rule.AllowedUses {
			if snap.Land.UseType.Satisfies(use) {
				return true
			}
		}
		return false
	}
	return true
}

func landPending(snap *claim.Snapshot, rule scheme.LandRule) string {
	if rule.MaxAreaHectares > 0 && snap.Land.AreaHectares > rule.MaxAreaHectares {
		return fmt.Sprintf("land: claimed area %.2f ha exceeds the scheme cap %.2f ha",
			snap.Land.AreaHectares, rule.MaxAreaHectares)
	}
	return fmt.Sprintf("land: use type %q is not admitted by the scheme", snap.Land.UseType)
}
