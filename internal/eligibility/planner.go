package eligibility

import (
	"time"

	"github.com/claimlens/claimlens/internal/domain/scheme"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// Bucket day offsets: how long the applicant has to assemble documentation
// and when the benefit is expected to start flowing, counted from the plan
// date.
var bucketOffsets = map[scheme.Horizon]struct {
	documentationDays int
	benefitStartDays  int
}{
	scheme.HorizonImmediate: {15, 30},
	scheme.HorizonShort:     {30, 90},
	scheme.HorizonMedium:    {60, 180},
	scheme.HorizonLong:      {90, 365},
}

// PlanEntry is one scheme's action item.
type PlanEntry struct {
	SchemeID    string `json:"scheme_id"`
	SchemeName  string `json:"scheme_name"`
	Responsible string `json:"responsible"`

	DocumentationDeadline common.Timestamp `json:"documentation_deadline"`
	ExpectedBenefitStart  common.Timestamp `json:"expected_benefit_start"`
}

// Plan buckets the ranked recommendations into time horizons.  Within each
// bucket the ranked order is preserved.
type Plan struct {
	Immediate  []PlanEntry `json:"immediate"`
	ShortTerm  []PlanEntry `json:"short_term"`
	MediumTerm []PlanEntry `json:"medium_term"`
	LongTerm   []PlanEntry `json:"long_term"`
}

// Planner is pure date arithmetic over an injected clock.
type Planner struct {
	now func() time.Time
}

// NewPlanner builds a Planner; a nil clock gets time.Now.
func NewPlanner(now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	return &Planner{now: now}
}

// Build assigns each recommendation to exactly one bucket.  Urgent schemes
// always land in the immediate bucket regardless of their horizon tag.
func (p *Planner) Build(ranked []Assessment) *Plan {
	base := p.now().UTC()
	plan := &Plan{
		Immediate:  []PlanEntry{},
		ShortTerm:  []PlanEntry{},
		MediumTerm: []PlanEntry{},
		LongTerm:   []PlanEntry{},
	}
	for _, a := range ranked {
		horizon := a.Horizon
		if a.Urgent {
			horizon = scheme.HorizonImmediate
		}
		offsets, ok := bucketOffsets[horizon]
		if !ok {
			horizon = scheme.HorizonMedium
			offsets = bucketOffsets[horizon]
		}
		entry := PlanEntry{
			SchemeID:              a.SchemeID,
			SchemeName:            a.SchemeName,
			Responsible:           a.Agency,
			DocumentationDeadline: common.Timestamp(base.AddDate(0, 0, offsets.documentationDays)),
			ExpectedBenefitStart:  common.Timestamp(base.AddDate(0, 0, offsets.benefitStartDays)),
		}
		switch horizon {
		case scheme.HorizonImmediate:
			plan.Immediate = append(plan.Immediate, entry)
		case scheme.HorizonShort:
			plan.ShortTerm = append(plan.ShortTerm, entry)
		case scheme.HorizonMedium:
			plan.MediumTerm = append(plan.MediumTerm, entry)
		case scheme.HorizonLong:
			plan.LongTerm = append(plan.LongTerm, entry)
		}
	}
	return plan
}
