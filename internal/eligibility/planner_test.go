package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/domain/scheme"
)

func fixedClock() func() time.Time {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return base }
}

func TestPlannerBuckets(t *testing.T) {
	ranked := []Assessment{
		{SchemeID: "a", SchemeName: "A", Agency: "Agency A", Urgent: true, Horizon: scheme.HorizonLong},
		{SchemeID: "b", SchemeName: "B", Agency: "Agency B", Horizon: scheme.HorizonShort},
		{SchemeID: "c", SchemeName: "C", Agency: "Agency C", Horizon: scheme.HorizonMedium},
		{SchemeID: "d", SchemeName: "D", Agency: "Agency D", Horizon: scheme.HorizonLong},
		{SchemeID: "e", SchemeName: "E", Agency: "Agency E", Horizon: scheme.HorizonImmediate},
	}

	plan := NewPlanner(fixedClock()).Build(ranked)

	require.Len(t, plan.Immediate, 2, "urgent schemes jump to immediate")
	assert.Equal(t, "a", plan.Immediate[0].SchemeID)
	assert.Equal(t, "e", plan.Immediate[1].SchemeID)
	require.Len(t, plan.ShortTerm, 1)
	require.Len(t, plan.MediumTerm, 1)
	require.Len(t, plan.LongTerm, 1)
}

func TestPlannerOffsets(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	plan := NewPlanner(fixedClock()).Build([]Assessment{
		{SchemeID: "a", Horizon: scheme.HorizonImmediate},
		{SchemeID: "b", Horizon: scheme.HorizonLong},
	})

	require.Len(t, plan.Immediate, 1)
	assert.Equal(t, base.AddDate(0, 0, 15), time.Time(plan.Immediate[0].DocumentationDeadline))
	assert.Equal(t, base.AddDate(0, 0, 30), time.Time(plan.Immediate[0].ExpectedBenefitStart))

	require.Len(t, plan.LongTerm, 1)
	assert.Equal(t, base.AddDate(0, 0, 90), time.Time(plan.LongTerm[0].DocumentationDeadline))
	assert.Equal(t, base.AddDate(0, 0, 365), time.Time(plan.LongTerm[0].ExpectedBenefitStart))
}

func TestPlannerUnknownHorizonDefaultsToMedium(t *testing.T) {
	plan := NewPlanner(fixedClock()).Build([]Assessment{{SchemeID: "x", Horizon: "someday"}})
	require.Len(t, plan.MediumTerm, 1)
}

func TestPlannerEmptyInput(t *testing.T) {
	plan := NewPlanner(nil).Build(nil)
	assert.NotNil(t, plan.Immediate)
	assert.Empty(t, plan.Immediate)
	assert.Empty(t, plan.LongTerm)
}
