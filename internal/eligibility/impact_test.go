package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/claimlens/claimlens/pkg/types/common"
)

func assessments(amounts ...int64) []Assessment {
	out := make([]Assessment, len(amounts))
	for i, amt := range amounts {
		out[i] = Assessment{SchemeID: "s", EstimatedBenefit: common.INR(amt)}
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	impact := Summarize(nil)

	assert.Equal(t, 0, impact.RecommendedCount)
	assert.Equal(t, int64(0), impact.TotalAnnualBenefit.Amount)
	assert.Equal(t, TierLimited, impact.LivelihoodTier)
	assert.Equal(t, 0.0, impact.SuccessProbability)
}

func TestSummarizeTiers(t *testing.T) {
	assert.Equal(t, TierModerate, Summarize(assessments(1000)).LivelihoodTier)
	assert.Equal(t, TierModerate, Summarize(assessments(1000, 2000)).LivelihoodTier)
	assert.Equal(t, TierSignificant, Summarize(assessments(1000, 2000, 3000)).LivelihoodTier)
}

func TestSuccessProbability(t *testing.T) {
	// One small scheme: just the base.
	assert.InDelta(t, 0.75, Summarize(assessments(5000)).SuccessProbability, 1e-9)

	// Two schemes, still under the benefit threshold.
	assert.InDelta(t, 0.80, Summarize(assessments(5000, 5000)).SuccessProbability, 1e-9)

	// Benefit over 100000 adds 0.05.
	assert.InDelta(t, 0.80, Summarize(assessments(150000)).SuccessProbability, 1e-9)

	// Benefit over 250000 adds 0.10.
	assert.InDelta(t, 0.85, Summarize(assessments(300000)).SuccessProbability, 1e-9)

	// Capped at 0.95 no matter how many schemes pile up.
	many := assessments(100000, 100000, 100000, 100000, 100000)
	assert.Equal(t, 0.95, Summarize(many).SuccessProbability)
}

func TestSummarizeSumsBenefit(t *testing.T) {
	impact := Summarize(assessments(6000, 30000, 130000))
	assert.Equal(t, int64(166000), impact.TotalAnnualBenefit.Amount)
	assert.Equal(t, "INR", impact.TotalAnnualBenefit.Currency)
}
