package eligibility

import "github.com/claimlens/claimlens/pkg/types/common"

// Livelihood tiers keyed off recommendation count.
const (
	TierSignificant = "Significant"
	TierModerate    = "Moderate"
	TierLimited     = "Limited"
)

// Success-probability model: a base figure per recommended scheme plus a
// benefit-size bonus, capped below certainty.
const (
	successBase      = 0.75
	successPerScheme = 0.05
	successCap       = 0.95

	benefitBonusThreshold = 100_000
	benefitBonusLarge     = 250_000
)

// Impact aggregates the ranked list into the financial and social estimate
// that accompanies the recommendations.
type Impact struct {
	RecommendedCount   int          `json:"recommended_count"`
	TotalAnnualBenefit common.Money `json:"total_annual_benefit"`
	LivelihoodTier     string       `json:"livelihood_tier"`
	SuccessProbability float64      `json:"success_probability"`
}

// Summarize derives the impact figures from a ranked recommendation list.
// Zero recommendations is a valid outcome: Limited tier, zero probability.
func Summarize(ranked []Assessment) Impact {
	total := common.INR(0)
	for _, a := range ranked {
		total = total.Add(a.EstimatedBenefit)
	}

	n := len(ranked)
	tier := TierLimited
	switch {
	case n >= 3:
		tier = TierSignificant
	case n >= 1:
		tier = TierModerate
	}

	return Impact{
		RecommendedCount:   n,
		TotalAnnualBenefit: total,
		LivelihoodTier:     tier,
		SuccessProbability: successProbability(n, total.Amount),
	}
}

func successProbability(n int, totalBenefit int64) float64 {
	if n == 0 {
		return 0
	}
	p := successBase + successPerScheme*float64(n-1)
	switch {
	case totalBenefit > benefitBonusLarge:
		p += 0.10
	case totalBenefit > benefitBonusThreshold:
		p += 0.05
	}
	if p > successCap {
		p = successCap
	}
	return p
}
