package scheme

import "github.com/claimlens/claimlens/pkg/errors"

// ScoringConfig holds the category weights and decision thresholds the
// eligibility engine applies.  Defaults are pinned by tests; deployments
// may tune them through configuration, and categories a scheme does not
// constrain are dropped from both numerator and denominator so the weights
// renormalize per scheme.
type ScoringConfig struct {
	GeographicWeight    float64 `yaml:"geographic_weight" mapstructure:"geographic_weight"`
	StatusWeight        float64 `yaml:"status_weight" mapstructure:"status_weight"`
	CommunityWeight     float64 `yaml:"community_weight" mapstructure:"community_weight"`
	LandWeight          float64 `yaml:"land_weight" mapstructure:"land_weight"`
	DocumentationWeight float64 `yaml:"documentation_weight" mapstructure:"documentation_weight"`

	// EligibleThreshold is the minimum score for an eligible verdict.
	EligibleThreshold float64 `yaml:"eligible_threshold" mapstructure:"eligible_threshold"`
	// HighThreshold gates the high tier; a claim only reaches it when the
	// scheme's priority-population rule matches the claimant.
	HighThreshold float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	// MediumThreshold gates the medium tier.
	MediumThreshold float64 `yaml:"medium_threshold" mapstructure:"medium_threshold"`
}

// DefaultScoringConfig returns the standard weights and thresholds.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		GeographicWeight:    0.20,
		StatusWeight:        0.25,
		CommunityWeight:     0.15,
		LandWeight:          0.20,
		DocumentationWeight: 0.20,
		EligibleThreshold:   0.6,
		HighThreshold:       0.8,
		MediumThreshold:     0.7,
	}
}

// Validate rejects weights or thresholds outside [0,1] and disordered
// thresholds.
func (c ScoringConfig) Validate() error {
	weights := map[string]float64{
		"geographic_weight":    c.GeographicWeight,
		"status_weight":        c.StatusWeight,
		"community_weight":     c.CommunityWeight,
		"land_weight":          c.LandWeight,
		"documentation_weight": c.DocumentationWeight,
		"eligible_threshold":   c.EligibleThreshold,
		"high_threshold":       c.HighThreshold,
		"medium_threshold":     c.MediumThreshold,
	}
	for name, v := range weights {
		if v < 0 || v > 1 {
			return errors.Newf(errors.ErrCodeScoringConfig, "scoring: %s %.3f is outside [0,1]", name, v)
		}
	}
	if c.GeographicWeight+c.StatusWeight+c.CommunityWeight+c.LandWeight+c.DocumentationWeight <= 0 {
		return errors.New(errors.ErrCodeScoringConfig, "scoring: all category weights are zero")
	}
	if c.MediumThreshold < c.EligibleThreshold || c.HighThreshold < c.MediumThreshold {
		return errors.New(errors.ErrCodeScoringConfig, "scoring: thresholds must be ordered eligible <= medium <= high")
	}
	return nil
}
