package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/domain/scheme"
	"github.com/claimlens/claimlens/internal/eligibility"
)

// analysisOutput mirrors the server's report without storage identifiers.
type analysisOutput struct {
	ClaimID            string                   `json:"claim_id"`
	EligibilityMatrix  []eligibility.Assessment `json:"eligibility_matrix"`
	RecommendedSchemes []eligibility.Assessment `json:"recommended_schemes"`
	ImplementationPlan *eligibility.Plan        `json:"implementation_plan"`
	ImpactAssessment   eligibility.Impact       `json:"impact_assessment"`
}

func newAnalyzeCmd() *cobra.Command {
	var schemesPath string

	cmd := &cobra.Command{
		Use:   "analyze <claim.json>",
		Short: "Run eligibility analysis against a claim snapshot file",
		Long: "Reads a claim snapshot from JSON, scores it against the scheme catalog and\n" +
			"prints the eligibility matrix, ranked recommendations, implementation plan\n" +
			"and impact summary.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var snap claim.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("parse claim snapshot: %w", err)
			}

			catalog := scheme.DefaultCatalog()
			if schemesPath != "" {
				if catalog, err = scheme.LoadCatalog(schemesPath); err != nil {
					return err
				}
			}

			ranker := eligibility.NewRanker(
				eligibility.NewScorer(scheme.DefaultScoringConfig()), catalog)
			matrix, err := ranker.AssessAll(cmd.Context(), &snap)
			if err != nil {
				return err
			}
			ranked := eligibility.RankAssessments(matrix)
			planner := eligibility.NewPlanner(time.Now)

			return printJSON(cmd.OutOrStdout(), analysisOutput{
				ClaimID:            snap.ID.String(),
				EligibilityMatrix:  matrix,
				RecommendedSchemes: ranked,
				ImplementationPlan: planner.Build(ranked),
				ImpactAssessment:   eligibility.Summarize(ranked),
			})
		},
	}

	cmd.Flags().StringVar(&schemesPath, "schemes", "", "scheme catalog YAML (default: built-in catalog)")

	return cmd
}
