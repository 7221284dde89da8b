// Package analysis assembles the full decision-support report for a claim:
// the eligibility matrix across the catalog, the ranked recommendations,
// the implementation plan and the impact summary.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/eligibility"
	"github.com/claimlens/claimlens/internal/infrastructure/database/postgres/repositories"
	"github.com/claimlens/claimlens/internal/infrastructure/messaging/kafka"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/prometheus"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// DecisionSupport is the single confidence figure and narrative that
// accompany the ranked list.
type DecisionSupport struct {
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// Report is the JSON-serializable analysis output.  Every list is ordered
// deterministically and every numeric field is finite.
type Report struct {
	ID          common.ID        `json:"id"`
	ClaimID     common.ID        `json:"claim_id"`
	GeneratedAt common.Timestamp `json:"generated_at"`

	EligibilityMatrix  []eligibility.Assessment `json:"eligibility_matrix"`
	RecommendedSchemes []eligibility.Assessment `json:"recommended_schemes"`
	ImplementationPlan *eligibility.Plan        `json:"implementation_plan"`
	ImpactAssessment   eligibility.Impact       `json:"impact_assessment"`
	DecisionSupport    DecisionSupport          `json:"decision_support"`
}

// ClaimReader supplies claim snapshots.
type ClaimReader interface {
	GetByID(ctx context.Context, id common.ID) (*claim.Snapshot, error)
}

// ReportStore persists finished reports.  Persistence is best-effort: a
// storage outage must not turn a computed report into an error.
type ReportStore interface {
	Save(ctx context.Context, report *repositories.StoredReport) error
	GetLatestByClaim(ctx context.Context, claimID common.ID) (*repositories.StoredReport, error)
}

// Cache holds reports keyed by claim version.  GetOrSet must collapse
// concurrent loads of the same key into one build.
type Cache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) error
}

// Producer announces completed analyses.
type Producer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Service runs eligibility analysis.
type Service struct {
	claims   ClaimReader
	ranker   *eligibility.Ranker
	planner  *eligibility.Planner
	reports  ReportStore
	cache    Cache
	producer Producer
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// NewService wires the analysis pipeline.  reports, cache, producer and
// metrics may be nil.
func NewService(
	claims ClaimReader,
	ranker *eligibility.Ranker,
	planner *eligibility.Planner,
	reports ReportStore,
	cache Cache,
	producer Producer,
	metrics *prometheus.AppMetrics,
	logger logging.Logger,
) *Service {
	return &Service{
		claims:   claims,
		ranker:   ranker,
		planner:  planner,
		reports:  reports,
		cache:    cache,
		producer: producer,
		metrics:  metrics,
		logger:   logger.Named("analysis"),
	}
}

// cacheKey ties a cached report to one version of the claim: any claim
// mutation moves UpdatedAt, which moves the key, so assessments are never
// served across mutations.
func cacheKey(snap *claim.Snapshot) string {
	return fmt.Sprintf("report:%s:%d", snap.ID, time.Time(snap.UpdatedAt).UnixNano())
}

// AnalyzeEligibility produces the decision-support report for a claim.  It
// never fails for a structurally valid claim; the worst case is a report
// with zero recommended schemes.
func (s *Service) AnalyzeEligibility(ctx context.Context, claimID common.ID) (*Report, error) {
	snap, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		s.countOutcome("claim_not_found")
		return nil, err
	}

	if s.cache == nil {
		return s.buildReport(ctx, snap)
	}

	// GetOrSet serves the version-keyed copy when one exists and
	// otherwise builds exactly once, even under concurrent requests
	// for the same claim version.
	computed := false
	var cached Report
	err = s.cache.GetOrSet(ctx, cacheKey(snap), &cached, 0, func(ctx context.Context) (interface{}, error) {
		computed = true
		return s.buildReport(ctx, snap)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		if computed {
			s.metrics.CacheMissesTotal.Inc()
		} else {
			s.metrics.CacheHitsTotal.Inc()
		}
	}
	return &cached, nil
}

// buildReport runs the full assessment pipeline for one claim snapshot and
// persists and announces the result.
func (s *Service) buildReport(ctx context.Context, snap *claim.Snapshot) (*Report, error) {
	start := time.Now()
	matrix, err := s.ranker.AssessAll(ctx, snap)
	if err != nil {
		s.countOutcome("error")
		return nil, err
	}
	ranked := eligibility.RankAssessments(matrix)
	impact := eligibility.Summarize(ranked)

	report := &Report{
		ID:                 common.GenerateID("rpt"),
		ClaimID:            snap.ID,
		GeneratedAt:        common.Now(),
		EligibilityMatrix:  matrix,
		RecommendedSchemes: ranked,
		ImplementationPlan: s.planner.Build(ranked),
		ImpactAssessment:   impact,
		DecisionSupport: DecisionSupport{
			Confidence: impact.SuccessProbability,
			Summary:    summarize(snap, impact),
		},
	}

	s.persist(ctx, report)
	s.announce(ctx, report)

	if s.metrics != nil {
		s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
		s.metrics.RecommendedSchemesPerRun.Observe(float64(len(ranked)))
	}
	s.countOutcome("ok")

	s.logger.Info("claim analyzed",
		logging.String("claim_id", snap.ID.String()),
		logging.Int("schemes_assessed", len(matrix)),
		logging.Int("recommended", len(ranked)),
		logging.Float64("confidence", report.DecisionSupport.Confidence))
	return report, nil
}

// LatestReport returns the most recent stored report for a claim, which may
// predate the claim's current state.
func (s *Service) LatestReport(ctx context.Context, claimID common.ID) (*Report, error) {
	if s.reports == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "report storage is not configured")
	}
	stored, err := s.reports.GetLatestByClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(stored.Body, &report); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode stored report")
	}
	return &report, nil
}

func (s *Service) persist(ctx context.Context, report *Report) {
	if s.reports == nil {
		return
	}
	body, err := json.Marshal(report)
	if err != nil {
		s.logger.Error("report encoding failed",
			logging.String("claim_id", report.ClaimID.String()),
			logging.Err(err))
		return
	}
	stored := &repositories.StoredReport{
		ID:        report.ID,
		ClaimID:   report.ClaimID,
		Body:      body,
		CreatedAt: report.GeneratedAt,
	}
	if err := s.reports.Save(ctx, stored); err != nil {
		s.logger.Warn("report persistence failed",
			logging.String("claim_id", report.ClaimID.String()),
			logging.Err(err))
	}
}

func (s *Service) announce(ctx context.Context, report *Report) {
	if s.producer == nil {
		return
	}
	payload := kafka.ClaimAnalyzedPayload{
		ClaimID:            report.ClaimID.String(),
		ReportID:           report.ID.String(),
		RecommendedSchemes: len(report.RecommendedSchemes),
		TotalBenefit:       report.ImpactAssessment.TotalAnnualBenefit.Amount,
		AnalyzedAt:         time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, kafka.TopicClaimAnalyzed, report.ClaimID.String(), payload); err != nil {
		s.logger.Warn("event publish failed",
			logging.String("claim_id", report.ClaimID.String()),
			logging.Err(err))
		return
	}
	if s.metrics != nil {
		s.metrics.EventsPublishedTotal.WithLabelValues(kafka.TopicClaimAnalyzed).Inc()
	}
}

func (s *Service) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.AnalysisRequestsTotal.WithLabelValues(outcome).Inc()
	}
}

func summarize(snap *claim.Snapshot, impact eligibility.Impact) string {
	if impact.RecommendedCount == 0 {
		return fmt.Sprintf("No schemes currently match the claim of %s; review pending conditions in the eligibility matrix.",
			snap.Applicant.Name)
	}
	return fmt.Sprintf("%d scheme(s) recommended for %s with an estimated annual benefit of %d %s (%s livelihood improvement).",
		impact.RecommendedCount, snap.Applicant.Name,
		impact.TotalAnnualBenefit.Amount, impact.TotalAnnualBenefit.Currency,
		impact.LivelihoodTier)
}
