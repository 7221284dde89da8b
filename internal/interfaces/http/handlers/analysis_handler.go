package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claimlens/claimlens/internal/application/analysis"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// AnalysisHandler serves the eligibility decision-support endpoints.
type AnalysisHandler struct {
	service *analysis.Service
}

func NewAnalysisHandler(service *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Analyze runs eligibility analysis against the claim's current state and
// returns the full report.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	report, err := h.service.AnalyzeEligibility(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// LatestReport returns the most recently stored report for the claim
// without recomputing it.
func (h *AnalysisHandler) LatestReport(c *gin.Context) {
	report, err := h.service.LatestReport(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
