package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claimlens/claimlens/internal/application/claims"
	"github.com/claimlens/claimlens/internal/application/documents"
	"github.com/claimlens/claimlens/internal/domain/claim"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// ClaimHandler serves the claim registry endpoints.
type ClaimHandler struct {
	claims    *claims.Service
	documents *documents.Service
}

func NewClaimHandler(claimSvc *claims.Service, docSvc *documents.Service) *ClaimHandler {
	return &ClaimHandler{claims: claimSvc, documents: docSvc}
}

// Register creates a draft claim from the registration payload.
func (h *ClaimHandler) Register(c *gin.Context) {
	var req claims.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewInvalidInputError("malformed claim registration payload"))
		return
	}
	snap, err := h.claims.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// Get returns one claim snapshot.
func (h *ClaimHandler) Get(c *gin.Context) {
	snap, err := h.claims.Get(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// List pages through the claims of a district.
func (h *ClaimHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	snaps, err := h.claims.ListByDistrict(c.Request.Context(), c.Query("district"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if snaps == nil {
		snaps = []*claim.Snapshot{}
	}
	c.JSON(http.StatusOK, gin.H{"claims": snaps, "limit": limit, "offset": offset})
}

type attachRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
}

// AttachDocument links a processed upload to the claim.
func (h *ClaimHandler) AttachDocument(c *gin.Context) {
	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewInvalidInputError("request body must carry a \"document_id\""))
		return
	}
	snap, err := h.claims.AttachDocument(c.Request.Context(),
		common.ID(c.Param("id")), common.ID(req.DocumentID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ListDocuments returns the uploads attached to a claim.
func (h *ClaimHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documents.ListByClaim(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []*document.UploadedDocument{}
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus moves the claim through its administrative flow.
func (h *ClaimHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewInvalidInputError("request body must carry a \"status\""))
		return
	}
	snap, err := h.claims.SetStatus(c.Request.Context(),
		common.ID(c.Param("id")), claim.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
