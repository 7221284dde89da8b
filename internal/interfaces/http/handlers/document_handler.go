package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claimlens/claimlens/internal/application/documents"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// DocumentHandler serves the document pipeline endpoints.
type DocumentHandler struct {
	service        *documents.Service
	maxUploadBytes int64
}

// NewDocumentHandler constructs the handler.  maxUploadBytes bounds the
// whole multipart body; per-type limits are enforced by the pipeline.
func NewDocumentHandler(service *documents.Service, maxUploadBytes int64) *DocumentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25 << 20
	}
	return &DocumentHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Upload accepts a multipart form: "file" plus "type_tag", optional "kind"
// (defaults to the part's content type), "claim_id" and a "fields" JSON
// object of operator-entered values.
func (h *DocumentHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, errors.NewInvalidInputError("multipart field \"file\" is required"))
		return
	}
	typeTag := c.PostForm("type_tag")
	if typeTag == "" {
		respondError(c, errors.NewInvalidInputError("form field \"type_tag\" is required"))
		return
	}

	kindValue := c.PostForm("kind")
	if kindValue == "" {
		kindValue = fileHeader.Header.Get("Content-Type")
	}
	kind, err := document.ParseFileKind(kindValue)
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeUnsupportedFileKind, "parse file kind"))
		return
	}

	var fields document.FieldSet
	if raw := c.PostForm("fields"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			respondError(c, errors.NewInvalidInputError("form field \"fields\" must be a JSON object"))
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "open upload"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "read upload"))
		return
	}

	doc, err := h.service.ExtractAndValidate(c.Request.Context(), documents.UploadRequest{
		FileName: fileHeader.Filename,
		Kind:     kind,
		TypeTag:  typeTag,
		ClaimID:  common.ID(c.PostForm("claim_id")),
		Data:     data,
		Fields:   fields,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Get returns one document with its extraction and validation results.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.GetDocument(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Download returns a presigned URL for the original uploaded object.
func (h *DocumentHandler) Download(c *gin.Context) {
	url, err := h.service.DownloadURL(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type reviewRequest struct {
	Verdict string `json:"verdict" binding:"required"`
	Note    string `json:"note"`
}

// Review applies a manual verdict to a document in the review queue.
func (h *DocumentHandler) Review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewInvalidInputError("request body must carry a \"verdict\""))
		return
	}
	doc, err := h.service.ReviewDocument(c.Request.Context(),
		common.ID(c.Param("id")), document.Status(req.Verdict), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ReviewQueue lists documents awaiting manual review.
func (h *DocumentHandler) ReviewQueue(c *gin.Context) {
	limit, offset := parsePagination(c)
	docs, err := h.service.ListByStatus(c.Request.Context(), document.StatusNeedsReview, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []*document.UploadedDocument{}
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "limit": limit, "offset": offset})
}
