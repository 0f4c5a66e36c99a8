package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docanalyzer/internal/domain"
	"docanalyzer/internal/service"
)

// DocumentHandler handles document extraction and management endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		HandleError(c, domain.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// Extract handles POST /api/v1/documents/extract
// @Summary Extract fields from a document
// @Description Runs OCR and field extraction on an uploaded receipt or invoice (PDF, JPG, PNG). The result is not stored.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param document formData file true "Document to analyze (PDF, JPG, or PNG)"
// @Success 201 {object} Response{data=service.ExtractResult} "Extracted record"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Router /documents/extract [post]
func (h *DocumentHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("document")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "document field is required")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.documentService.Extract(c.Request.Context(), service.ExtractInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// Create handles POST /api/v1/documents
// @Summary Store a document
// @Description Commits a reviewed record. Line item amounts are recomputed from quantity and unit price.
// @Tags documents
// @Accept json
// @Produce json
// @Param body body service.DocumentInput true "Document record"
// @Success 201 {object} Response{data=domain.Document} "Stored document"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 503 {object} ErrorResponseBody "Storage unavailable"
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	var input service.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Description Lists every stored document, newest first.
// @Tags documents
// @Produce json
// @Success 200 {object} Response{data=[]domain.Document} "Documents"
// @Failure 503 {object} ErrorResponseBody "Storage unavailable"
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, docs)
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} Response{data=domain.Document} "Document"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Update handles PUT /api/v1/documents/:id
// @Summary Update a document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param body body service.DocumentInput true "Document record"
// @Success 200 {object} Response{data=domain.Document} "Updated document"
// @Failure 400 {object} ErrorResponseBody "Invalid ID or validation error"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /documents/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input service.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	doc, err := h.documentService.Update(c.Request.Context(), id, &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Param id path int true "Document ID"
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Image handles GET /api/v1/documents/:id/image
// @Summary Redirect to the stored document image
// @Tags documents
// @Param id path int true "Document ID"
// @Success 307 "Redirect to a presigned URL"
// @Failure 404 {object} ErrorResponseBody "Document or image not found"
// @Router /documents/{id}/image [get]
func (h *DocumentHandler) Image(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	url, err := h.documentService.GetImageURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// Export handles GET /api/v1/documents/export
// @Summary Export documents
// @Description Downloads every stored document as CSV or XLSX.
// @Tags documents
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Router /documents/export [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	format := domain.ExportFormat(c.DefaultQuery("format", string(domain.ExportFormatCSV)))

	result, err := h.documentService.Export(c.Request.Context(), format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
