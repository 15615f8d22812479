package handler

import (
	"fmt"
	"net/http"
	"strconv"

	quotationapp "github.com/cotizador/backend/internal/application/quotation"
	"github.com/cotizador/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuotationHandler handles quotation CRUD and document endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *quotationapp.Service
	documentService  *quotationapp.DocumentService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *quotationapp.Service, documentService *quotationapp.DocumentService) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		documentService:  documentService,
	}
}

// Create godoc
// @ID           createQuotation
// @Summary      Create a new quotation
// @Description  Totals are computed from the items unless the request carries them
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body quotationapp.QuotationRequest true "Quotation creation request"
// @Success      201 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	var req quotationapp.QuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	q, err := h.quotationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, q)
}

// List godoc
// @ID           listQuotations
// @Summary      List quotations with company and client names
// @Tags         quotations
// @Produce      json
// @Param        search query string false "Quotation number search"
// @Param        company_id query string false "Company filter" format(uuid)
// @Param        client_id query string false "Client filter" format(uuid)
// @Success      200 {object} dto.Response{data=[]quotationapp.SummaryResponse}
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	var filter quotationapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	summaries, total, err := h.quotationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, summaries, total, page, pageSize)
}

// GetByID godoc
// @ID           getQuotationById
// @Summary      Get quotation by ID
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	q, err := h.quotationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, q)
}

// Update godoc
// @ID           updateQuotation
// @Summary      Replace a quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        request body quotationapp.QuotationRequest true "Quotation data"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req quotationapp.QuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	q, err := h.quotationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, q)
}

// Delete godoc
// @ID           deleteQuotation
// @Summary      Delete a quotation
// @Tags         quotations
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PDF godoc
// @ID           getQuotationPdf
// @Summary      Render a quotation as PDF
// @Description  The document is fully built before any byte is sent, so render
// @Description  failures still answer with a JSON error.
// @Tags         quotations
// @Produce      application/pdf
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Build(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "application/pdf")
	header.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	header.Set("Content-Length", strconv.Itoa(doc.Len()))
	if doc.Degraded {
		header.Set("X-Document-Degraded", "true")
	}
	c.Status(http.StatusOK)

	if _, err := doc.WriteTo(c.Writer); err != nil {
		// Headers are gone; the short body against Content-Length tells the client.
		logger.L(c.Request.Context()).Warn("quotation document write interrupted",
			zap.String("quotation_id", id.String()),
			zap.Int("size", doc.Len()),
			zap.Error(err))
		c.Abort()
	}
}

// Archive godoc
// @ID           archiveQuotationPdf
// @Summary      Render a quotation and store it in object storage
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      201 {object} dto.Response{data=quotationapp.ArchiveResponse}
// @Failure      404 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Security     BearerAuth
// @Router       /quotations/{id}/pdf/archive [post]
func (h *QuotationHandler) Archive(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	archived, err := h.documentService.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, archived)
}
