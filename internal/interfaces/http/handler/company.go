package handler

import (
	partnerapp "github.com/cotizador/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company-related API endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *partnerapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *partnerapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Create godoc
// @ID           createCompany
// @Summary      Create a new company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CompanyRequest true "Company creation request"
// @Success      201 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req partnerapp.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// List godoc
// @ID           listCompanies
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Param        search query string false "Name search"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]partnerapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	var filter partnerapp.CompanyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	companies, total, err := h.companyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, companies, total, page, pageSize)
}

// GetByID godoc
// @ID           getCompanyById
// @Summary      Get company by ID
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// GetPDFData godoc
// @ID           getCompanyPdfData
// @Summary      Company fields used on printed quotations
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.CompanyPDFDataResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id}/pdf-data [get]
func (h *CompanyHandler) GetPDFData(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	data, err := h.companyService.GetPDFData(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, data)
}

// Update godoc
// @ID           updateCompany
// @Summary      Replace a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partnerapp.CompanyRequest true "Company data"
// @Success      200 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id} [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req partnerapp.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Delete godoc
// @ID           deleteCompany
// @Summary      Delete a company
// @Tags         companies
// @Param        id path string true "Company ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// pagination echoes the normalized page and size the services apply
func pagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, min(pageSize, 100)
}
