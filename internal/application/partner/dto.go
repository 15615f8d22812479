package partner

import (
	"time"

	"github.com/cotizador/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// =============================================================================
// Company DTOs
// =============================================================================

// RepresentativeRequest is the signer of a company's quotations
type RepresentativeRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Position     string `json:"position" binding:"max=100"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	Phone        string `json:"phone" binding:"max=50"`
	SignatureURL string `json:"signature_url" binding:"omitempty,url,max=500"`
}

// CompanyRequest represents a request to create or replace a company
type CompanyRequest struct {
	Name           string                `json:"name" binding:"required,min=1,max=200"`
	NIT            string                `json:"nit" binding:"required,min=1,max=50"`
	LogoURL        string                `json:"logo_url" binding:"omitempty,url,max=500"`
	Email          string                `json:"email" binding:"required,email,max=200"`
	Representative RepresentativeRequest `json:"representative" binding:"required"`
}

func (r RepresentativeRequest) toDomain() partner.Representative {
	return partner.Representative{
		Name:         r.Name,
		Position:     r.Position,
		Email:        r.Email,
		Phone:        r.Phone,
		SignatureURL: r.SignatureURL,
	}
}

// RepresentativeResponse is the API representation of a representative
type RepresentativeResponse struct {
	Name         string `json:"name"`
	Position     string `json:"position"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	SignatureURL string `json:"signature_url"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	NIT            string                 `json:"nit"`
	LogoURL        string                 `json:"logo_url"`
	Email          string                 `json:"email"`
	Representative RepresentativeResponse `json:"representative"`
	Version        int                    `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// CompanyPDFDataResponse holds the company fields a printed quotation uses
type CompanyPDFDataResponse struct {
	Name           string                 `json:"name"`
	NIT            string                 `json:"nit"`
	LogoURL        string                 `json:"logo_url"`
	Email          string                 `json:"email"`
	Representative RepresentativeResponse `json:"representative"`
}

// CompanyListFilter represents filter options for the company list
type CompanyListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name nit created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func toRepresentativeResponse(r partner.Representative) RepresentativeResponse {
	return RepresentativeResponse{
		Name:         r.Name,
		Position:     r.Position,
		Email:        r.Email,
		Phone:        r.Phone,
		SignatureURL: r.SignatureURL,
	}
}

// ToCompanyResponse converts a domain Company to CompanyResponse
func ToCompanyResponse(c *partner.Company) CompanyResponse {
	return CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		NIT:            c.NIT,
		LogoURL:        c.LogoURL,
		Email:          c.Email,
		Representative: toRepresentativeResponse(c.Representative),
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToCompanyPDFDataResponse converts a domain Company to CompanyPDFDataResponse
func ToCompanyPDFDataResponse(c *partner.Company) CompanyPDFDataResponse {
	return CompanyPDFDataResponse{
		Name:           c.Name,
		NIT:            c.NIT,
		LogoURL:        c.LogoURL,
		Email:          c.Email,
		Representative: toRepresentativeResponse(c.Representative),
	}
}

// ToCompanyResponses converts a slice of domain companies to responses
func ToCompanyResponses(companies []partner.Company) []CompanyResponse {
	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses
}

// =============================================================================
// Client DTOs
// =============================================================================

// ContactRequest is the person at the client who receives quotations
type ContactRequest struct {
	Name     string `json:"name" binding:"max=200"`
	Position string `json:"position" binding:"max=100"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Phone    string `json:"phone" binding:"max=50"`
}

// ClientRequest represents a request to create or replace a client
type ClientRequest struct {
	Name     string         `json:"name" binding:"required,min=1,max=200"`
	Document string         `json:"document" binding:"max=50"`
	Address  string         `json:"address" binding:"max=500"`
	City     string         `json:"city" binding:"max=100"`
	Country  string         `json:"country" binding:"max=100"`
	Email    string         `json:"email" binding:"omitempty,email,max=200"`
	Phone    string         `json:"phone" binding:"max=50"`
	Contact  ContactRequest `json:"contact"`
}

// ContactResponse is the API representation of a client contact
type ContactResponse struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Document  string          `json:"document"`
	Address   string          `json:"address"`
	City      string          `json:"city"`
	Country   string          `json:"country"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Contact   ContactResponse `json:"contact"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name city created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:       c.ID,
		Name:     c.Name,
		Document: c.Document,
		Address:  c.Address,
		City:     c.City,
		Country:  c.Country,
		Email:    c.Email,
		Phone:    c.Phone,
		Contact: ContactResponse{
			Name:     c.Contact.Name,
			Position: c.Contact.Position,
			Email:    c.Contact.Email,
			Phone:    c.Contact.Phone,
		},
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToClientResponses converts a slice of domain clients to responses
func ToClientResponses(clients []partner.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}
