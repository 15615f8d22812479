package partner

import (
	"context"
	"strings"

	"github.com/cotizador/backend/internal/domain/partner"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrDuplicateNIT is returned when another active company uses the NIT
var ErrDuplicateNIT = shared.NewDomainError("ALREADY_EXISTS", "Ya existe una empresa con ese NIT")

// CompanyService handles company-related business operations
type CompanyService struct {
	companyRepo partner.CompanyRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo partner.CompanyRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
	}
}

// Create creates a new company
func (s *CompanyService) Create(ctx context.Context, req CompanyRequest) (*CompanyResponse, error) {
	exists, err := s.companyRepo.ExistsByNIT(ctx, req.NIT)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateNIT
	}

	company, err := partner.NewCompany(req.Name, req.NIT, req.Email, req.Representative.toDomain())
	if err != nil {
		return nil, err
	}
	if err := company.SetLogoURL(req.LogoURL); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// GetByID retrieves a company by ID
func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// GetPDFData returns the fields a printed quotation shows for the company
func (s *CompanyService) GetPDFData(ctx context.Context, id uuid.UUID) (*CompanyPDFDataResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCompanyPDFDataResponse(company)
	return &response, nil
}

// List lists active companies with optional name search
func (s *CompanyService) List(ctx context.Context, filter CompanyListFilter) ([]CompanyResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
		if filter.OrderDir == "" {
			filter.OrderDir = "asc"
		}
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	companies, err := s.companyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.companyRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCompanyResponses(companies), total, nil
}

// Update replaces a company's data
func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, req CompanyRequest) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.NIT) != company.NIT {
		exists, err := s.companyRepo.ExistsByNIT(ctx, req.NIT)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateNIT
		}
	}

	if err := company.Update(req.Name, req.NIT, req.Email, req.Representative.toDomain()); err != nil {
		return nil, err
	}
	if err := company.SetLogoURL(req.LogoURL); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// Delete logically deletes a company. Quotations issued by it stay printable.
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := company.MarkDeleted(); err != nil {
		return err
	}
	return s.companyRepo.Save(ctx, company)
}
