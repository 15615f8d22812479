package quotation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cotizador/backend/internal/domain/partner"
	"github.com/cotizador/backend/internal/domain/quotation"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrUnknownCompany is returned when a quotation references a missing company
	ErrUnknownCompany = shared.NewDomainError("INVALID_COMPANY", "La empresa no existe")
	// ErrUnknownClient is returned when a quotation references a missing client
	ErrUnknownClient = shared.NewDomainError("INVALID_CLIENT", "El cliente no existe")
)

// Service handles quotation-related business operations
type Service struct {
	repo      quotation.Repository
	summaries quotation.SummaryReader
	companies partner.CompanyRepository
	clients   partner.ClientRepository
	taxRate   decimal.Decimal
	logger    *zap.Logger
}

// NewService creates a new quotation Service
func NewService(
	repo quotation.Repository,
	summaries quotation.SummaryReader,
	companies partner.CompanyRepository,
	clients partner.ClientRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		summaries: summaries,
		companies: companies,
		clients:   clients,
		taxRate:   quotation.DefaultTaxRate,
		logger:    logger,
	}
}

// Create creates a new quotation
func (s *Service) Create(ctx context.Context, req QuotationRequest) (*QuotationResponse, error) {
	draft := req.toDraft(s.taxRate)
	if err := s.checkReferences(ctx, draft); err != nil {
		return nil, err
	}
	if err := s.checkNumber(ctx, draft.Number, uuid.Nil); err != nil {
		return nil, err
	}

	q, err := quotation.NewQuotation(draft)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}

	s.logger.Info("quotation created",
		zap.String("id", q.ID.String()),
		zap.String("number", q.Number),
		zap.Int("items", len(q.Items)))

	response := ToQuotationResponse(q)
	return &response, nil
}

// GetByID retrieves a quotation by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToQuotationResponse(q)
	return &response, nil
}

// List lists active quotations joined with company and client names
func (s *Service) List(ctx context.Context, filter ListFilter) ([]SummaryResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]any{},
	}
	if id, err := uuid.Parse(filter.CompanyID); err == nil {
		domainFilter.Filters["company_id"] = id
	}
	if id, err := uuid.Parse(filter.ClientID); err == nil {
		domainFilter.Filters["client_id"] = id
	}
	domainFilter = domainFilter.Normalize()

	summaries, err := s.summaries.ListSummaries(ctx, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotations: %w", err)
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count quotations: %w", err)
	}

	return ToSummaryResponses(summaries), total, nil
}

// Update replaces a quotation's content
func (s *Service) Update(ctx context.Context, id uuid.UUID, req QuotationRequest) (*QuotationResponse, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	draft := req.toDraft(s.taxRate)
	if err := s.checkReferences(ctx, draft); err != nil {
		return nil, err
	}
	if strings.TrimSpace(draft.Number) != q.Number {
		if err := s.checkNumber(ctx, draft.Number, q.ID); err != nil {
			return nil, err
		}
	}

	if err := q.Update(draft); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}

	response := ToQuotationResponse(q)
	return &response, nil
}

// Delete logically deletes a quotation. Its number stays reserved.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := q.MarkDeleted(); err != nil {
		return quotation.ErrQuotationNotFound
	}
	if err := s.repo.Save(ctx, q); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}

	s.logger.Info("quotation deleted", zap.String("id", q.ID.String()), zap.String("number", q.Number))
	return nil
}

func (s *Service) checkNumber(ctx context.Context, number string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsByNumber(ctx, strings.TrimSpace(number), excludeID)
	if err != nil {
		return fmt.Errorf("failed to check quotation number: %w", err)
	}
	if exists {
		return quotation.ErrDuplicateNumber
	}
	return nil
}

// checkReferences requires the company and client to exist and be active
func (s *Service) checkReferences(ctx context.Context, d quotation.Draft) error {
	if d.CompanyID != uuid.Nil {
		if _, err := s.companies.FindByID(ctx, d.CompanyID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ErrUnknownCompany
			}
			return err
		}
	}
	if d.ClientID != uuid.Nil {
		if _, err := s.clients.FindByID(ctx, d.ClientID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ErrUnknownClient
			}
			return err
		}
	}
	return nil
}
