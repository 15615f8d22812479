package partner

import (
	"context"

	"github.com/cotizador/backend/internal/domain/partner"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, req ClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(req.Name)
	if err != nil {
		return nil, err
	}
	if err := applyClientRequest(client, req); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List lists active clients with optional name search
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
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

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientResponses(clients), total, nil
}

// Update replaces a client's data
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req ClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := client.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := applyClientRequest(client, req); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete logically deletes a client. Quotations addressed to it stay printable.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := client.MarkDeleted(); err != nil {
		return err
	}
	return s.clientRepo.Save(ctx, client)
}

func applyClientRequest(client *partner.Client, req ClientRequest) error {
	client.SetLocation(req.Document, req.Address, req.City, req.Country)
	if err := client.SetReachability(req.Email, req.Phone); err != nil {
		return err
	}
	return client.SetContact(partner.Contact{
		Name:     req.Contact.Name,
		Position: req.Contact.Position,
		Email:    req.Contact.Email,
		Phone:    req.Contact.Phone,
	})
}
