package partner

import (
	"context"

	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence.
// Finders never return logically deleted companies.
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByNIT(ctx context.Context, nit string) (bool, error)
	Save(ctx context.Context, company *Company) error
}

// ClientRepository defines the interface for client persistence.
// Finders never return logically deleted clients.
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, client *Client) error
}
