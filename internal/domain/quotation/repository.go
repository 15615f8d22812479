package quotation

import (
	"context"

	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for quotation persistence.
// Finders never return logically deleted quotations.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Quotation, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// ExistsByNumber reports whether another quotation uses number.
	// excludeID is ignored when it is uuid.Nil.
	ExistsByNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, q *Quotation) error
}

// ViewReader loads the joined projection used for rendering.
// Company and client are resolved even when they were deleted later,
// so an existing quotation stays printable.
type ViewReader interface {
	LoadView(ctx context.Context, id uuid.UUID) (*View, error)
}

// Summary is a quotation joined with the names shown in listings
type Summary struct {
	Quotation
	CompanyName string
	ClientName  string
}

// SummaryReader lists quotations with their company and client names
type SummaryReader interface {
	ListSummaries(ctx context.Context, filter shared.Filter) ([]Summary, error)
}
