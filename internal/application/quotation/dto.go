package quotation

import (
	"time"

	"github.com/cotizador/backend/internal/domain/quotation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Request DTOs
// =============================================================================

// ItemRequest is one line of a quotation request.
// LineTotal defaults to quantity times unit price when omitted.
type ItemRequest struct {
	ShortDescription string           `json:"short_description" binding:"required,min=1,max=500"`
	LongDescription  string           `json:"long_description" binding:"max=5000"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	LineTotal        *decimal.Decimal `json:"line_total"`
}

// QuotationRequest represents a request to create or replace a quotation.
// Subtotal, tax and total are computed from the items when all three are omitted.
type QuotationRequest struct {
	QuotationNumber string           `json:"quotation_number" binding:"required,min=1,max=50"`
	CompanyID       uuid.UUID        `json:"company_id" binding:"required"`
	ClientID        uuid.UUID        `json:"client_id" binding:"required"`
	Items           []ItemRequest    `json:"items" binding:"required,min=1,dive"`
	Subtotal        *decimal.Decimal `json:"subtotal"`
	Tax             *decimal.Decimal `json:"tax"`
	Total           *decimal.Decimal `json:"total"`
	Notes           string           `json:"notes" binding:"max=5000"`
	CustomMessage   string           `json:"custom_message" binding:"max=5000"`
}

// ListFilter represents filter options for the quotation list
type ListFilter struct {
	Search    string `form:"search"`
	CompanyID string `form:"company_id" binding:"omitempty,uuid"`
	ClientID  string `form:"client_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=quotation_number total created_at updated_at"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (r QuotationRequest) toDraft(taxRate decimal.Decimal) quotation.Draft {
	items := make([]quotation.Item, len(r.Items))
	for i, it := range r.Items {
		item := quotation.NewItem(it.ShortDescription, it.LongDescription, it.Quantity, it.UnitPrice)
		if it.LineTotal != nil {
			item.LineTotal = *it.LineTotal
		}
		items[i] = item
	}

	totals := quotation.ComputeTotals(items, taxRate)
	if r.Subtotal != nil || r.Tax != nil || r.Total != nil {
		totals = quotation.Totals{
			Subtotal: valueOrZero(r.Subtotal),
			Tax:      valueOrZero(r.Tax),
			Total:    valueOrZero(r.Total),
		}
	}

	return quotation.Draft{
		Number:        r.QuotationNumber,
		CompanyID:     r.CompanyID,
		ClientID:      r.ClientID,
		Items:         items,
		Totals:        totals,
		Notes:         r.Notes,
		CustomMessage: r.CustomMessage,
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// =============================================================================
// Response DTOs
// =============================================================================

// ItemResponse is one line of a quotation in API responses
type ItemResponse struct {
	ShortDescription string          `json:"short_description"`
	LongDescription  string          `json:"long_description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID              uuid.UUID       `json:"id"`
	QuotationNumber string          `json:"quotation_number"`
	CompanyID       uuid.UUID       `json:"company_id"`
	ClientID        uuid.UUID       `json:"client_id"`
	Items           []ItemResponse  `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes"`
	CustomMessage   string          `json:"custom_message"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SummaryResponse is a quotation row of the list endpoint
type SummaryResponse struct {
	ID              uuid.UUID       `json:"id"`
	QuotationNumber string          `json:"quotation_number"`
	CompanyID       uuid.UUID       `json:"company_id"`
	CompanyName     string          `json:"company_name"`
	ClientID        uuid.UUID       `json:"client_id"`
	ClientName      string          `json:"client_name"`
	ItemCount       int             `json:"item_count"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ArchiveResponse describes a rendered document stored in object storage
type ArchiveResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Filename  string    `json:"filename"`
	Pages     int       `json:"pages"`
	Size      int       `json:"size"`
	Degraded  bool      `json:"degraded"`
}

// ToQuotationResponse converts a domain Quotation to QuotationResponse
func ToQuotationResponse(q *quotation.Quotation) QuotationResponse {
	items := make([]ItemResponse, len(q.Items))
	for i, it := range q.Items {
		items[i] = ItemResponse{
			ShortDescription: it.ShortDescription,
			LongDescription:  it.LongDescription,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			LineTotal:        it.LineTotal,
		}
	}
	return QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.Number,
		CompanyID:       q.CompanyID,
		ClientID:        q.ClientID,
		Items:           items,
		Subtotal:        q.Totals.Subtotal,
		Tax:             q.Totals.Tax,
		Total:           q.Totals.Total,
		Notes:           q.Notes,
		CustomMessage:   q.CustomMessage,
		Version:         q.Version,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

// ToSummaryResponses converts joined summaries to list rows
func ToSummaryResponses(summaries []quotation.Summary) []SummaryResponse {
	responses := make([]SummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = SummaryResponse{
			ID:              s.ID,
			QuotationNumber: s.Number,
			CompanyID:       s.CompanyID,
			CompanyName:     s.CompanyName,
			ClientID:        s.ClientID,
			ClientName:      s.ClientName,
			ItemCount:       len(s.Items),
			Total:           s.Totals.Total,
			CreatedAt:       s.CreatedAt,
			UpdatedAt:       s.UpdatedAt,
		}
	}
	return responses
}
