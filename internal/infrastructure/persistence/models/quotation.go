package models

import (
	"github.com/cotizador/backend/internal/domain/quotation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationModel is the persistence model for the Quotation aggregate.
type QuotationModel struct {
	AggregateModel
	Number        string               `gorm:"column:quotation_number;type:varchar(50);not null;uniqueIndex"`
	CompanyID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	ClientID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	Subtotal      decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Tax           decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Total         decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Notes         string               `gorm:"type:text"`
	CustomMessage string               `gorm:"type:text"`
	Items         []QuotationItemModel `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// QuotationItemModel is one priced line of a quotation.
// Position preserves the order in which items were entered.
type QuotationItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	QuotationID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position         int             `gorm:"not null"`
	ShortDescription string          `gorm:"type:varchar(500);not null"`
	LongDescription  string          `gorm:"type:text"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (QuotationItemModel) TableName() string {
	return "quotation_items"
}

// ToDomain converts the persistence model to a domain Quotation.
// Items must be loaded in position order.
func (m *QuotationModel) ToDomain() *quotation.Quotation {
	items := make([]quotation.Item, len(m.Items))
	for i, it := range m.Items {
		items[i] = quotation.Item{
			ShortDescription: it.ShortDescription,
			LongDescription:  it.LongDescription,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			LineTotal:        it.LineTotal,
		}
	}
	return &quotation.Quotation{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		CompanyID:         m.CompanyID,
		ClientID:          m.ClientID,
		Items:             items,
		Totals: quotation.Totals{
			Subtotal: m.Subtotal,
			Tax:      m.Tax,
			Total:    m.Total,
		},
		Notes:         m.Notes,
		CustomMessage: m.CustomMessage,
	}
}

// FromDomain populates the persistence model from a domain Quotation.
// Item rows get fresh IDs; the repository replaces them wholesale on save.
func (m *QuotationModel) FromDomain(q *quotation.Quotation) {
	m.FromDomainAggregateRoot(q.BaseAggregateRoot)
	m.Number = q.Number
	m.CompanyID = q.CompanyID
	m.ClientID = q.ClientID
	m.Subtotal = q.Totals.Subtotal
	m.Tax = q.Totals.Tax
	m.Total = q.Totals.Total
	m.Notes = q.Notes
	m.CustomMessage = q.CustomMessage
	m.Items = make([]QuotationItemModel, len(q.Items))
	for i, it := range q.Items {
		m.Items[i] = QuotationItemModel{
			ID:               uuid.New(),
			QuotationID:      q.ID,
			Position:         i,
			ShortDescription: it.ShortDescription,
			LongDescription:  it.LongDescription,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			LineTotal:        it.LineTotal,
		}
	}
}

// QuotationModelFromDomain creates a new persistence model from a domain Quotation.
func QuotationModelFromDomain(q *quotation.Quotation) *QuotationModel {
	m := &QuotationModel{}
	m.FromDomain(q)
	return m
}
