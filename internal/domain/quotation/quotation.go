package quotation

import (
	"strings"

	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/cotizador/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the Colombian VAT (IVA) applied when totals are derived
var DefaultTaxRate = decimal.NewFromFloat(0.19)

// ErrDuplicateNumber is returned when a quotation number is already taken
var ErrDuplicateNumber = shared.NewDomainError("ALREADY_EXISTS", "El número de cotización ya existe.")

// ErrQuotationNotFound is returned when a quotation does not exist or was deleted
var ErrQuotationNotFound = shared.NewDomainError("NOT_FOUND", "Cotización no encontrada")

// Item is one priced line of a quotation. LineTotal is supplied by the
// caller and is never recomputed during rendering.
type Item struct {
	ShortDescription string
	LongDescription  string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	LineTotal        decimal.Decimal
}

// NewItem builds an item and derives its line total
func NewItem(short, long string, quantity, unitPrice decimal.Decimal) Item {
	line := valueobject.NewMoneyCOP(unitPrice).LineTotal(quantity)
	return Item{
		ShortDescription: strings.TrimSpace(short),
		LongDescription:  strings.TrimSpace(long),
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		LineTotal:        line.Amount(),
	}
}

func (i Item) validate() error {
	if strings.TrimSpace(i.ShortDescription) == "" {
		return shared.NewDomainError("INVALID_ITEM", "La descripción del ítem es obligatoria")
	}
	if i.Quantity.IsNegative() || i.UnitPrice.IsNegative() || i.LineTotal.IsNegative() {
		return shared.NewDomainError("INVALID_ITEM", "Los valores del ítem no pueden ser negativos")
	}
	return nil
}

// Totals holds the precomputed amounts of a quotation
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals sums the line totals and applies the tax rate
func ComputeTotals(items []Item, taxRate decimal.Decimal) Totals {
	lines := make([]valueobject.Money, len(items))
	for i, it := range items {
		lines[i] = valueobject.NewMoneyCOP(it.LineTotal)
	}
	// all lines are pesos, so Sum cannot fail
	subtotal, _ := valueobject.Sum(lines...)
	tax := subtotal.TaxAt(taxRate)
	return Totals{
		Subtotal: subtotal.Amount(),
		Tax:      tax.Amount(),
		Total:    subtotal.MustAdd(tax).Amount(),
	}
}

func (t Totals) validate() error {
	if t.Subtotal.IsNegative() || t.Tax.IsNegative() || t.Total.IsNegative() {
		return shared.NewDomainError("INVALID_TOTALS", "Subtotal, IVA y total deben ser valores numéricos no negativos")
	}
	return nil
}

// Quotation is a priced offer from a company to a client
type Quotation struct {
	shared.BaseAggregateRoot
	Number        string
	CompanyID     uuid.UUID
	ClientID      uuid.UUID
	Items         []Item
	Totals        Totals
	Notes         string
	CustomMessage string
}

// Draft carries the editable fields of a quotation
type Draft struct {
	Number        string
	CompanyID     uuid.UUID
	ClientID      uuid.UUID
	Items         []Item
	Totals        Totals
	Notes         string
	CustomMessage string
}

// NewQuotation creates a quotation from a validated draft
func NewQuotation(d Draft) (*Quotation, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	q := &Quotation{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	q.apply(d)
	return q, nil
}

// Update replaces the quotation's content
func (q *Quotation) Update(d Draft) error {
	if q.Deleted {
		return ErrQuotationNotFound
	}
	if err := d.validate(); err != nil {
		return err
	}
	q.apply(d)
	q.IncrementVersion()
	q.Touch()
	return nil
}

func (q *Quotation) apply(d Draft) {
	q.Number = strings.TrimSpace(d.Number)
	q.CompanyID = d.CompanyID
	q.ClientID = d.ClientID
	q.Items = append([]Item(nil), d.Items...)
	q.Totals = d.Totals
	q.Notes = d.Notes
	q.CustomMessage = d.CustomMessage
}

func (d Draft) validate() error {
	if strings.TrimSpace(d.Number) == "" {
		return shared.NewDomainError("INVALID_NUMBER", "El número de cotización es obligatorio")
	}
	if len(d.Number) > 50 {
		return shared.NewDomainError("INVALID_NUMBER", "El número de cotización no puede superar 50 caracteres")
	}
	if d.CompanyID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMPANY", "La empresa es obligatoria")
	}
	if d.ClientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "El cliente es obligatorio")
	}
	if len(d.Items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Debe haber al menos un ítem")
	}
	for _, it := range d.Items {
		if err := it.validate(); err != nil {
			return err
		}
	}
	return d.Totals.validate()
}
