package quotation

import (
	"strconv"
	"strings"
	"time"

	"github.com/cotizador/backend/internal/domain/partner"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// maxPrintableAmount bounds amounts so they survive float conversion
// during drawing without losing units.
var maxPrintableAmount = decimal.New(1, 15)

// RepresentativeView is the signer block of a rendered quotation
type RepresentativeView struct {
	Name         string
	Position     string
	Email        string
	Phone        string
	SignatureURL string
}

// CompanyView is the issuer block of a rendered quotation
type CompanyView struct {
	Name           string
	TaxID          string
	LogoURL        string
	Email          string
	Representative RepresentativeView
}

// ClientView is the recipient block of a rendered quotation
type ClientView struct {
	Name            string
	ContactName     string
	ContactPosition string
}

// View is the read-only, fully joined snapshot of a quotation used for
// rendering. It is built per request and never mutated afterwards.
// Empty strings stand for absent optional values.
type View struct {
	QuotationNumber string
	IssuedAt        time.Time
	Company         CompanyView
	Client          ClientView
	Items           []Item
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	Total           decimal.Decimal
	Notes           string
	CustomMessage   string
}

// NewView joins a quotation with its company and client
func NewView(q *Quotation, company *partner.Company, client *partner.Client, issuedAt time.Time) View {
	return View{
		QuotationNumber: q.Number,
		IssuedAt:        issuedAt,
		Company: CompanyView{
			Name:    company.Name,
			TaxID:   company.NIT,
			LogoURL: company.LogoURL,
			Email:   company.Email,
			Representative: RepresentativeView{
				Name:         company.Representative.Name,
				Position:     company.Representative.Position,
				Email:        company.Representative.Email,
				Phone:        company.Representative.Phone,
				SignatureURL: company.Representative.SignatureURL,
			},
		},
		Client: ClientView{
			Name:            client.Name,
			ContactName:     client.Contact.Name,
			ContactPosition: client.Contact.Position,
		},
		Items:         append([]Item(nil), q.Items...),
		Subtotal:      q.Totals.Subtotal,
		TaxAmount:     q.Totals.Tax,
		Total:         q.Totals.Total,
		Notes:         q.Notes,
		CustomMessage: q.CustomMessage,
	}
}

// Filename is the suggested download name of the rendered document
func (v View) Filename() string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(v.QuotationNumber))
	return name + ".pdf"
}

// Validate checks every precondition the drawing pass relies on, so that
// a render never fails after its first byte was written.
func (v View) Validate() error {
	var problems []string
	if strings.TrimSpace(v.QuotationNumber) == "" {
		problems = append(problems, "quotation number is empty")
	}
	if strings.TrimSpace(v.Company.Name) == "" {
		problems = append(problems, "company name is empty")
	}
	if strings.TrimSpace(v.Client.Name) == "" {
		problems = append(problems, "client name is empty")
	}
	checkAmount := func(field string, d decimal.Decimal) {
		if d.IsNegative() {
			problems = append(problems, field+" is negative")
		} else if d.Abs().GreaterThanOrEqual(maxPrintableAmount) {
			problems = append(problems, field+" is too large")
		}
	}
	checkAmount("subtotal", v.Subtotal)
	checkAmount("tax", v.TaxAmount)
	checkAmount("total", v.Total)
	for i, it := range v.Items {
		if strings.TrimSpace(it.ShortDescription) == "" {
			problems = append(problems, "item "+strconv.Itoa(i+1)+" has no description")
		}
		checkAmount("item "+strconv.Itoa(i+1)+" quantity", it.Quantity)
		checkAmount("item "+strconv.Itoa(i+1)+" unit price", it.UnitPrice)
		checkAmount("item "+strconv.Itoa(i+1)+" total", it.LineTotal)
	}
	if len(problems) > 0 {
		return shared.NewDomainError("INVALID_VIEW", "invalid quotation view: "+strings.Join(problems, "; "))
	}
	return nil
}
