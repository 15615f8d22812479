package models

import (
	"github.com/cotizador/backend/internal/domain/partner"
)

// CompanyModel is the persistence model for the Company aggregate.
// The representative is stored inline.
type CompanyModel struct {
	AggregateModel
	Name                   string `gorm:"type:varchar(200);not null;index"`
	NIT                    string `gorm:"column:nit;type:varchar(50);not null"`
	LogoURL                string `gorm:"type:varchar(1000)"`
	Email                  string `gorm:"type:varchar(200);not null"`
	RepresentativeName     string `gorm:"type:varchar(200);not null"`
	RepresentativePosition string `gorm:"type:varchar(200)"`
	RepresentativeEmail    string `gorm:"type:varchar(200)"`
	RepresentativePhone    string `gorm:"type:varchar(50)"`
	SignatureURL           string `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *partner.Company {
	return &partner.Company{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		NIT:               m.NIT,
		LogoURL:           m.LogoURL,
		Email:             m.Email,
		Representative: partner.Representative{
			Name:         m.RepresentativeName,
			Position:     m.RepresentativePosition,
			Email:        m.RepresentativeEmail,
			Phone:        m.RepresentativePhone,
			SignatureURL: m.SignatureURL,
		},
	}
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *partner.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.NIT = c.NIT
	m.LogoURL = c.LogoURL
	m.Email = c.Email
	m.RepresentativeName = c.Representative.Name
	m.RepresentativePosition = c.Representative.Position
	m.RepresentativeEmail = c.Representative.Email
	m.RepresentativePhone = c.Representative.Phone
	m.SignatureURL = c.Representative.SignatureURL
}

// CompanyModelFromDomain creates a new persistence model from a domain Company.
func CompanyModelFromDomain(c *partner.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// ClientModel is the persistence model for the Client aggregate.
type ClientModel struct {
	AggregateModel
	Name            string `gorm:"type:varchar(200);not null;index"`
	Document        string `gorm:"type:varchar(50)"`
	Address         string `gorm:"type:text"`
	City            string `gorm:"type:varchar(100)"`
	Country         string `gorm:"type:varchar(100);not null;default:'Colombia'"`
	Email           string `gorm:"type:varchar(200)"`
	Phone           string `gorm:"type:varchar(50)"`
	ContactName     string `gorm:"type:varchar(200)"`
	ContactPosition string `gorm:"type:varchar(200)"`
	ContactEmail    string `gorm:"type:varchar(200)"`
	ContactPhone    string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Document:          m.Document,
		Address:           m.Address,
		City:              m.City,
		Country:           m.Country,
		Email:             m.Email,
		Phone:             m.Phone,
		Contact: partner.Contact{
			Name:     m.ContactName,
			Position: m.ContactPosition,
			Email:    m.ContactEmail,
			Phone:    m.ContactPhone,
		},
	}
}

// FromDomain populates the persistence model from a domain Client.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Document = c.Document
	m.Address = c.Address
	m.City = c.City
	m.Country = c.Country
	m.Email = c.Email
	m.Phone = c.Phone
	m.ContactName = c.Contact.Name
	m.ContactPosition = c.Contact.Position
	m.ContactEmail = c.Contact.Email
	m.ContactPhone = c.Contact.Phone
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
