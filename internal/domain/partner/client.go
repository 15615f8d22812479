package partner

import (
	"strings"

	"github.com/cotizador/backend/internal/domain/shared"
)

// DefaultCountry is assigned to clients created without a country
const DefaultCountry = "Colombia"

// Contact is the person at the client who receives a quotation
type Contact struct {
	Name     string
	Position string
	Email    string
	Phone    string
}

// Client is the recipient of quotations
type Client struct {
	shared.BaseAggregateRoot
	Name     string
	Document string
	Address  string
	City     string
	Country  string
	Email    string
	Phone    string
	Contact  Contact
}

// NewClient creates a new client. Country defaults to Colombia.
func NewClient(name string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Country:           DefaultCountry,
	}, nil
}

// Rename changes the client's display name
func (c *Client) Rename(name string) error {
	if c.Deleted {
		return shared.ErrNotFound
	}
	if err := validateClientName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.IncrementVersion()
	c.Touch()
	return nil
}

// SetLocation sets document, address, city and country
func (c *Client) SetLocation(document, address, city, country string) {
	c.Document = strings.TrimSpace(document)
	c.Address = strings.TrimSpace(address)
	c.City = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if country == "" {
		country = DefaultCountry
	}
	c.Country = country
	c.Touch()
}

// SetReachability sets the client's own email and phone
func (c *Client) SetReachability(email, phone string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.Touch()
	return nil
}

// SetContact sets the contact person
func (c *Client) SetContact(contact Contact) error {
	contact.Email = strings.TrimSpace(contact.Email)
	if contact.Email != "" {
		if err := validateEmail(contact.Email); err != nil {
			return err
		}
	}
	if len(contact.Name) > 200 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 200 characters")
	}
	c.Contact = contact
	c.Touch()
	return nil
}

func validateClientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "El nombre es obligatorio")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}
