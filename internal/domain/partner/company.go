package partner

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cotizador/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Representative is the person who signs quotations on behalf of a company
type Representative struct {
	Name         string
	Position     string
	Email        string
	Phone        string
	SignatureURL string
}

// Validate checks the representative's fields
func (r Representative) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return shared.NewDomainError("INVALID_REPRESENTATIVE", "El nombre del representante es obligatorio")
	}
	if len(r.Name) > 200 {
		return shared.NewDomainError("INVALID_REPRESENTATIVE", "Representative name cannot exceed 200 characters")
	}
	if r.Email != "" {
		if err := validateEmail(r.Email); err != nil {
			return err
		}
	}
	return validateAssetURL(r.SignatureURL)
}

// Company is the issuer of quotations
type Company struct {
	shared.BaseAggregateRoot
	Name           string
	NIT            string
	LogoURL        string
	Email          string
	Representative Representative
}

// NewCompany creates a new company with required fields
func NewCompany(name, nit, email string, rep Representative) (*Company, error) {
	c := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	if err := c.apply(name, nit, email, rep); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the company's data
func (c *Company) Update(name, nit, email string, rep Representative) error {
	if c.Deleted {
		return shared.ErrNotFound
	}
	if err := c.apply(name, nit, email, rep); err != nil {
		return err
	}
	c.IncrementVersion()
	c.Touch()
	return nil
}

// SetLogoURL sets or clears the company logo location
func (c *Company) SetLogoURL(logoURL string) error {
	if err := validateAssetURL(logoURL); err != nil {
		return err
	}
	c.LogoURL = strings.TrimSpace(logoURL)
	c.Touch()
	return nil
}

func (c *Company) apply(name, nit, email string, rep Representative) error {
	name = strings.TrimSpace(name)
	nit = strings.TrimSpace(nit)
	email = strings.TrimSpace(email)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "El nombre es obligatorio")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	if nit == "" {
		return shared.NewDomainError("INVALID_NIT", "El NIT es obligatorio")
	}
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "El email es obligatorio")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := rep.Validate(); err != nil {
		return err
	}
	c.Name = name
	c.NIT = nit
	c.Email = email
	c.Representative = rep
	return nil
}

func validateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// validateAssetURL accepts empty values or absolute http(s) URLs
func validateAssetURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return shared.NewDomainError("INVALID_URL", "Asset URL must be an absolute http(s) URL")
	}
	return nil
}
