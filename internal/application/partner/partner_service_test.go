package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/cotizador/backend/internal/domain/partner"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCompanyRepository is a mock implementation of CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Company, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByNIT(ctx context.Context, nit string) (bool, error) {
	args := m.Called(ctx, nit)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// =============================================================================
// Test Helpers
// =============================================================================

func validCompanyRequest() CompanyRequest {
	return CompanyRequest{
		Name:    "Acme S.A.S.",
		NIT:     "900123456-1",
		LogoURL: "https://cdn.example.com/logo.png",
		Email:   "ventas@acme.co",
		Representative: RepresentativeRequest{
			Name:         "Ana Gómez",
			Position:     "Gerente",
			Email:        "ana@acme.co",
			Phone:        "3001234567",
			SignatureURL: "https://cdn.example.com/firma.png",
		},
	}
}

func existingCompany(t *testing.T) *partner.Company {
	t.Helper()
	req := validCompanyRequest()
	company, err := partner.NewCompany(req.Name, req.NIT, req.Email, req.Representative.toDomain())
	require.NoError(t, err)
	return company
}

// =============================================================================
// CompanyService Tests
// =============================================================================

func TestCompanyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates company", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo)
		repo.On("ExistsByNIT", ctx, "900123456-1").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Company")).Return(nil)

		resp, err := svc.Create(ctx, validCompanyRequest())
		require.NoError(t, err)
		assert.Equal(t, "Acme S.A.S.", resp.Name)
		assert.Equal(t, "https://cdn.example.com/logo.png", resp.LogoURL)
		assert.Equal(t, "Ana Gómez", resp.Representative.Name)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate NIT", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo)
		repo.On("ExistsByNIT", ctx, "900123456-1").Return(true, nil)

		_, err := svc.Create(ctx, validCompanyRequest())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing representative", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo)
		repo.On("ExistsByNIT", ctx, mock.Anything).Return(false, nil)

		req := validCompanyRequest()
		req.Representative.Name = ""
		_, err := svc.Create(ctx, req)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_REPRESENTATIVE", domainErr.Code)
	})

	t.Run("rejects relative logo URL", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo)
		repo.On("ExistsByNIT", ctx, mock.Anything).Return(false, nil)

		req := validCompanyRequest()
		req.LogoURL = "/static/logo.png"
		_, err := svc.Create(ctx, req)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_URL", domainErr.Code)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo)
		repo.On("ExistsByNIT", ctx, mock.Anything).Return(false, nil)
		repo.On("Save", ctx, mock.Anything).Return(errors.New("connection refused"))

		_, err := svc.Create(ctx, validCompanyRequest())
		assert.EqualError(t, err, "connection refused")
	})
}

func TestCompanyService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)
	svc := NewCompanyService(repo)

	expectedFilter := shared.Filter{Page: 1, PageSize: 20, OrderBy: "name", OrderDir: "asc", Search: "acme"}
	repo.On("FindAll", ctx, expectedFilter).Return([]partner.Company{*existingCompany(t)}, nil)
	repo.On("Count", ctx, expectedFilter).Return(int64(1), nil)

	companies, total, err := svc.List(ctx, CompanyListFilter{Search: "acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme S.A.S.", companies[0].Name)
}

func TestCompanyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("same NIT skips duplicate check", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo)
		company := existingCompany(t)
		repo.On("FindByID", ctx, company.ID).Return(company, nil)
		repo.On("Save", ctx, company).Return(nil)

		req := validCompanyRequest()
		req.Name = "Acme Colombia S.A.S."
		req.LogoURL = ""
		resp, err := svc.Update(ctx, company.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Acme Colombia S.A.S.", resp.Name)
		assert.Empty(t, resp.LogoURL)
		assert.Equal(t, 2, resp.Version)
		repo.AssertNotCalled(t, "ExistsByNIT", mock.Anything, mock.Anything)
	})

	t.Run("changed NIT must be free", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo)
		company := existingCompany(t)
		repo.On("FindByID", ctx, company.ID).Return(company, nil)
		repo.On("ExistsByNIT", ctx, "800999999").Return(true, nil)

		req := validCompanyRequest()
		req.NIT = "800999999"
		_, err := svc.Update(ctx, company.ID, req)
		assert.ErrorIs(t, err, ErrDuplicateNIT)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, id, validCompanyRequest())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCompanyService_DeleteAndPDFData(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)
	svc := NewCompanyService(repo)
	company := existingCompany(t)
	repo.On("FindByID", ctx, company.ID).Return(company, nil)
	repo.On("Save", ctx, company).Return(nil)

	data, err := svc.GetPDFData(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "900123456-1", data.NIT)
	assert.Equal(t, "https://cdn.example.com/firma.png", data.Representative.SignatureURL)

	require.NoError(t, svc.Delete(ctx, company.ID))
	assert.True(t, company.IsDeleted())
	assert.ErrorIs(t, svc.Delete(ctx, company.ID), shared.ErrNotFound, "a deleted company cannot be deleted again")
}

// =============================================================================
// ClientService Tests
// =============================================================================

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults country to Colombia", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

		resp, err := svc.Create(ctx, ClientRequest{
			Name:    "Cliente Uno",
			City:    "Medellín",
			Contact: ContactRequest{Name: "Luis Pérez", Position: "Compras"},
		})
		require.NoError(t, err)
		assert.Equal(t, partner.DefaultCountry, resp.Country)
		assert.Equal(t, "Luis Pérez", resp.Contact.Name)
		assert.Equal(t, "Medellín", resp.City)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		svc := NewClientService(new(MockClientRepository))
		_, err := svc.Create(ctx, ClientRequest{Name: "  "})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("rejects bad contact email", func(t *testing.T) {
		svc := NewClientService(new(MockClientRepository))
		_, err := svc.Create(ctx, ClientRequest{Name: "Cliente", Contact: ContactRequest{Email: "no-es-email"}})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})
}

func TestClientService_UpdateListDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	svc := NewClientService(repo)

	client, err := partner.NewClient("Cliente Uno")
	require.NoError(t, err)
	repo.On("FindByID", ctx, client.ID).Return(client, nil)
	repo.On("Save", ctx, client).Return(nil)

	resp, err := svc.Update(ctx, client.ID, ClientRequest{Name: "Cliente Uno S.A.", Country: "Perú"})
	require.NoError(t, err)
	assert.Equal(t, "Cliente Uno S.A.", resp.Name)
	assert.Equal(t, "Perú", resp.Country)

	filter := shared.Filter{Page: 2, PageSize: 10, OrderBy: "city", OrderDir: "desc"}
	repo.On("FindAll", ctx, filter).Return([]partner.Client{*client}, nil)
	repo.On("Count", ctx, filter).Return(int64(11), nil)
	clients, total, err := svc.List(ctx, ClientListFilter{Page: 2, PageSize: 10, OrderBy: "city", OrderDir: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	assert.Len(t, clients, 1)

	require.NoError(t, svc.Delete(ctx, client.ID))
	assert.True(t, client.IsDeleted())

	_, err = svc.Update(ctx, client.ID, ClientRequest{Name: "Otro"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
