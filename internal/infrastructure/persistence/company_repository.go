package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/cotizador/backend/internal/domain/partner"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/cotizador/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements partner.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company that has not been deleted
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists companies matching the filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Company, error) {
	var rows []models.CompanyModel
	query := applyPaging(r.scoped(ctx, filter), filter, CompanySortFields)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	companies := make([]partner.Company, len(rows))
	for i := range rows {
		companies[i] = *rows[i].ToDomain()
	}
	return companies, nil
}

// Count counts companies matching the filter
func (r *GormCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNIT reports whether an active company already uses nit
func (r *GormCompanyRepository) ExistsByNIT(ctx context.Context, nit string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CompanyModel{}).
		Where("nit = ? AND is_deleted = ?", strings.TrimSpace(nit), false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	return r.db.WithContext(ctx).Save(models.CompanyModelFromDomain(company)).Error
}

func (r *GormCompanyRepository) scoped(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CompanyModel{}).Where("is_deleted = ?", false)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, searchPattern(filter.Search))
	}
	return query
}
