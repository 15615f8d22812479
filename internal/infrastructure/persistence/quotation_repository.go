package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cotizador/backend/internal/domain/quotation"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/cotizador/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuotationRepository implements quotation.Repository, quotation.ViewReader
// and quotation.SummaryReader using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds a quotation that has not been deleted, with its items
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	model, err := r.findModel(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormQuotationRepository) findModel(ctx context.Context, id uuid.UUID) (*models.QuotationModel, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quotation.ErrQuotationNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindAll lists quotations matching the filter, with their items
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quotation.Quotation, error) {
	rows, err := r.findModels(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]quotation.Quotation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormQuotationRepository) findModels(ctx context.Context, filter shared.Filter) ([]models.QuotationModel, error) {
	var rows []models.QuotationModel
	query := applyPaging(r.scoped(ctx, filter), filter, QuotationSortFields).
		Preload("Items", orderedItems)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count counts quotations matching the filter
func (r *GormQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber reports whether another quotation uses number.
// Deleted quotations keep their number reserved, matching the unique index.
func (r *GormQuotationRepository) ExistsByNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.QuotationModel{}).
		Where("quotation_number = ?", strings.TrimSpace(number))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a quotation and replaces its items
func (r *GormQuotationRepository) Save(ctx context.Context, q *quotation.Quotation) error {
	model := models.QuotationModelFromDomain(q)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return quotation.ErrDuplicateNumber
			}
			return err
		}
		if err := tx.Where("quotation_id = ?", model.ID).Delete(&models.QuotationItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear quotation items: %w", err)
		}
		if len(model.Items) == 0 {
			return nil
		}
		if err := tx.Create(&model.Items).Error; err != nil {
			return fmt.Errorf("failed to save quotation items: %w", err)
		}
		return nil
	})
}

// LoadView builds the render projection of an active quotation.
// The company and client are read even if they were deleted since.
func (r *GormQuotationRepository) LoadView(ctx context.Context, id uuid.UUID) (*quotation.View, error) {
	model, err := r.findModel(ctx, id)
	if err != nil {
		return nil, err
	}

	var company models.CompanyModel
	if err := r.db.WithContext(ctx).First(&company, "id = ?", model.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Empresa de la cotización no encontrada")
		}
		return nil, err
	}

	var client models.ClientModel
	if err := r.db.WithContext(ctx).First(&client, "id = ?", model.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Cliente de la cotización no encontrado")
		}
		return nil, err
	}

	view := quotation.NewView(model.ToDomain(), company.ToDomain(), client.ToDomain(), time.Time{})
	return &view, nil
}

// ListSummaries lists quotations joined with their company and client names
func (r *GormQuotationRepository) ListSummaries(ctx context.Context, filter shared.Filter) ([]quotation.Summary, error) {
	rows, err := r.findModels(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []quotation.Summary{}, nil
	}

	companyIDs := make([]uuid.UUID, 0, len(rows))
	clientIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		companyIDs = append(companyIDs, row.CompanyID)
		clientIDs = append(clientIDs, row.ClientID)
	}

	companyNames, err := r.names(ctx, &models.CompanyModel{}, companyIDs)
	if err != nil {
		return nil, err
	}
	clientNames, err := r.names(ctx, &models.ClientModel{}, clientIDs)
	if err != nil {
		return nil, err
	}

	out := make([]quotation.Summary, len(rows))
	for i := range rows {
		out[i] = quotation.Summary{
			Quotation:   *rows[i].ToDomain(),
			CompanyName: companyNames[rows[i].CompanyID],
			ClientName:  clientNames[rows[i].ClientID],
		}
	}
	return out, nil
}

type idName struct {
	ID   uuid.UUID
	Name string
}

func (r *GormQuotationRepository) names(ctx context.Context, model any, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	var rows []idName
	if err := r.db.WithContext(ctx).Model(model).
		Select("id", "name").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}

func (r *GormQuotationRepository) scoped(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.QuotationModel{}).Where("is_deleted = ?", false)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where(`LOWER(quotation_number) LIKE ? ESCAPE '\'`, searchPattern(filter.Search))
	}
	if id, ok := filter.Filters["company_id"].(uuid.UUID); ok && id != uuid.Nil {
		query = query.Where("company_id = ?", id)
	}
	if id, ok := filter.Filters["client_id"].(uuid.UUID); ok && id != uuid.Nil {
		query = query.Where("client_id = ?", id)
	}
	return query
}
