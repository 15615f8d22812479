package persistence

import (
	"context"
	"errors"

	"github.com/cotizador/backend/internal/domain/note"
	"github.com/cotizador/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNoteRepository implements note.Repository using GORM
type GormNoteRepository struct {
	db *gorm.DB
}

// NewGormNoteRepository creates a new GormNoteRepository
func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db}
}

// FindByID finds a note by its ID
func (r *GormNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*note.Note, error) {
	var model models.NoteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, note.ErrNoteNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every note, newest first
func (r *GormNoteRepository) FindAll(ctx context.Context) ([]note.Note, error) {
	var rows []models.NoteModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	notes := make([]note.Note, len(rows))
	for i := range rows {
		notes[i] = *rows[i].ToDomain()
	}
	return notes, nil
}

// Save creates or updates a note
func (r *GormNoteRepository) Save(ctx context.Context, n *note.Note) error {
	return r.db.WithContext(ctx).Save(models.NoteModelFromDomain(n)).Error
}

// Delete removes a note
func (r *GormNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.NoteModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return note.ErrNoteNotFound
	}
	return nil
}
