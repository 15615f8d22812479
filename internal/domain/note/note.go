package note

import (
	"context"
	"strings"

	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrTextRequired is returned when a note has no text
var ErrTextRequired = shared.NewDomainError("INVALID_INPUT", "El texto es requerido")

// ErrNoteNotFound is returned when a note does not exist
var ErrNoteNotFound = shared.NewDomainError("NOT_FOUND", "Nota no encontrada")

// Note is a free-text memo shared by all users
type Note struct {
	shared.BaseEntity
	Text string
}

// NewNote creates a note
func NewNote(text string) (*Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	return &Note{
		BaseEntity: shared.NewBaseEntity(),
		Text:       text,
	}, nil
}

// Edit replaces the note's text
func (n *Note) Edit(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextRequired
	}
	n.Text = text
	n.Touch()
	return nil
}

// Repository defines the interface for note persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Note, error)
	// FindAll returns notes newest first
	FindAll(ctx context.Context) ([]Note, error)
	Save(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id uuid.UUID) error
}
