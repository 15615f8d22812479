package note

import (
	"context"

	"github.com/cotizador/backend/internal/domain/note"
	"github.com/google/uuid"
)

// Service handles note operations
type Service struct {
	repo note.Repository
}

// NewService creates a new note Service
func NewService(repo note.Repository) *Service {
	return &Service{repo: repo}
}

// List returns all notes, newest first
func (s *Service) List(ctx context.Context) ([]NoteResponse, error) {
	notes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]NoteResponse, len(notes))
	for i := range notes {
		responses[i] = ToNoteResponse(&notes[i])
	}
	return responses, nil
}

// Create creates a note
func (s *Service) Create(ctx context.Context, req NoteRequest) (*NoteResponse, error) {
	n, err := note.NewNote(req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := ToNoteResponse(n)
	return &response, nil
}

// Update replaces a note's text
func (s *Service) Update(ctx context.Context, id uuid.UUID, req NoteRequest) (*NoteResponse, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := n.Edit(req.Text); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := ToNoteResponse(n)
	return &response, nil
}

// Delete removes a note
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
