package note

import (
	"time"

	"github.com/cotizador/backend/internal/domain/note"
	"github.com/google/uuid"
)

// NoteRequest represents a request to create or edit a note
type NoteRequest struct {
	Text string `json:"text" binding:"max=10000"`
}

// NoteResponse represents a note in API responses
type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToNoteResponse converts a domain Note to NoteResponse
func ToNoteResponse(n *note.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Text:      n.Text,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
