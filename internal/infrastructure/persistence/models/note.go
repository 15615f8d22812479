package models

import (
	"github.com/cotizador/backend/internal/domain/note"
)

// NoteModel is the persistence model for a Note.
type NoteModel struct {
	BaseModel
	Text string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (NoteModel) TableName() string {
	return "notes"
}

// ToDomain converts the persistence model to a domain Note.
func (m *NoteModel) ToDomain() *note.Note {
	return &note.Note{
		BaseEntity: m.BaseModel.ToDomain(),
		Text:       m.Text,
	}
}

// NoteModelFromDomain creates a new persistence model from a domain Note.
func NoteModelFromDomain(n *note.Note) *NoteModel {
	m := &NoteModel{Text: n.Text}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}
