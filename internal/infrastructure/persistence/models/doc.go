// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// - base.go: BaseModel and AggregateModel
// - partner.go: companies and clients
// - quotation.go: quotations and their line items
// - note.go: notes
// - identity.go: users
package models
