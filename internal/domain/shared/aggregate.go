package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every stored record has
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// BaseAggregateRoot adds optimistic versioning and logical deletion.
// Companies, clients and quotations are never removed from storage,
// so a printed quotation can always resolve who issued it.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	Deleted bool
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// IsDeleted reports whether the aggregate was logically deleted
func (a *BaseAggregateRoot) IsDeleted() bool {
	return a.Deleted
}

// MarkDeleted performs a logical delete. Deleting twice reports ErrNotFound,
// since a deleted aggregate is invisible to every finder.
func (a *BaseAggregateRoot) MarkDeleted() error {
	if a.Deleted {
		return ErrNotFound
	}
	a.Deleted = true
	a.IncrementVersion()
	a.Touch()
	return nil
}
