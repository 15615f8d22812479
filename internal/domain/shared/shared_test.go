package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500, OrderDir: "sideways"}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "created_at", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)

	f = Filter{Page: 3, PageSize: 10, OrderBy: "name", OrderDir: "asc"}.Normalize()
	assert.Equal(t, 20, f.Offset())
	assert.Equal(t, "asc", f.OrderDir)
}

func TestBaseAggregateRoot_MarkDeleted(t *testing.T) {
	a := NewBaseAggregateRoot()
	require.NoError(t, a.MarkDeleted())
	assert.True(t, a.IsDeleted())
	assert.Equal(t, 2, a.Version)

	assert.ErrorIs(t, a.MarkDeleted(), ErrNotFound)
}

func TestDomainError_Is(t *testing.T) {
	localized := NewDomainError("NOT_FOUND", "Cliente no encontrado")
	assert.True(t, errors.Is(localized, ErrNotFound))
	assert.False(t, errors.Is(localized, ErrAlreadyExists))
	assert.EqualError(t, localized, "Cliente no encontrado")
}
