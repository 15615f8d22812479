package partner

import (
	"testing"

	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepresentative() Representative {
	return Representative{
		Name:         "Laura Gómez",
		Position:     "Gerente Comercial",
		Email:        "laura@verdeagro.co",
		Phone:        "+57 300 123 4567",
		SignatureURL: "https://cdn.verdeagro.co/firma.png",
	}
}

func TestNewCompany(t *testing.T) {
	t.Run("creates company successfully", func(t *testing.T) {
		c, err := NewCompany("Verde Agro SAS", "900123456-7", "ventas@verdeagro.co", testRepresentative())

		require.NoError(t, err)
		assert.Equal(t, "Verde Agro SAS", c.Name)
		assert.Equal(t, "900123456-7", c.NIT)
		assert.Equal(t, 1, c.Version)
		assert.False(t, c.IsDeleted())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		c, err := NewCompany("  Verde Agro  ", " 900 ", " ventas@verdeagro.co ", testRepresentative())

		require.NoError(t, err)
		assert.Equal(t, "Verde Agro", c.Name)
		assert.Equal(t, "900", c.NIT)
		assert.Equal(t, "ventas@verdeagro.co", c.Email)
	})

	tests := []struct {
		name    string
		cname   string
		nit     string
		email   string
		rep     Representative
		wantMsg string
	}{
		{"empty name", "", "900", "a@b.co", testRepresentative(), "nombre"},
		{"empty nit", "X", "", "a@b.co", testRepresentative(), "NIT"},
		{"empty email", "X", "900", "", testRepresentative(), "email"},
		{"bad email", "X", "900", "not-an-email", testRepresentative(), "Invalid email"},
		{"missing representative", "X", "900", "a@b.co", Representative{}, "representante"},
		{"bad signature url", "X", "900", "a@b.co", Representative{Name: "R", SignatureURL: "ftp://x/y.png"}, "http(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCompany(tt.cname, tt.nit, tt.email, tt.rep)

			assert.Nil(t, c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCompany_Update(t *testing.T) {
	c, err := NewCompany("Verde Agro", "900", "a@b.co", testRepresentative())
	require.NoError(t, err)

	rep := testRepresentative()
	rep.Name = "Carlos Ruiz"
	require.NoError(t, c.Update("Verde Agro Holding", "901", "c@d.co", rep))

	assert.Equal(t, "Verde Agro Holding", c.Name)
	assert.Equal(t, "Carlos Ruiz", c.Representative.Name)
	assert.Equal(t, 2, c.Version)

	t.Run("invalid update keeps previous state", func(t *testing.T) {
		err := c.Update("", "901", "c@d.co", rep)
		assert.Error(t, err)
		assert.Equal(t, "Verde Agro Holding", c.Name)
	})

	t.Run("deleted company cannot be updated", func(t *testing.T) {
		require.NoError(t, c.MarkDeleted())
		err := c.Update("Otra", "901", "c@d.co", rep)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCompany_SetLogoURL(t *testing.T) {
	c, err := NewCompany("Verde Agro", "900", "a@b.co", testRepresentative())
	require.NoError(t, err)

	require.NoError(t, c.SetLogoURL("https://cdn.verdeagro.co/logo.png"))
	assert.Equal(t, "https://cdn.verdeagro.co/logo.png", c.LogoURL)

	require.NoError(t, c.SetLogoURL(""))
	assert.Empty(t, c.LogoURL)

	assert.Error(t, c.SetLogoURL("logo.png"))
}

func TestCompany_MarkDeletedTwice(t *testing.T) {
	c, err := NewCompany("Verde Agro", "900", "a@b.co", testRepresentative())
	require.NoError(t, err)

	require.NoError(t, c.MarkDeleted())
	assert.True(t, c.IsDeleted())
	assert.ErrorIs(t, c.MarkDeleted(), shared.ErrNotFound)
}
