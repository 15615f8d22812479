// Package testutil provides shared helpers for the cotizador test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/cotizador/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// NewTestUUID returns a deterministic UUID for the given seed
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("cotizador-test-"+seed))
}

// UniqueNumber returns a quotation number that does not collide across tests
func UniqueNumber(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// ContextWithTimeout returns a context that is cancelled when the test ends
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// AssertDecimalEqual compares a decimal against its canonical string form
func AssertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	if !assert.NoError(t, err) {
		return false
	}
	return assert.True(t, want.Equal(actual), append([]any{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}
