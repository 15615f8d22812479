package auth

import (
	"testing"
	"time"

	"github.com/cotizador/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: time.Hour,
		Issuer:                "cotizador-test",
	})
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "ana@cotizador.co",
		Role:   "admin",
	}
}

func TestNewJWTService_DefaultsExpiration(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: testSecret})
	assert.Equal(t, 24*time.Hour, svc.Expiration())
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(newTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)
	assert.True(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.ID)

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)
	assert.Greater(t, claims.GetRemainingTTL(), 59*time.Minute)
	assert.False(t, claims.GetIssuedAtTime().IsZero())
}

func TestValidateToken_UniqueJTI(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	first, err := svc.GenerateToken(input)
	require.NoError(t, err)
	second, err := svc.GenerateToken(input)
	require.NoError(t, err)

	c1, err := svc.ValidateToken(first.AccessToken)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(second.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_NotYetValid(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token.AccessToken)

	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestValidateToken_Malformed(t *testing.T) {
	_, err := newTestJWTService().ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	other := NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-of-32-characters",
		AccessTokenExpiration: time.Hour,
		Issuer:                "cotizador-test",
	})
	token, err := other.GenerateToken(newTestInput())
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	other := NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "someone-else"})
	token, err := other.GenerateToken(newTestInput())
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cotizador-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.NewString(),
		Role:   "admin",
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingUserID(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cotizador-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "user",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateToken(signed)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).GetRemainingTTL())

	expired := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	assert.Zero(t, expired.GetRemainingTTL())
}
