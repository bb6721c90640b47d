package awauth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "ops@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestTokensCarryUniqueJTIs(t *testing.T) {
	first, err := GenerateToken(testSecret, 1, "a@example.com")
	require.NoError(t, err)

	second, err := GenerateToken(testSecret, 1, "a@example.com")
	require.NoError(t, err)

	firstClaims, err := ValidateToken(testSecret, first)
	require.NoError(t, err)

	secondClaims, err := ValidateToken(testSecret, second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestWrongSecretIsRejected(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "ops@example.com")
	require.NoError(t, err)

	_, err = ValidateToken("a-different-secret", token)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	claims := Claims{
		UserID: 42,
		Email:  "ops@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateToken(testSecret, signed)
	assert.Error(t, err)
}

func TestUnexpectedSigningMethodIsRejected(t *testing.T) {
	// alg=none tokens must never validate.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 42})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(testSecret, signed)
	assert.Error(t, err)
}
