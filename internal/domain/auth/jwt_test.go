package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expiresAt, err := svc.GenerateAccessToken("uid-1", "sub-1", "a@example.com", "Ada", "Student")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	u, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", u.UserID)
	assert.Equal(t, "sub-1", u.SSOID)
	assert.Equal(t, "a@example.com", u.Email)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "Student", u.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken("uid-1", "", "a@example.com", "", "Student")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken("uid-1", "", "a@example.com", "", "Student")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsUnsignedAlg(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "uid-1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
