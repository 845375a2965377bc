package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alikh-collab/TAZA-back/internal/models"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", 7*24*time.Hour)

	token, err := issuer.Issue(42, "a@x.com", models.UserRoleAdmin)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, models.UserRoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("secret", 7*24*time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, err := issuer.Issue(1, "a@x.com", models.UserRoleUser)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_BadSignature(t *testing.T) {
	token, err := NewTokenIssuer("secret", time.Hour).Issue(1, "a@x.com", models.UserRoleUser)
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Verify(unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHasher_Argon2(t *testing.T) {
	hasher := NewPasswordHasher(SchemeArgon2id, 12)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hash), "$argon2id$v=19$"))

	ok, err := hasher.Verify("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_Bcrypt(t *testing.T) {
	hasher := NewPasswordHasher(SchemeBcrypt, bcrypt.MinCost)

	hash, err := hasher.Hash("user123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hash), "$2a$"))

	ok, err := hasher.Verify("user123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("nope", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_LegacyBcryptWithArgonHasher(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := NewPasswordHasher(SchemeArgon2id, 12).Verify("admin123", legacy)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_UnknownFormat(t *testing.T) {
	_, err := VerifyPassword("x", []byte("plaintext"))
	assert.ErrorIs(t, err, ErrUnknownHashFormat)
}
