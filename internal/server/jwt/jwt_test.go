package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GenerateAndValidate(t *testing.T) {
	s := NewService("test-secret-key", time.Hour)

	token, expiresAt, err := s.GenerateToken("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Identity)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "gophtask", claims.Issuer)
}

func TestService_GenerateToken_InvalidIdentity(t *testing.T) {
	s := NewService("test-secret-key", time.Hour)

	_, _, err := s.GenerateToken("a")
	assert.Error(t, err)

	_, _, err = s.GenerateToken("bad identity")
	assert.Error(t, err)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	s := NewService("test-secret-key", time.Minute)
	issued := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	token, _, err := s.GenerateToken("alice")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	token, _, err := NewService("secret-one", time.Hour).GenerateToken("alice")
	require.NoError(t, err)

	_, err = NewService("secret-two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_Malformed(t *testing.T) {
	s := NewService("test-secret-key", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestService_ValidateToken_RejectsForeignIssuer(t *testing.T) {
	s := NewService("test-secret-key", time.Hour)

	claims := Claims{
		Identity: "alice",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_RejectsInvalidIdentityClaim(t *testing.T) {
	s := NewService("test-secret-key", time.Hour)

	claims := Claims{
		Identity: "",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "gophtask",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	s := NewService("test-secret-key", time.Hour)

	claims := Claims{
		Identity: "alice",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "gophtask",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
