package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/goliatone/go-session"
)

var testSigningKey = []byte("test-signing-key")

func newTestTokenService() session.TokenService {
	return session.NewTokenService(testSigningKey, 0, "test-issuer", jwt.ClaimStrings{"test-app"}, &recordingLogger{})
}

func testIdentity() session.Identity {
	return session.NewIdentityFromUser(&session.User{
		Name:   "Test User",
		Email:  "test@example.com",
		Role:   session.RoleStandard,
		Status: session.UserStatusActive,
	})
}

func TestTokenService_MintAndDecode(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Mint(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := svc.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "Test User", claims.Name())
	assert.Equal(t, string(session.RoleStandard), claims.Role())
	assert.NotEmpty(t, claims.RegisteredClaims.ID, "tokens should carry a unique jti")
	assert.Equal(t, "test-issuer", claims.RegisteredClaims.Issuer)
	assert.Contains(t, claims.RegisteredClaims.Audience, "test-app")

	// default TTL is 30 days
	expected := time.Now().Add(720 * time.Hour)
	assert.WithinDuration(t, expected, claims.Expires(), time.Minute)
	assert.False(t, claims.ExpiredAt(time.Now()))
}

func TestTokenService_DecodeFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestTokenService()

	good, err := svc.Mint(testIdentity())
	require.NoError(t, err)

	otherSvc := session.NewTokenService([]byte("a-different-key"), 0, "test-issuer", nil, &recordingLogger{})

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"truncated", good[:len(good)-10]},
		{"tampered payload", tamperToken(t, good)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Decode(tt.raw)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.True(t, session.IsMalformedError(err))
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		claims, err := otherSvc.Decode(good)
		require.Error(t, err)
		assert.Nil(t, claims)
		assert.True(t, session.IsMalformedError(err))
	})
}

// tamperToken flips the payload segment so the signature no longer matches.
func tamperToken(t *testing.T, token string) string {
	t.Helper()

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	return strings.Join(parts, ".")
}

func TestTokenService_DecodeSkipsExpiryValidation(t *testing.T) {
	svc := newTestTokenService()

	past := time.Now().Add(-48 * time.Hour)
	signed, err := svc.SignClaims(&session.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "expired-user",
			ExpiresAt: jwt.NewNumericDate(past),
		},
	})
	require.NoError(t, err)

	claims, err := svc.Decode(signed)
	require.NoError(t, err, "decode must succeed even when the token is stale")
	assert.Equal(t, "expired-user", claims.Subject())
	assert.True(t, claims.ExpiredAt(time.Now()))
}

func TestTokenService_SignClaimsRequiresClaims(t *testing.T) {
	svc := newTestTokenService()

	signed, err := svc.SignClaims(nil)
	assert.Error(t, err)
	assert.Empty(t, signed)
}

func TestTokenService_ExpirationOverride(t *testing.T) {
	svc := session.NewTokenService(testSigningKey, 1, "test-issuer", nil, nil)

	token, err := svc.Mint(testIdentity())
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	require.NoError(t, err)

	expected := time.Now().Add(time.Hour)
	assert.WithinDuration(t, expected, claims.Expires(), time.Minute)
}
