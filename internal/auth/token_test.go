package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	actor := domain.Actor{ID: "u1", DepartmentID: "IT", Role: domain.RoleMember}
	token, expiresAt, err := tm.GenerateToken(actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	parsed, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, &actor, parsed)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken(domain.Actor{ID: "u1", DepartmentID: "IT", Role: domain.RoleMember})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", 60).ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestServiceKeyRoundTrip(t *testing.T) {
	hash, err := HashServiceKey("hunter2", 0)
	require.NoError(t, err)

	require.NoError(t, VerifyServiceKey(hash, "hunter2"))
	require.Error(t, VerifyServiceKey(hash, "wrong"))
}
