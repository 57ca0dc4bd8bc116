package identity

import (
	"testing"
	"time"

	"community-chat/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestResolveValidToken(t *testing.T) {
	p := NewJWTProvider(testSecret)

	token := signToken(t, jwt.MapClaims{
		"sub":   "u1",
		"name":  "Ada",
		"role":  "doctor",
		"owner": false,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	id, err := p.Resolve(token)
	require.NoError(t, err)

	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "Ada", id.Name)
	assert.Equal(t, domain.RoleDoctor, id.Role)
	assert.False(t, id.SystemOwner)

	actor := id.Actor()
	assert.True(t, actor.Privileged())
}

func TestResolveSystemOwnerFlag(t *testing.T) {
	p := NewJWTProvider(testSecret)

	token := signToken(t, jwt.MapClaims{
		"sub":   "boss",
		"role":  "student",
		"owner": true,
	}, testSecret)

	id, err := p.Resolve(token)
	require.NoError(t, err)
	assert.True(t, id.SystemOwner)
	assert.True(t, id.Actor().Privileged())
}

func TestResolveRejectsBadTokens(t *testing.T) {
	p := NewJWTProvider(testSecret)

	_, err := p.Resolve("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.Resolve("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongKey := signToken(t, jwt.MapClaims{"sub": "u1"}, "other-secret")
	_, err = p.Resolve(wrongKey)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := signToken(t, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testSecret)
	_, err = p.Resolve(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveDisabledAccount(t *testing.T) {
	p := NewJWTProvider(testSecret)

	token := signToken(t, jwt.MapClaims{
		"sub":      "u1",
		"disabled": true,
	}, testSecret)

	_, err := p.Resolve(token)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestResolveMissingSubject(t *testing.T) {
	p := NewJWTProvider(testSecret)

	token := signToken(t, jwt.MapClaims{"name": "nobody"}, testSecret)
	_, err := p.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
