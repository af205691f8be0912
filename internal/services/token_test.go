package services

import (
	"testing"
	"time"

	"github.com/entescheme/ente-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser(role models.Role) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Username: "anitha", Email: "anitha@example.com", Role: role}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	clock := newTestClock()
	issuer := NewTokenIssuer("secret", "ente-api", time.Hour, clock.Now)
	user := testUser(models.RoleAdmin)

	token, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), expiresAt)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.Subject)
	assert.Equal(t, "anitha@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestTokenIssuer_Rejects(t *testing.T) {
	clock := newTestClock()
	issuer := NewTokenIssuer("secret", "ente-api", time.Hour, clock.Now)
	token, _, err := issuer.Issue(testUser(models.RoleUser))
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("other", "ente-api", time.Hour, clock.Now)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenIssuer("secret", "someone-else", time.Hour, clock.Now)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("secret", "ente-api", time.Hour, func() time.Time { return testNow.Add(2 * time.Hour) })
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := &models.JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "x",
			Issuer:    "ente-api",
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
