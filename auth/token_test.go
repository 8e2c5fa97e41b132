package auth

import (
	"testing"
	"time"

	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	token, err := IssueToken(secret, "u1", "ana@example.com", models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, models.Actor{UserID: "u1", Role: models.RoleCustomer}, claims.Actor())
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := IssueToken(secret, "u1", "", models.RoleCustomer, -time.Minute)
	require.NoError(t, err)

	otherKey, err := IssueToken("another-secret", "u1", "", models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u1"}).SignedString([]byte(secret))
	require.NoError(t, err)

	noUser, err := IssueToken(secret, "", "", models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"other key": otherKey,
		"no expiry": noExpiry,
		"no user":   noUser,
		"garbage":   "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(secret, token)
			assert.Error(t, err)
		})
	}
}

func TestClaimsActor(t *testing.T) {
	guest := &Claims{UserID: "guest_1", Role: RoleGuest}
	assert.True(t, guest.Actor().IsGuest())

	admin := &Claims{UserID: "boss", Role: models.RoleAdmin}
	assert.True(t, admin.Actor().IsAdmin())

	noRole := &Claims{UserID: "u1"}
	assert.Equal(t, models.RoleCustomer, noRole.Actor().Role)
}
