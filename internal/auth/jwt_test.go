package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

func testUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:    uuid.New(),
		Email: "reception@clinic.local",
		Role:  role,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	user := testUser(domain.RoleReceptionist)

	token, err := GenerateToken(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleReceptionist, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(domain.RoleAdmin), "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(testUser(domain.RoleAdmin), "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	require.Error(t, err)
}

func TestValidateTokenRejectsUnknownRole(t *testing.T) {
	user := testUser(domain.Role("janitor"))
	token, err := GenerateToken(user, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	require.Error(t, err)
}
