package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	token, err := Issue(42, RoleStudio, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Parse(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ID)
	assert.Equal(t, RoleStudio, claims.Role)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Issue(1, RoleMusician, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "other-secret")
	require.Error(t, err)
	assert.False(t, IsExpired(err))
}

func TestParse_Expired(t *testing.T) {
	token, err := Issue(7, RoleUser, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, testSecret)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}

func TestParse_Garbage(t *testing.T) {
	_, err := Parse("not-a-token", testSecret)
	require.Error(t, err)
	assert.False(t, IsExpired(err))
}

func TestRoleAllowed(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		allowed []string
		want    bool
	}{
		{"empty list allows any role", RoleUser, nil, true},
		{"role in list", RoleMusician, []string{RoleMusician, RoleStudio}, true},
		{"role not in list", RoleUser, []string{RoleMusician}, false},
		{"unknown role rejected", "admin", []string{RoleStudio}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleAllowed(tt.role, tt.allowed))
		})
	}
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleMusician))
	assert.True(t, IsValidRole(RoleStudio))
	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
}
