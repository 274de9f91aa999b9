package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/domain"
)

func TestParseRole(t *testing.T) {
	for _, r := range domain.Roles() {
		got, err := domain.ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	got, err := domain.ParseRole(" referee ")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReferee, got)

	_, err = domain.ParseRole("COACH")
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestRoleHomePath(t *testing.T) {
	assert.Equal(t, "/admin", domain.RoleAdmin.HomePath())
	assert.Equal(t, "/referee", domain.RoleReferee.HomePath())
	assert.Equal(t, "/player", domain.RolePlayer.HomePath())
	assert.Equal(t, "/", domain.Role(0).HomePath())
}

func TestUserJSONRole(t *testing.T) {
	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"username":"ana","role":"ADMIN"}`), &u))
	assert.Equal(t, domain.RoleAdmin, u.Role)

	err := json.Unmarshal([]byte(`{"id":3,"role":"COACH"}`), &u)
	assert.Error(t, err)
}

func TestUserInputOmitsUnsetFields(t *testing.T) {
	in := domain.UserInput{Username: "ana"}
	in.SetPassword("   ")
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), "role")

	in.SetPassword(" secret ")
	in.WithRole(domain.RoleReferee)
	data, err = json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"password":"secret"`)
	assert.Contains(t, string(data), `"role":"REFEREE"`)
}
