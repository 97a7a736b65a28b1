package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	user, err := CreateUser("Maria Silva", "maria@example.com", "segredo123")
	require.NoError(t, err)

	assert.NotEqual(t, "segredo123", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "bcrypt hash expected")
	assert.True(t, user.CheckPassword("segredo123"))
	assert.False(t, user.CheckPassword("outrasenha"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("", "maria@example.com", "segredo123")
	assert.Error(t, err, "name is required")

	_, err = CreateUser("Maria Silva", "not-an-email", "segredo123")
	assert.Error(t, err, "email must be well-formed")
}

func TestUserJSONHidesPassword(t *testing.T) {
	user, err := CreateUser("Maria Silva", "maria@example.com", "segredo123")
	require.NoError(t, err)

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "password")
	assert.NotContains(t, string(raw), "segredo123")
	assert.Equal(t, "maria@example.com", out["email"])
}

func TestCheckPasswordHashRejectsGarbageHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("segredo123", "not-a-hash"))
}
