package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidKind(t *testing.T) {
	assert.True(t, ValidKind(KindPersonal))
	assert.True(t, ValidKind(KindProfessional))
	assert.False(t, ValidKind(""))
	assert.False(t, ValidKind("corporate"))
}

func TestValidAssetStatus(t *testing.T) {
	assert.True(t, ValidAssetStatus(AssetStatusOwned))
	assert.True(t, ValidAssetStatus(AssetStatusListed))
	assert.True(t, ValidAssetStatus(AssetStatusSold))
	assert.False(t, ValidAssetStatus(""))
	assert.False(t, ValidAssetStatus("borrowed"))
}

func TestUserJSONHidesSecrets(t *testing.T) {
	now := time.Now()
	user := User{
		ID:        "u1",
		Email:     "alice@example.com",
		Password:  "bcrypt-hash",
		DeletedAt: &now,
	}

	payload, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.NotContains(t, decoded, "password")
	assert.NotContains(t, decoded, "deleted_at")
	assert.Equal(t, "alice@example.com", decoded["email"])
}

func TestSessionJSONHidesToken(t *testing.T) {
	session := Session{ID: "s1", UserID: "u1", Token: "jwt-value"}

	payload, err := json.Marshal(session)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "jwt-value")
}
