package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAPI(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "app.yml")

	configContent := []byte(`
apiPort: 8082
database:
  type: sqlite
  path: ":memory:"
auth:
  jwtSecret: test-secret
`)
	require.NoError(t, os.WriteFile(configPath, configContent, 0644))

	apiServer, db, err := initializeAPI(configPath)
	require.NoError(t, err)
	require.NotNil(t, apiServer)
	defer db.Close()

	assert.Equal(t, 8082, apiServer.Config.APIPort)
	assert.NotNil(t, apiServer.Router)
}

func TestInitializeAPIMissingSecret(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "app.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("apiPort: 8082\n"), 0644))

	apiServer, db, err := initializeAPI(configPath)
	assert.Error(t, err)
	assert.Nil(t, apiServer)
	assert.Nil(t, db)
}
