package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
app:
  name: rental-wizard
  environment: test
database:
  postgres:
    host: localhost
    port: 5432
    database: wizard
    user: wizard
    password: secret
  redis:
    address: localhost:6379
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.ListenAddr)
	assert.Equal(t, "application-review", cfg.Camunda.ReviewProcessID)
	assert.Equal(t, 500, cfg.Autosave.QuietPeriod)
	assert.Equal(t, 10000, cfg.Autosave.SaveTimeout)
	assert.Equal(t, 300000, cfg.Autosave.DocumentCacheTTL)
	assert.Equal(t, "submitted-applications", cfg.Search.ApplicationsIndex)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExplicitValuesWin(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig+`
autosave:
  quiet_period: 250
  save_timeout: 4000
search:
  applications_index: apps-staging
`))
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Autosave.QuietPeriod)
	assert.Equal(t, 4000, cfg.Autosave.SaveTimeout)
	assert.Equal(t, "apps-staging", cfg.Search.ApplicationsIndex)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_WIZARD_DB_PASSWORD", "s3cret-from-env")

	cfg, err := LoadFromFile(writeConfigFile(t, `
app:
  name: rental-wizard
database:
  postgres:
    host: localhost
    database: wizard
    user: wizard
    password: ${TEST_WIZARD_DB_PASSWORD}
  redis:
    address: localhost:6379
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cret-from-env", cfg.Database.Postgres.Password)
}

func TestLoadFromFile_ValidatesRequiredFields(t *testing.T) {
	_, err := LoadFromFile(writeConfigFile(t, `
app:
  name: rental-wizard
database:
  redis:
    address: localhost:6379
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.host")
}

func TestGetDSN(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	dsn := cfg.Database.Postgres.GetDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=wizard")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, GetDuration(500))
	assert.Equal(t, 5*time.Minute, GetDuration(300000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
