package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage_path: personas.db
http_server:
  address: localhost:8082
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "personas.db", cfg.StoragePath)
	assert.Equal(t, "localhost:8082", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadReadsEverySection(t *testing.T) {
	path := writeConfig(t, `
env: prod
storage_driver: gorm-postgres
database_dsn: "host=db user=personas dbname=personas sslmode=disable"
http_server:
  address: ":9000"
  read_timeout: 3s
  shutdown_timeout: 1s
cors:
  allowed_origins:
    - http://localhost:3000
    - https://personas.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverGormPostgres, cfg.StorageDriver)
	assert.Equal(t, "host=db user=personas dbname=personas sslmode=disable", cfg.DatabaseDSN)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://personas.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage_path: personas.db
http_server:
  address: localhost:8082
`)
	t.Setenv("HTTP_SERVER_ADDR", "0.0.0.0:8090")
	t.Setenv("ENV", "staging")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8090", cfg.Addr)
	assert.Equal(t, "staging", cfg.Env)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "unknown storage driver",
			body: `
env: dev
storage_driver: mongo
storage_path: personas.db
http_server:
  address: localhost:8082
`,
			wantErr: `unknown storage driver "mongo"`,
		},
		{
			name: "sqlite without path",
			body: `
env: dev
http_server:
  address: localhost:8082
`,
			wantErr: "storage_path is required",
		},
		{
			name: "postgres without dsn",
			body: `
env: dev
storage_driver: gorm-postgres
http_server:
  address: localhost:8082
`,
			wantErr: "database_dsn is required",
		},
		{
			name: "missing required address",
			body: `
env: dev
storage_path: personas.db
`,
			wantErr: "cannot read config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file does not exist")
}
