package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: bikefit
    user: fitter
    password: ${FIT_TEST_DB_PASSWORD}
  elasticsearch:
    addresses: ["http://es:9200"]
  redis:
    address: localhost:6379
workers:
  project-cockpit:
    enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("FIT_TEST_DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "http://es:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 8080, cfg.Observability.HTTPPort)

	hood := cfg.Fit.Hood.Geometry()
	assert.Equal(t, 10.0, hood.DefaultOffsetMm)
	assert.Equal(t, 10.0, hood.EffectiveReachOffsetMm)
	assert.Equal(t, 25.0, hood.VisualOffsetMm)
	assert.Equal(t, 35.0, hood.VisualRisePx)

	assert.Equal(t, "frames", cfg.Fit.Catalog.FramesIndex)
	assert.Equal(t, 10*time.Minute, cfg.Fit.Catalog.CacheTTLDuration())
	assert.Equal(t, 50, cfg.Fit.Catalog.SearchMaxSize)
}

func TestLoadFromFile_Workers(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.False(t, IsWorkerEnabled(cfg, "project-cockpit"))
	assert.True(t, IsWorkerEnabled(cfg, "calculate-fit"))

	wc := GetWorkerConfig(cfg, "project-cockpit")
	assert.Equal(t, 5, wc.MaxJobsActive)
	assert.Equal(t, 30000, wc.Timeout)
	assert.Equal(t, 3, wc.MaxRetries)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: h\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name: "missing redis",
			body: `
camunda:
  broker_address: b:26500
database:
  postgres: {host: h, database: d, user: u}
  elasticsearch: {url: "http://es:9200"}
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "negative hood offset",
			body: minimalConfig + `
fit:
  hood:
    visual_offset_mm: -5
`,
			wantErr: "fit.hood offsets must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
