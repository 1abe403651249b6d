package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IDENTITY_JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("TMDB_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("BACKFILL_CONCURRENCY", "4")
	t.Setenv("TRACE_EXPORTER", "OTLP")
	t.Setenv("TRACE_ENDPOINT", "http://collector:4318")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", config.App.Port)
	assert.Equal(t, "postgres", config.Store.Driver)
	assert.Equal(t, 3*time.Second, config.TMDB.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.App.CORSOrigins)
	assert.Equal(t, 4, config.Backfill.Concurrency)
	assert.Equal(t, "s3cret", config.Identity.Secret)
	assert.Equal(t, "otlp", config.Tracing.Exporter)
	assert.Equal(t, "http://collector:4318", config.Tracing.Endpoint)
	assert.Equal(t, 1.0, config.Tracing.SampleRatio)
}

func TestLoadConfigRequiresIdentitySecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IDENTITY_JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
