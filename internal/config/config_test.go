package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		AccessKey: "AKIAEXAMPLEKEY123456",
		SecretKey: "secret",
		Bucket:    "assets",
		AccountID: "abc123def456",
		Region:    "auto",
		LogLevel:  "info",
		PageSize:  1000,
		BatchSize: 1000,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := validConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.Bucket = ""
		assert.ErrorContains(t, cfg.Validate(), "bucket name")
	})

	t.Run("bad endpoint scheme", func(t *testing.T) {
		cfg := validConfig()
		cfg.Endpoint = "ftp://example.com"
		assert.ErrorContains(t, cfg.Validate(), "endpoint")
	})

	t.Run("page size out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.PageSize = 0
		assert.ErrorContains(t, cfg.Validate(), "page size")

		cfg.PageSize = 1001
		assert.ErrorContains(t, cfg.Validate(), "page size")
	})

	t.Run("batch size out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.BatchSize = 1001
		assert.ErrorContains(t, cfg.Validate(), "batch size")
	})

	t.Run("negative batch delay", func(t *testing.T) {
		cfg := validConfig()
		cfg.BatchDelay = -time.Second
		assert.ErrorContains(t, cfg.Validate(), "batch delay")
	})
}

func TestResolvedEndpoint(t *testing.T) {
	t.Run("explicit endpoint wins", func(t *testing.T) {
		cfg := validConfig()
		cfg.Endpoint = "https://minio.internal:9000"
		assert.Equal(t, "https://minio.internal:9000", cfg.ResolvedEndpoint())
	})

	t.Run("derived from account id", func(t *testing.T) {
		cfg := validConfig()
		assert.Equal(t, "https://abc123def456.r2.cloudflarestorage.com", cfg.ResolvedEndpoint())
	})

	t.Run("empty means SDK default", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccountID = ""
		assert.Equal(t, "", cfg.ResolvedEndpoint())
	})
}
