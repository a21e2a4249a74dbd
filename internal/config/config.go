package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/r2kit/bucket-sweep/internal/util"
)

// Backend-imposed limits for ListObjectsV2 and DeleteObjects.
const (
	MaxPageSize  = 1000
	MaxBatchSize = 1000
)

// Config is the immutable run configuration. It is assembled once by the cmd
// layer (flags, environment, config file) and passed by value from there on;
// nothing in the core mutates or re-reads it.
type Config struct {
	AccessKey  string // S3 access key ID
	SecretKey  string // S3 secret access key
	Bucket     string // bucket to sweep
	Endpoint   string // custom S3-compatible endpoint URL, optional
	AccountID  string // Cloudflare account ID, derives the R2 endpoint when Endpoint is empty
	Region     string // bucket region; R2 uses "auto"
	LogLevel   string
	PageSize   int32         // keys requested per list call
	BatchSize  int           // keys per batch-delete request
	BatchDelay time.Duration // pause between live delete batches
}

// ResolvedEndpoint returns the endpoint to use, deriving the Cloudflare R2
// endpoint from the account ID when no explicit endpoint was given. Empty
// means the SDK default (AWS).
func (c *Config) ResolvedEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.AccountID != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	}
	return ""
}

// Validate checks field formats and limits. Credential presence is enforced
// earlier by the cmd layer so it can render flag-level advice.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket name must not be empty")
	}
	if c.Endpoint != "" && !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("invalid endpoint %q: must start with http:// or https://", c.Endpoint)
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return fmt.Errorf("invalid page size %d: must be between 1 and %d", c.PageSize, MaxPageSize)
	}
	if c.BatchSize < 1 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("invalid batch size %d: must be between 1 and %d", c.BatchSize, MaxBatchSize)
	}
	if c.BatchDelay < 0 {
		return fmt.Errorf("invalid batch delay %v: must not be negative", c.BatchDelay)
	}

	logDebugConfig(c)
	return nil
}

// logDebugConfig logs the configuration with credentials and account-scoped
// endpoints redacted.
func logDebugConfig(cfg *Config) {
	log.Debug().
		Str("component", "configuration").
		Str("bucket", cfg.Bucket).
		Str("endpoint", util.RedactURL(cfg.ResolvedEndpoint())).
		Str("region", cfg.Region).
		Str("access_key", util.RedactKey(cfg.AccessKey)).
		Str("log_level", cfg.LogLevel).
		Int32("page_size", cfg.PageSize).
		Int("batch_size", cfg.BatchSize).
		Dur("batch_delay", cfg.BatchDelay).
		Msg("Loaded configuration")
}
