package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/r2kit/bucket-sweep/internal/config"
	"github.com/r2kit/bucket-sweep/internal/retry"
	"github.com/r2kit/bucket-sweep/internal/util"
)

// Client wraps the AWS SDK client for one bucket on an S3-compatible backend.
// It implements sweep.Lister and sweep.Deleter.
type Client struct {
	api      s3API
	bucket   string
	pageSize int32
}

var defaultRetryConfig = retry.Config{
	MaxAttempts:  4,
	InitialDelay: 1 * time.Second,
	MaxDelay:     30 * time.Second,
}

// NewClient builds the SDK client and verifies bucket access with a HeadBucket
// preflight so that bad credentials or a missing bucket fail before any
// listing begins.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	opts := []func(*s3.Options){}
	if endpoint := cfg.ResolvedEndpoint(); endpoint != "" {
		log.Debug().Str("component", "s3").Str("endpoint", util.RedactURL(endpoint)).Msg("Using custom S3 endpoint")
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	c := &Client{
		api:      s3.NewFromConfig(awsCfg, opts...),
		bucket:   cfg.Bucket,
		pageSize: cfg.PageSize,
	}

	if err := c.verifyAccess(ctx); err != nil {
		return nil, err
	}

	log.Info().Str("component", "s3").Str("bucket", c.bucket).Msg("S3 client ready")
	return c, nil
}

// verifyAccess issues a HeadBucket so bad credentials or a missing bucket
// surface before enumeration starts.
func (c *Client) verifyAccess(ctx context.Context) error {
	verify := func(opCtx context.Context) error {
		_, err := c.api.HeadBucket(opCtx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
		return err
	}
	if err := retry.Do(ctx, defaultRetryConfig, verify, IsTransient, "HeadBucket"); err != nil {
		return fmt.Errorf("preflight check for bucket %s failed: %w", c.bucket, err)
	}
	return nil
}
