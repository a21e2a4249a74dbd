package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// ListPage fetches one page of object keys, resuming from the given opaque
// cursor. A nil returned cursor means the listing is exhausted. Pagination is
// driven by the caller rather than the SDK paginator so the pipeline can
// start deleting while later pages are still unread.
func (c *Client) ListPage(ctx context.Context, cursor *string) ([]string, *string, error) {
	out, err := c.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:            aws.String(c.bucket),
		MaxKeys:           aws.Int32(c.pageSize),
		ContinuationToken: cursor,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list objects in bucket %s: %w", c.bucket, err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key == nil {
			log.Warn().Str("component", "s3").Msg("Skipping listed object with nil key")
			continue
		}
		keys = append(keys, *obj.Key)
	}

	if aws.ToBool(out.IsTruncated) {
		return keys, out.NextContinuationToken, nil
	}
	return keys, nil, nil
}
