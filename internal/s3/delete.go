package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/r2kit/bucket-sweep/internal/sweep"
)

// DeleteBatch deletes the keys in one DeleteObjects request and maps the
// response into per-key accounting. Quiet mode is off so the backend confirms
// every deleted key explicitly. The error is returned unwrapped so callers
// can classify the API error code.
func (c *Client) DeleteBatch(ctx context.Context, keys []string) (*sweep.DeleteResult, error) {
	objects := make([]types.ObjectIdentifier, len(keys))
	for i := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(keys[i])}
	}

	out, err := c.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(c.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(false),
		},
	})
	if err != nil {
		return nil, err
	}

	result := &sweep.DeleteResult{}
	for _, d := range out.Deleted {
		if d.Key != nil {
			result.Deleted = append(result.Deleted, *d.Key)
		}
	}
	for _, e := range out.Errors {
		result.Failed = append(result.Failed, sweep.KeyError{
			Key:     aws.ToString(e.Key),
			Code:    aws.ToString(e.Code),
			Message: aws.ToString(e.Message),
		})
	}
	return result, nil
}
