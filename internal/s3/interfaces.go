package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3ListObjectsV2API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type s3DeleteObjectsAPI interface {
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type s3HeadBucketAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type s3API interface {
	s3ListObjectsV2API
	s3DeleteObjectsAPI
	s3HeadBucketAPI
}

var _ s3API = (*s3.Client)(nil)
