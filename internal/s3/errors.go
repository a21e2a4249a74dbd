package s3

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/aws/smithy-go"
)

// IsTransient reports whether the error is a temporary backend condition
// worth retrying: network timeouts, truncated connections, throttling, and
// server-side hiccups.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown",
			"RequestTimeout",
			"Throttling",
			"ThrottlingException",
			"InternalError",
			"ServiceUnavailable":
			return true
		}
	}
	return false
}

// IsFatal reports whether the error invalidates the whole run: broken
// credentials, a bucket that does not exist, or authorization denied at the
// request level. Per-key errors inside a DeleteObjects response never reach
// this classifier.
func IsFatal(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidAccessKeyId",
			"SignatureDoesNotMatch",
			"ExpiredToken",
			"AccessDenied",
			"NoSuchBucket":
			return true
		}
	}
	return false
}
