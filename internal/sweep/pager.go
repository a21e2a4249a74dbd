package sweep

import (
	"context"
	"fmt"

	"github.com/r2kit/bucket-sweep/internal/retry"
)

// Lister is the listing side of the storage backend. The cursor is opaque:
// implementations receive back exactly the value they returned, and a nil
// next cursor marks the end of the listing.
type Lister interface {
	ListPage(ctx context.Context, cursor *string) (keys []string, next *string, err error)
}

// Pager drives cursor-based enumeration of a bucket, one page per call.
// It is single-use: once exhausted or failed it stays done.
type Pager struct {
	lister      Lister
	retryCfg    retry.Config
	isRetryable retry.IsRetryableFunc
	cursor      *string
	done        bool
}

// NewPager returns a pager over the given lister. Each page fetch is retried
// per the retry config using the supplied transient-error classifier.
func NewPager(lister Lister, retryCfg retry.Config, isRetryable retry.IsRetryableFunc) *Pager {
	if isRetryable == nil {
		isRetryable = func(error) bool { return false }
	}
	return &Pager{
		lister:      lister,
		retryCfg:    retryCfg,
		isRetryable: isRetryable,
	}
}

// Next fetches the next page of keys. The second return value reports whether
// more pages remain. A fetch that fails after the retry budget is fatal: the
// pager is marked done and the error is returned.
func (p *Pager) Next(ctx context.Context) ([]string, bool, error) {
	if p.done {
		return nil, false, nil
	}

	var keys []string
	var next *string
	operation := func(opCtx context.Context) error {
		k, n, err := p.lister.ListPage(opCtx, p.cursor)
		if err != nil {
			return err
		}
		keys, next = k, n
		return nil
	}

	if err := retry.Do(ctx, p.retryCfg, operation, p.isRetryable, "ListObjectsPage"); err != nil {
		p.done = true
		return nil, false, fmt.Errorf("listing objects failed: %w", err)
	}

	p.cursor = next
	if next == nil {
		p.done = true
	}
	return keys, !p.done, nil
}
