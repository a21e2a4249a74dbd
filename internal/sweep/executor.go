package sweep

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/r2kit/bucket-sweep/internal/retry"
)

// Status is the terminal state of one key within a run.
type Status int

const (
	// StatusDeleted marks a key the backend confirmed deleted (or reported
	// as already absent).
	StatusDeleted Status = iota
	// StatusFailed marks a key that could not be deleted; Outcome.Reason
	// carries the cause.
	StatusFailed
	// StatusSkippedDryRun marks a key that would have been deleted in a
	// live run.
	StatusSkippedDryRun
)

// Outcome is the per-key result of a batch execution. Every key submitted to
// the executor yields exactly one outcome.
type Outcome struct {
	Key    string
	Status Status
	Reason string
}

// KeyError is a per-key failure reported by the backend.
type KeyError struct {
	Key     string
	Code    string
	Message string
}

// DeleteResult is the backend's per-key accounting for one batch-delete
// request.
type DeleteResult struct {
	Deleted []string
	Failed  []KeyError
}

// Deleter is the deletion side of the storage backend.
type Deleter interface {
	DeleteBatch(ctx context.Context, keys []string) (*DeleteResult, error)
}

// IsFatalFunc reports whether an error must abort the whole run, e.g. the
// credentials are invalid or the bucket does not exist.
type IsFatalFunc func(err error) bool

// Executor submits batches to the backend and translates the response into
// per-key outcomes.
type Executor struct {
	deleter     Deleter
	retryCfg    retry.Config
	isRetryable retry.IsRetryableFunc
	isFatal     IsFatalFunc
}

// NewExecutor returns an executor over the given deleter. Whole-request
// failures are retried per the retry config; errors the fatal classifier
// flags abort the run.
func NewExecutor(deleter Deleter, retryCfg retry.Config, isRetryable retry.IsRetryableFunc, isFatal IsFatalFunc) *Executor {
	if isRetryable == nil {
		isRetryable = func(error) bool { return false }
	}
	if isFatal == nil {
		isFatal = func(error) bool { return false }
	}
	return &Executor{
		deleter:     deleter,
		retryCfg:    retryCfg,
		isRetryable: isRetryable,
		isFatal:     isFatal,
	}
}

// Backends vary on whether deleting an absent key is success or NoSuchKey;
// either way the object is gone, so re-runs stay clean.
func isBenignKeyError(code string) bool {
	return code == "NoSuchKey" || code == "NotFound"
}

// Execute runs one batch. In dry-run mode every key is marked skipped and the
// backend is never contacted. In live mode the batch goes out as a single
// batch-delete request; the returned error is non-nil only when the failure
// is fatal to the whole run, and even then the batch's outcomes are complete.
func (e *Executor) Execute(ctx context.Context, batch []string, dryRun bool) ([]Outcome, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	if dryRun {
		outcomes := make([]Outcome, len(batch))
		for i, key := range batch {
			outcomes[i] = Outcome{Key: key, Status: StatusSkippedDryRun}
		}
		return outcomes, nil
	}

	var result *DeleteResult
	operation := func(opCtx context.Context) error {
		r, err := e.deleter.DeleteBatch(opCtx, batch)
		if err != nil {
			return err
		}
		result = r
		return nil
	}
	// A fatal error is by definition not worth retrying.
	retryable := func(err error) bool {
		return !e.isFatal(err) && e.isRetryable(err)
	}

	if err := retry.Do(ctx, e.retryCfg, operation, retryable, "DeleteObjectsBatch"); err != nil {
		outcomes := make([]Outcome, len(batch))
		for i, key := range batch {
			outcomes[i] = Outcome{Key: key, Status: StatusFailed, Reason: err.Error()}
		}
		if e.isFatal(err) {
			return outcomes, fmt.Errorf("batch delete failed fatally: %w", err)
		}
		log.Warn().Err(err).Int("batch_size", len(batch)).Msg("Batch delete failed after retries, continuing with remaining batches")
		return outcomes, nil
	}

	deleted := make(map[string]struct{}, len(result.Deleted))
	for _, key := range result.Deleted {
		deleted[key] = struct{}{}
	}
	failed := make(map[string]KeyError, len(result.Failed))
	for _, ke := range result.Failed {
		failed[ke.Key] = ke
	}

	outcomes := make([]Outcome, len(batch))
	for i, key := range batch {
		switch ke, isFailed := failed[key]; {
		case isFailed && isBenignKeyError(ke.Code):
			outcomes[i] = Outcome{Key: key, Status: StatusDeleted}
		case isFailed:
			outcomes[i] = Outcome{Key: key, Status: StatusFailed, Reason: fmt.Sprintf("%s: %s", ke.Code, ke.Message)}
		default:
			if _, ok := deleted[key]; ok {
				outcomes[i] = Outcome{Key: key, Status: StatusDeleted}
			} else {
				// Fail closed: never assume success for a key the
				// backend did not explicitly confirm.
				outcomes[i] = Outcome{Key: key, Status: StatusFailed, Reason: "no response from backend"}
			}
		}
	}
	return outcomes, nil
}
