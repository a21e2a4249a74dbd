package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDeleter scripts per-call results for DeleteBatch.
type mockDeleter struct {
	calls   int
	batches [][]string
	results []*DeleteResult
	errs    []error
}

func (m *mockDeleter) DeleteBatch(ctx context.Context, keys []string) (*DeleteResult, error) {
	call := m.calls
	m.calls++
	m.batches = append(m.batches, append([]string(nil), keys...))
	if call < len(m.errs) && m.errs[call] != nil {
		return nil, m.errs[call]
	}
	if call < len(m.results) && m.results[call] != nil {
		return m.results[call], nil
	}
	// Default: everything deleted.
	return &DeleteResult{Deleted: append([]string(nil), keys...)}, nil
}

func statusCounts(outcomes []Outcome) (deleted, failed, skipped int) {
	for _, o := range outcomes {
		switch o.Status {
		case StatusDeleted:
			deleted++
		case StatusFailed:
			failed++
		case StatusSkippedDryRun:
			skipped++
		}
	}
	return
}

func TestExecutor_DryRunNeverContactsBackend(t *testing.T) {
	deleter := &mockDeleter{}
	e := NewExecutor(deleter, fastRetry(), nil, nil)

	outcomes, err := e.Execute(context.Background(), []string{"a", "b", "c"}, true)
	require.NoError(t, err)
	assert.Equal(t, 0, deleter.calls, "dry run must not issue delete calls")

	_, failed, skipped := statusCounts(outcomes)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 3, skipped)
}

func TestExecutor_AllDeleted(t *testing.T) {
	deleter := &mockDeleter{}
	e := NewExecutor(deleter, fastRetry(), nil, nil)

	outcomes, err := e.Execute(context.Background(), []string{"a", "b"}, false)
	require.NoError(t, err)
	deleted, failed, _ := statusCounts(outcomes)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 0, failed)
}

func TestExecutor_PartialFailure(t *testing.T) {
	deleter := &mockDeleter{results: []*DeleteResult{{
		Deleted: []string{"a", "c"},
		Failed:  []KeyError{{Key: "b", Code: "AccessDenied", Message: "no delete permission"}},
	}}}
	e := NewExecutor(deleter, fastRetry(), nil, nil)

	outcomes, err := e.Execute(context.Background(), []string{"a", "b", "c"}, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, StatusDeleted, outcomes[0].Status)
	assert.Equal(t, StatusFailed, outcomes[1].Status)
	assert.Equal(t, "AccessDenied: no delete permission", outcomes[1].Reason)
	assert.Equal(t, StatusDeleted, outcomes[2].Status)
}

func TestExecutor_MissingKeyFailsClosed(t *testing.T) {
	// Backend confirms "a" only; "b" is in neither list.
	deleter := &mockDeleter{results: []*DeleteResult{{Deleted: []string{"a"}}}}
	e := NewExecutor(deleter, fastRetry(), nil, nil)

	outcomes, err := e.Execute(context.Background(), []string{"a", "b"}, false)
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, outcomes[0].Status)
	assert.Equal(t, StatusFailed, outcomes[1].Status)
	assert.Equal(t, "no response from backend", outcomes[1].Reason)
}

func TestExecutor_AbsentKeyIsBenign(t *testing.T) {
	deleter := &mockDeleter{results: []*DeleteResult{{
		Deleted: []string{"a"},
		Failed:  []KeyError{{Key: "gone", Code: "NoSuchKey", Message: "The specified key does not exist."}},
	}}}
	e := NewExecutor(deleter, fastRetry(), nil, nil)

	outcomes, err := e.Execute(context.Background(), []string{"a", "gone"}, false)
	require.NoError(t, err)
	deleted, failed, _ := statusCounts(outcomes)
	assert.Equal(t, 2, deleted, "already-absent keys count as deleted")
	assert.Equal(t, 0, failed)
}

func TestExecutor_RetryExhaustionFailsBatchNonFatally(t *testing.T) {
	boom := errors.New("throttled")
	deleter := &mockDeleter{errs: []error{boom, boom, boom}}
	e := NewExecutor(deleter, fastRetry(), func(error) bool { return true }, nil)

	outcomes, err := e.Execute(context.Background(), []string{"a", "b"}, false)
	assert.NoError(t, err, "retry exhaustion is batch-scoped, not fatal")
	assert.Equal(t, 3, deleter.calls)
	_, failed, _ := statusCounts(outcomes)
	assert.Equal(t, 2, failed)
	for _, o := range outcomes {
		assert.Contains(t, o.Reason, "throttled")
	}
}

func TestExecutor_FatalErrorAbortsButAccountsKeys(t *testing.T) {
	authErr := errors.New("InvalidAccessKeyId")
	deleter := &mockDeleter{errs: []error{authErr}}
	e := NewExecutor(deleter, fastRetry(), func(error) bool { return true }, func(err error) bool {
		return errors.Is(err, authErr)
	})

	outcomes, err := e.Execute(context.Background(), []string{"a", "b"}, false)
	require.ErrorIs(t, err, authErr)
	assert.Equal(t, 1, deleter.calls, "fatal errors are not retried")
	_, failed, _ := statusCounts(outcomes)
	assert.Equal(t, 2, failed, "fatal batch still yields an outcome per key")
}

func TestExecutor_EmptyBatch(t *testing.T) {
	deleter := &mockDeleter{}
	e := NewExecutor(deleter, fastRetry(), nil, nil)

	outcomes, err := e.Execute(context.Background(), nil, false)
	assert.NoError(t, err)
	assert.Nil(t, outcomes)
	assert.Equal(t, 0, deleter.calls)
}
