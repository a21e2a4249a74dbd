package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/r2kit/bucket-sweep/internal/retry"
)

// Options configures a Runner.
type Options struct {
	Lister      Lister
	Deleter     Deleter
	Mode        Mode
	DryRun      bool
	BatchSize   int           // maximum keys per delete request
	BatchDelay  time.Duration // pause between live batches, 0 to disable
	Retry       retry.Config  // budget for list and delete requests
	IsRetryable retry.IsRetryableFunc
	IsFatal     IsFatalFunc
}

// Runner orchestrates one sweep: page, filter, batch, delete, report.
// Batches are submitted in the order their keys were listed.
type Runner struct {
	opts Options
}

const defaultBatchSize = 1000

var defaultRetryConfig = retry.Config{
	MaxAttempts:  3,
	InitialDelay: 1 * time.Second,
	MaxDelay:     30 * time.Second,
}

// NewRunner returns a runner for the given options, applying defaults for
// the batch size and retry budget when unset.
func NewRunner(opts Options) *Runner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = defaultRetryConfig
	}
	return &Runner{opts: opts}
}

// Run sweeps the bucket and returns the final report. The report is also
// returned on error: a fatal listing or deletion error, or a cancellation,
// aborts the run but preserves everything accounted for so far. Keys already
// handed to the batcher when the run aborts are reported as failed rather
// than silently dropped.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	pager := NewPager(r.opts.Lister, r.opts.Retry, r.opts.IsRetryable)
	batcher := NewBatcher(r.opts.BatchSize)
	executor := NewExecutor(r.opts.Deleter, r.opts.Retry, r.opts.IsRetryable, r.opts.IsFatal)

	log.Info().
		Str("component", "sweep").
		Str("mode", r.opts.Mode.String()).
		Bool("dry_run", r.opts.DryRun).
		Msg("Starting sweep")

	batchNum := 0
	flush := func(batch []string) error {
		if len(batch) == 0 {
			return nil
		}
		batchNum++
		outcomes, err := executor.Execute(ctx, batch, r.opts.DryRun)
		report.apply(outcomes)
		log.Info().
			Str("component", "sweep").
			Int("batch", batchNum).
			Int("batch_size", len(batch)).
			Int("scanned", report.Scanned).
			Int("deleted", report.Deleted).
			Int("failed", report.Failed).
			Int("skipped_dry_run", report.SkippedDryRun).
			Msg("Batch completed")
		if err != nil {
			return err
		}
		if !r.opts.DryRun && r.opts.BatchDelay > 0 {
			select {
			case <-time.After(r.opts.BatchDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	// abort marks keys that entered the batcher but were never submitted,
	// so no key's status is silently lost.
	abort := func(cause error, unsubmitted ...[]string) (*Report, error) {
		report.Aborted = true
		for _, batch := range unsubmitted {
			for _, key := range batch {
				report.apply([]Outcome{{Key: key, Status: StatusFailed, Reason: "run aborted before deletion: " + cause.Error()}})
			}
		}
		log.Error().Err(cause).Str("component", "sweep").Msg("Sweep aborted")
		return report, cause
	}

	for {
		keys, more, err := pager.Next(ctx)
		if err != nil {
			return abort(err, batcher.Flush())
		}
		for _, key := range keys {
			matched := Matches(key, r.opts.Mode)
			report.observe(key, matched)
			if !matched {
				continue
			}
			batch := batcher.Add(key)
			if batch == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				// Stop before issuing another deletion; the batch
				// never reached the backend.
				return abort(err, batch, batcher.Flush())
			}
			if err := flush(batch); err != nil {
				return abort(err, batcher.Flush())
			}
		}
		if !more {
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return abort(err, batcher.Flush())
	}
	if err := flush(batcher.Flush()); err != nil {
		return abort(err)
	}

	log.Info().
		Str("component", "sweep").
		Int("scanned", report.Scanned).
		Int("matched", report.Matched).
		Int("deleted", report.Deleted).
		Int("failed", report.Failed).
		Int("skipped_dry_run", report.SkippedDryRun).
		Msg("Sweep finished")
	return report, nil
}
