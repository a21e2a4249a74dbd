package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/r2kit/bucket-sweep/internal/config"
	"github.com/r2kit/bucket-sweep/internal/logging"
	"github.com/r2kit/bucket-sweep/internal/notify"
	"github.com/r2kit/bucket-sweep/internal/retry"
	"github.com/r2kit/bucket-sweep/internal/s3"
	"github.com/r2kit/bucket-sweep/internal/sweep"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func runSweep(ctx context.Context) error {
	if vErr := validateFlags(); vErr != nil {
		return vErr
	}

	logging.Init(viper.GetString("log-level"))

	dryRun := viper.GetBool("dry-run")
	mode := sweep.ModeAllObjects
	if viper.GetBool("delete-images") || viper.GetBool("images-only") {
		mode = sweep.ModeImagesOnly
	}

	cfg := &config.Config{
		AccessKey:  viper.GetString("s3-access-key"),
		SecretKey:  viper.GetString("s3-secret-key"),
		Bucket:     viper.GetString("s3-bucket"),
		Endpoint:   viper.GetString("s3-endpoint"),
		AccountID:  viper.GetString("account-id"),
		Region:     viper.GetString("s3-region"),
		LogLevel:   viper.GetString("log-level"),
		PageSize:   viper.GetInt32("page-size"),
		BatchSize:  viper.GetInt("batch-size"),
		BatchDelay: viper.GetDuration("batch-delay"),
	}
	if err := cfg.Validate(); err != nil {
		return &exitError{code: ExitConfig, err: err}
	}

	client, err := s3.NewClient(ctx, cfg)
	if err != nil {
		return &exitError{code: ExitPreflight, err: err}
	}

	if !dryRun {
		confirmed, err := confirmDeletion(cfg.Bucket)
		if err != nil {
			return &exitError{code: ExitAborted, err: fmt.Errorf("confirmation prompt: %w", err)}
		}
		if !confirmed {
			fmt.Fprintln(stdout, "Operation cancelled.")
			return nil
		}
	}

	runner := sweep.NewRunner(sweep.Options{
		Lister:      client,
		Deleter:     client,
		Mode:        mode,
		DryRun:      dryRun,
		BatchSize:   cfg.BatchSize,
		BatchDelay:  cfg.BatchDelay,
		Retry:       retry.Config{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 30 * time.Second},
		IsRetryable: s3.IsTransient,
		IsFatal:     s3.IsFatal,
	})

	start := time.Now()
	report, runErr := runner.Run(ctx)
	printReport(stdout, report, cfg.Bucket, mode, dryRun)
	sendNotification(cfg.Bucket, dryRun, report, time.Since(start), runErr)

	if runErr != nil {
		return &exitError{code: ExitAborted, err: runErr}
	}
	if report.Failed > 0 {
		return &exitError{code: ExitRunFailed, err: fmt.Errorf("%d objects failed to delete", report.Failed)}
	}
	return nil
}

func printReport(w io.Writer, r *sweep.Report, bucket string, mode sweep.Mode, dryRun bool) {
	fmt.Fprintf(w, "\nSweep of bucket %q (%s)\n", bucket, mode)
	fmt.Fprintf(w, "  Scanned:  %s objects\n", humanize.Comma(int64(r.Scanned)))
	fmt.Fprintf(w, "  Matched:  %s objects\n", humanize.Comma(int64(r.Matched)))

	if dryRun {
		if len(r.Sample) > 0 {
			fmt.Fprintln(w, "\nObjects that would be deleted (first few):")
			for i, key := range r.Sample {
				fmt.Fprintf(w, "  %3d. %s\n", i+1, key)
			}
			if r.Matched > len(r.Sample) {
				fmt.Fprintf(w, "  ... and %s more\n", humanize.Comma(int64(r.Matched-len(r.Sample))))
			}
		}
		fmt.Fprintf(w, "\nDRY RUN: no objects were deleted (%s would be).\n", humanize.Comma(int64(r.SkippedDryRun)))
	} else {
		fmt.Fprintf(w, "  Deleted:  %s objects\n", humanize.Comma(int64(r.Deleted)))
		fmt.Fprintf(w, "  Failed:   %s objects\n", humanize.Comma(int64(r.Failed)))
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(w, "\nFailed objects:")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  - %s: %s\n", f.Key, f.Reason)
		}
	}
	if r.Aborted {
		fmt.Fprintln(w, "\nRun aborted; the numbers above are a partial result.")
	}
}

func sendNotification(bucket string, dryRun bool, r *sweep.Report, duration time.Duration, runErr error) {
	apiKey := viper.GetString("pushover-api-key")
	userKey := viper.GetString("pushover-user-key")
	if apiKey == "" || userKey == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	summary := notify.Summary{
		Bucket:   bucket,
		DryRun:   dryRun,
		Deleted:  int64(r.Deleted),
		Failed:   int64(r.Failed),
		Duration: duration,
		Err:      runErr,
	}
	if dryRun {
		summary.Deleted = int64(r.SkippedDryRun)
	}
	if err := notify.SendPushover(ctx, apiKey, userKey, summary); err != nil {
		log.Warn().Err(err).Msg("Pushover notification failed")
	}
}
