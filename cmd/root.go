package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	ExitSuccess   = 0
	ExitRunFailed = 1 // failed outcomes in the report
	ExitConfig    = 2 // invalid flags or configuration
	ExitPreflight = 3 // credentials or bucket check failed before listing
	ExitAborted   = 4 // fatal error or interrupt mid-run
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bucket-sweep",
	Short: "Bulk-delete objects from an S3-compatible bucket",
	Long: `bucket-sweep enumerates every object in an S3-compatible bucket
(Cloudflare R2, MinIO, AWS S3), optionally filters down to image files, and
deletes the selection in batches. Always preview with --dry-run first:
deletions are irreversible.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context())
	},
}

// Execute runs the root command and maps errors to process exit codes.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		fmt.Fprintln(os.Stderr, vErr.Error())
		return vErr.ExitCode
	}
	var eErr *exitError
	if errors.As(err, &eErr) {
		fmt.Fprintln(os.Stderr, "Error:", eErr.Error())
		return eErr.code
	}
	// runSweep only returns typed errors, so anything left came from cobra
	// itself: an unknown flag, a bad value, or a flag group violation.
	fmt.Fprintln(os.Stderr, "Error:", err.Error())
	fmt.Fprintln(os.Stderr, rootCmd.UsageString())
	return ExitConfig
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bucket-sweep.yaml)")

	// Backend configuration
	rootCmd.PersistentFlags().String("s3-access-key", "", "S3 access key ID")
	rootCmd.PersistentFlags().String("s3-secret-key", "", "S3 secret access key")
	rootCmd.PersistentFlags().String("s3-bucket", "", "bucket to sweep")
	rootCmd.PersistentFlags().String("s3-endpoint", "", "custom S3-compatible endpoint URL")
	rootCmd.PersistentFlags().String("s3-region", "auto", "bucket region (R2 uses 'auto')")
	rootCmd.PersistentFlags().String("account-id", "", "Cloudflare account ID, derives the R2 endpoint when --s3-endpoint is unset")

	// Action selection
	rootCmd.Flags().BoolP("dry-run", "d", false, "show what would be deleted without deleting anything")
	rootCmd.Flags().BoolP("delete-all", "a", false, "delete ALL objects (irreversible)")
	rootCmd.Flags().BoolP("delete-images", "i", false, "delete only image files")
	rootCmd.Flags().Bool("images-only", false, "with --dry-run, preview only image files")
	rootCmd.MarkFlagsOneRequired("dry-run", "delete-all", "delete-images")
	rootCmd.MarkFlagsMutuallyExclusive("dry-run", "delete-all", "delete-images")

	// Tuning
	rootCmd.PersistentFlags().Int32("page-size", 1000, "keys requested per list call (max 1000)")
	rootCmd.PersistentFlags().Int("batch-size", 1000, "keys per batch-delete request (max 1000)")
	rootCmd.PersistentFlags().Duration("batch-delay", 500*time.Millisecond, "pause between live delete batches")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")

	// Notifications
	rootCmd.PersistentFlags().String("pushover-api-key", "", "Pushover API key for completion notifications")
	rootCmd.PersistentFlags().String("pushover-user-key", "", "Pushover user key for completion notifications")
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bucket-sweep")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	_ = viper.BindPFlags(rootCmd.PersistentFlags())
	_ = viper.BindPFlags(rootCmd.Flags())
	bindFlags(rootCmd)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags applies viper values (env, config file) to flags the user did not
// set explicitly, so precedence stays flags > env > config file > default.
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && viper.IsSet(f.Name) {
			val := viper.Get(f.Name)
			_ = cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		}
	})
}
