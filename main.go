package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/rs/zerolog/log"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/r2kit/bucket-sweep/cmd"
	"github.com/r2kit/bucket-sweep/internal/logging"
)

var (
	// version is set during build time.
	version = "dev"
	// commit is set during build time.
	commit = "none"
)

func main() {
	// Default logger until the configured level is known; the cmd layer
	// re-initializes once flags are parsed.
	logging.Init("info")

	setupSystemResources()

	// SIGINT/SIGTERM cancel the run context; the pipeline finishes its
	// in-flight batch and returns a partial report.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exitCode := cmd.ExitSuccess
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("stack", string(debug.Stack())).
				Msgf("Unexpected panic: %v", r)
			exitCode = cmd.ExitRunFailed
		}
		stop()
		os.Exit(exitCode)
	}()

	exitCode = cmd.Execute(ctx)
}

// setupSystemResources configures GOMEMLIMIT and GOMAXPROCS from the
// container limits when present.
func setupSystemResources() {
	if _, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithProvider(memlimit.ApplyFallback(memlimit.FromCgroupHybrid, memlimit.FromSystem)),
	); err != nil {
		log.Warn().Err(err).Msg("Failed to set GOMEMLIMIT automatically")
	}

	if _, err := maxprocs.Set(
		maxprocs.Logger(func(s string, i ...interface{}) { log.Debug().Msgf(s, i...) }),
	); err != nil {
		log.Warn().Err(err).Msg("Failed to set GOMAXPROCS automatically")
	}

	log.Info().Str("component", "system").Str("version", version).Str("commit", commit).Msg("Application starting")
}
