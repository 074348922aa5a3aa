package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/coral-annotate/internal/batch"
	"github.com/ironsheep/coral-annotate/internal/config"
	"github.com/ironsheep/coral-annotate/internal/logging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			printVersion()
			return
		}
	}

	// A missing .env is normal; only the process environment is used then.
	_ = godotenv.Load()

	logger, err := logging.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "coral-annotate: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := newRootCommand(logger).Execute(); err != nil {
		_ = logger.Sync()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("coral-annotate %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func newRootCommand(logger *zap.Logger) *cobra.Command {
	var opts config.Options

	cmd := &cobra.Command{
		Use:   "coral-annotate",
		Short: "Annotate watch-folder images with detections from a Coral inference server",
		Long: `coral-annotate sends every file in the watch folder to an object detection
server, draws boxes around the detections of the requested labels and saves
the annotated copies under the save folder. The watch folder is emptied at
the end of every run.

Environment variables (also read from .env):
  CORAL_LOG_LEVEL=debug|info|warn|error
  CORAL_LOG_FORMAT=console|json`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config()
			if err != nil {
				logger.Error("invalid configuration", zap.Error(err))
				return err
			}

			logger.Debug("coral-annotate starting",
				zap.String("version", Version),
				zap.String("build_time", BuildTime),
				zap.String("commit", GitCommit))

			_, err = batch.Run(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error("batch failed", zap.Error(err))
			}
			return err
		},
	}

	opts.AddFlags(cmd.Flags())
	for _, name := range config.RequiredFlags {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
