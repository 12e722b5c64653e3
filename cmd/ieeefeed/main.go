package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"JournalFeed/internal/app"
	"JournalFeed/internal/config"
	"JournalFeed/internal/infrastructure/output"
	"JournalFeed/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	root := &cobra.Command{
		Use:           "ieeefeed",
		Short:         "Build feeds of the current issue of IEEE Xplore journals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCMD(&cfg), watchCMD(&cfg))

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}

func runCMD(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run <journal> [sortType]",
		Short: "Print the current-issue feed of one journal as JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sortType := ""
			if len(args) > 1 {
				sortType = args[1]
			}

			application, err := app.New(cmd.Context(), *cfg, logging.New(cfg.Logging.Level))
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Run(cmd.Context(), args[0], sortType, output.NewStreamWriter(os.Stdout))
		},
	}
}

func watchCMD(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the configured journals on the cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(cmd.Context(), *cfg, logging.New(cfg.Logging.Level))
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Watch(cmd.Context())
		},
	}
}
