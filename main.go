package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/gootp/internal/app"
)

// @title           gootp API
// @version         1.0
// @description     Email and password authentication with one-time-password email verification.
// @server          http://localhost:5000
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gootp",
		Short:         "OTP-verified email/password authentication service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())

	return root
}

func newServeCmd() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			application := app.New()    // Initialize the application
			wait := application.Start() // Start the application and wait for the termination signal
			<-wait                      // Wait for the application to receive a termination signal
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			application.Stop(ctx) // Stop the application gracefully
			return nil
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown deadline")

	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the Postgres schema",
	}

	for _, direction := range []string{app.MigrateUp, app.MigrateDown} {
		cmd.AddCommand(&cobra.Command{
			Use:   direction,
			Short: "Run migrations " + direction,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if err := app.Migrate(direction); err != nil {
					slog.Error("migration failed", "direction", direction, "error", err)
					return err
				}
				return nil
			},
		})
	}

	return cmd
}
