// File: cmd/kodoctl/root.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kodoctl/internal/flags"
	"kodoctl/internal/logger"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	provider string
	debug    bool
}

func newRootCmd(app *appContainer) *cobra.Command {
	cmdFlags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "kodoctl",
		Short: "kodoctl moves files in and out of Qiniu Kodo object storage.",
		Long: `A command-line client for Qiniu Kodo and compatible object stores.
Upload files, list bucket contents, fetch objects through signed URLs
and archive directories straight into a bucket.

Credentials are read from QN_ACCESS_TOKEN and QN_SECRET_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := app.Config.Log.Level
			if cmdFlags.debug {
				level = "debug"
			}
			return logger.SetLevel(level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cmdFlags.provider, flags.Provider, "", fmt.Sprintf("Storage backend to use (default from config, currently '%s')", app.Config.Provider))
	rootCmd.PersistentFlags().BoolVar(&cmdFlags.debug, flags.Debug, false, "Enable debug logging")

	rootCmd.AddCommand(
		newUploadCmd(app, cmdFlags),
		newLsCmd(app, cmdFlags),
		newGetCmd(app, cmdFlags),
		newArchiveCmd(app, cmdFlags),
		newSignCmd(app, cmdFlags),
		newConfigCmd(app),
	)
	return rootCmd
}

func Execute(app *appContainer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
