// Package main contains the fichaje command line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n⛔️ %s\n\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configFile string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:           "fichaje",
		Short:         "Registra fichajes de entrada y salida",
		Version:       version.FullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(log.WithContext(cmd.Context(), func(c zerolog.Context) zerolog.Context {
				return c.Str("command", cmd.Name())
			}))
		},
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "Specify configuration file location")
	root.PersistentFlags().String("server", "", "Backend base URL")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	tui := newTUICommand(&flags)
	root.RunE = tui.RunE
	root.AddCommand(
		newLoginCommand(&flags),
		newLogoutCommand(&flags),
		newFicharCommand(&flags),
		newHistorialCommand(&flags),
		newUbicacionCommand(&flags),
		newReporteCommand(&flags),
		tui,
	)
	return root
}
