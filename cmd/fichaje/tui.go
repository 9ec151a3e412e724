package main

import (
	tea "charm.land/bubbletea/v2"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/tui"
)

func newTUICommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Abre la interfaz interactiva (por defecto)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags, modeTUI)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			widget := a.options.NewWidget()
			defer widget.Close()

			out := termenv.NewOutput(cmd.OutOrStdout())
			p := tui.NewProgram(ctx, tui.Deps{
				Session:   a.session,
				Gate:      a.gate(),
				Submitter: a.submitter(),
				Resolver:  a.resolver(a.options.NewLocator(a.http)),
				Widget:    widget,
				NoColor:   out.EnvNoColor(),
			}, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(out))
			_, err = p.Run()
			log.Info(ctx).Err(err).Msg("fichaje: tui exited")
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}
