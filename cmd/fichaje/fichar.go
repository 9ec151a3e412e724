package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/capture"
	"github.com/fingertech/fichaje/internal/location"
)

var errFicharFailed = errors.New("no se pudo registrar el fichaje")

func newFicharCommand(flags *rootFlags) *cobra.Command {
	var (
		lat, lon float64
		photo    string
	)
	cmd := &cobra.Command{
		Use:   "fichar",
		Short: "Registra un fichaje en la ubicación actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireSession(); err != nil {
				return err
			}
			ctx := cmd.Context()

			locator := a.options.NewLocator(a.http)
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				locator = location.StaticLocator{Latitude: lat, Longitude: lon}
			}
			loc := a.resolver(locator).Resolve(ctx)
			printLocation(cmd.OutOrStdout(), loc)

			widget := a.options.NewWidget()
			if photo != "" {
				widget = capture.NewWidget(capture.FileCamera{Path: photo},
					capture.WithSize(a.options.Camera.Width, a.options.Camera.Height),
					capture.WithQuality(a.options.Camera.Quality))
			}
			defer widget.Close()
			if widget.Available() {
				if err := snap(cmd, widget); err != nil {
					return err
				}
			}

			res := a.submitter().Submit(ctx, loc, widget)
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if res.Err != nil {
				return errFicharFailed
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitud, en lugar del proveedor configurado")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitud, en lugar del proveedor configurado")
	cmd.Flags().StringVar(&photo, "photo", "", "Imagen a adjuntar al fichaje")
	return cmd
}

func snap(cmd *cobra.Command, widget *capture.Widget) error {
	if err := widget.Open(cmd.Context()); err != nil {
		return err
	}
	img, err := widget.Snap(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "📷 Foto capturada (%dx%d)\n", img.Width, img.Height)
	return nil
}

func printLocation(w io.Writer, loc location.Result) {
	if loc.Address.OK() {
		fmt.Fprintf(w, "Ubicación: 📍 %s\n", loc.Address)
		return
	}
	fmt.Fprintf(w, "Ubicación: %s\n", loc.Address)
}

func printHistory(w io.Writer, events []api.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "Sin fichajes")
		return
	}
	for _, evt := range events {
		fmt.Fprintf(w, "%s\t%s\n", evt.Timestamp, evt.Kind.Label())
	}
}

func newHistorialCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "historial",
		Short: "Muestra los fichajes recientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireSession(); err != nil {
				return err
			}

			s := a.submitter()
			if err := s.Refresh(cmd.Context()); err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), s.History().Events())
			return nil
		},
	}
}

func newUbicacionCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ubicacion",
		Short: "Resuelve la ubicación y dirección actuales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireSession(); err != nil {
				return err
			}

			loc := a.resolver(a.options.NewLocator(a.http)).Resolve(cmd.Context())
			if loc.Position != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Coordenadas: %s\n", loc.Position)
			}
			printLocation(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}
