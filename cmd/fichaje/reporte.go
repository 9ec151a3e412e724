package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fingertech/fichaje/internal/api"
	"github.com/fingertech/fichaje/internal/fileutil"
)

func newReporteCommand(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "reporte csv|excel",
		Short:     "Descarga el reporte de fichajes",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(api.ReportCSV), string(api.ReportExcel)},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := api.ParseReportFormat(args[0])
			if !ok {
				return fmt.Errorf("formato de reporte no soportado: %q", args[0])
			}
			a, err := newApp(cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer a.Close()

			if output == "" {
				output = "fichajes" + format.Ext()
			}
			n, err := downloadReport(cmd, a.client, a.session.Token(), format, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reporte guardado en %s (%d bytes)\n", output, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Fichero de salida")
	return cmd
}

// downloadReport streams the report into path, which is only replaced
// once the whole body has been received.
func downloadReport(cmd *cobra.Command, client *api.Client, token string, format api.ReportFormat, path string) (int64, error) {
	type result struct {
		n   int64
		err error
	}
	pr, pw := io.Pipe()
	done := make(chan result, 1)
	go func() {
		n, err := client.Report(cmd.Context(), token, format, pw)
		pw.CloseWithError(err)
		done <- result{n, err}
	}()
	werr := fileutil.WriteFileAtomically(path, pr)
	_ = pr.Close()

	res := <-done
	if res.err != nil && !errors.Is(res.err, io.ErrClosedPipe) {
		return res.n, res.err
	}
	return res.n, werr
}
