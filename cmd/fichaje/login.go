package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCommand(flags *rootFlags) *cobra.Command {
	var dni string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión con DNI y contraseña",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer a.Close()

			stdin := cmd.InOrStdin()
			in := bufio.NewReader(stdin)
			if dni == "" {
				if dni, err = prompt(cmd.ErrOrStderr(), in, "DNI: "); err != nil {
					return err
				}
			}
			password, err := promptPassword(cmd.ErrOrStderr(), stdin, in, "Contraseña: ")
			if err != nil {
				return err
			}

			res := a.gate().Login(cmd.Context(), dni, password)
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if !res.OK {
				return errLoginFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dni, "dni", "", "DNI del usuario")
	return cmd
}

var errLoginFailed = errors.New("no se pudo iniciar sesión")

func newLogoutCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión guardada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.gate().Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func prompt(w io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(w io.Writer, stdin io.Reader, in *bufio.Reader, label string) (string, error) {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prompt(w, in, label)
	}
	fd := int(f.Fd())
	fmt.Fprint(w, label)
	bs, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}
