package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kanban-board/backend/internal/apiclient"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		reader := bufio.NewReader(cmd.InOrStdin())

		username := strings.TrimSpace(loginUsername)
		if username == "" {
			var err error
			if username, err = prompt(reader, out, "Username: "); err != nil {
				return err
			}
		}

		fmt.Fprint(out, "Password: ")
		pw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		res, err := current.api.Login(cmd.Context(), username, string(pw))
		if err != nil {
			return describeError(err)
		}
		if err := current.session.Login(cmd.Context(), res.Token, res.User); err != nil {
			return err
		}

		fmt.Fprintf(out, "Logged in as %s\n", res.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		current.session.Logout(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in and when the session expires",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		user, ok := current.session.User()
		if !ok {
			fmt.Fprintln(out, "Not logged in")
			return nil
		}
		exp, _ := current.session.ExpiresAt()
		fmt.Fprintf(out, "Logged in as %s (id %d)\n", user.Username, user.ID)
		fmt.Fprintf(out, "Session expires at %s\n", exp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "API: %s\n", current.cfg.APIURL)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username to sign in with")
	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
}

func prompt(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// describeError turns client errors into something a terminal user can act on.
func describeError(err error) error {
	switch {
	case apiclient.IsNetworkError(err):
		return fmt.Errorf("cannot reach %s: %w", current.cfg.APIURL, err)
	case apiclient.IsAuthError(err):
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			return errors.New(apiErr.Message)
		}
	}
	return err
}
