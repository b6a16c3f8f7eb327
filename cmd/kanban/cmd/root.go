package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kanban-board/backend/internal/apiclient"
	"github.com/kanban-board/backend/internal/config"
	"github.com/kanban-board/backend/internal/session"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once the session file is open.
type app struct {
	cfg     config.ClientConfig
	store   *session.BoltStore
	session *session.Manager
	api     *apiclient.Client
}

var (
	current *app
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:           "kanban",
	Short:         "Kanban board client",
	Long:          `Log in to a Kanban API server and manage the tickets on its board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg := config.LoadClient()
		if apiURL != "" {
			cfg.APIURL = apiURL
		}

		a, err := openApp(cmd, cfg)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.close()
			current = nil
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if current != nil {
			current.close()
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (overrides KANBAN_API_URL)")
}

func openApp(cmd *cobra.Command, cfg config.ClientConfig) (*app, error) {
	store, err := session.OpenBoltStore(cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	out := cmd.ErrOrStderr()
	mgr, err := session.NewManager(cmd.Context(), store,
		session.WithInterval(cfg.CheckInterval),
		session.WithExpiryBuffer(cfg.ExpiryBuffer),
		session.WithLogoutHook(func() {
			fmt.Fprintln(out, "Session ended, run `kanban login` to sign in again.")
		}),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	mgr.Start()

	api := apiclient.New(cfg.APIURL,
		apiclient.WithTokenSource(mgr),
		apiclient.WithLogoutOnAuthFailure(mgr),
	)
	return &app{cfg: cfg, store: store, session: mgr, api: api}, nil
}

func (a *app) close() {
	a.session.Stop()
	_ = a.store.Close()
}

func (a *app) requireLogin() error {
	if !a.session.IsLoggedIn() {
		return fmt.Errorf("not logged in, run `kanban login` first")
	}
	return nil
}
