package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shadowtalk/internal/app"
	"shadowtalk/internal/domain"
)

var (
	home       string
	relayURL   string
	username   string
	passphrase string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "shadowtalk",
		Short:         "End-to-end encrypted chat CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}
			if username == "" {
				username = cfg.Username
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}

			wire, err = app.NewWire(cfg, app.NewLogger(cfg.LogLevel))
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.shadowtalk)")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVarP(&username, "username", "u", "", "account username")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "vault passphrase (prompted if omitted)")

	root.AddCommand(
		loginCmd(),
		fingerprintCmd(),
		sendCmd(),
		inboxCmd(),
		groupCmd(),
		backupCmd(),
		restoreCmd(),
		forgetCmd(),
		deleteAccountCmd(),
		watchCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return root.ExecuteContext(ctx)
}

// login opens the vault for the configured account, prompting for the
// passphrase when the flag is absent.
func login(cmd *cobra.Command) error {
	if username == "" {
		return fmt.Errorf("username required (-u or config file)")
	}
	if passphrase == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Passphrase for %s: ", username)
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		passphrase = string(raw)
	}
	_, err := wire.Session.Login(cmd.Context(), domain.Username(username), passphrase)
	return err
}
