package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shadowtalk/internal/domain"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Write the encrypted vault blob to a file",
		Long: "Writes the vault exactly as stored: still locked under your\n" +
			"passphrase. Restoring it on another device needs that passphrase.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			raw, err := wire.Session.ExportKey()
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], raw, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vault written to %s\n", args[0])
			return nil
		},
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Install an exported vault blob for this account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("username required (-u or config file)")
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := wire.Vault.Import(domain.Username(username), raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vault restored for %s; run login to verify the passphrase\n", username)
			return nil
		},
	}
}

func forgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Wipe this device's copy of the vault",
		Long: "Removes the local key blob and in-memory key material. The\n" +
			"account itself survives; restore a backup to get back in.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			if err := wire.Session.Forget(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "local vault wiped")
			return nil
		},
	}
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the account from the relay and wipe the local vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			if err := wire.Session.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "account deleted")
			return nil
		},
	}
}
