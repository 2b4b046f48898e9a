package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"shadowtalk/internal/domain"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Create or unlock the account vault and print its fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			fp, err := wire.Session.Fingerprint()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\nFingerprint: %s\n", username, fp)
			return nil
		},
	}
}

func fingerprintCmd() *cobra.Command {
	var contact string
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print your fingerprint, or a contact's",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			if contact == "" {
				fp, err := wire.Session.Fingerprint()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), fp)
				return nil
			}

			pub, err := wire.Relay.LookupPublicKey(cmd.Context(), domain.Username(contact))
			if err != nil {
				return err
			}
			res := wire.Session.Trust().Check(domain.Username(contact), pub)
			fmt.Fprintln(cmd.OutOrStdout(), res.Fingerprint)
			return nil
		},
	}
	cmd.Flags().StringVar(&contact, "contact", "", "look up a contact instead of yourself")
	return cmd
}
