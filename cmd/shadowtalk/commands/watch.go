package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shadowtalk/internal/domain"
	"shadowtalk/internal/session"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream incoming messages until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			fmt.Fprintln(cmd.ErrOrStderr(), "watching for messages, ctrl-c to stop")
			err := wire.Session.Watch(cmd.Context(), wire.Notifier,
				func(msgs []session.ReceivedMessage) {
					for _, m := range msgs {
						printMessage(cmd, m, "")
					}
				},
				func(id domain.GroupID, msgs []session.GroupText) {
					for _, m := range msgs {
						when := time.Unix(m.SentAt, 0).Format(time.RFC3339)
						fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s %s: %s\n", id, when, m.Sender, m.Text)
					}
				},
			)
			if err == nil || err == cmd.Context().Err() {
				return nil
			}
			return err
		},
	}
}
