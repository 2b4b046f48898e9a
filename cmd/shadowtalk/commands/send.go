package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shadowtalk/internal/domain"
	"shadowtalk/internal/session"
)

// send <recipient> <message>: encrypt and deliver a direct message.
func sendCmd() *cobra.Command {
	var (
		filePath string
		burn     bool
		expiry   int
	)
	cmd := &cobra.Command{
		Use:   "send <recipient> [message]",
		Short: "Encrypt and send a direct message",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			var text []byte
			if len(args) == 2 {
				text = []byte(args[1])
			}

			var att *session.Attachment
			if filePath != "" {
				data, err := os.ReadFile(filePath)
				if err != nil {
					return err
				}
				att = &session.Attachment{
					Data:     data,
					Filename: filepath.Base(filePath),
					MimeType: mime.TypeByExtension(filepath.Ext(filePath)),
				}
			}

			err := wire.Session.SendDirect(cmd.Context(), domain.Username(args[0]), text, att, session.SendOptions{
				BurnAfterRead: burn,
				ExpirySeconds: expiry,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "attach a file")
	cmd.Flags().BoolVar(&burn, "burn", false, "ask the recipient's client to discard after reading")
	cmd.Flags().IntVar(&expiry, "expiry", 0, "drop the message if unread after this many seconds")
	return cmd
}
