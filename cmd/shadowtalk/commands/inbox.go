package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"shadowtalk/internal/session"
	"shadowtalk/internal/trust"
)

func inboxCmd() *cobra.Command {
	var saveDir string
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Fetch and decrypt pending direct messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			msgs, err := wire.Session.FetchInbox(cmd.Context())
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no new messages")
				return nil
			}
			for _, m := range msgs {
				printMessage(cmd, m, saveDir)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "write attachments into this directory")
	return cmd
}

func printMessage(cmd *cobra.Command, m session.ReceivedMessage, saveDir string) {
	out := cmd.OutOrStdout()
	when := time.Unix(m.SentAt, 0).Format(time.RFC3339)

	switch m.Trust.Status {
	case trust.FirstSeen:
		fmt.Fprintf(out, "[new contact %s, fingerprint %s]\n", m.Sender, m.Trust.Fingerprint)
	case trust.KeyChanged:
		fmt.Fprintf(out, "[WARNING: %s's key changed! was %s, now %s]\n", m.Sender, m.Trust.Previous, m.Trust.Fingerprint)
	}

	fmt.Fprintf(out, "%s %s: %s\n", when, m.Sender, m.Text)

	if len(m.Attachment) > 0 {
		if saveDir != "" {
			// The filename is sender-controlled; strip any path the
			// sender smuggled in so the write stays inside saveDir.
			name := filepath.Base(m.Filename)
			if name == "." || name == ".." || name == string(os.PathSeparator) {
				fmt.Fprintf(cmd.ErrOrStderr(), "  refusing attachment with unusable filename %q\n", m.Filename)
				return
			}
			path := filepath.Join(saveDir, name)
			if err := os.WriteFile(path, m.Attachment, 0o600); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "  could not save %s: %v\n", name, err)
			} else {
				fmt.Fprintf(out, "  attachment saved to %s\n", path)
			}
		} else {
			fmt.Fprintf(out, "  attachment %s (%d bytes, %s)\n", m.Filename, len(m.Attachment), m.MimeType)
		}
	}
}
