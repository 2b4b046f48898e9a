package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shadowtalk/internal/domain"
)

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Create and use encrypted group chats",
	}
	cmd.AddCommand(
		groupCreateCmd(),
		groupListCmd(),
		groupSendCmd(),
		groupMessagesCmd(),
		groupRotateCmd(),
	)
	return cmd
}

func groupCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <member> [member...]",
		Short: "Create a group and distribute its key to the members",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			members := make([]domain.Username, 0, len(args)-1)
			for _, m := range args[1:] {
				members = append(members, domain.Username(m))
			}

			view, skipped, err := wire.Session.CreateGroup(cmd.Context(), args[0], members)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Group %q created (%s)\n", view.Name, view.ID)
			for _, s := range skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s not found, no key delivered\n", s)
			}
			return nil
		},
	}
}

func groupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your groups and unwrap their keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			views, err := wire.Session.RefreshGroups(cmd.Context())
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no groups")
				return nil
			}
			for _, v := range views {
				names := make([]string, len(v.Members))
				for i, m := range v.Members {
					names[i] = m.String()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %q  members: %s\n", v.ID, v.Name, strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func groupSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <group-id> <message>",
		Short: "Encrypt and send a message to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			if _, err := wire.Session.RefreshGroups(cmd.Context()); err != nil {
				return err
			}
			if err := wire.Session.SendGroup(cmd.Context(), domain.GroupID(args[0]), []byte(args[1])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
}

func groupMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages <group-id>",
		Short: "Fetch and decrypt a group's message history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			if _, err := wire.Session.RefreshGroups(cmd.Context()); err != nil {
				return err
			}
			msgs, err := wire.Session.FetchGroupMessages(cmd.Context(), domain.GroupID(args[0]))
			if err != nil {
				return err
			}
			for _, m := range msgs {
				when := time.Unix(m.SentAt, 0).Format(time.RFC3339)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", when, m.Sender, m.Text)
			}
			return nil
		},
	}
}

func groupRotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate <group-id>",
		Short: "Replace the group key and re-wrap it for current members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := login(cmd); err != nil {
				return err
			}
			defer wire.Session.Logout()

			if _, err := wire.Session.RefreshGroups(cmd.Context()); err != nil {
				return err
			}
			skipped, err := wire.Session.RotateGroupKey(cmd.Context(), domain.GroupID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "group key rotated")
			for _, s := range skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s not found, cut off from the new key\n", s)
			}
			return nil
		},
	}
}
