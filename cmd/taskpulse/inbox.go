package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Unread notifications",
	Args:  cobra.NoArgs,
	RunE:  runInbox,
}

var inboxMarkRead bool

func init() {
	inboxCmd.Flags().BoolVar(&inboxMarkRead, "read", false, "mark listed notifications as read")
}

func runInbox(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	notifs, err := e.store.UnreadNotifications(cmd.Context(), flagUser)
	if err != nil {
		return err
	}
	if len(notifs) == 0 {
		fmt.Println("Inbox empty.")
		return nil
	}

	for _, n := range notifs {
		fmt.Printf("[%s] %s\n  %s\n", n.CreatedAt.In(e.loc).Format("2006-01-02 15:04"), n.Title, n.Message)
	}

	if inboxMarkRead {
		now := e.clock.Now().UTC()
		for _, n := range notifs {
			if err := e.store.MarkNotificationRead(cmd.Context(), n.ID, now); err != nil {
				return err
			}
		}
		fmt.Printf("Marked %d notifications read.\n", len(notifs))
	}
	return nil
}
