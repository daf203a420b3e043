package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the support assistant",
	}
	cmd.AddCommand(
		a.newChatSendCommand(),
		a.newChatHistoryCommand(),
		a.newChatFeedbackCommand(),
		a.newChatSessionCommand(),
	)
	return cmd
}

func (a *app) newChatSendCommand() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send a message to the assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := strings.TrimSpace(strings.Join(args, " "))
			if msg == "" {
				return fmt.Errorf("message is empty")
			}
			reply, err := a.client.SendChatMessage(cmd.Context(), msg, sessionID)
			if err != nil {
				return describe(actionGeneric, err)
			}
			fmt.Fprintln(a.out, reply.Response)
			if reply.ConversationID != 0 {
				fmt.Fprintln(a.out, mutedStyle.Render(fmt.Sprintf("conversation %d", reply.ConversationID)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "chat session id (defaults to this machine's session)")
	return cmd
}

func (a *app) newChatHistoryCommand() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the conversation so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.client.ChatHistory(cmd.Context(), sessionID)
			if err != nil {
				return describe(actionGeneric, err)
			}
			renderHistory(a.out, h)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "chat session id (defaults to this machine's session)")
	return cmd
}

func (a *app) newChatFeedbackCommand() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "feedback <conversation-id> <rating 1-5>",
		Short: "Rate an assistant reply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			convID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("conversation id %q is not a number", args[0])
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil || rating < 1 || rating > 5 {
				return fmt.Errorf("rating must be a number from 1 to 5")
			}
			ack, err := a.client.SendChatFeedback(cmd.Context(), convID, rating, comment)
			if err != nil {
				return describe(actionGeneric, err)
			}
			msg := ack.Message
			if msg == "" {
				msg = "Thanks for the feedback."
			}
			fmt.Fprintln(a.out, msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "optional comment")
	return cmd
}

func (a *app) newChatSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print the chat session id, creating it if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(a.out, a.client.Session().ChatSessionID(cmd.Context()))
			return nil
		},
	}
}
