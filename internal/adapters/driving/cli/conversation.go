package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// defaultSession is the session used for CLI-owned conversations; the
// store keys by session so other frontends can keep their own.
const defaultSession = "cli"

var conversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Manage saved conversations",
}

var conversationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	RunE:  runConversationList,
}

var conversationShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationShow,
}

var conversationDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationDelete,
}

// conversationSession selects whose conversations to operate on.
var conversationSession string

func init() {
	conversationCmd.PersistentFlags().StringVar(&conversationSession, "session", defaultSession, "Session the conversations belong to")

	conversationCmd.AddCommand(conversationListCmd)
	conversationCmd.AddCommand(conversationShowCmd)
	conversationCmd.AddCommand(conversationDeleteCmd)
	rootCmd.AddCommand(conversationCmd)
}

func runConversationList(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	convs, err := conversationService.List(cmd.Context(), conversationSession)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(convs) == 0 {
		cmd.Println("No saved conversations.")
		return nil
	}

	for i := range convs {
		cmd.Printf("  %s\n", convs[i].ID)
		cmd.Printf("    Title:   %s\n", convs[i].Title)
		cmd.Printf("    Updated: %s\n", convs[i].UpdatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d conversations\n", len(convs))
	return nil
}

func runConversationShow(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	conv, err := conversationService.Get(cmd.Context(), conversationSession, args[0])
	if err != nil {
		return fmt.Errorf("failed to get conversation: %w", err)
	}

	cmd.Printf("Conversation: %s\n\n", conv.ID)
	cmd.Printf("  Title:   %s\n", conv.Title)
	cmd.Printf("  Created: %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated: %s\n", conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("\n%s\n", conv.MessagesJSON)
	return nil
}

func runConversationDelete(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	deleted, err := conversationService.Delete(cmd.Context(), conversationSession, args[0])
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	if !deleted {
		cmd.Printf("No conversation with ID %s.\n", args[0])
		return nil
	}
	cmd.Printf("Conversation %s deleted.\n", args[0])
	return nil
}
