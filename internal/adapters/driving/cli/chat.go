package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the loaded documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Launch the interactive terminal chat. Answers stream in as they are
generated and stay grounded in the loaded documents.

Controls:
  Enter     - Send message
  Esc, q    - Quit`,
	RunE: runChat,
}

// Flags for ask and chat.
var (
	askCollection   string
	askStream       bool
	askSystemPrompt string
)

func init() {
	askCmd.Flags().StringVarP(&askCollection, "collection", "c", "", "Collection to search (default \"documents\")")
	askCmd.Flags().BoolVar(&askStream, "stream", false, "Stream the answer as it is generated")
	askCmd.Flags().StringVar(&askSystemPrompt, "system-prompt", "", "Override the system prompt for this question")
	chatCmd.Flags().StringVarP(&askCollection, "collection", "c", "", "Collection to search (default \"documents\")")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	req := domain.ChatRequest{
		Message:        strings.Join(args, " "),
		SystemPrompt:   askSystemPrompt,
		CollectionName: resolveCollection(askCollection),
	}

	if askStream {
		err := chatService.ChatStream(cmd.Context(), req, func(fragment string) error {
			cmd.Print(fragment)
			return nil
		})
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		cmd.Println()
		return nil
	}

	resp, err := chatService.Chat(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(resp.Message)
	if len(resp.Sources) > 0 {
		cmd.Println("\nSources:")
		for _, source := range resp.Sources {
			cmd.Printf("  %s\n", source)
		}
	}
	cmd.Printf("\n(%dms)\n", resp.ProcessingTimeMs)
	return nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	// Panics inside bubbletea leave the terminal in a bad state without
	// a trace; recover so the stack reaches the user.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app := tui.NewApp(tui.Ports{
		Chat:       chatService,
		Collection: resolveCollection(askCollection),
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}

// resolveCollection applies one alias hop when the collection service is
// available.
func resolveCollection(name string) string {
	if name == "" || collectionService == nil {
		return name
	}
	return collectionService.Resolve(name)
}
