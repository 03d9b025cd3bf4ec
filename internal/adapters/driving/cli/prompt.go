package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var systemPromptCmd = &cobra.Command{
	Use:   "system-prompt",
	Short: "Manage the system prompt override",
	Long: `View, set, or reset the system prompt used for chat. When no override
is set, a built-in documentation-assistant prompt is used.`,
	RunE: runSystemPromptShow,
}

var systemPromptShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active system prompt",
	RunE:  runSystemPromptShow,
}

var systemPromptSetCmd = &cobra.Command{
	Use:   "set [prompt]",
	Short: "Set the system prompt override",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSystemPromptSet,
}

var systemPromptResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the override and revert to the default prompt",
	RunE:  runSystemPromptReset,
}

// promptFile lets `set` read the prompt from a file instead of arguments.
var promptFile string

func init() {
	systemPromptSetCmd.Flags().StringVarP(&promptFile, "file", "f", "", "Read the prompt from a file")

	systemPromptCmd.AddCommand(systemPromptShowCmd)
	systemPromptCmd.AddCommand(systemPromptSetCmd)
	systemPromptCmd.AddCommand(systemPromptResetCmd)
	rootCmd.AddCommand(systemPromptCmd)
}

func runSystemPromptShow(cmd *cobra.Command, _ []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	prompt, ok, err := promptStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load system prompt: %w", err)
	}

	if ok {
		cmd.Printf("Override (%s):\n\n%s\n", promptStore.Path(), prompt)
		return nil
	}

	cmd.Println("No override set. Using the built-in prompt:")
	if chatService != nil {
		cmd.Printf("\n%s\n", chatService.DefaultSystemPrompt())
	}
	return nil
}

func runSystemPromptSet(cmd *cobra.Command, args []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	var prompt string
	switch {
	case promptFile != "":
		data, err := os.ReadFile(promptFile)
		if err != nil {
			return fmt.Errorf("failed to read prompt file: %w", err)
		}
		prompt = string(data)
	case len(args) > 0:
		prompt = strings.Join(args, " ")
	default:
		return errors.New("provide the prompt as arguments or via --file")
	}

	if strings.TrimSpace(prompt) == "" {
		return errors.New("prompt is empty")
	}

	if err := promptStore.Save(prompt); err != nil {
		return fmt.Errorf("failed to save system prompt: %w", err)
	}

	cmd.Printf("System prompt saved to %s.\n", promptStore.Path())
	return nil
}

func runSystemPromptReset(cmd *cobra.Command, _ []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	if err := promptStore.Reset(); err != nil {
		return fmt.Errorf("failed to reset system prompt: %w", err)
	}

	cmd.Println("System prompt reset to the built-in default.")
	return nil
}
