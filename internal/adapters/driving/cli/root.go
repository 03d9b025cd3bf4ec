// Package cli implements the cobra command tree. Services are injected
// by the entrypoint through SetServices; commands guard against missing
// services so partial configuration degrades to clear errors instead of
// panics.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Nil until SetServices is called.
var (
	documentService     driving.DocumentService
	chatService         driving.ChatService
	collectionService   driving.CollectionService
	conversationService driving.ConversationService
	promptStore         driven.SystemPromptStore
	configStore         driven.ConfigStore

	validateLLM       func(*domain.LLMSettings) error
	validateEmbedding func(*domain.EmbeddingSettings) error
)

// Persistent flags.
var (
	verbose bool
	envFile string
)

// initHook builds and injects the services. It runs once, after flag
// parsing and .env loading, so wiring sees the loaded environment.
var (
	initHook    func() error
	initialised bool
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your HTML documentation",
	Long: `Docchat ingests HTML documentation into a vector store and answers
questions about it using retrieval-augmented generation.

Load documents with 'docchat load-docs', then ask questions with
'docchat ask' or start an interactive session with 'docchat chat'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return err
			}
		} else {
			// A .env in the working directory is optional.
			_ = godotenv.Load() //nolint:errcheck
		}

		if initHook != nil && !initialised {
			initialised = true
			return initHook()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to a .env file to load")
}

// Services bundles everything the command tree needs.
type Services struct {
	Document     driving.DocumentService
	Chat         driving.ChatService
	Collection   driving.CollectionService
	Conversation driving.ConversationService
	PromptStore  driven.SystemPromptStore
	Config       driven.ConfigStore

	// Connectivity checks used by the settings command.
	ValidateLLM       func(*domain.LLMSettings) error
	ValidateEmbedding func(*domain.EmbeddingSettings) error
}

// SetServices injects the service implementations. Called by the
// entrypoint after wiring; fields left nil disable their commands.
func SetServices(s Services) {
	documentService = s.Document
	chatService = s.Chat
	collectionService = s.Collection
	conversationService = s.Conversation
	promptStore = s.PromptStore
	configStore = s.Config
	validateLLM = s.ValidateLLM
	validateEmbedding = s.ValidateEmbedding
}

// OnInit registers the wiring hook run before the first command.
func OnInit(hook func() error) {
	initHook = hook
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
