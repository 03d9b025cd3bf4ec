package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, retrieval parameters, and the
vector store endpoint.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	Long: `Configure the chat generation provider.

Available providers:
  ollama - local Ollama instance (no API key)
  openai - OpenAI or any API-compatible server (API key required)`,
	RunE: runSettingsLLM,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the embedding provider used for storage and retrieval.

Available providers:
  ollama - local Ollama instance (no API key)
  openai - OpenAI or any API-compatible server (API key required)`,
	RunE: runSettingsEmbedding,
}

var settingsChromaCmd = &cobra.Command{
	Use:   "chroma [url]",
	Short: "Set the ChromaDB endpoint",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsChroma,
}

// Flags for the provider configuration commands.
var (
	settingsProvider string
	settingsModel    string
	settingsBaseURL  string
)

func init() {
	for _, cmd := range []*cobra.Command{settingsLLMCmd, settingsEmbeddingCmd} {
		cmd.Flags().StringVar(&settingsProvider, "provider", "", "Provider (ollama or openai)")
		cmd.Flags().StringVar(&settingsModel, "model", "", "Model name (empty uses the provider default)")
		cmd.Flags().StringVar(&settingsBaseURL, "base-url", "", "API endpoint override")
	}

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsChromaCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Chunk size: %s\n", orDefault(configStore.GetInt("rag.chunk_size"), 1000))
	cmd.Printf("  Overlap:    %s\n", orDefault(configStore.GetInt("rag.overlap"), 200))
	cmd.Printf("  Top K:      %s\n", orDefault(configStore.GetInt("rag.top_k"), 5))
	cmd.Println()

	cmd.Println("[Chroma]")
	url := configStore.GetString("chroma.url")
	if url == "" {
		url = "http://localhost:8000 (default)"
	}
	cmd.Printf("  URL: %s\n", url)
	cmd.Println()

	printProviderSection(cmd, "LLM", "llm")
	printProviderSection(cmd, "Embedding", "embedding")

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func printProviderSection(cmd *cobra.Command, label, prefix string) {
	cmd.Printf("[%s]\n", label)

	settings := providerSettings(prefix)
	if settings.Provider == "" {
		cmd.Println("  Provider: (not set)")
		cmd.Println()
		return
	}

	cmd.Printf("  Provider: %s\n", settings.Provider)
	if settings.Model != "" {
		cmd.Printf("  Model:    %s\n", settings.Model)
	}
	if settings.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.BaseURL)
	}
	if settings.Provider.RequiresAPIKey() {
		if settings.APIKey != "" {
			cmd.Printf("  API Key:  %s\n", maskAPIKey(settings.APIKey))
		} else {
			cmd.Printf("  API Key:  (not set)\n")
		}
	}

	status := "configured"
	if !settings.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status:   %s\n", status)
	cmd.Println()
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if err := configureProvider(cmd, "llm"); err != nil {
		return err
	}

	if validateLLM != nil {
		cmd.Print("Validating configuration... ")
		settings := providerSettings("llm")
		llm := domain.LLMSettings(settings)
		if err := validateLLM(&llm); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if err := configureProvider(cmd, "embedding"); err != nil {
		return err
	}

	if validateEmbedding != nil {
		cmd.Print("Validating configuration... ")
		settings := providerSettings("embedding")
		if err := validateEmbedding(&settings); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}
	return nil
}

func runSettingsChroma(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set("chroma.url", args[0]); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("Chroma endpoint set to %s.\n", args[0])
	return nil
}

// configureProvider writes provider/model/base-url for the given key
// prefix and prompts for an API key when the provider needs one.
func configureProvider(cmd *cobra.Command, prefix string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	provider := domain.AIProvider(settingsProvider)
	if !provider.IsValid() {
		return fmt.Errorf("invalid provider %q (use ollama or openai)", settingsProvider)
	}

	if err := configStore.Set(prefix+".provider", provider.String()); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	if settingsModel != "" {
		if err := configStore.Set(prefix+".model", settingsModel); err != nil {
			return fmt.Errorf("failed to save setting: %w", err)
		}
	}
	if settingsBaseURL != "" {
		if err := configStore.Set(prefix+".base_url", settingsBaseURL); err != nil {
			return fmt.Errorf("failed to save setting: %w", err)
		}
	}

	if provider.RequiresAPIKey() && configStore.GetString(prefix+".api_key") == "" {
		cmd.Print("Enter API key: ")
		apiKey := readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
		if err := configStore.Set(prefix+".api_key", apiKey); err != nil {
			return fmt.Errorf("failed to save setting: %w", err)
		}
	}

	cmd.Printf("%s provider configured: %s\n", strings.ToUpper(prefix[:1])+prefix[1:], provider)
	return nil
}

// providerSettings reads a provider block from the config store. The
// embedding and LLM blocks share a shape, so both read through
// EmbeddingSettings and convert.
func providerSettings(prefix string) domain.EmbeddingSettings {
	if configStore == nil {
		return domain.EmbeddingSettings{}
	}
	return domain.EmbeddingSettings{
		Provider: domain.AIProvider(configStore.GetString(prefix + ".provider")),
		Model:    configStore.GetString(prefix + ".model"),
		BaseURL:  configStore.GetString(prefix + ".base_url"),
		APIKey:   configStore.GetString(prefix + ".api_key"),
	}
}

func orDefault(value, fallback int) string {
	if value > 0 {
		return fmt.Sprintf("%d", value)
	}
	return fmt.Sprintf("%d (default)", fallback)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Read without echo when attached to a terminal.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
