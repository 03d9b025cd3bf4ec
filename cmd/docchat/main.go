// Command docchat is a retrieval-augmented chat CLI for HTML
// documentation. It wires the driven adapters to the core services and
// hands them to the command tree.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	metadatafile "github.com/custodia-labs/docchat/internal/adapters/driven/metadata/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vectorstore/chroma"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/chunker"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/normalisers/html"
)

// closers collects adapters to shut down after the command finishes.
var closers []io.Closer

func main() {
	cli.OnInit(wire)

	err := cli.Execute()

	for _, c := range closers {
		c.Close() //nolint:errcheck,gosec
	}
	if err != nil {
		os.Exit(1)
	}
}

// wire builds the driven adapters and injects the core services. It runs
// after flag parsing, so the environment includes any loaded .env file.
// Missing providers disable their commands instead of failing startup.
func wire() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	dataDir := configStore.GetString("rag.data_dir")

	promptStore, err := configfile.NewSystemPromptStore(dataDir)
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	metadataStore, err := metadatafile.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}

	svcs := cli.Services{
		Collection:        services.NewCollectionService(metadataStore),
		PromptStore:       promptStore,
		Config:            configStore,
		ValidateLLM:       ai.ValidateLLMConfig,
		ValidateEmbedding: ai.ValidateEmbeddingConfig,
	}

	if conversationStore, err := sqlite.NewStore(dataDir); err != nil {
		logger.Warn("Conversation store unavailable: %v", err)
	} else {
		closers = append(closers, conversationStore)
		svcs.Conversation = services.NewConversationService(conversationStore)
	}

	// Document and chat services need an embedding provider; without
	// one their commands report themselves unconfigured.
	embedder, err := ai.CreateEmbeddingService(embeddingSettings(configStore))
	if err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
	}

	if embedder != nil {
		closers = append(closers, embedder)

		vectorStore := chroma.NewStore(chroma.Config{
			BaseURL: firstNonEmpty(configStore.GetString("chroma.url"), os.Getenv("CHROMA_URL")),
		}, embedder)
		closers = append(closers, vectorStore)

		svcs.Document = services.NewDocumentService(
			vectorStore,
			html.New(),
			newChunker(configStore),
			memory.NewRegistry(),
		)

		llm, err := ai.CreateLLMService(llmSettings(configStore))
		if err != nil {
			logger.Warn("LLM service unavailable: %v", err)
		}
		if llm != nil {
			closers = append(closers, llm)
			svcs.Chat = services.NewChatService(
				vectorStore, llm, promptStore, configStore.GetInt("rag.top_k"))
		}
	}

	cli.SetServices(svcs)
	return nil
}

func newChunker(configStore driven.ConfigStore) *chunker.Splitter {
	var opts []chunker.Option
	if size := configStore.GetInt("rag.chunk_size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap := configStore.GetInt("rag.overlap"); overlap > 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return chunker.New(opts...)
}

func llmSettings(configStore driven.ConfigStore) *domain.LLMSettings {
	return &domain.LLMSettings{
		Provider: domain.AIProvider(firstNonEmpty(configStore.GetString("llm.provider"), "ollama")),
		Model:    configStore.GetString("llm.model"),
		BaseURL:  configStore.GetString("llm.base_url"),
		APIKey:   firstNonEmpty(configStore.GetString("llm.api_key"), os.Getenv("OPENAI_API_KEY")),
	}
}

func embeddingSettings(configStore driven.ConfigStore) *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider: domain.AIProvider(firstNonEmpty(configStore.GetString("embedding.provider"), "ollama")),
		Model:    configStore.GetString("embedding.model"),
		BaseURL:  configStore.GetString("embedding.base_url"),
		APIKey:   firstNonEmpty(configStore.GetString("embedding.api_key"), os.Getenv("OPENAI_API_KEY")),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
