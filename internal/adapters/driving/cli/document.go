package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Load and inspect single documents",
}

var documentAddCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Load a single HTML file into the default collection",
	Long: `Loads one HTML file without wiping the collection. Use load-docs for
full directory ingestion with replace semantics.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentAdd,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents loaded in this session",
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [filename]",
	Short: "Show a loaded document's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the in-session document registry",
	Long: `Empties the in-memory registry of loaded documents. The vector store
is not touched; stored chunks remain searchable.`,
	RunE: runDocumentClear,
}

func init() {
	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentClearCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
	default:
		return fmt.Errorf("only .html/.htm files can be loaded, got %s", filepath.Base(path))
	}

	chunks, err := documentService.LoadFile(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if chunks == 0 {
		cmd.Printf("No content found in %s.\n", filepath.Base(path))
		return nil
	}

	cmd.Printf("Loaded %s (%d chunks).\n", filepath.Base(path), chunks)
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs := documentService.ListLoaded()
	if len(docs) == 0 {
		cmd.Println("No documents loaded in this session.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].Filename)
		cmd.Printf("    Title:  %s\n", docs[i].Title)
		cmd.Printf("    Chunks: %d\n", docs[i].ChunkCount)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc := documentService.GetByFilename(args[0])
	if doc == nil {
		cmd.Printf("No loaded document named %s.\n", args[0])
		return nil
	}

	cmd.Printf("Document: %s\n\n", doc.Filename)
	cmd.Printf("  ID:      %s\n", doc.ID)
	cmd.Printf("  Title:   %s\n", doc.Title)
	if doc.FilePath != "" {
		cmd.Printf("  Path:    %s\n", doc.FilePath)
	}
	cmd.Printf("  Chunks:  %d\n", doc.ChunkCount)
	cmd.Printf("  Loaded:  %s\n", doc.LoadedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentClear(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	documentService.ClearRegistry()
	cmd.Println("Document registry cleared.")
	return nil
}
