package cli

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

var loadDocsCmd = &cobra.Command{
	Use:   "load-docs [path] [collection]",
	Short: "Load HTML documents from a directory",
	Long: `Wipes the target collection and loads every .html/.htm file found
under the given directory into it. The collection defaults to "documents".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLoadDocs,
}

var loadDocsURLCmd = &cobra.Command{
	Use:   "load-docs-url [url] [collection]",
	Short: "Load HTML documents from a ZIP archive URL",
	Long: `Downloads a ZIP archive, extracts it to a temporary directory, and
loads every .html/.htm file it contains into the target collection.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLoadDocsURL,
}

// Display metadata flags shared by the load commands.
var (
	loadTitle string
	loadLogo  string
)

func init() {
	for _, cmd := range []*cobra.Command{loadDocsCmd, loadDocsURLCmd} {
		cmd.Flags().StringVar(&loadTitle, "title", "", "Display title for the collection")
		cmd.Flags().StringVar(&loadLogo, "logo", "", "Logo URL for the collection")
	}

	rootCmd.AddCommand(loadDocsCmd)
	rootCmd.AddCommand(loadDocsURLCmd)
}

func runLoadDocs(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	collection := collectionArg(args)

	result := documentService.LoadFromDirectory(cmd.Context(), path, collection)
	return reportLoadResult(cmd, result, collection)
}

func runLoadDocsURL(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	url := args[0]
	collection := collectionArg(args)

	cmd.Printf("Downloading %s...\n", url)
	dir, cleanup, err := downloadAndExtract(url)
	if err != nil {
		return fmt.Errorf("failed to fetch archive: %w", err)
	}
	defer cleanup()

	result := documentService.LoadFromDirectory(cmd.Context(), dir, collection)
	return reportLoadResult(cmd, result, collection)
}

func collectionArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return domain.DefaultCollection
}

// reportLoadResult prints the ingestion summary, applies the --title and
// --logo flags, and fails only when nothing at all was loaded.
func reportLoadResult(cmd *cobra.Command, result *domain.LoadResult, collection string) error {
	cmd.Println(result.Message)

	if result.FilesProcessed == 0 && result.Errors > 0 {
		return errors.New(result.Message)
	}

	if collectionService != nil {
		if loadTitle != "" {
			if err := collectionService.SetTitle(collection, loadTitle); err != nil {
				logger.Warn("Failed to set collection title: %v", err)
			}
		}
		if loadLogo != "" {
			if err := collectionService.SetLogo(collection, loadLogo); err != nil {
				logger.Warn("Failed to set collection logo: %v", err)
			}
		}
	}

	return nil
}

// downloadAndExtract fetches a ZIP archive and unpacks it into a fresh
// temporary directory. The caller owns the returned cleanup function.
func downloadAndExtract(url string) (string, func(), error) {
	resp, err := http.Get(url) //nolint:gosec,noctx // URL is operator-supplied
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	archive, err := os.CreateTemp("", "docchat-*.zip")
	if err != nil {
		return "", nil, err
	}
	defer os.Remove(archive.Name()) //nolint:errcheck

	if _, err := io.Copy(archive, resp.Body); err != nil {
		archive.Close() //nolint:errcheck,gosec
		return "", nil, err
	}
	if err := archive.Close(); err != nil {
		return "", nil, err
	}

	dir, err := os.MkdirTemp("", "docchat-docs-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) } //nolint:errcheck

	if err := extractZip(archive.Name(), dir); err != nil {
		cleanup()
		return "", nil, err
	}
	return dir, cleanup, nil
}

// extractZip unpacks an archive into dest, rejecting entries that would
// escape it.
func extractZip(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close() //nolint:errcheck

	for _, entry := range reader.File {
		target := filepath.Join(dest, filepath.Clean(entry.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(entry, target); err != nil {
			return fmt.Errorf("extract %s: %w", entry.Name, err)
		}
	}
	return nil
}

func extractFile(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close() //nolint:errcheck

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:gosec
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil { //nolint:gosec // archive is operator-supplied
		dst.Close() //nolint:errcheck,gosec
		return err
	}
	return dst.Close()
}
