package cli

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/logger"
)

// reloadDebounce coalesces filesystem event bursts (editors write several
// events per save) into a single re-ingestion.
const reloadDebounce = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch [path] [collection]",
	Short: "Watch a directory and re-ingest on changes",
	Long: `Loads the directory, then watches it for changes. Each change
re-runs the full wipe-and-reload ingestion after a short debounce.
Stop with Ctrl-C.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	collection := collectionArg(args)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := documentService.LoadFromDirectory(ctx, path, collection)
	cmd.Println(result.Message)
	if result.FilesProcessed == 0 && result.Errors > 0 {
		return errors.New(result.Message)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck

	if err := watchRecursive(watcher, path); err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)...\n", path)

	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("Change detected: %s %s", event.Op, event.Name)

			// New directories must be added to the watch before their
			// contents produce events.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchRecursive(watcher, event.Name); err != nil {
						logger.Warn("Failed to watch %s: %v", event.Name, err)
					}
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			cmd.Println("Changes detected, reloading...")
			result := documentService.LoadFromDirectory(ctx, path, collection)
			cmd.Println(result.Message)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// watchRecursive registers root and every directory below it.
func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
