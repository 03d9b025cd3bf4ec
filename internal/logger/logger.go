// Package logger prints pipeline diagnostics to stderr when the
// --verbose flag is set. Command output goes through cobra; this is
// only for tracing ingestion and retrieval.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// Debug logs fine-grained progress (per-file, per-batch).
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info logs pipeline milestones.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn logs recoverable failures the pipeline worked around.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Section prints a header separating pipeline phases.
func Section(name string) {
	logf("", "\n=== %s ===", name)
}

func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
