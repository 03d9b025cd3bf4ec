// Package file provides file-based configuration adapters: a TOML config
// store and the system-prompt override file.
package file
