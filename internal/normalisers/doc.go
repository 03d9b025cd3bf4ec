// Package normalisers contains format-specific document normalisers.
// Each normaliser converts a raw document into plain text suitable for
// chunking and embedding.
package normalisers
