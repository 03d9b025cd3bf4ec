// Package chunker splits normalised text into bounded, overlapping
// chunks with boundary-aware breakpoints.
package chunker

import (
	"strings"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Chunker = (*Splitter)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Splitter splits text into overlapping chunks, preferring to break at
// sentence ends, then at word boundaries, and only then mid-word.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't reach chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split returns the ordered chunk texts for the input.
//
// Each chunk tentatively ends chunkSize characters after its start. When
// that would cut mid-text, the end is snapped back to just after the last
// ". " in the window, or failing that to the last space, provided the
// breakpoint lies past the window's midpoint; otherwise the cut is hard.
// The next chunk starts overlap characters before the previous end.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string

	start := 0
	for start < len(text) {
		end := start + s.chunkSize
		if end > len(text) {
			end = len(text)
		}

		if end < len(text) {
			lastPeriod := lastIndexAt(text, ". ", end)
			lastSpace := lastIndexAt(text, " ", end)

			if lastPeriod > start+s.chunkSize/2 {
				end = lastPeriod + 1
			} else if lastSpace > start+s.chunkSize/2 {
				end = lastSpace
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		start = end - s.overlap
		// Stops the final overlap window from re-emitting the tail.
		if start >= len(text)-s.overlap {
			break
		}
	}

	return chunks
}

// lastIndexAt returns the index of the last occurrence of sub that
// starts at or before from, or -1.
func lastIndexAt(text, sub string, from int) int {
	hi := from + len(sub)
	if hi > len(text) {
		hi = len(text)
	}
	return strings.LastIndex(text[:hi], sub)
}
