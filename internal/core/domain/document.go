package domain

import "time"

// ParsedDocument is the output of HTML normalisation: a title, the
// flattened text content, and the file identity it came from.
type ParsedDocument struct {
	// Title is the document title, taken from the <title> element or
	// derived from the filename when the element is missing or blank.
	Title string

	// Content is the normalised text with all markup removed and
	// whitespace runs collapsed to single spaces.
	Content string

	// Filename is the base name of the source file.
	Filename string

	// FilePath is the absolute path of the source file.
	// Empty for documents parsed from an in-memory string.
	FilePath string
}

// DocumentInfo is the registry entry for a successfully loaded document.
// Entries exist only in memory and describe what has been confirmed as
// submitted to the vector store.
type DocumentInfo struct {
	// ID is the generated document identifier.
	ID string

	// Filename is the base name of the source file.
	Filename string

	// FilePath is the absolute path of the source file, if any.
	FilePath string

	// Title is the extracted document title.
	Title string

	// ChunkCount is the number of chunks the document was split into.
	ChunkCount int

	// LoadedAt is when the document was loaded.
	LoadedAt time.Time
}

// LoadResult summarises one ingestion run. It is returned to the caller
// and never persisted.
type LoadResult struct {
	// FilesProcessed is the number of files parsed and chunked successfully.
	FilesProcessed int

	// ChunksCreated is the total number of chunks produced.
	ChunksCreated int

	// Errors is the number of files or batches that failed.
	Errors int

	// Message is a human-readable summary of the run.
	Message string
}

// Metadata keys attached to every chunk submitted to the vector store.
const (
	// MetaSource is the path of the source file relative to the ingestion
	// root, forward-slash normalised. Used to build browsable doc URLs.
	MetaSource = "source"

	// MetaFilePath is the absolute path of the source file.
	MetaFilePath = "filePath"

	// MetaTitle is the extracted document title.
	MetaTitle = "title"

	// MetaChunk is the 1-based index of the chunk within its document.
	MetaChunk = "chunk"

	// MetaTotalChunks is the total chunk count of the owning document.
	MetaTotalChunks = "totalChunks"

	// MetaDocID is the identifier of the owning document.
	MetaDocID = "docId"

	// MetaCollection is the collection the chunk was loaded into.
	MetaCollection = "collection"
)
