// File: internal/domain/model/chunk.go
package model

// TranscriptChunk is the unit of embedding and retrieval: a bounded slice of
// transcript text, lowercased before indexing. ChunkIndex is 0-based and
// sequential within its source.
type TranscriptChunk struct {
	Text        string
	SourceRef   string
	SourceLabel string
	ChunkIndex  int
}
