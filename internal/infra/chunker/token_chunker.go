// File: internal/infra/chunker/token_chunker.go
package chunker

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"video-ai-tutor/internal/domain"
)

// TokenChunker splits transcript text into overlapping windows measured in
// tokens, so chunk size tracks what the embedding model actually sees.
type TokenChunker struct {
	enc     *tiktoken.Tiktoken
	size    int
	overlap int
}

func NewTokenChunker(size, overlap int) (*TokenChunker, error) {
	if size <= 0 {
		size = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than size %d: %w", overlap, size, domain.ErrInvalidArgument)
	}
	// Offline BPE loader keeps startup independent of the network.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("chunker: load encoding: %w", err)
	}
	return &TokenChunker{enc: enc, size: size, overlap: overlap}, nil
}

// Split returns the token windows of text, adjacent windows sharing the
// configured overlap. Empty or whitespace-only input yields no chunks.
func (c *TokenChunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens := c.enc.Encode(text, nil, nil)
	if len(tokens) <= c.size {
		return []string{strings.TrimSpace(text)}
	}

	step := c.size - c.overlap
	var out []string
	for start := 0; start < len(tokens); start += step {
		end := start + c.size
		if end > len(tokens) {
			end = len(tokens)
		}
		piece := strings.TrimSpace(c.enc.Decode(tokens[start:end]))
		if piece != "" {
			out = append(out, piece)
		}
		if end == len(tokens) {
			break
		}
	}
	return out
}
