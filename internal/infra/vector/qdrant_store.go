// File: internal/infra/vector/qdrant_store.go
package vector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog"

	"video-ai-tutor/internal/domain/model"
	"video-ai-tutor/internal/domain/ports/adapter"
	"video-ai-tutor/internal/domain/ports/repository"
)

var _ repository.VectorIndexRepository = (*QdrantStore)(nil)

// scrollCap bounds how many points SearchAll pulls in one pass. Transcript
// corpora for a single owner stay far below this.
const scrollCap = uint32(4096)

// QdrantStore keeps one Qdrant collection per owner, embedding chunk text
// through the configured embedding adapter on append and search.
type QdrantStore struct {
	client   *qdrant.Client
	embedder adapter.EmbeddingAdapter
	prefix   string
	log      *zerolog.Logger

	mu     sync.Mutex
	owners map[string]*sync.Mutex // serializes writes per owner
}

func NewQdrantStore(client *qdrant.Client, embedder adapter.EmbeddingAdapter, prefix string, logger *zerolog.Logger) *QdrantStore {
	return &QdrantStore{
		client:   client,
		embedder: embedder,
		prefix:   prefix,
		log:      logger,
		owners:   make(map[string]*sync.Mutex),
	}
}

func (s *QdrantStore) collection(ownerID string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, ownerID)
	return s.prefix + sanitized
}

func (s *QdrantStore) ownerLock(ownerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.owners[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.owners[ownerID] = l
	}
	return l
}

// GetOrCreate ensures the owner's collection exists. Creating persists an
// empty index immediately, so a second call observes the same collection.
func (s *QdrantStore) GetOrCreate(ctx context.Context, ownerID string) error {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()
	return s.ensure(ctx, ownerID)
}

func (s *QdrantStore) ensure(ctx context.Context, ownerID string) error {
	name := s.collection(ownerID)
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", name, err)
	}
	if exists {
		return nil
	}
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.embedder.Dimension()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	s.log.Info().Str("owner_id", ownerID).Str("collection", name).Msg("created vector index")
	return nil
}

func (s *QdrantStore) Append(ctx context.Context, ownerID string, chunks []model.TranscriptChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	if err := s.ensure(ctx, ownerID); err != nil {
		return err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, c := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":         c.Text,
				"source_ref":   c.SourceRef,
				"source_label": c.SourceLabel,
				"chunk_index":  int64(c.ChunkIndex),
			}),
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection(ownerID),
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

func (s *QdrantStore) SimilaritySearch(ctx context.Context, ownerID, query string, k int) ([]model.TranscriptChunk, error) {
	if k <= 0 {
		k = 2
	}
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}

	limit := uint64(k)
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection(ownerID),
		Query:          qdrant.NewQuery(vectors[0]...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	out := make([]model.TranscriptChunk, 0, len(hits))
	for _, h := range hits {
		out = append(out, payloadToChunk(h.Payload))
	}
	return out, nil
}

func (s *QdrantStore) SearchAll(ctx context.Context, ownerID string) ([]model.TranscriptChunk, error) {
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection(ownerID),
		Limit:          qdrant.PtrOf(scrollCap),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scroll collection: %w", err)
	}

	out := make([]model.TranscriptChunk, 0, len(points))
	for _, p := range points {
		out = append(out, payloadToChunk(p.Payload))
	}
	// Restore transcript order so concatenation reads naturally.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SourceRef != out[j].SourceRef {
			return out[i].SourceRef < out[j].SourceRef
		}
		return out[i].ChunkIndex < out[j].ChunkIndex
	})
	return out, nil
}

func payloadToChunk(payload map[string]*qdrant.Value) model.TranscriptChunk {
	return model.TranscriptChunk{
		Text:        stringValue(payload["text"]),
		SourceRef:   stringValue(payload["source_ref"]),
		SourceLabel: stringValue(payload["source_label"]),
		ChunkIndex:  int(intValue(payload["chunk_index"])),
	}
}

func stringValue(v *qdrant.Value) string {
	if v == nil {
		return ""
	}
	return v.GetStringValue()
}

func intValue(v *qdrant.Value) int64 {
	if v == nil {
		return 0
	}
	return v.GetIntegerValue()
}
