package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/logger"
)

const resumeDocType = "resume"

// ErrIndexDisabled is returned when semantic search is not configured.
var ErrIndexDisabled = errors.New("resume index is disabled")

// Embedder turns text into a vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ResumeHit is the best matching chunk of one indexed résumé.
type ResumeHit struct {
	DocumentID string
	Score      float32
	Text       string
}

type ResumeIndex interface {
	IndexDocument(ctx context.Context, docID string, text string) (int, error)
	Search(ctx context.Context, query string, limit int) ([]ResumeHit, error)
	Remove(ctx context.Context, docID string) error
}

type resumeIndex struct {
	embedder     Embedder
	store        QdrantService
	chunker      TextChunker
	chunkSize    int
	chunkOverlap int
	log          *zap.Logger
}

func NewResumeIndex(embedder Embedder, store QdrantService, log *zap.Logger) ResumeIndex {
	return &resumeIndex{
		embedder:     embedder,
		store:        store,
		chunker:      NewTextChunker(),
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
		log:          logger.OrNop(log),
	}
}

// IndexDocument chunks the text, embeds every chunk and stores the vectors.
// It returns the number of chunks stored.
func (r *resumeIndex) IndexDocument(ctx context.Context, docID string, text string) (int, error) {
	chunks := r.chunker.ChunkText(text, r.chunkSize, r.chunkOverlap)
	if len(chunks) == 0 {
		return 0, errors.New("document has no text to index")
	}

	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := r.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		embeddings = append(embeddings, embedding)
	}

	if err := r.store.UpsertChunks(ctx, docID, resumeDocType, chunks, embeddings); err != nil {
		return 0, err
	}

	r.log.Debug("Indexed resume", zap.String("doc_id", docID), zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// Search returns at most limit résumés, best match first. Each résumé appears
// once, represented by its best chunk.
func (r *resumeIndex) Search(ctx context.Context, query string, limit int) ([]ResumeHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is empty")
	}
	if limit <= 0 {
		limit = 5
	}

	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Several chunks of one résumé may rank high, so over-fetch before
	// collapsing them.
	results, err := r.store.SearchSimilar(ctx, embedding, resumeDocType, limit*3)
	if err != nil {
		return nil, err
	}

	hits := make([]ResumeHit, 0, limit)
	seen := make(map[string]int, limit)
	for _, res := range results {
		if res.ID == "" {
			continue
		}
		if i, ok := seen[res.ID]; ok {
			if res.Score > hits[i].Score {
				hits[i].Score = res.Score
				hits[i].Text = res.Text
			}
			continue
		}
		if len(hits) == limit {
			continue
		}
		seen[res.ID] = len(hits)
		hits = append(hits, ResumeHit{DocumentID: res.ID, Score: res.Score, Text: res.Text})
	}

	return hits, nil
}

func (r *resumeIndex) Remove(ctx context.Context, docID string) error {
	return r.store.DeleteDocument(ctx, docID)
}
