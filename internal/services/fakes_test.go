package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/repositories"
)

type fakeEmbedder struct {
	err   error
	mu    sync.Mutex
	texts []string
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.texts = append(f.texts, text)
	return []float32{float32(len(text)), 1}, nil
}

type fakeStore struct {
	upsertErr error
	results   []SearchResult
	upserted  map[string][]string
	deleted   []string
	lastLimit int
}

func (f *fakeStore) InitCollection(ctx context.Context) error { return nil }

func (f *fakeStore) UpsertChunks(ctx context.Context, docID string, docType string, chunks []string, embeddings [][]float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.upserted == nil {
		f.upserted = map[string][]string{}
	}
	f.upserted[docID] = chunks
	return nil
}

func (f *fakeStore) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	f.lastLimit = limit
	return f.results, nil
}

func (f *fakeStore) DeleteDocument(ctx context.Context, docID string) error {
	f.deleted = append(f.deleted, docID)
	return nil
}

// fakeDocRepo is an in-memory DocumentRepository.
type fakeDocRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*models.Document
}

func newFakeDocRepo(docs ...models.Document) *fakeDocRepo {
	r := &fakeDocRepo{docs: map[uuid.UUID]*models.Document{}}
	for i := range docs {
		doc := docs[i]
		r.docs[doc.ID] = &doc
	}
	return r
}

func (r *fakeDocRepo) Create(document *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	doc := *document
	r.docs[doc.ID] = &doc
	return nil
}

func (r *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, repositories.ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocRepo) FindByIDs(ids []uuid.UUID) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []models.Document
	for _, id := range ids {
		if doc, ok := r.docs[id]; ok {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (r *fakeDocRepo) UpdateIndexStatus(id uuid.UUID, status models.IndexStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return repositories.ErrDocumentNotFound
	}
	doc.IndexStatus = status
	if status == models.IndexIndexed {
		doc.IndexError = nil
	}
	return nil
}

func (r *fakeDocRepo) UpdateIndexError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return repositories.ErrDocumentNotFound
	}
	doc.IndexStatus = models.IndexFailed
	doc.IndexError = &errorMsg
	return nil
}

func (r *fakeDocRepo) FindPendingIndex(limit int) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []models.Document
	for _, doc := range r.docs {
		if doc.IndexStatus == models.IndexQueued && len(docs) < limit {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (r *fakeDocRepo) RequeueStale(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, doc := range r.docs {
		if doc.IndexStatus == models.IndexProcessing && doc.UpdatedAt.Before(cutoff) {
			doc.IndexStatus = models.IndexQueued
			doc.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (r *fakeDocRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return repositories.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocRepo) status(id uuid.UUID) models.IndexStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id].IndexStatus
}
