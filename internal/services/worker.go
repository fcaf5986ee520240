package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-screener/internal/logger"
	"alfredoptarigan/interview-screener/internal/repositories"
)

const (
	jobQueueSize     = 100
	pendingBatchSize = 10
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(docID uuid.UUID)
}

type worker struct {
	docRepo      repositories.DocumentRepository
	indexer      IndexerService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	staleAfter   time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
	log          *zap.Logger
}

func NewWorker(
	docRepo repositories.DocumentRepository,
	indexer IndexerService,
	concurrency int,
	pollInterval time.Duration,
	staleAfter time.Duration,
	log *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		docRepo:      docRepo,
		indexer:      indexer,
		jobQueue:     make(chan uuid.UUID, jobQueueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		staleAfter:   staleAfter,
		stopChan:     make(chan struct{}),
		log:          logger.OrNop(log),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("🚀 Starting index worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.log.Info("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.log.Info("🛑 Stopping worker...")
	w.stopOnce.Do(func() { close(w.stopChan) })
	w.wg.Wait()
	w.log.Info("✅ Worker stopped")
}

// EnqueueJob implements Worker. It never blocks: when the queue is full the
// document stays queued in the database and the poller picks it up later.
func (w *worker) EnqueueJob(docID uuid.UUID) {
	select {
	case <-w.stopChan:
		w.log.Warn("⚠️  Worker stopped, cannot enqueue job", zap.String("doc_id", docID.String()))
		return
	default:
	}

	select {
	case w.jobQueue <- docID:
		w.log.Debug("📥 Job enqueued", zap.String("doc_id", docID.String()))
	default:
		w.log.Warn("Job queue full, leaving job to the poller", zap.String("doc_id", docID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			log.Debug("👷 Worker stopped")
			return
		case <-ctx.Done():
			return
		case docID := <-w.jobQueue:
			log.Debug("👷 Processing job", zap.String("doc_id", docID.String()))
			if err := w.indexer.IndexDocument(ctx, docID); err != nil {
				log.Error("❌ Failed to process job", zap.String("doc_id", docID.String()), zap.Error(err))
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			w.log.Debug("🔄 Pending jobs poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.requeueStale()

			pending, err := w.docRepo.FindPendingIndex(pendingBatchSize)
			if err != nil {
				w.log.Warn("⚠️  Failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.log.Info("📋 Found pending documents", zap.Int("count", len(pending)))
			}

			for _, doc := range pending {
				w.EnqueueJob(doc.ID)
			}
		}
	}
}

// requeueStale recovers documents left in processing by a worker that died
// mid-index. A non-positive staleAfter disables recovery.
func (w *worker) requeueStale() {
	if w.staleAfter <= 0 {
		return
	}

	n, err := w.docRepo.RequeueStale(time.Now().Add(-w.staleAfter))
	if err != nil {
		w.log.Warn("⚠️  Failed to requeue stale documents", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("♻️  Requeued stale documents", zap.Int64("count", n))
	}
}
