package covers

import (
	"context"
	"log/slog"
	"sync"
)

// Job asks the worker to fetch one cover.
type Job struct {
	UserID string
	BookID string
	URL    string
}

// CompletionFunc receives every successful download.
type CompletionFunc func(ctx context.Context, job Job, result *DownloadResult)

// WorkerOptions configures a Worker.
type WorkerOptions struct {
	Workers   int // defaults to 2
	QueueSize int // defaults to 256
}

// Worker downloads covers in the background.
// Failures are logged and never surfaced to the caller that enqueued them.
type Worker struct {
	downloader *Downloader
	onComplete CompletionFunc
	logger     *slog.Logger
	workers    int

	ctx    context.Context //nolint:containedctx // Context needed for worker lifecycle management
	cancel context.CancelFunc
	wg     sync.WaitGroup
	jobs   chan Job

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewWorker creates a cover worker. Call Start to begin processing.
func NewWorker(downloader *Downloader, onComplete CompletionFunc, logger *slog.Logger, opts WorkerOptions) *Worker {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		downloader: downloader,
		onComplete: onComplete,
		logger:     logger,
		workers:    opts.Workers,
		ctx:        ctx,
		cancel:     cancel,
		jobs:       make(chan Job, opts.QueueSize),
	}
}

// SetOnComplete replaces the completion callback. Call it before Start.
func (w *Worker) SetOnComplete(fn CompletionFunc) {
	w.onComplete = fn
}

// Start launches the worker goroutines.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		w.logger.Info("starting cover workers", slog.Int("workers", w.workers))
		for i := range w.workers {
			w.wg.Add(1)
			go w.run(i)
		}
	})
}

// Stop cancels in-flight downloads and waits for the workers to exit.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		w.wg.Wait()
		w.logger.Info("cover workers stopped")
	})
}

// Enqueue schedules a download. It never blocks: when the queue is full or
// the worker is stopped the job is dropped and false is returned.
func (w *Worker) Enqueue(job Job) bool {
	if !IsRemote(job.URL) {
		return false
	}
	if w.ctx.Err() != nil {
		return false
	}

	select {
	case w.jobs <- job:
		return true
	default:
		w.logger.Warn("cover queue full, dropping job",
			"book_id", job.BookID,
		)
		return false
	}
}

func (w *Worker) run(id int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case job := <-w.jobs:
			w.process(id, job)
		}
	}
}

func (w *Worker) process(workerID int, job Job) {
	result := w.downloader.Download(w.ctx, job.BookID, job.URL)
	if !result.Success {
		w.logger.Warn("cover download failed",
			slog.Int("worker_id", workerID),
			slog.String("book_id", job.BookID),
			slog.String("url", job.URL),
			slog.Any("error", result.Error),
		)
		return
	}

	if w.onComplete != nil {
		w.onComplete(w.ctx, job, result)
	}
}
