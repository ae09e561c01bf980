package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/chunker"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/config"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/segment"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/vectorstore"
)

// Orchestrator manages the document segmentation pipeline.
type Orchestrator struct {
	jobs       *JobStore
	queue      chan *Job
	classifier *colormap.Classifier
	chunker    *chunker.HybridChunker
	store      *vectorstore.Client
	log        *slog.Logger
	cfg        config.Config
	segCfg     segment.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Documents process independently;
// the classifier and chunker configuration are shared read-only.
func NewOrchestrator(cfg config.Config, cls *colormap.Classifier, hc *chunker.HybridChunker, store *vectorstore.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:       NewJobStore(cfg.JobTTL),
		queue:      make(chan *Job, cfg.MaxQueueSize),
		classifier: cls,
		chunker:    hc,
		store:      store,
		log:        log,
		cfg:        cfg,
		segCfg: segment.Config{
			TitleFontThresholdPt: cfg.TitleFontThresholdPt,
			ParagraphsPerPage:    cfg.ParagraphsPerPage,
			MinSectionChars:      cfg.MinSectionChars,
		},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.classifier, o.segCfg, o.chunker, o.store, o.log, o.cfg.IndexBatchSize)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Store returns the vector-index client for direct use by API handlers.
func (o *Orchestrator) Store() *vectorstore.Client {
	return o.store
}
