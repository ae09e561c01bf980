package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/chunker"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/colormap"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/document"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/reader"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/segment"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/vectorstore"
)

// Worker processes a single document job: parse, segment, validate, chunk,
// overlap-link, index. Each job owns its page estimator and section/chunk
// lists; the classifier is the only shared (read-only) state.
type Worker struct {
	classifier *colormap.Classifier
	segCfg     segment.Config
	chunker    *chunker.HybridChunker
	store      *vectorstore.Client
	log        *slog.Logger

	indexBatchSize int
}

func NewWorker(cls *colormap.Classifier, segCfg segment.Config, hc *chunker.HybridChunker, store *vectorstore.Client, log *slog.Logger, indexBatchSize int) *Worker {
	if indexBatchSize <= 0 {
		indexBatchSize = 64
	}
	return &Worker{
		classifier:     cls,
		segCfg:         segCfg,
		chunker:        hc,
		store:          store,
		log:            log,
		indexBatchSize: indexBatchSize,
	}
}

// Process runs the full segmentation pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	rd, err := reader.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := rd.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	job.ContentHash = ContentHashHex([]byte(flattenText(doc)))

	// Phase 1.5: Dedup check against the index.
	if !job.Force {
		existing, err := w.store.FindByHash(ctx, job.ContentHash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if existing != nil {
			log.Info("duplicate document, skipping", "existing_doc_id", existing.DocID)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 2: Segment. The page estimator is fresh per document.
	job.SetStatus(StatusSegmenting, "segmenting")
	pages := segment.NewParagraphCounter(w.segCfg.ParagraphsPerPage)
	sections := segment.Assemble(doc, w.classifier, pages, w.segCfg)
	validated := segment.Validate(sections, w.segCfg.MinSectionChars, log)
	job.SetSections(validated)
	log.Info("assembled sections", "raw", len(sections), "validated", len(validated))

	if len(validated) == 0 {
		log.Warn("no labeled sections found")
		job.AddError("no color-labeled content")
		job.SetStatus(StatusFailed, "segmenting")
		return
	}

	// Phase 3: Chunk within label boundaries, then link overlap context.
	job.SetStatus(StatusChunking, "chunking")
	hc := w.chunker
	if job.ChunkCfg != nil {
		hc = hc.WithConfig(*job.ChunkCfg)
	}
	chunks := hc.ChunkSections(validated, job.DocID)
	hc.LinkOverlap(chunks)
	job.SetChunks(chunks)
	log.Info("chunked document", "sections", len(validated), "chunks", len(chunks))

	if len(chunks) == 0 {
		job.AddError("no chunks produced")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 4: Index chunks in order. Batches post sequentially so the
	// index observes chunk_id order.
	job.SetStatus(StatusIndexing, "indexing")
	indexed := 0
	for start := 0; start < len(chunks); start += w.indexBatchSize {
		end := min(start+w.indexBatchSize, len(chunks))
		batch := vectorstore.ChunkBatch{
			DocID:       job.DocID,
			BatchID:     generateULID(),
			Filename:    job.Filename,
			ContentHash: job.ContentHash,
			Chunks:      chunks[start:end],
		}

		if err := w.putWithRetry(ctx, log, batch); err != nil {
			log.Error("indexing failed", "batch_start", start, "error", err)
			job.AddError(fmt.Sprintf("index chunks %d-%d: %s", start, end-1, err))
			break
		}
		indexed += end - start
		job.AddChunksIndexed(end - start)
	}

	switch {
	case indexed == len(chunks):
		job.SetStatus(StatusCompleted, "done")
	case indexed > 0:
		job.SetStatus(StatusPartial, "indexing")
	default:
		job.SetStatus(StatusFailed, "indexing")
	}
	log.Info("indexing complete", "indexed", indexed, "total", len(chunks))
}

func (w *Worker) putWithRetry(ctx context.Context, log *slog.Logger, batch vectorstore.ChunkBatch) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = w.store.PutChunks(ctx, batch)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable indexing error", "batch_id", batch.BatchID, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// flattenText joins all paragraph text for content hashing.
func flattenText(doc *document.Document) string {
	var sb strings.Builder
	for _, p := range doc.Paragraphs {
		if t := p.Text(); t != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(t)
		}
	}
	return sb.String()
}
