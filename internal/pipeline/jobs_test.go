package pipeline

import (
	"testing"
	"time"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/chunker"
	"github.com/RioCoderBrazil/MetaSynthesizer/internal/segment"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusSegmenting, "segmenting"},
		{StatusChunking, "chunking"},
		{StatusIndexing, "indexing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("batch 3 failed")
	job.AddError("batch 7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "batch 3 failed" {
		t.Errorf("expected first error %q, got %q", "batch 3 failed", snap.Progress.Errors[0])
	}
}

func TestJob_SetSectionsRecordsSummaries(t *testing.T) {
	job := &Job{ID: "sec-test", DocID: "doc1", UpdatedAt: time.Now()}
	job.SetSections([]segment.Section{
		{Label: "findings", Text: "Feststellungstext.", StartPage: 1, EndPage: 3, Confidence: 0.98},
		{Label: "evaluation", Text: "Beurteilung.", StartPage: 4, EndPage: 4, Confidence: 1},
	})

	sections := job.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sections))
	}
	if sections[0].Label != "findings" || sections[0].EndPage != 3 {
		t.Errorf("unexpected first summary: %+v", sections[0])
	}
	if sections[0].Chars != len("Feststellungstext.") {
		t.Errorf("expected char count recorded, got %d", sections[0].Chars)
	}
	if job.Snapshot().Progress.Sections != 2 {
		t.Errorf("expected progress sections=2, got %d", job.Snapshot().Progress.Sections)
	}
}

func TestJob_SetChunksCountsPerSection(t *testing.T) {
	job := &Job{ID: "chunk-test", DocID: "doc1", UpdatedAt: time.Now()}
	job.SetSections([]segment.Section{
		{Label: "findings", Text: "Text eins."},
		{Label: "response", Text: "Text zwei."},
	})
	job.SetChunks([]chunker.Chunk{
		{ChunkID: "doc1_s0_c0", Label: "findings"},
		{ChunkID: "doc1_s0_c1", Label: "findings"},
		{ChunkID: "doc1_s1_c0", Label: "response"},
	})

	sections := job.Sections()
	if sections[0].Chunks != 2 {
		t.Errorf("expected 2 chunks in section 0, got %d", sections[0].Chunks)
	}
	if sections[1].Chunks != 1 {
		t.Errorf("expected 1 chunk in section 1, got %d", sections[1].Chunks)
	}
	if job.Snapshot().Progress.TotalChunks != 3 {
		t.Errorf("expected total chunks 3, got %d", job.Snapshot().Progress.TotalChunks)
	}
}

func TestJob_AddChunksIndexed(t *testing.T) {
	job := &Job{ID: "idx-test", UpdatedAt: time.Now()}
	job.AddChunksIndexed(64)
	job.AddChunksIndexed(12)

	snap := job.Snapshot()
	if snap.Progress.ChunksIndexed != 76 {
		t.Errorf("expected 76 chunks indexed, got %d", snap.Progress.ChunksIndexed)
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}
