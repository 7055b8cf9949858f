package pipeline

import (
	"testing"
	"time"
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

func TestNewJob_Defaults(t *testing.T) {
	job := NewJob("./docs", []string{"./docs/a.rst"})
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("expected queued job, got %s/%s", job.Status, job.Phase)
	}
	if len(job.ID) != 20 {
		t.Errorf("expected 20-char job id, got %q", job.ID)
	}
	if job.Root != "./docs" || len(job.AllowPaths) != 1 {
		t.Errorf("unexpected job fields: %+v", job)
	}
}

func TestNewJob_UniqueIDs(t *testing.T) {
	a := NewJob("./docs", nil)
	b := NewJob("./docs", nil)
	if a.ID == b.ID {
		t.Error("expected distinct job ids for the same root")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("./docs", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusScanning, "scanning"},
		{StatusStoring, "storing"},
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
	job := NewJob("./docs", nil)
	job.AddError("block at line 3 misaligned")
	job.AddError("file unreadable")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "block at line 3 misaligned" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_SetCounts(t *testing.T) {
	job := NewJob("./docs", nil)
	job.SetCounts(4, 9, 31)

	snap := job.Snapshot()
	if snap.Progress.FilesMatched != 4 || snap.Progress.BlocksExtracted != 9 || snap.Progress.NodesBuilt != 31 {
		t.Errorf("unexpected progress: %+v", snap.Progress)
	}
}

func TestJob_SetRunID(t *testing.T) {
	job := NewJob("./docs", nil)
	job.SetRunID("run-xyz")
	if snap := job.Snapshot(); snap.RunID != "run-xyz" {
		t.Errorf("expected run id %q, got %q", "run-xyz", snap.RunID)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := NewJob("./docs", nil)
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
	job := NewJob("./docs", nil)
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
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

	expired := NewJob("./old", nil)
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob("./new", nil)
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
