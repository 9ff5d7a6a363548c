package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainsnapshot "github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
)

func testBlobs() []domainsnapshot.Blob {
	fetchedAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	return []domainsnapshot.Blob{
		{Category: "bootstrap", FetchedAt: fetchedAt, Payload: json.RawMessage(`{"players":[]}`)},
		{Category: "fixtures", FetchedAt: fetchedAt.Add(time.Minute), Payload: json.RawMessage(`{"fixtures":[]}`)},
		{Category: "manager_squad", Scope: "42:auth", FetchedAt: fetchedAt, Payload: json.RawMessage(`{"manager_id":42}`)},
	}
}

func TestFileRepository_LoadAllMissingDir(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "absent"), logging.NewNop())
	blobs, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load missing dir: %v", err)
	}
	if len(blobs) != 0 {
		t.Fatalf("expected no blobs, got %d", len(blobs))
	}
}

func TestFileRepository_SaveThenLoad(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "cache")
	repo := NewFileRepository(dir, logging.NewNop())
	ctx := context.Background()

	if err := repo.SaveAll(ctx, testBlobs()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "manager_squad@42_auth.json")); err != nil {
		t.Fatalf("expected sanitised squad file: %v", err)
	}

	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 blobs, got %d", len(got))
	}
	want := testBlobs()
	for i := range want {
		if got[i].Name() != want[i].Name() {
			t.Fatalf("blob %d: expected %s, got %s", i, want[i].Name(), got[i].Name())
		}
		if !got[i].FetchedAt.Equal(want[i].FetchedAt) {
			t.Fatalf("blob %s: fetched_at mismatch %s vs %s", got[i].Name(), got[i].FetchedAt, want[i].FetchedAt)
		}
		if string(got[i].Payload) != string(want[i].Payload) {
			t.Fatalf("blob %s: payload mismatch %s", got[i].Name(), got[i].Payload)
		}
	}
	if got[2].Scope != "42:auth" {
		t.Fatalf("expected scope to survive file name sanitising, got %q", got[2].Scope)
	}
}

func TestFileRepository_SaveRemovesEvictedBlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := NewFileRepository(dir, logging.NewNop())
	ctx := context.Background()

	if err := repo.SaveAll(ctx, testBlobs()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.SaveAll(ctx, testBlobs()[:1]); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Category != "bootstrap" {
		t.Fatalf("expected only bootstrap to remain, got %+v", got)
	}
}

func TestFileRepository_LoadSkipsCorruptFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := NewFileRepository(dir, logging.NewNop())
	ctx := context.Background()

	if err := repo.SaveAll(ctx, testBlobs()[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fixtures.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write unrelated file: %v", err)
	}

	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Category != "bootstrap" {
		t.Fatalf("expected corrupt file to be skipped, got %+v", got)
	}
}
