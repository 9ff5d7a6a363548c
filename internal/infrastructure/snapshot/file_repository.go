package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	domainsnapshot "github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
)

const blobExt = ".json"

var fileNameReplacer = strings.NewReplacer(":", "_", "/", "_", "\\", "_")

// FileRepository keeps one JSON file per cache entry in a directory.
type FileRepository struct {
	dir    string
	logger *logging.Logger
}

func NewFileRepository(dir string, logger *logging.Logger) *FileRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &FileRepository{dir: dir, logger: logger}
}

// LoadAll reads every blob in the directory. A missing directory is an empty
// repository; unreadable files are skipped.
func (r *FileRepository) LoadAll(ctx context.Context) ([]domainsnapshot.Blob, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot dir %s: %w", r.dir, err)
	}

	out := make([]domainsnapshot.Blob, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != blobExt {
			continue
		}

		path := filepath.Join(r.dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			r.logger.WarnContext(ctx, "skip unreadable snapshot file", "path", path, "error", err)
			continue
		}
		var blob domainsnapshot.Blob
		if err := sonic.Unmarshal(raw, &blob); err != nil || blob.Category == "" {
			r.logger.WarnContext(ctx, "skip undecodable snapshot file", "path", path, "error", err)
			continue
		}
		out = append(out, blob)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// SaveAll replaces the directory contents with blobs. Each file is written
// to a temp file and renamed, so a crash never leaves a torn blob.
func (r *FileRepository) SaveAll(ctx context.Context, blobs []domainsnapshot.Blob) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", r.dir, err)
	}

	written := make(map[string]struct{}, len(blobs))
	for _, blob := range blobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := fileName(blob)
		if err := r.writeBlob(name, blob); err != nil {
			return err
		}
		written[name] = struct{}{}
	}

	// drop entries evicted since the last flush
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("read snapshot dir %s: %w", r.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != blobExt {
			continue
		}
		if _, ok := written[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(r.dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.logger.WarnContext(ctx, "remove stale snapshot file", "name", entry.Name(), "error", err)
		}
	}
	return nil
}

func (r *FileRepository) writeBlob(name string, blob domainsnapshot.Blob) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(blob); err != nil {
		return fmt.Errorf("encode snapshot %s: %w", blob.Name(), err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync snapshot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(r.dir, name)); err != nil {
		return fmt.Errorf("publish snapshot %s: %w", name, err)
	}
	return nil
}

func fileName(blob domainsnapshot.Blob) string {
	return fileNameReplacer.Replace(blob.Name()) + blobExt
}
