package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/crossdocs/xbridl/internal/render"
)

// ErrNotFound is returned when a run id has no stored result.
var ErrNotFound = errors.New("run not found")

// Store persists extraction runs as JSON files under a base directory, one
// file per run.
type Store struct {
	dir string
	log *slog.Logger
}

// New creates the base directory if needed and returns a Store.
func New(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// RunMeta is the listing entry for a stored run.
type RunMeta struct {
	ID         string    `json:"run_id"`
	Root       string    `json:"root"`
	CreatedAt  time.Time `json:"created_at"`
	FileCount  int       `json:"file_count"`
	ErrorCount int       `json:"error_count"`
}

// SaveRun writes a run atomically (temp file + rename).
func (s *Store) SaveRun(run *render.Run) error {
	if run.ID == "" {
		return errors.New("run id is empty")
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".run-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.runPath(run.ID))
}

// LoadRun reads a stored run by id.
func (s *Store) LoadRun(id string) (*render.Run, error) {
	data, err := os.ReadFile(s.runPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var run render.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns metadata for all stored runs, newest first.
func (s *Store) ListRuns() ([]RunMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var metas []RunMeta
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		run, err := s.LoadRun(strings.TrimSuffix(name, ".json"))
		if err != nil {
			s.log.Debug("skipping unreadable run file", "file", name, "error", err)
			continue
		}
		metas = append(metas, RunMeta{
			ID:         run.ID,
			Root:       run.Root,
			CreatedAt:  run.CreatedAt,
			FileCount:  len(run.Files),
			ErrorCount: len(run.Errors),
		})
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas, nil
}

func (s *Store) runPath(id string) string {
	// Run ids are hex strings, but keep path traversal out regardless.
	return filepath.Join(s.dir, filepath.Base(id)+".json")
}
