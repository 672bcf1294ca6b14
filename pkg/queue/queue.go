// Package queue persists the set of keyword IDs whose last scrape attempt
// failed, so a periodic driver can retry them until they succeed. The backing
// document is a flat JSON array of IDs in a single side file.
package queue

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

type Queue struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Queue {
	return &Queue{path: path}
}

// Add enqueues a keyword ID unless it is already queued.
func (q *Queue) Add(id int) error {
	if id == 0 {
		return nil
	}
	if id < 0 {
		id = -id
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	ids := q.load()
	for _, queued := range ids {
		if queued == id {
			return nil
		}
	}
	return q.save(append(ids, id))
}

// Remove dequeues every occurrence of a keyword ID; absent IDs are a no-op.
func (q *Queue) Remove(id int) error {
	if id < 0 {
		id = -id
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	ids := q.load()
	kept := ids[:0]
	for _, queued := range ids {
		if queued != id {
			kept = append(kept, queued)
		}
	}
	if len(kept) == len(ids) {
		return nil
	}
	return q.save(kept)
}

// List returns the queued keyword IDs.
func (q *Queue) List() []int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// load reads the queue document. A missing or corrupt file reads as an empty
// queue rather than failing.
func (q *Queue) load() []int {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read retry queue", slog.String("path", q.path), slog.Any("err", err))
		}
		return nil
	}

	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		slog.Warn("retry queue file is corrupt, starting empty", slog.String("path", q.path), slog.Any("err", err))
		return nil
	}
	return ids
}

func (q *Queue) save(ids []int) error {
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(q.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(q.path, data, 0o644)
}
