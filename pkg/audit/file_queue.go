package audit

import (
	"context"
	"encoding/json"
	"os"
	"sync"
)

// FileQueue appends entries as JSON lines to a local file. It is the default
// queue implementation and the simplest durability floor available.
type FileQueue struct {
	path string
	mu   sync.Mutex
}

func NewFileQueue(path string) *FileQueue {
	return &FileQueue{path: path}
}

// Enqueue appends one JSON line. The file is opened per call so a rotated or
// deleted file never wedges the queue.
func (q *FileQueue) Enqueue(ctx context.Context, e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	f, err := os.OpenFile(q.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = f.Write(append(line, '\n'))
	return err
}
