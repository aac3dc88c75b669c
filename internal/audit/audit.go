package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hotel-backoffice/pkg/logger"

	"go.uber.org/zap"
)

// Entry records one privileged mutation: who did what to which entity.
type Entry struct {
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Trail is an append-only, fsync-per-entry audit log. One JSON object per
// line, so it can be tailed and grepped in production.
type Trail struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

func NewTrail(filePath string) (*Trail, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Trail{
		filePath: filePath,
		file:     file,
	}, nil
}

// Record appends an entry and syncs it to disk.
func (t *Trail) Record(entry Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Audit: failed to marshal entry",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	if _, err := t.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("Audit: failed to write entry",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	// Force sync to disk (durability)
	if err := t.file.Sync(); err != nil {
		logger.Log.Error("Audit: failed to sync to disk",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll returns every entry in the trail, oldest first.
func (t *Trail) ReadAll() ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var entries []Entry
	scanner := bufio.NewScanner(t.file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			// A torn write at the tail is possible after a crash; skip it.
			logger.Log.Warn("Audit: skipping corrupt entry",
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Restore append position.
	if _, err := t.file.Seek(0, 2); err != nil {
		return nil, err
	}

	return entries, nil
}

func (t *Trail) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}
