package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"yieldScope/internal/model"
)

// snapshotLine is one JSON line: the pool record plus snapshot identity.
type snapshotLine struct {
	SnapshotID string    `json:"snapshot_id"`
	ChainID    uint64    `json:"chain_id"`
	TakenAt    time.Time `json:"taken_at"`
	model.Pool
}

// JsonlStorage appends snapshots to a JSONL file, one pool per line.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

func (s *JsonlStorage) PutSnapshot(_ context.Context, snap Snapshot) error {
	if len(snap.Pools) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, p := range snap.Pools {
		line, err := json.Marshal(snapshotLine{
			SnapshotID: snap.ID.String(),
			ChainID:    snap.ChainID,
			TakenAt:    snap.TakenAt,
			Pool:       p,
		})
		if err != nil {
			return fmt.Errorf("marshal pool %s: %w", p.Address, err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write pool %s: %w", p.Address, err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
