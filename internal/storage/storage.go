package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"yieldScope/internal/model"
)

// Snapshot is one export of the pool registry.
type Snapshot struct {
	ID      uuid.UUID
	ChainID uint64
	TakenAt time.Time
	Pools   []model.Pool
}

func NewSnapshot(chainID uint64, pools []model.Pool) Snapshot {
	return Snapshot{
		ID:      uuid.New(),
		ChainID: chainID,
		TakenAt: time.Now().UTC(),
		Pools:   pools,
	}
}

// Sink publishes registry snapshots for downstream consumers.
type Sink interface {
	PutSnapshot(ctx context.Context, snap Snapshot) error
}
