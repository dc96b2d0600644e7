package ports

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/hfsm/pkg/values"
)

// ErrSnapshotNotFound is returned by Load when the key holds no snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the resumable part of an animator: its values and the
// titles of the active nodes from the root down.
type Snapshot struct {
	Layer   string          `json:"layer"`
	Path    []string        `json:"path"`
	Values  values.Snapshot `json:"values"`
	SavedAt time.Time       `json:"saved_at"`
}

// SnapshotStore persists snapshots by key.
type SnapshotStore interface {
	Save(ctx context.Context, key string, snap *Snapshot) error
	// Load returns ErrSnapshotNotFound when the key is absent or expired.
	Load(ctx context.Context, key string) (*Snapshot, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}
