package storage

import (
	"context"
	"errors"

	"github.com/fooddash/fooddash/internal/models"
)

// ErrCorruptData marks a snapshot that exists but cannot be decoded. The
// order store treats it as "start empty" rather than refusing to boot.
var ErrCorruptData = errors.New("storage: corrupt data")

// Snapshot is the full durable state: every order ever placed plus the
// last-assigned order ID.
type Snapshot struct {
	Orders  []*models.Order
	Counter int64
}

// Store persists snapshots. Mutations are small and infrequent, so the whole
// collection is written back atomically after every change; that keeps the
// counter and the order list from ever diverging after a crash.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}
