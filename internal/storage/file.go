package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fooddash/fooddash/internal/models"
)

// The two keys of the durable layout, kept as separate files so the on-disk
// shape mirrors the browser localStorage layout this store stands in for.
const (
	ordersKey  = "orders"
	counterKey = "order_id_counter"
)

// FileStore keeps the snapshot in a directory, one file per key. Writes go
// through a temp file and rename so a crash mid-save never leaves a torn key.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Load(_ context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	data, err := os.ReadFile(filepath.Join(f.dir, ordersKey))
	switch {
	case os.IsNotExist(err):
		// first run
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", ordersKey, err)
	default:
		if err := json.Unmarshal(data, &snap.Orders); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptData, ordersKey, err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(f.dir, counterKey))
	switch {
	case os.IsNotExist(err):
		return snap, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", counterKey, err)
	}
	counter, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptData, counterKey, err)
	}
	snap.Counter = counter
	return snap, nil
}

func (f *FileStore) Save(_ context.Context, snap *Snapshot) error {
	orders := snap.Orders
	if orders == nil {
		orders = []*models.Order{}
	}
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := f.writeKey(ordersKey, data); err != nil {
		return err
	}
	return f.writeKey(counterKey, []byte(strconv.FormatInt(snap.Counter, 10)))
}

func (f *FileStore) writeKey(key string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.dir, key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}
