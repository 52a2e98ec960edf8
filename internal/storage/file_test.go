package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fooddash/fooddash/internal/models"
)

func sampleSnapshot() *Snapshot {
	placed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	order := &models.Order{
		ID:     1001,
		Status: models.OrderStatusPreparing,
		Items: []models.CartItem{
			{Name: "Pad Thai", Price: 450, Quantity: 2, Image: "https://example.com/padthai.jpg"},
		},
		DeliveryInfo: models.DeliveryInfo{
			Address:      "12 Main Street",
			Name:         "Asha Khan",
			Phone:        "0300-1234567",
			Instructions: "ring the bell",
		},
		Restaurant:        models.RestaurantInfo{ID: "r1", Name: "Spice Route", Cuisine: "Thai"},
		Subtotal:          900,
		DeliveryFee:       150,
		Tax:               90,
		Total:             1140,
		OrderTime:         placed,
		EstimatedDelivery: placed.Add(45 * time.Minute),
		TrackingSteps:     models.NewTrackingSteps(placed),
	}
	return &Snapshot{Orders: []*models.Order{order}, Counter: 1001}
}

func TestFileStoreLoadEmptyDir(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	snap, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Orders)
	assert.Zero(t, snap.Counter)
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	want := sampleSnapshot()
	require.NoError(t, fs.Save(ctx, want))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Counter, got.Counter)

	wantJSON, err := json.Marshal(want.Orders)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got.Orders)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, sampleSnapshot()))

	next := sampleSnapshot()
	next.Orders[0].Status = models.OrderStatusReady
	next.Counter = 1002
	require.NoError(t, fs.Save(ctx, next))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, models.OrderStatusReady, got.Orders[0].Status)
	assert.Equal(t, int64(1002), got.Counter)
}

func TestFileStoreCorruptOrders(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders"), []byte("{not json"), 0o644))

	_, err = fs.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestFileStoreCorruptCounter(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "order_id_counter"), []byte("not-a-number"), 0o644))

	_, err = fs.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Save(context.Background(), sampleSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{"orders", "order_id_counter"}, names)
}
