package redisx

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func lineItem(id, price string) checkout.LineItem {
	return checkout.LineItem{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), Description: "desc"}
}

func TestSnapshot_SaveLoadDelete(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	items := []checkout.LineItem{lineItem("a", "85.99"), lineItem("b", "10.5")}
	require.NoError(t, store.SaveSnapshot(ctx, "sid-1", items))

	key := fmt.Sprintf(KeySnapshot, "sid-1")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, TTLSnapshot, mr.TTL(key))

	got, err := store.LoadSnapshot(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.True(t, got[0].Price.Equal(items[0].Price))
	assert.True(t, got[1].Price.Equal(items[1].Price))

	require.NoError(t, store.DeleteSnapshot(ctx, "sid-1"))
	assert.False(t, mr.Exists(key))
}

func TestSnapshot_OverwriteKeepsOne(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, "sid-1", []checkout.LineItem{lineItem("a", "1")}))
	require.NoError(t, store.SaveSnapshot(ctx, "sid-1", []checkout.LineItem{lineItem("b", "2")}))

	got, err := store.LoadSnapshot(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestSnapshot_MissingIsEmpty(t *testing.T) {
	store, _ := setupTestStore(t)

	got, err := store.LoadSnapshot(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.DeleteSnapshot(context.Background(), "nobody"))
}

func TestSnapshot_CorruptValue(t *testing.T) {
	store, mr := setupTestStore(t)
	require.NoError(t, mr.Set(fmt.Sprintf(KeySnapshot, "sid-1"), "{not json"))

	_, err := store.LoadSnapshot(context.Background(), "sid-1")
	assert.Error(t, err)
}

func TestHistory_PersistsWithoutTTL(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	entries := []checkout.HistoryEntry{{
		OrderID:   "ORDER-1",
		Timestamp: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		Items:     []checkout.LineItem{lineItem("a", "85.99")},
		Total:     decimal.RequireFromString("85.99"),
	}}
	require.NoError(t, store.SaveHistory(ctx, "sid-1", entries))
	assert.Equal(t, time.Duration(0), mr.TTL(fmt.Sprintf(KeyHistory, "sid-1")))

	got, err := store.LoadHistory(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORDER-1", got[0].OrderID)
	assert.True(t, got[0].Timestamp.Equal(entries[0].Timestamp))
	assert.True(t, got[0].Total.Equal(entries[0].Total))

	empty, err := store.LoadHistory(ctx, "sid-2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_WorksWithRecorder(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	rec := &checkout.Recorder{Store: store}

	_, added, err := rec.Record(ctx, "sid-1", "ORDER-1", []checkout.LineItem{lineItem("a", "10")})
	require.NoError(t, err)
	assert.True(t, added)
	_, added, err = rec.Record(ctx, "sid-1", "ORDER-2", []checkout.LineItem{lineItem("b", "20")})
	require.NoError(t, err)
	assert.True(t, added)

	got, err := store.LoadHistory(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ORDER-2", got[0].OrderID)
	assert.Equal(t, "ORDER-1", got[1].OrderID)
}
