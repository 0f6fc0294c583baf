package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (m *memStore) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	m.sets++
	return nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestGetOrLoadJSON_LoadsOnceThenHits(t *testing.T) {
	store := newMemStore()
	c := NewWithStore(store, "t:")
	var loads int32
	load := func(context.Context) (*item, error) {
		atomic.AddInt32(&loads, 1)
		return &item{ID: "1", Title: "Go dev"}, nil
	}

	got, err := GetOrLoadJSON(c, context.Background(), "job:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Go dev", got.Title)
	assert.Contains(t, store.data, "t:job:1")

	got, err = GetOrLoadJSON(c, context.Background(), "job:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestGetOrLoadJSON_ErrorsAreNotCached(t *testing.T) {
	store := newMemStore()
	c := NewWithStore(store, "")
	boom := errors.New("boom")

	_, err := GetOrLoadJSON(c, context.Background(), "job:x", time.Minute, func(context.Context) (*item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.data)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	store := newMemStore()
	c := NewWithStore(store, "p:")
	title := "v1"
	load := func(context.Context) (*item, error) { return &item{ID: "1", Title: title}, nil }

	_, err := GetOrLoadJSON(c, context.Background(), "job:1", time.Minute, load)
	require.NoError(t, err)

	title = "v2"
	require.NoError(t, c.Invalidate(context.Background(), "job:1"))
	got, err := GetOrLoadJSON(c, context.Background(), "job:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
}

func TestGetOrLoadJSON_CorruptEntryFallsBackToLoad(t *testing.T) {
	store := newMemStore()
	store.data["job:1"] = []byte("{not json")
	c := NewWithStore(store, "")

	got, err := GetOrLoadJSON(c, context.Background(), "job:1", time.Minute, func(context.Context) (*item, error) {
		return &item{ID: "1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	assert.NotContains(t, store.data, "job:1")
}
