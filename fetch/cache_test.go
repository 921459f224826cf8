package fetch

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	docs    map[string][]byte
	loadErr error
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	b, ok := m.docs[key]
	return b, ok, nil
}

func (m *memStore) Save(_ context.Context, key string, body []byte, _ time.Duration) error {
	m.docs[key] = body
	return nil
}

type stubFetcher struct {
	status int
	body   string
	calls  int
}

func (s *stubFetcher) Get(context.Context, string) (int, []byte, error) {
	s.calls++
	return s.status, []byte(s.body), nil
}

func TestCachedFetcher(t *testing.T) {
	ctx := context.Background()
	store := &memStore{docs: map[string][]byte{}}
	next := &stubFetcher{status: http.StatusOK, body: "doc"}
	f := NewCached(next, store, time.Hour)

	for range 3 {
		status, body, err := f.Get(ctx, "https://x/a")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "doc", string(body))
	}
	assert.Equal(t, 1, next.calls)
	assert.Contains(t, store.docs, keyPrefix+"https://x/a")
}

func TestCachedFetcherSkipsErrors(t *testing.T) {
	ctx := context.Background()
	store := &memStore{docs: map[string][]byte{}}
	next := &stubFetcher{status: http.StatusNotFound}
	f := NewCached(next, store, time.Hour)

	status, _, err := f.Get(ctx, "https://x/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, store.docs)

	// a broken store falls through to the network
	store.loadErr = errors.New("down")
	next.status = http.StatusOK
	next.body = "fresh"
	_, body, err := f.Get(ctx, "https://x/a")
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(body))
}
