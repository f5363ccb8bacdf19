package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertAndGetResource(t *testing.T) {
	store := newTestStorage(t)

	res := &Resource{
		URL:         "https://example.edu/about",
		LocalPath:   "out/about.html",
		ContentType: "text/html",
		Size:        1024,
		StatusCode:  200,
		FetchedAt:   time.Now(),
	}
	require.NoError(t, store.UpsertResource(res))

	got, err := store.GetResource("https://example.edu/about")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, res.URL, got.URL)
	require.Equal(t, res.LocalPath, got.LocalPath)
	require.Equal(t, res.ContentType, got.ContentType)
	require.Equal(t, res.Size, got.Size)
	require.Equal(t, res.StatusCode, got.StatusCode)
}

func TestGetResourceNotFound(t *testing.T) {
	store := newTestStorage(t)

	got, err := store.GetResource("https://example.edu/missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUpsertResourceReplacesExisting(t *testing.T) {
	store := newTestStorage(t)

	first := &Resource{URL: "https://example.edu/", LocalPath: "out/index.html", Size: 10, StatusCode: 200, FetchedAt: time.Now()}
	require.NoError(t, store.UpsertResource(first))

	second := &Resource{URL: "https://example.edu/", LocalPath: "out/index.html", Size: 42, StatusCode: 200, FetchedAt: time.Now()}
	require.NoError(t, store.UpsertResource(second))

	count, err := store.CountResources()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	got, err := store.GetResource("https://example.edu/")
	require.NoError(t, err)
	require.Equal(t, int64(42), got.Size)
}

func TestListResourcesOrdered(t *testing.T) {
	store := newTestStorage(t)

	for _, u := range []string{
		"https://example.edu/c.pdf",
		"https://example.edu/a.pdf",
		"https://example.edu/b.pdf",
	} {
		require.NoError(t, store.UpsertResource(&Resource{URL: u, StatusCode: 200, FetchedAt: time.Now()}))
	}

	resources, err := store.ListResources()
	require.NoError(t, err)
	require.Len(t, resources, 3)
	require.Equal(t, "https://example.edu/a.pdf", resources[0].URL)
	require.Equal(t, "https://example.edu/b.pdf", resources[1].URL)
	require.Equal(t, "https://example.edu/c.pdf", resources[2].URL)
}
