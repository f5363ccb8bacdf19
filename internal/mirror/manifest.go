package mirror

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"webmirror/internal/storage"
)

// Manifest holds the record of everything saved during the run in memory,
// keyed by URL, for a single flush to the database at the end
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]*storage.Resource
}

// NewManifest creates an empty manifest
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]*storage.Resource),
	}
}

// Record registers a fetched URL with its local path and fetch details.
// Recording the same URL again overwrites the previous entry.
func (m *Manifest) Record(url, localPath, contentType string, size int64, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[url] = &storage.Resource{
		URL:         url,
		LocalPath:   localPath,
		ContentType: contentType,
		Size:        size,
		StatusCode:  statusCode,
		FetchedAt:   time.Now(),
	}
}

// Get returns a copy of the entry for a URL, or nil if not recorded
func (m *Manifest) Get(url string) *storage.Resource {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if entry, exists := m.entries[url]; exists {
		entryCopy := *entry
		return &entryCopy
	}
	return nil
}

// Len returns the number of recorded entries
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Flush writes all in-memory entries to SQLite storage in URL order.
// Individual row failures are logged and skipped; the first error is returned.
func (m *Manifest) Flush(store *storage.Storage) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	startTime := time.Now()
	logrus.Info("Flushing manifest to database...")

	urls := make([]string, 0, len(m.entries))
	for url := range m.entries {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	written := 0
	var firstErr error

	for _, url := range urls {
		if err := store.UpsertResource(m.entries[url]); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logrus.Warnf("Failed to flush manifest entry %s: %v", url, err)
			continue
		}
		written++
	}

	duration := time.Since(startTime)
	logrus.Infof("Manifest flush complete: %d entries written in %v", written, duration)

	return firstErr
}
