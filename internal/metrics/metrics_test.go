package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"webmirror/internal/storage"
)

func TestTrackerCounters(t *testing.T) {
	tracker := NewTracker()

	tracker.IncrementPagesFetched()
	tracker.IncrementPagesFetched()
	tracker.IncrementPagesFailed()
	tracker.IncrementResourcesSaved()
	tracker.IncrementResourcesFailed()
	tracker.IncrementLinksDiscovered()
	tracker.AddBytesWritten(2048)

	snapshot := tracker.GetSnapshot()
	require.Equal(t, 2, snapshot.PagesFetched)
	require.Equal(t, 1, snapshot.PagesFailed)
	require.Equal(t, 1, snapshot.ResourcesSaved)
	require.Equal(t, 1, snapshot.ResourcesFailed)
	require.Equal(t, 1, snapshot.LinksDiscovered)
	require.Equal(t, int64(2048), snapshot.BytesWritten)
}

func TestTrackerAverageFetchTime(t *testing.T) {
	tracker := NewTracker()

	tracker.RecordFetchTime(100 * time.Millisecond)
	tracker.RecordFetchTime(300 * time.Millisecond)

	snapshot := tracker.GetSnapshot()
	require.Equal(t, int64(400), snapshot.TotalFetchTimeMs)
	require.Equal(t, int64(200), snapshot.AvgFetchTimeMs)
}

func TestTrackerWriteToFile(t *testing.T) {
	tracker := NewTracker()
	tracker.IncrementPagesFetched()

	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, tracker.WriteToFile(path, "completed"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var m storage.Metrics
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, 1, m.PagesFetched)
	require.Equal(t, "completed", m.TerminationReason)
	require.False(t, m.EndTime.IsZero())
}
