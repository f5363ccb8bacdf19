package storage

import "time"

// Resource represents one fetched URL and where it was saved locally
type Resource struct {
	ResourceID  int
	URL         string
	LocalPath   string
	ContentType string
	Size        int64
	StatusCode  int
	FetchedAt   time.Time
}

// Metrics tracks crawl statistics for export on exit
type Metrics struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	PagesFetched      int       `json:"pages_fetched"`
	PagesFailed       int       `json:"pages_failed"`
	ResourcesSaved    int       `json:"resources_saved"`
	ResourcesFailed   int       `json:"resources_failed"`
	LinksDiscovered   int       `json:"links_discovered"`
	BytesWritten      int64     `json:"bytes_written"`
	TotalFetchTimeMs  int64     `json:"total_fetch_time_ms"`
	AvgFetchTimeMs    int64     `json:"avg_fetch_time_ms"`
	TerminationReason string    `json:"termination_reason"`
}
