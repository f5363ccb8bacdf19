package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"webmirror/internal/config"
	"webmirror/internal/metrics"
	"webmirror/internal/mirror"
)

// Crawl phases. Links found on a page only feed the BFS queue during the
// page phase; later phases just download what was collected.
const (
	phasePages = iota
	phaseResources
	phaseStylesheets
)

// Crawler walks a single site breadth-first from the seed URL, saving pages
// and downloading referenced resources. It is synchronous: one request
// completes before the next begins.
type Crawler struct {
	cfg       *config.Config
	writer    *mirror.Writer
	manifest  *mirror.Manifest
	tracker   *metrics.Tracker
	collector *colly.Collector
	queue     *Queue

	seedHost string
	phase    int
	current  Task

	// Candidate resource URLs collected while crawling pages, and the
	// bodies of saved stylesheets for the url(...) extraction pass
	resources   map[string]bool
	stylesheets map[string][]byte
}

// NewCrawler creates a new crawler instance
func NewCrawler(cfg *config.Config, writer *mirror.Writer, manifest *mirror.Manifest, tracker *metrics.Tracker) (*Crawler, error) {
	seedHost, err := ExtractHost(cfg.SeedURL)
	if err != nil || seedHost == "" {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}

	c := &Crawler{
		cfg:         cfg,
		writer:      writer,
		manifest:    manifest,
		tracker:     tracker,
		queue:       NewQueue(),
		seedHost:    seedHost,
		resources:   make(map[string]bool),
		stylesheets: make(map[string][]byte),
	}

	c.setupColly()
	return c, nil
}

// setupColly configures the Colly collector with callbacks
func (c *Crawler) setupColly() {
	opts := []colly.CollectorOption{
		colly.UserAgent(c.cfg.UserAgent),
	}
	if !c.cfg.RespectRobots {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}

	c.collector = colly.NewCollector(opts...)
	c.collector.SetRequestTimeout(time.Duration(c.cfg.RequestTimeoutMs) * time.Millisecond)

	// Hyperlinks: candidate resources, and BFS targets during the page phase
	c.collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		c.handleLink(e.Request.AbsoluteURL(e.Attr("href")))
	})

	// Embedded references: stylesheets, scripts, images, media sources
	c.collector.OnHTML("link[href]", func(e *colly.HTMLElement) {
		c.recordResource(e.Request.AbsoluteURL(e.Attr("href")))
	})
	c.collector.OnHTML("script[src], img[src], source[src]", func(e *colly.HTMLElement) {
		c.recordResource(e.Request.AbsoluteURL(e.Attr("src")))
	})

	// Meta tags occasionally carry asset URLs (og:image and friends); only
	// absolute http(s) values are worth recording
	c.collector.OnHTML("meta[content]", func(e *colly.HTMLElement) {
		content := e.Attr("content")
		if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
			c.recordResource(content)
		}
	})

	c.collector.OnResponse(func(r *colly.Response) {
		c.handleResponse(r)
	})

	c.collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.Request != nil {
			logrus.Errorf("Failed to fetch %s: %v (status: %d)", r.Request.URL, err, r.StatusCode)
		} else {
			logrus.Errorf("Fetch failed: %v", err)
		}

		if c.phase == phasePages {
			c.tracker.IncrementPagesFailed()
		} else {
			c.tracker.IncrementResourcesFailed()
		}
	})
}

// Run executes the full mirror: BFS over pages, then the resource download
// pass, then the stylesheet url(...) pass. Per-URL failures never abort the
// run; only an unusable seed URL is fatal.
func (c *Crawler) Run() error {
	seed, err := NormalizeURL(c.cfg.SeedURL)
	if err != nil || seed == "" {
		return fmt.Errorf("invalid seed URL %q: %w", c.cfg.SeedURL, err)
	}

	c.queue.Push(Task{URL: seed, Depth: 0})
	c.tracker.IncrementLinksDiscovered()

	visits := 0
	for {
		task, ok := c.queue.Pop()
		if !ok {
			break
		}

		if c.cfg.MaxPages > 0 && visits >= c.cfg.MaxPages {
			logrus.Warnf("Reached max_pages limit (%d), stopping page crawl with %d URLs still queued",
				c.cfg.MaxPages, c.queue.Size()+1)
			break
		}

		logrus.Infof("Crawling: %s (depth=%d)", task.URL, task.Depth)
		c.current = task
		c.visit(task.URL)
		visits++

		if visits%25 == 0 {
			logrus.Info(c.tracker.LogProgress())
		}
	}

	c.downloadResources()
	c.processStylesheets()

	logrus.Info("Crawl finished: " + c.tracker.LogProgress())
	return nil
}

// visit fetches a single URL, timing the request. Transport and HTTP errors
// surface through the OnError callback; pre-flight errors (already visited,
// robots denial) are only worth a debug line.
func (c *Crawler) visit(u string) {
	start := time.Now()
	err := c.collector.Visit(u)
	c.tracker.RecordFetchTime(time.Since(start))

	if err != nil && !errors.As(err, new(*colly.AlreadyVisitedError)) {
		logrus.Debugf("Visit %s: %v", u, err)
	}
}

// handleResponse saves the fetched body. HTML goes through the page writer
// (verbatim or Markdown), anything else is stored as a binary resource.
func (c *Crawler) handleResponse(r *colly.Response) {
	finalURL := r.Request.URL

	// A redirect that left the site is not part of the mirror
	if strings.ToLower(finalURL.Host) != c.seedHost {
		logrus.Warnf("Skipping external redirect: %s", finalURL)
		return
	}

	contentType := r.Headers.Get("Content-Type")

	// HTML fetched outside the page phase was reached as an embedded
	// reference; it counts as a resource in the report
	isPage := mirror.IsHTML(contentType) && c.phase == phasePages

	localPath, err := c.writer.Save(finalURL, r.Body, contentType)
	if err != nil {
		logrus.Errorf("Failed to save %s: %v", finalURL, err)
		if isPage {
			c.tracker.IncrementPagesFailed()
		} else {
			c.tracker.IncrementResourcesFailed()
		}
		return
	}

	c.manifest.Record(c.current.URL, localPath, contentType, int64(len(r.Body)), r.StatusCode)
	c.tracker.AddBytesWritten(int64(len(r.Body)))

	if isPage {
		c.tracker.IncrementPagesFetched()
	} else {
		c.tracker.IncrementResourcesSaved()
		if isStylesheet(finalURL, contentType) {
			body := make([]byte, len(r.Body))
			copy(body, r.Body)
			c.stylesheets[finalURL.String()] = body
		}
	}
}

// handleLink enqueues one hyperlink found on a page for the BFS. Anchors
// pointing at documents rather than pages still go through the queue; the
// response handler saves them by content type.
func (c *Crawler) handleLink(abs string) {
	if c.phase != phasePages {
		return
	}

	norm, err := NormalizeURL(abs)
	if err != nil || norm == "" {
		return
	}
	if !c.inScope(norm) || IsExcluded(norm) {
		return
	}

	nextDepth := c.current.Depth + 1
	if c.cfg.MaxDepth > 0 && nextDepth > c.cfg.MaxDepth {
		return
	}

	if c.queue.Push(Task{URL: norm, Depth: nextDepth}) {
		c.tracker.IncrementLinksDiscovered()
		logrus.Debugf("Enqueued: %s (depth=%d)", norm, nextDepth)
	}
}

// recordResource registers an embedded reference for the download pass
func (c *Crawler) recordResource(abs string) {
	norm, err := NormalizeURL(abs)
	if err != nil || norm == "" {
		return
	}
	if !c.inScope(norm) || IsExcluded(norm) {
		return
	}

	c.resources[norm] = true
}

// downloadResources fetches every candidate resource that was not already
// fetched as a page. The collector's own revisit check backs up the queue's
// seen-set, so nothing is requested twice.
func (c *Crawler) downloadResources() {
	c.phase = phaseResources

	urls := make([]string, 0, len(c.resources))
	for u := range c.resources {
		if c.queue.Seen(u) {
			continue
		}
		urls = append(urls, u)
	}
	sort.Strings(urls)

	logrus.Infof("Downloading %d resources", len(urls))
	for _, u := range urls {
		c.current = Task{URL: u}
		c.visit(u)
	}
}

// processStylesheets scans saved CSS for url(...) references and downloads
// the ones not yet fetched. One pass only; stylesheets pulled in here are
// not scanned again.
func (c *Crawler) processStylesheets() {
	c.phase = phaseStylesheets

	cssURLs := make([]string, 0, len(c.stylesheets))
	for u := range c.stylesheets {
		cssURLs = append(cssURLs, u)
	}
	sort.Strings(cssURLs)

	for _, cssURL := range cssURLs {
		base, err := url.Parse(cssURL)
		if err != nil {
			continue
		}

		refs := mirror.ExtractCSSURLs(string(c.stylesheets[cssURL]), base)
		if len(refs) == 0 {
			continue
		}

		logrus.Infof("Stylesheet %s references %d resources", cssURL, len(refs))
		for _, ref := range refs {
			norm, err := NormalizeURL(ref)
			if err != nil || norm == "" || !c.inScope(norm) || c.resources[norm] {
				continue
			}
			c.resources[norm] = true
			c.current = Task{URL: norm}
			c.visit(norm)
		}
	}
}

// inScope reports whether a normalized URL belongs to the seed's host
func (c *Crawler) inScope(norm string) bool {
	host, err := ExtractHost(norm)
	if err != nil {
		return false
	}
	return host == c.seedHost
}

// isStylesheet detects CSS by content type or extension
func isStylesheet(u *url.URL, contentType string) bool {
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if strings.EqualFold(mediaType, "text/css") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".css")
}
