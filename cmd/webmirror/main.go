package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"webmirror/internal/config"
	"webmirror/internal/crawler"
	"webmirror/internal/metrics"
	"webmirror/internal/mirror"
	"webmirror/internal/storage"
	"webmirror/internal/version"
)

func main() {
	// Configure logging
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logrus.Infof("webmirror v%s starting...", version.Version)

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logrus.Infof("Configuration loaded: seed=%s, output=%s, format=%s",
		cfg.SeedURL, cfg.OutputDir, cfg.Format)

	// Initialize manifest database
	store, err := storage.NewStorage(cfg.DBPath)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	logrus.Infof("Database initialized: %s", cfg.DBPath)

	// Initialize metrics tracker and in-memory manifest
	tracker := metrics.NewTracker()
	manifest := mirror.NewManifest()

	// Initialize output writer
	writer, err := mirror.NewWriter(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize writer: %v", err)
	}

	// Initialize crawler
	c, err := crawler.NewCrawler(cfg, writer, manifest, tracker)
	if err != nil {
		logrus.Fatalf("Failed to initialize crawler: %v", err)
	}

	// On interrupt, save what we have before exiting
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logrus.Warnf("Received signal (%v), saving progress before exit...", sig)

		if err := manifest.Flush(store); err != nil {
			logrus.Errorf("Emergency manifest flush failed: %v", err)
		}
		if err := tracker.WriteToFile(cfg.MetricsPath, "signal"); err != nil {
			logrus.Errorf("Emergency metrics save failed: %v", err)
		}
		os.Exit(1)
	}()

	// Run the crawl to completion
	if err := c.Run(); err != nil {
		logrus.Fatalf("Crawl failed: %v", err)
	}

	// Flush manifest to database
	if err := manifest.Flush(store); err != nil {
		logrus.Errorf("Failed to flush manifest: %v", err)
	}

	count, err := store.CountResources()
	if err != nil {
		logrus.Warnf("Failed to count manifest entries: %v", err)
	} else {
		logrus.Infof("Manifest contains %d entries", count)
	}

	// Write metrics report
	if err := tracker.WriteToFile(cfg.MetricsPath, "completed"); err != nil {
		logrus.Errorf("Failed to write metrics: %v", err)
	} else {
		logrus.Infof("Metrics written to %s", cfg.MetricsPath)
	}

	logrus.Info("Finished mirroring. Goodbye!")
}
