package tasks

import (
	"context"
	"time"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/ads"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/scrape"
)

// TaskRunnerInterface defines the interface for background run management.
// Used by the HTTP API to start analysis runs and by the main application
// to control the worker.
// Example usage:
//
//	runner := NewRunner(archive, transcripts, runRepo, downloader, transcoder, transcriber, reports, progress)
//	runner.Start()
//	defer runner.Stop()
//	runID, err := runner.StartAnalysis(target, "en")
type TaskRunnerInterface interface {
	Start()
	Stop()
	StartAnalysis(target scrape.Target, language string) (string, error)
}

// ArchiveClient is the slice of the scraping client the pipeline needs.
type ArchiveClient interface {
	FindPageID(ctx context.Context, name string) (string, error)
	FetchListing(ctx context.Context, pageID string) (string, error)
	PageInfo(markup string, pageID string) ads.PageInfo
	Profile() *scrape.Profile
}

// ReportWriter renders a completed result to a document and returns the
// generated file name.
type ReportWriter interface {
	Write(result *ads.Result, generatedAt time.Time) (string, error)
}
