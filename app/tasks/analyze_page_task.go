package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/ads"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/database"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/media"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/scrape"
)

// AnalyzePageTask runs the full analysis pipeline for one advertiser page:
// discovery, video download, transcription, clustering and scoring, and
// report generation. Progress is published to the registry after every
// stage so poll handlers always see a current snapshot.
type AnalyzePageTask struct {
	Task
	target      scrape.Target
	language    string
	archive     ArchiveClient
	transcripts database.TranscriptRepository
	runRepo     database.RunRepository
	downloader  media.Downloader
	transcoder  media.Transcoder
	transcriber media.Transcriber
	reports     ReportWriter
	progress    *ProgressRegistry
}

func NewAnalyzePageTask(target scrape.Target, language string, archive ArchiveClient,
	transcripts database.TranscriptRepository, runRepo database.RunRepository,
	downloader media.Downloader, transcoder media.Transcoder, transcriber media.Transcriber,
	reports ReportWriter, progress *ProgressRegistry) *AnalyzePageTask {
	return &AnalyzePageTask{
		Task:        NewTask(TaskTypeAnalyzePage, target.Raw),
		target:      target,
		language:    language,
		archive:     archive,
		transcripts: transcripts,
		runRepo:     runRepo,
		downloader:  downloader,
		transcoder:  transcoder,
		transcriber: transcriber,
		reports:     reports,
		progress:    progress,
	}
}

func (t *AnalyzePageTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	page, adList, err := t.discover(ctx)
	if err != nil {
		return err
	}

	t.download(ctx, adList)

	if err := t.transcribe(ctx, adList); err != nil {
		return err
	}

	t.analyze(adList)

	return t.report(adList, page)
}

// discover resolves the page ID, fetches the archive listing and extracts
// the ad records from it.
func (t *AnalyzePageTask) discover(ctx context.Context) (ads.PageInfo, []*ads.Ad, error) {
	t.progress.StartStep(t.ID, 1, "Discovering ads")

	pageID := t.target.PageID
	if pageID == "" {
		t.progress.SetDetail(t.ID, fmt.Sprintf("Searching for %q", t.target.SearchName))

		found, err := t.archive.FindPageID(ctx, t.target.SearchName)
		if err != nil {
			return ads.PageInfo{}, nil, fmt.Errorf("failed to find page: %w", err)
		}
		pageID = found
	}

	t.progress.SetDetail(t.ID, "Fetching ad listing")
	markup, err := t.archive.FetchListing(ctx, pageID)
	if err != nil {
		return ads.PageInfo{}, nil, fmt.Errorf("failed to fetch ad listing: %w", err)
	}

	page := t.archive.PageInfo(markup, pageID)

	profile := t.archive.Profile()
	extractor, err := ads.NewExtractor(ads.ExtractorConfig{
		IDPatterns:    profile.IDPatterns,
		MinIDLength:   profile.MinIDLength,
		AdURLTemplate: profile.AdURL,
		DatePhrase:    profile.DatePhrase,
		RecordAnchors: profile.RecordAnchors,
	})
	if err != nil {
		return ads.PageInfo{}, nil, fmt.Errorf("failed to build extractor: %w", err)
	}

	ids := extractor.ExtractIDs(markup)
	adList, err := extractor.Run(markup, ids)
	if err != nil {
		return ads.PageInfo{}, nil, err
	}

	slog.Debug("Ads discovered", "run_id", t.ID, "page_id", pageID, "count", len(adList))

	return page, adList, nil
}

// download fetches videos for ads without a cached transcript. Failed
// downloads are logged and skipped; the ad simply yields no script.
func (t *AnalyzePageTask) download(ctx context.Context, adList []*ads.Ad) {
	t.progress.StartStep(t.ID, 2, "Downloading videos")
	t.progress.SetCounts(t.ID, 0, len(adList))

	for i, ad := range adList {
		if _, ok, err := t.transcripts.GetTranscript(ad.ID); err == nil && ok {
			t.progress.SetCounts(t.ID, i+1, len(adList))
			continue
		}

		videoPath, err := t.downloader.Download(ctx, ad.URL, ad.ID)
		if err != nil {
			slog.Warn("Video download failed, skipping ad", "run_id", t.ID, "ad_id", ad.ID, "error", err)
		} else {
			ad.VideoPath = videoPath
		}
		t.progress.SetCounts(t.ID, i+1, len(adList))
	}
}

// transcribe attaches a transcript to every ad it can, preferring the
// cache over running the speech model. Media artifacts are deleted once a
// transcript is stored.
func (t *AnalyzePageTask) transcribe(ctx context.Context, adList []*ads.Ad) error {
	t.progress.StartStep(t.ID, 3, "Transcribing audio")
	t.progress.SetCounts(t.ID, 0, len(adList))

	transcribed := 0
	for i, ad := range adList {
		if cached, ok, err := t.transcripts.GetTranscript(ad.ID); err == nil && ok {
			ad.Transcript = cached
			transcribed++
			t.progress.SetCounts(t.ID, i+1, len(adList))
			continue
		}

		if ad.VideoPath == "" {
			t.progress.SetCounts(t.ID, i+1, len(adList))
			continue
		}

		transcript, err := t.transcribeAd(ctx, ad)
		if err != nil {
			slog.Warn("Transcription failed, skipping ad", "run_id", t.ID, "ad_id", ad.ID, "error", err)
		} else if transcript != "" {
			ad.Transcript = transcript
			transcribed++
			if err := t.transcripts.SaveTranscript(ad.ID, transcript); err != nil {
				slog.Warn("Failed to cache transcript", "run_id", t.ID, "ad_id", ad.ID, "error", err)
			}
		}
		t.cleanupArtifacts(ad)
		t.progress.SetCounts(t.ID, i+1, len(adList))
	}

	if transcribed == 0 {
		return fmt.Errorf("no transcripts produced")
	}
	return nil
}

func (t *AnalyzePageTask) transcribeAd(ctx context.Context, ad *ads.Ad) (string, error) {
	audioPath, err := t.transcoder.ExtractAudio(ctx, ad.VideoPath)
	if err != nil {
		return "", err
	}
	ad.AudioPath = audioPath

	return t.transcriber.Transcribe(ctx, audioPath, t.language)
}

// cleanupArtifacts removes the downloaded video and extracted audio once
// they are no longer needed. The transcript cache makes re-download
// unnecessary on later runs.
func (t *AnalyzePageTask) cleanupArtifacts(ad *ads.Ad) {
	if ad.VideoPath != "" {
		if err := os.Remove(ad.VideoPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove video artifact", "run_id", t.ID, "path", ad.VideoPath, "error", err)
		}
		ad.VideoPath = ""
	}
	if ad.AudioPath != "" {
		if err := os.Remove(ad.AudioPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove audio artifact", "run_id", t.ID, "path", ad.AudioPath, "error", err)
		}
		ad.AudioPath = ""
	}
}

// analyze clusters the transcripts and scores every ad.
func (t *AnalyzePageTask) analyze(adList []*ads.Ad) {
	t.progress.StartStep(t.ID, 4, "Analyzing scripts")

	ads.NewClusterer().Run(adList)
	counts := ads.VariantCounts(adList)
	ads.NewScorer().Run(adList, counts, time.Now().UTC())
}

// report ranks the ads, renders the markdown document and publishes the
// final payload.
func (t *AnalyzePageTask) report(adList []*ads.Ad, page ads.PageInfo) error {
	t.progress.StartStep(t.ID, 5, "Generating report")

	counts := ads.VariantCounts(adList)
	result := ads.NewRanker().BuildResult(adList, counts, page, "")

	filename, err := t.reports.Write(result, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	result.Filename = filename

	if err := t.runRepo.CompleteRun(t.ID, page.PageID, result.PageName, filename,
		result.TotalScripts, result.UniqueScripts); err != nil {
		slog.Error("Failed to record run completion", "run_id", t.ID, "error", err)
	}

	t.progress.Complete(t.ID, result)
	return nil
}
