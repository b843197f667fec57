package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/database"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/media"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/scrape"
)

var _ TaskRunnerInterface = (*Runner)(nil)

// ErrRunInProgress is returned when an analysis is requested while another
// run is still executing. The pipeline drives external tools that do not
// tolerate concurrent use of the shared media directories.
var ErrRunInProgress = fmt.Errorf("an analysis run is already in progress")

// Runner executes analysis tasks one at a time on a background worker.
type Runner struct {
	archive     ArchiveClient
	transcripts database.TranscriptRepository
	runRepo     database.RunRepository
	downloader  media.Downloader
	transcoder  media.Transcoder
	transcriber media.Transcriber
	reports     ReportWriter
	progress    *ProgressRegistry

	mu     sync.Mutex
	active bool

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewRunner(archive ArchiveClient, transcripts database.TranscriptRepository,
	runRepo database.RunRepository, downloader media.Downloader, transcoder media.Transcoder,
	transcriber media.Transcriber, reports ReportWriter, progress *ProgressRegistry) *Runner {
	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		archive:     archive,
		transcripts: transcripts,
		runRepo:     runRepo,
		downloader:  downloader,
		transcoder:  transcoder,
		transcriber: transcriber,
		reports:     reports,
		progress:    progress,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 1),
	}
}

func (r *Runner) Start() {
	r.wg.Add(1)
	go r.worker()
}

func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
	close(r.taskQueue)

	// A task accepted by StartAnalysis but never picked up by the worker
	// would otherwise stay "running" forever.
	for task := range r.taskQueue {
		r.abortTask(task)
	}
}

func (r *Runner) abortTask(task TaskInterface) {
	const reason = "server shut down before the run started"

	slog.Warn("Analysis run aborted", "id", task.GetID(), "target", task.GetTarget())

	r.progress.Fail(task.GetID(), reason)
	if err := r.runRepo.UpdateRunStatus(task.GetID(), database.RunStatusError, reason); err != nil {
		slog.Error("Failed to record aborted run", "id", task.GetID(), "error", err)
	}
	r.setActive(false)
}

// StartAnalysis queues a run for the given target and returns its run ID.
// Only one run may be active at a time; ErrRunInProgress signals the
// caller to retry later.
func (r *Runner) StartAnalysis(target scrape.Target, language string) (string, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return "", ErrRunInProgress
	}
	r.active = true
	r.mu.Unlock()

	task := NewAnalyzePageTask(target, language, r.archive, r.transcripts, r.runRepo,
		r.downloader, r.transcoder, r.transcriber, r.reports, r.progress)

	r.progress.Create(task.GetID())
	if err := r.runRepo.CreateRun(database.Run{
		ID:     task.GetID(),
		Target: target.Raw,
		Status: database.RunStatusRunning,
	}); err != nil {
		r.setActive(false)
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	select {
	case r.taskQueue <- task:
		return task.GetID(), nil
	case <-r.ctx.Done():
		r.setActive(false)
		return "", r.ctx.Err()
	}
}

func (r *Runner) setActive(active bool) {
	r.mu.Lock()
	r.active = active
	r.mu.Unlock()
}

func (r *Runner) worker() {
	defer r.wg.Done()

	for {
		select {
		case task, ok := <-r.taskQueue:
			if !ok {
				return
			}
			r.executeTask(task)
			r.setActive(false)

		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Runner) executeTask(task TaskInterface) {
	task.Start()

	slog.Info("Analysis run started", "id", task.GetID(), "target", task.GetTarget())

	err := task.Execute(r.ctx)
	if err != nil {
		slog.Error("Analysis run failed", "id", task.GetID(), "target", task.GetTarget(),
			"duration", task.GetDuration().String(), "error", err)

		r.progress.Fail(task.GetID(), err.Error())
		if dbErr := r.runRepo.UpdateRunStatus(task.GetID(), database.RunStatusError, err.Error()); dbErr != nil {
			slog.Error("Failed to record run failure", "id", task.GetID(), "error", dbErr)
		}
		return
	}

	slog.Info("Analysis run completed", "id", task.GetID(), "target", task.GetTarget(),
		"duration", task.GetDuration().String())
}
