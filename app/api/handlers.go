package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/database"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/scrape"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/tasks"
)

func NewHandler(runner tasks.TaskRunnerInterface, progress *tasks.ProgressRegistry,
	runRepo database.RunRepository, transcripts database.TranscriptRepository,
	profileCache *scrape.ProfileCache, resultsDir, baseURL string) *Handler {
	return &Handler{
		runner:       runner,
		progress:     progress,
		runRepo:      runRepo,
		transcripts:  transcripts,
		profileCache: profileCache,
		resultsDir:   resultsDir,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageUrl is required"})
		return
	}

	target, err := scrape.ResolveTarget(req.PageURL)
	if err != nil {
		slog.Debug("Rejected analyze request", "page_url", req.PageURL, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Could not resolve a page from the provided reference",
		})
		return
	}

	runID, err := h.runner.StartAnalysis(target, req.Language)
	if err != nil {
		if errors.Is(err, tasks.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "An analysis is already in progress, try again later",
			})
			return
		}
		slog.Error("Failed to start analysis", "target", target.Raw, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": runID,
		"status": tasks.StatusRunning,
	})
}

func (h *Handler) GetProgress(c *gin.Context) {
	runID := c.Param("id")

	progress, ok := h.progress.Get(runID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *Handler) Download(c *gin.Context) {
	filename := c.Param("filename")

	// Reject anything that could escape the results directory.
	if filename == "" || filename != filepath.Base(filename) ||
		strings.Contains(filename, "..") || !strings.HasSuffix(filename, ".md") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file name"})
		return
	}

	path := filepath.Join(h.resultsDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.FileAttachment(path, filename)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.transcripts.GetTranscriptCount(); err == nil {
		health["cached_transcripts"] = count
	}

	health["loaded_profiles"] = h.profileCache.GetProfileCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListRuns(c *gin.Context) {
	runs, err := h.runRepo.ListRuns(50)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		items = append(items, h.runInfo(run))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  items,
		"total": len(items),
	})
}

func (h *Handler) APIGetRun(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing run id parameter"})
		return
	}

	run, err := h.runRepo.GetRun(runID)
	if err != nil {
		slog.Error("Database error", "operation", "get_run", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	details := h.runInfo(*run)
	if progress, ok := h.progress.Get(runID); ok {
		details["progress"] = progress
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) runInfo(run database.Run) map[string]interface{} {
	info := map[string]interface{}{
		"id":             run.ID,
		"target":         run.Target,
		"status":         run.Status,
		"page_id":        run.PageID,
		"page_name":      run.PageName,
		"total_scripts":  run.TotalScripts,
		"unique_scripts": run.UniqueScripts,
		"created_at":     run.CreatedAt,
	}
	if run.Error != "" {
		info["error"] = run.Error
	}
	if run.ReportFile != "" {
		info["report_file"] = run.ReportFile
		if h.baseURL != "" {
			info["download_url"] = h.baseURL + "/download/" + run.ReportFile
		}
	}
	if run.CompletedAt != nil {
		info["completed_at"] = run.CompletedAt
	}
	return info
}
