package api

import (
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/database"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/scrape"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/tasks"
)

// AnalyzeRequest is the body of POST /analyze. PageURL accepts an archive
// URL, a page URL, a numeric page ID or a plain page name.
type AnalyzeRequest struct {
	PageURL  string `json:"pageUrl" binding:"required"`
	Language string `json:"language"`
}

type Handler struct {
	runner       tasks.TaskRunnerInterface
	progress     *tasks.ProgressRegistry
	runRepo      database.RunRepository
	transcripts  database.TranscriptRepository
	profileCache *scrape.ProfileCache
	resultsDir   string
	baseURL      string
}
