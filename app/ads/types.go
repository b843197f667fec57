package ads

import (
	"time"
)

// PageInfo holds the advertiser page metadata discovered from the archive.
// Populated once during discovery and immutable afterwards.
type PageInfo struct {
	PageID      string `json:"page_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	ProfileURL  string `json:"profile_url"`
}

// Ad is one advertisement extracted from the archive. Records are created
// by the Extractor and enriched in place by the later pipeline stages
// (transcript attach, clustering, scoring).
type Ad struct {
	ID        string
	URL       string
	StartDate *time.Time

	// Transient media artifacts, owned by the download/transcode stage.
	VideoPath string
	AudioPath string

	Transcript string
	AdText     string
	CTAText    string
	CTALink    string

	// Derived fields filled by clustering and scoring.
	DurationDays    int
	Score           int
	IsOriginal      bool
	SimilarTo       string
	SimilarityRatio float64
}

// Script is the per-ad view record emitted to the interactive display and
// the document renderer.
type Script struct {
	Transcript string `json:"transcript"`
	URL        string `json:"url"`
	Score      int    `json:"score"`
	Duration   *int   `json:"duration"`
	IsOriginal bool   `json:"is_original"`
	Variants   int    `json:"variants"`
	Similarity int    `json:"similarity"`
	AdText     string `json:"ad_text"`
	CTAText    string `json:"cta_text"`
	CTALink    string `json:"cta_link"`
}

// Result is the run-level payload consumed by the polling surface after a
// completed analysis.
type Result struct {
	TotalScripts    int      `json:"total_scripts"`
	UniqueScripts   int      `json:"unique_scripts"`
	Filename        string   `json:"filename"`
	PageName        string   `json:"page_name"`
	PageDescription string   `json:"page_description"`
	Scripts         []Script `json:"scripts"`
}
