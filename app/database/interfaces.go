package database

// TranscriptRepository is the per-ad transcript cache. Only non-empty
// transcripts are stored; a cache hit short-circuits the external
// transcription step entirely. Single-writer-per-key use only: the
// pipeline transcribes ads sequentially.
type TranscriptRepository interface {
	GetTranscript(adID string) (string, bool, error)
	SaveTranscript(adID string, transcript string) error
	GetTranscriptCount() (int, error)
}

// RunRepository records analysis runs and their outcomes.
type RunRepository interface {
	CreateRun(run Run) error
	UpdateRunStatus(runID string, status string, errorMessage string) error
	CompleteRun(runID string, pageID string, pageName string, reportFile string, totalScripts int, uniqueScripts int) error
	GetRun(runID string) (*Run, error)
	ListRuns(limit int) ([]Run, error)
}
