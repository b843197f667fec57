package database

import (
	"database/sql"
	"fmt"
)

var _ TranscriptRepository = (*SQLTranscriptRepository)(nil)

// SQLTranscriptRepository stores per-ad transcripts in SQLite.
type SQLTranscriptRepository struct {
	db *DB
}

func NewTranscriptRepository(db *DB) *SQLTranscriptRepository {
	return &SQLTranscriptRepository{db: db}
}

// GetTranscript returns the cached transcript for an ad, with a presence
// flag distinguishing "absent" from an actual empty value.
func (r *SQLTranscriptRepository) GetTranscript(adID string) (string, bool, error) {
	var transcript string
	err := r.db.QueryRow(
		"SELECT transcript FROM transcripts WHERE ad_id = ?", adID,
	).Scan(&transcript)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get transcript: %w", err)
	}
	return transcript, true, nil
}

// SaveTranscript caches a transcript for an ad. Empty transcripts are not
// persisted so a later run can re-attempt the transcription.
func (r *SQLTranscriptRepository) SaveTranscript(adID string, transcript string) error {
	if transcript == "" {
		return nil
	}

	_, err := r.db.Exec(`
		INSERT INTO transcripts (ad_id, transcript) VALUES (?, ?)
		ON CONFLICT (ad_id) DO UPDATE SET transcript = excluded.transcript
	`, adID, transcript)
	if err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	return nil
}

// GetTranscriptCount returns the number of cached transcripts.
func (r *SQLTranscriptRepository) GetTranscriptCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM transcripts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get transcript count: %w", err)
	}
	return count, nil
}
