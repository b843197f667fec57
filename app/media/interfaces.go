package media

import "context"

// Downloader fetches an ad video to local disk and returns the file path.
type Downloader interface {
	Download(ctx context.Context, adURL string, adID string) (string, error)
}

// Transcoder extracts the audio track from a downloaded video.
type Transcoder interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
}

// Transcriber converts an audio file to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, language string) (string, error)
}
