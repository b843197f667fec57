package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var _ Transcoder = (*AudioTranscoder)(nil)

// AudioTranscoder strips the audio track out of a video with ffmpeg.
type AudioTranscoder struct {
	binPath string
	dir     string
	timeout time.Duration
}

func NewAudioTranscoder(binPath string, dir string, timeout time.Duration) *AudioTranscoder {
	return &AudioTranscoder{binPath: binPath, dir: dir, timeout: timeout}
}

func (t *AudioTranscoder) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(t.dir, base+".mp3")

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.binPath,
		"-y",
		"-i", videoPath,
		"-vn",
		"-q:a", "0",
		"-map", "a",
		audioPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg failed for %s: %w: %s", videoPath, err, strings.TrimSpace(string(output)))
	}

	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("ffmpeg produced no audio file for %s: %w", videoPath, err)
	}

	return audioPath, nil
}
