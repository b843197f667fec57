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

var _ Transcriber = (*WhisperTranscriber)(nil)

// WhisperTranscriber runs the whisper CLI on an audio file and reads back
// the text output it writes next to the audio.
type WhisperTranscriber struct {
	binPath string
	model   string
	dir     string
	timeout time.Duration
}

func NewWhisperTranscriber(binPath string, model string, dir string, timeout time.Duration) *WhisperTranscriber {
	return &WhisperTranscriber{binPath: binPath, model: model, dir: dir, timeout: timeout}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string, language string) (string, error) {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create transcript directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	args := []string{
		audioPath,
		"--model", t.model,
		"--output_format", "txt",
		"--output_dir", t.dir,
		"--fp16", "False",
	}
	if language != "" {
		args = append(args, "--language", language)
	}

	cmd := exec.CommandContext(ctx, t.binPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("whisper failed for %s: %w: %s", audioPath, err, strings.TrimSpace(string(output)))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	textPath := filepath.Join(t.dir, base+".txt")

	data, err := os.ReadFile(textPath)
	if err != nil {
		return "", fmt.Errorf("whisper produced no transcript for %s: %w", audioPath, err)
	}
	os.Remove(textPath)

	return strings.TrimSpace(string(data)), nil
}
