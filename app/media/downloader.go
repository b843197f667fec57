package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var _ Downloader = (*VideoDownloader)(nil)

// minVideoSize guards against keeping placeholder or error-page downloads.
// Anything smaller is treated as a failed download and re-fetched.
const minVideoSize = 1000

// VideoDownloader fetches ad videos with yt-dlp into a local directory.
type VideoDownloader struct {
	binPath string
	dir     string
	timeout time.Duration
}

func NewVideoDownloader(binPath string, dir string, timeout time.Duration) *VideoDownloader {
	return &VideoDownloader{binPath: binPath, dir: dir, timeout: timeout}
}

func (d *VideoDownloader) Download(ctx context.Context, adURL string, adID string) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create video directory: %w", err)
	}

	videoPath := filepath.Join(d.dir, adID+".mp4")

	if info, err := os.Stat(videoPath); err == nil && info.Size() > minVideoSize {
		slog.Debug("Video already downloaded", "ad_id", adID, "size", info.Size())
		return videoPath, nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.binPath,
		"--quiet",
		"--no-warnings",
		"--format", "best",
		"--output", videoPath,
		adURL,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp failed for ad %s: %w: %s", adID, err, strings.TrimSpace(string(output)))
	}

	info, err := os.Stat(videoPath)
	if err != nil {
		return "", fmt.Errorf("yt-dlp produced no file for ad %s: %w", adID, err)
	}
	if info.Size() <= minVideoSize {
		os.Remove(videoPath)
		return "", fmt.Errorf("downloaded file for ad %s is too small (%d bytes)", adID, info.Size())
	}

	return videoPath, nil
}
