package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/api"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/cfg"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/database"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/media"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/report"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/scrape"
	"github.com/algotrader1/Meta-Ads-Transcriptor/app/tasks"
)

func main() {
	// Load configuration from environment variables and command-line flags
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Meta Ads Transcriptor", "version", appCfg.Version)

	// Database connection
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	transcriptRepo := database.NewTranscriptRepository(db)
	runRepo := database.NewRunRepository(db)

	// Archive profiles
	profileCache := scrape.NewProfileCache(appCfg.ProfilesDir)
	if err := profileCache.Run(); err != nil {
		slog.Error("Failed to load archive profiles", "dir", appCfg.ProfilesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Archive profiles loaded", "count", profileCache.GetProfileCount())

	profile, err := profileCache.GetProfile(appCfg.Profile)
	if err != nil {
		slog.Error("Unknown archive profile", "profile", appCfg.Profile, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(appCfg.FetchTimeout) * time.Second,
	}
	archive := scrape.NewClient(httpClient, profile, appCfg.UserAgent)

	// Media pipeline
	downloader := media.NewVideoDownloader(appCfg.YtDlpPath,
		filepath.Join(appCfg.DataDir, "videos"),
		time.Duration(appCfg.DownloadTimeout)*time.Second)
	transcoder := media.NewAudioTranscoder(appCfg.FFmpegPath,
		filepath.Join(appCfg.DataDir, "audio"),
		time.Duration(appCfg.TranscodeTimeout)*time.Second)
	transcriber := media.NewWhisperTranscriber(appCfg.WhisperPath, appCfg.WhisperModel,
		filepath.Join(appCfg.DataDir, "transcripts"),
		time.Duration(appCfg.TranscribeTimeout)*time.Second)

	resultsDir := filepath.Join(appCfg.DataDir, "results")
	reports := report.NewMarkdownWriter(resultsDir)

	// Background runner
	progress := tasks.NewProgressRegistry()
	runner := tasks.NewRunner(archive, transcriptRepo, runRepo, downloader, transcoder,
		transcriber, reports, progress)
	runner.Start()
	defer runner.Stop()

	// HTTP server
	apiHandler := api.NewHandler(runner, progress, runRepo, transcriptRepo, profileCache, resultsDir, appCfg.BaseUrl)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "profile", profile.Name)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Runner is stopped via defer
	slog.Info("Shutdown complete")
}
