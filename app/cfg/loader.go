package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://ads.example.com)"`
	DataDir      string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for media artifacts and generated reports"`
	ProfilesDir  string `long:"profiles-dir" env:"PROFILES_DIR" default:"./profiles" description:"Directory containing archive profile files"`
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./data/ads.db" description:"Path to the SQLite database file"`
	Profile      string `long:"profile" env:"ARCHIVE_PROFILE" default:"meta" description:"Archive profile to use for discovery"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// External tool configuration
	YtDlpPath         string `long:"yt-dlp-path" env:"YT_DLP_PATH" default:"yt-dlp" description:"Path to the yt-dlp binary"`
	FFmpegPath        string `long:"ffmpeg-path" env:"FFMPEG_PATH" default:"ffmpeg" description:"Path to the ffmpeg binary"`
	WhisperPath       string `long:"whisper-path" env:"WHISPER_PATH" default:"whisper" description:"Path to the whisper binary"`
	WhisperModel      string `long:"whisper-model" env:"WHISPER_MODEL" default:"base" description:"Whisper model used for transcription"`
	FetchTimeout      int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"60" description:"Archive page fetch timeout in seconds"`
	DownloadTimeout   int    `long:"download-timeout" env:"DOWNLOAD_TIMEOUT" default:"120" description:"Per-ad video download timeout in seconds"`
	TranscodeTimeout  int    `long:"transcode-timeout" env:"TRANSCODE_TIMEOUT" default:"60" description:"Per-ad audio extraction timeout in seconds"`
	TranscribeTimeout int    `long:"transcribe-timeout" env:"TRANSCRIBE_TIMEOUT" default:"300" description:"Per-ad transcription timeout in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36" description:"User agent string for archive requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		DataDir:           raw.DataDir,
		ProfilesDir:       raw.ProfilesDir,
		DBPath:            raw.DBPath,
		Profile:           raw.Profile,
		APIAccessKey:      raw.APIAccessKey,
		YtDlpPath:         raw.YtDlpPath,
		FFmpegPath:        raw.FFmpegPath,
		WhisperPath:       raw.WhisperPath,
		WhisperModel:      raw.WhisperModel,
		FetchTimeout:      raw.FetchTimeout,
		DownloadTimeout:   raw.DownloadTimeout,
		TranscodeTimeout:  raw.TranscodeTimeout,
		TranscribeTimeout: raw.TranscribeTimeout,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
