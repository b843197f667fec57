package cfg

type Cfg struct {
	// Application configuration
	Port         string
	BaseUrl      string
	DataDir      string
	ProfilesDir  string
	DBPath       string
	Profile      string
	APIAccessKey string

	// External tool configuration
	YtDlpPath         string
	FFmpegPath        string
	WhisperPath       string
	WhisperModel      string
	FetchTimeout      int
	DownloadTimeout   int
	TranscodeTimeout  int
	TranscribeTimeout int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
