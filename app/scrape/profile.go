package scrape

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Profile describes one ad-transparency archive: where its search and
// listing pages live and how ad identifiers appear in their markup.
// Profiles are loaded from YAML files so new archives (or markup changes)
// do not require a rebuild.
type Profile struct {
	Name        string   // Derived from filename (without extension)
	SearchURL   string   `yaml:"search_url"`    // %s = page name to search
	ListingURL  string   `yaml:"listing_url"`   // %s = archive page id
	AdURL       string   `yaml:"ad_url"`        // %s = ad archive id
	PageURL     string   `yaml:"page_url"`      // %s = archive page id
	IDPatterns  []string `yaml:"id_patterns"`   // first capture group = ad id
	MinIDLength int      `yaml:"min_id_length"` // shorter numeric matches are noise
	DatePhrase  string   `yaml:"date_phrase"`   // text preceding the start date

	// RecordAnchors are the markup prefixes that introduce an ad record's
	// identifier; ad text and call-to-action fields are parsed from the
	// markup following the anchored id.
	RecordAnchors []string `yaml:"record_anchors"`
}

// DefaultProfile returns the built-in Meta Ad Library profile, used when
// no profile file overrides it.
func DefaultProfile() *Profile {
	return &Profile{
		Name:        "meta",
		SearchURL:   "https://www.facebook.com/ads/library/?active_status=all&ad_type=all&country=ALL&q=%s&search_type=keyword_unordered",
		ListingURL:  "https://www.facebook.com/ads/library/?active_status=all&ad_type=all&country=ALL&view_all_page_id=%s&media_type=video",
		AdURL:       "https://www.facebook.com/ads/library/?id=%s",
		PageURL:     "https://www.facebook.com/%s",
		IDPatterns:  []string{`"adArchiveID":"(\d+)"`, `"ad_archive_id":"(\d+)"`},
		MinIDLength: 12,
		DatePhrase:  "Started running on",
		RecordAnchors: []string{
			`"adArchiveID":"`,
			`"ad_archive_id":"`,
		},
	}
}

type ProfileCache struct {
	profilesDir string
	cache       map[string]*Profile
	mu          sync.RWMutex
}

func NewProfileCache(profilesDir string) *ProfileCache {
	return &ProfileCache{
		profilesDir: profilesDir,
		cache:       map[string]*Profile{"meta": DefaultProfile()},
	}
}

// Run loads every profile file from the profiles directory. A missing
// directory is not an error; the built-in default remains available.
func (pc *ProfileCache) Run() error {
	if _, err := os.Stat(pc.profilesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(pc.profilesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find profile files: %w", err)
	}
	yamlFiles, err := filepath.Glob(filepath.Join(pc.profilesDir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to find profile files: %w", err)
	}
	files = append(files, yamlFiles...)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		profile, err := pc.loadFile(file, name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		pc.mu.Lock()
		pc.cache[name] = profile
		pc.mu.Unlock()

		slog.Debug("Archive profile loaded", "profile", name, "min_id_length", profile.MinIDLength)
	}

	return nil
}

// GetProfile returns the named profile.
func (pc *ProfileCache) GetProfile(name string) (*Profile, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	profile, ok := pc.cache[name]
	if !ok {
		return nil, fmt.Errorf("unknown archive profile: %s", name)
	}
	return profile, nil
}

func (pc *ProfileCache) GetProfileCount() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.cache)
}

func (pc *ProfileCache) loadFile(path, name string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	profile.Name = name

	pc.setDefaults(profile)
	if err := pc.validate(profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (pc *ProfileCache) setDefaults(profile *Profile) {
	base := DefaultProfile()
	if profile.MinIDLength == 0 {
		profile.MinIDLength = base.MinIDLength
	}
	if profile.DatePhrase == "" {
		profile.DatePhrase = base.DatePhrase
	}
	if len(profile.IDPatterns) == 0 {
		profile.IDPatterns = base.IDPatterns
	}
	if len(profile.RecordAnchors) == 0 {
		profile.RecordAnchors = base.RecordAnchors
	}
}

func (pc *ProfileCache) validate(profile *Profile) error {
	if profile.ListingURL == "" {
		return fmt.Errorf("profile %s: listing_url is required", profile.Name)
	}
	if profile.AdURL == "" {
		return fmt.Errorf("profile %s: ad_url is required", profile.Name)
	}
	if !strings.Contains(profile.ListingURL, "%s") || !strings.Contains(profile.AdURL, "%s") {
		return fmt.Errorf("profile %s: listing_url and ad_url must contain a %%s placeholder", profile.Name)
	}
	return nil
}
