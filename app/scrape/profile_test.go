package scrape

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProfileCache_BuiltinDefault(t *testing.T) {
	cache := NewProfileCache("/nonexistent")

	if err := cache.Run(); err != nil {
		t.Fatalf("Missing profiles dir should not be an error: %v", err)
	}

	profile, err := cache.GetProfile("meta")
	if err != nil {
		t.Fatalf("Expected built-in meta profile: %v", err)
	}
	if profile.MinIDLength != 12 {
		t.Errorf("Expected min id length 12, got %d", profile.MinIDLength)
	}
	if len(profile.IDPatterns) != 2 {
		t.Errorf("Expected 2 id patterns, got %d", len(profile.IDPatterns))
	}
}

func TestProfileCache_LoadsFileWithDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
search_url: "https://archive.example.com/search?q=%s"
listing_url: "https://archive.example.com/pages/%s"
ad_url: "https://archive.example.com/ads/%s"
page_url: "https://archive.example.com/p/%s"
`
	if err := os.WriteFile(filepath.Join(dir, "example.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write profile file: %v", err)
	}

	cache := NewProfileCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	profile, err := cache.GetProfile("example")
	if err != nil {
		t.Fatalf("Expected example profile to be loaded: %v", err)
	}
	if profile.Name != "example" {
		t.Errorf("Expected profile name from filename, got %q", profile.Name)
	}
	if profile.MinIDLength != 12 {
		t.Errorf("Expected default min id length, got %d", profile.MinIDLength)
	}
	if profile.DatePhrase != "Started running on" {
		t.Errorf("Expected default date phrase, got %q", profile.DatePhrase)
	}

	if cache.GetProfileCount() != 2 {
		t.Errorf("Expected 2 profiles (built-in + file), got %d", cache.GetProfileCount())
	}
}

func TestProfileCache_ValidatesRequiredURLs(t *testing.T) {
	dir := t.TempDir()
	content := `
search_url: "https://archive.example.com/search?q=%s"
`
	if err := os.WriteFile(filepath.Join(dir, "broken.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write profile file: %v", err)
	}

	cache := NewProfileCache(dir)
	if err := cache.Run(); err == nil {
		t.Errorf("Expected validation error for profile without listing_url")
	}
}

func TestProfileCache_UnknownProfile(t *testing.T) {
	cache := NewProfileCache("/nonexistent")

	if _, err := cache.GetProfile("nope"); err == nil {
		t.Errorf("Expected error for unknown profile")
	}
}
