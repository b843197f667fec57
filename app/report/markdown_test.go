package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/ads"
)

func TestFilename(t *testing.T) {
	generatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pageName string
		total    int
		expected string
	}{
		{"simple name", "Acme Shoes", 5, "acme_shoes_5_scripts_20260830_120000.md"},
		{"punctuation collapsed", "Acme — Shoes & Co.", 2, "acme_shoes_co_2_scripts_20260830_120000.md"},
		{"empty name", "", 1, "page_1_scripts_20260830_120000.md"},
		{"only symbols", "!!!", 3, "page_3_scripts_20260830_120000.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.pageName, tt.total, generatedAt)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMarkdownWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := NewMarkdownWriter(dir)

	duration := 45
	result := &ads.Result{
		TotalScripts:    2,
		UniqueScripts:   1,
		PageName:        "Acme Shoes",
		PageDescription: "Shoes for everyone",
		Scripts: []ads.Script{
			{
				Transcript: "Buy now and save big!",
				URL:        "https://example.com/ads/1",
				Score:      95,
				Duration:   &duration,
				IsOriginal: true,
				Variants:   1,
				AdText:     "Limited time offer",
				CTAText:    "Shop Now",
				CTALink:    "https://example.com/shop",
			},
			{
				Transcript: "Buy now and save big",
				URL:        "https://example.com/ads/2",
				Score:      60,
				Similarity: 97,
			},
		},
	}

	filename, err := w.Write(result, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}
	if filename != "acme_shoes_2_scripts_20260830_120000.md" {
		t.Errorf("Unexpected report filename: %q", filename)
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"# Ad Scripts: Acme Shoes",
		"ORIGINAL · 1 variant(s)",
		"VARIANT 97%",
		"Buy now and save big!",
		"Running for 45 day(s)",
		"[Shop Now](https://example.com/shop)",
		"> Shoes for everyone",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}

func TestMarkdownWriter_UniqueBadge(t *testing.T) {
	got := badge(ads.Script{IsOriginal: true})
	if got != "UNIQUE" {
		t.Errorf("Expected UNIQUE badge, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := truncate(long, 150)
	if len([]rune(got)) != 153 {
		t.Errorf("Expected 150 runes plus ellipsis, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix")
	}

	if truncate("short", 150) != "short" {
		t.Errorf("Short text must pass through unchanged")
	}
}
