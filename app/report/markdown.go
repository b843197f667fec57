package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/ads"
)

const adTextPreviewLength = 150

// MarkdownWriter renders a completed analysis as a markdown document in
// the results directory. The document mirrors the ranked payload so it can
// be read standalone, without the polling surface.
type MarkdownWriter struct {
	dir string
}

func NewMarkdownWriter(dir string) *MarkdownWriter {
	return &MarkdownWriter{dir: dir}
}

// Write renders the report and returns the generated file name.
func (w *MarkdownWriter) Write(result *ads.Result, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	filename := Filename(result.PageName, result.TotalScripts, generatedAt)

	f, err := os.Create(filepath.Join(w.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	md := markdown.NewMarkdown(f)

	w.writeHeader(md, result, generatedAt)
	for i, script := range result.Scripts {
		w.writeScript(md, i+1, script)
	}
	w.writeFooter(md)

	if err := md.Build(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return filename, nil
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *ads.Result, generatedAt time.Time) {
	md.H1("Ad Scripts: " + result.PageName)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Page", result.PageName},
			{"Generated", generatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Total Scripts", strconv.Itoa(result.TotalScripts)},
			{"Unique Scripts", strconv.Itoa(result.UniqueScripts)},
		},
	})
	md.PlainText("")

	if result.PageDescription != "" {
		md.Blockquote(result.PageDescription)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeScript(md *markdown.Markdown, rank int, script ads.Script) {
	md.H2f("#%d · Score %d · %s", rank, script.Score, badge(script))
	md.PlainText("")

	var details []string
	if script.Duration != nil {
		details = append(details, fmt.Sprintf("Running for %d day(s)", *script.Duration))
	}
	if script.URL != "" {
		details = append(details, markdown.Link("View in archive", script.URL))
	}
	if script.CTAText != "" {
		cta := markdown.Bold(script.CTAText)
		if script.CTALink != "" {
			cta = markdown.Link(script.CTAText, script.CTALink)
		}
		details = append(details, "CTA: "+cta)
	}
	if len(details) > 0 {
		md.BulletList(details...)
		md.PlainText("")
	}

	if script.AdText != "" {
		md.Blockquote(truncate(script.AdText, adTextPreviewLength))
		md.PlainText("")
	}

	md.PlainText(script.Transcript)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Scores combine runtime, originality and variant reach.*")
}

// badge labels a script by its place in the similarity clustering.
func badge(script ads.Script) string {
	switch {
	case script.IsOriginal && script.Variants > 0:
		return fmt.Sprintf("ORIGINAL · %d variant(s)", script.Variants)
	case script.IsOriginal:
		return "UNIQUE"
	default:
		return fmt.Sprintf("VARIANT %d%%", script.Similarity)
	}
}

// Filename builds the report file name from the page name, script count
// and generation time, e.g. "acme_shoes_5_scripts_20260830_120000.md".
func Filename(pageName string, totalScripts int, generatedAt time.Time) string {
	return fmt.Sprintf("%s_%d_scripts_%s.md",
		safeName(pageName), totalScripts, generatedAt.Format("20060102_150405"))
}

// safeName reduces a page name to a filesystem-safe slug.
func safeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	if slug == "" {
		slug = "page"
	}
	return slug
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
