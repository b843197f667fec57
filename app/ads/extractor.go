package ads

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNoAds is returned when a listing page yields no usable ad identifiers.
var ErrNoAds = fmt.Errorf("no ads found")

// ExtractorConfig carries the archive-specific extraction parameters.
type ExtractorConfig struct {
	// IDPatterns are regexes whose first capture group matches an ad
	// archive identifier in the raw listing markup.
	IDPatterns []string
	// MinIDLength filters incidental numeric matches from unrelated
	// content; real archive ids are long.
	MinIDLength int
	// AdURLTemplate builds the public ad URL from an identifier.
	AdURLTemplate string
	// DatePhrase is the text immediately preceding an ad's start date.
	DatePhrase string
	// RecordAnchors are the markup prefixes that introduce an ad record's
	// identifier; per-ad fields are searched after the anchored id.
	RecordAnchors []string
}

type Extractor struct {
	cfg        ExtractorConfig
	idPatterns []*regexp.Regexp
}

func NewExtractor(cfg ExtractorConfig) (*Extractor, error) {
	if cfg.MinIDLength == 0 {
		cfg.MinIDLength = 12
	}
	if cfg.DatePhrase == "" {
		cfg.DatePhrase = "Started running on"
	}
	if len(cfg.RecordAnchors) == 0 {
		cfg.RecordAnchors = []string{`"adArchiveID":"`, `"ad_archive_id":"`}
	}

	patterns := make([]*regexp.Regexp, 0, len(cfg.IDPatterns))
	for _, p := range cfg.IDPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid id pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	return &Extractor{cfg: cfg, idPatterns: patterns}, nil
}

// ExtractIDs scans the listing markup for candidate ad identifiers.
// Only numeric tokens of at least the configured minimum length are kept;
// duplicates across patterns are collapsed. Order is first occurrence in
// the markup so repeated runs see the same discovery order.
func (e *Extractor) ExtractIDs(markup string) []string {
	seen := make(map[string]bool)
	type hit struct {
		id  string
		pos int
	}
	var hits []hit

	for _, re := range e.idPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(markup, -1) {
			if len(m) < 4 {
				continue
			}
			id := markup[m[2]:m[3]]
			if len(id) < e.cfg.MinIDLength || !isNumeric(id) || seen[id] {
				continue
			}
			seen[id] = true
			hits = append(hits, hit{id: id, pos: m[2]})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids
}

// Run produces one Ad record per identifier from the listing markup.
// Every field parser is independent and best-effort: a field that fails to
// parse is simply left absent, and one ad's failures never affect another.
// Zero identifiers is the only hard failure.
func (e *Extractor) Run(markup string, ids []string) ([]*Ad, error) {
	if len(ids) == 0 {
		return nil, ErrNoAds
	}

	out := make([]*Ad, 0, len(ids))
	for _, id := range ids {
		ad := &Ad{
			ID:         id,
			URL:        fmt.Sprintf(e.cfg.AdURLTemplate, id),
			IsOriginal: true,
		}
		ad.StartDate = e.parseStartDate(markup, id)
		ad.AdText = e.parseAdText(markup, id)
		ad.CTAText, ad.CTALink = e.parseCTA(markup, id)
		out = append(out, ad)
	}
	return out, nil
}

func (e *Extractor) parseStartDate(markup, id string) *time.Time {
	re, err := regexp.Compile(`(?s)` + regexp.QuoteMeta(id) + `.*?` +
		regexp.QuoteMeta(e.cfg.DatePhrase) + ` (\w+ \d+, \d{4})`)
	if err != nil {
		return nil
	}
	m := re.FindStringSubmatch(markup)
	if m == nil {
		return nil
	}
	t, err := time.Parse("Jan 2, 2006", m[1])
	if err != nil {
		return nil
	}
	return &t
}

func (e *Extractor) parseAdText(markup, id string) string {
	m := e.findAfterRecord(markup, id, `.*?"body_markup":\{"markup":"([^"]*)"`)
	if m == nil {
		return ""
	}
	return truncateRunes(DecodeEscapes(m[1]), 500)
}

func (e *Extractor) parseCTA(markup, id string) (text, link string) {
	m := e.findAfterRecord(markup, id, `.*?"cta_text":"([^"]*)".*?"link_url":"([^"]*)"`)
	if m == nil {
		return "", ""
	}
	return m[1], DecodeEscapes(m[2])
}

// findAfterRecord matches tail against the markup following the ad's
// record, trying every configured anchor until one locates the id.
func (e *Extractor) findAfterRecord(markup, id, tail string) []string {
	for _, anchor := range e.cfg.RecordAnchors {
		re, err := regexp.Compile(`(?s)` + regexp.QuoteMeta(anchor+id) + `"` + tail)
		if err != nil {
			continue
		}
		if m := re.FindStringSubmatch(markup); m != nil {
			return m
		}
	}
	return nil
}

// DecodeEscapes resolves JSON-style escape sequences captured from the
// markup. On any decode failure the raw captured text is returned.
func DecodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	decoded, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return decoded
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
