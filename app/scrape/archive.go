package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/ads"
)

var (
	pageIDRe      = regexp.MustCompile(`"page_id":"(\d+)"`)
	pageNameRe    = regexp.MustCompile(`"page_name":"([^"]+)"`)
	pageDescRe    = regexp.MustCompile(`"page_description":"([^"]*)"`)
	pageWebsiteRe = regexp.MustCompile(`"website":"([^"]*)"`)
)

// Client fetches archive pages over plain HTTP. Discovery through it is
// best-effort: the archive renders much of its content client-side, so the
// client only promises whatever markup the server returns.
type Client struct {
	httpClient *http.Client
	profile    *Profile
	userAgent  string
}

func NewClient(httpClient *http.Client, profile *Profile, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		profile:    profile,
		userAgent:  userAgent,
	}
}

func (c *Client) Profile() *Profile {
	return c.profile
}

// FindPageID searches the archive for a page name and returns its archive
// page id.
func (c *Client) FindPageID(ctx context.Context, name string) (string, error) {
	markup, err := c.fetch(ctx, fmt.Sprintf(c.profile.SearchURL, url.QueryEscape(name)))
	if err != nil {
		return "", fmt.Errorf("failed to search archive: %w", err)
	}

	if m := viewAllPageIDRe.FindStringSubmatch(markup); m != nil {
		return m[1], nil
	}
	if m := pageIDRe.FindStringSubmatch(markup); m != nil {
		return m[1], nil
	}

	return "", fmt.Errorf("page %q not found", name)
}

// FetchListing returns the raw markup of the archive listing for a page.
func (c *Client) FetchListing(ctx context.Context, pageID string) (string, error) {
	markup, err := c.fetch(ctx, fmt.Sprintf(c.profile.ListingURL, pageID))
	if err != nil {
		return "", fmt.Errorf("failed to fetch listing: %w", err)
	}
	return markup, nil
}

// PageInfo extracts advertiser page metadata from the listing markup.
// Fields that cannot be found are left empty; the embedded JSON blobs are
// tried first, document metadata second.
func (c *Client) PageInfo(markup, pageID string) ads.PageInfo {
	info := ads.PageInfo{
		PageID:     pageID,
		ProfileURL: fmt.Sprintf(c.profile.PageURL, pageID),
	}

	if m := pageNameRe.FindStringSubmatch(markup); m != nil {
		info.Name = ads.DecodeEscapes(m[1])
	}
	if m := pageDescRe.FindStringSubmatch(markup); m != nil {
		info.Description = ads.DecodeEscapes(m[1])
	}
	if m := pageWebsiteRe.FindStringSubmatch(markup); m != nil {
		info.Website = ads.DecodeEscapes(m[1])
	}

	if info.Name == "" || info.Description == "" {
		c.fillFromDocument(markup, &info)
	}

	return info
}

// fillFromDocument falls back to the HTML head metadata for fields the
// embedded JSON did not provide.
func (c *Client) fillFromDocument(markup string, info *ads.PageInfo) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return
	}

	if info.Name == "" {
		if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			info.Name = strings.TrimSpace(title)
		}
	}
	if info.Description == "" {
		if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
			info.Description = strings.TrimSpace(desc)
		}
	}
}

func (c *Client) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(data), nil
}
