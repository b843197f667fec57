package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testProfile(baseURL string) *Profile {
	p := DefaultProfile()
	p.SearchURL = baseURL + "/search?q=%s"
	p.ListingURL = baseURL + "/listing/%s"
	p.PageURL = baseURL + "/page/%s"
	return p
}

func TestClient_FindPageID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>view_all_page_id=123456789 elsewhere</body></html>`)
	}))
	defer server.Close()

	client := NewClient(server.Client(), testProfile(server.URL), "test-agent")

	id, err := client.FindPageID(context.Background(), "acmecorp")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "123456789" {
		t.Errorf("Expected page id 123456789, got %q", id)
	}
}

func TestClient_FindPageID_JSONFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page_id":"987654321"}`)
	}))
	defer server.Close()

	client := NewClient(server.Client(), testProfile(server.URL), "test-agent")

	id, err := client.FindPageID(context.Background(), "acmecorp")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "987654321" {
		t.Errorf("Expected page id 987654321, got %q", id)
	}
}

func TestClient_FindPageID_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>no results</body></html>`)
	}))
	defer server.Close()

	client := NewClient(server.Client(), testProfile(server.URL), "test-agent")

	if _, err := client.FindPageID(context.Background(), "ghost"); err == nil {
		t.Errorf("Expected error when no page id appears in the markup")
	}
}

func TestClient_FetchListing_SendsUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, "listing markup")
	}))
	defer server.Close()

	client := NewClient(server.Client(), testProfile(server.URL), "test-agent")

	markup, err := client.FetchListing(context.Background(), "123456789")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if markup != "listing markup" {
		t.Errorf("Expected listing markup, got %q", markup)
	}
	if gotAgent != "test-agent" {
		t.Errorf("Expected configured user agent, got %q", gotAgent)
	}
}

func TestClient_FetchListing_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.Client(), testProfile(server.URL), "test-agent")

	if _, err := client.FetchListing(context.Background(), "123456789"); err == nil {
		t.Errorf("Expected error on non-200 response")
	}
}

func TestClient_PageInfo_FromEmbeddedJSON(t *testing.T) {
	client := NewClient(http.DefaultClient, testProfile("http://archive.test"), "test-agent")

	markup := `{"page_name":"Acme Corp","page_description":"Le café shop","website":"https:\/\/acme.example.com"}`
	info := client.PageInfo(markup, "123456789")

	if info.PageID != "123456789" {
		t.Errorf("Expected page id 123456789, got %q", info.PageID)
	}
	if info.Name != "Acme Corp" {
		t.Errorf("Expected page name, got %q", info.Name)
	}
	if info.Description != "Le café shop" {
		t.Errorf("Expected decoded description, got %q", info.Description)
	}
	if !strings.HasSuffix(info.ProfileURL, "/page/123456789") {
		t.Errorf("Expected profile URL from template, got %q", info.ProfileURL)
	}
}

func TestClient_PageInfo_DocumentFallback(t *testing.T) {
	client := NewClient(http.DefaultClient, testProfile("http://archive.test"), "test-agent")

	markup := `<html><head>
		<meta property="og:title" content="Acme Corp">
		<meta name="description" content="Everything for coyotes">
	</head><body></body></html>`
	info := client.PageInfo(markup, "123456789")

	if info.Name != "Acme Corp" {
		t.Errorf("Expected name from og:title, got %q", info.Name)
	}
	if info.Description != "Everything for coyotes" {
		t.Errorf("Expected description from meta tag, got %q", info.Description)
	}
}

func TestClient_PageInfo_MissingFieldsStayEmpty(t *testing.T) {
	client := NewClient(http.DefaultClient, testProfile("http://archive.test"), "test-agent")

	info := client.PageInfo("<html><body></body></html>", "123456789")

	if info.Name != "" || info.Description != "" || info.Website != "" {
		t.Errorf("Expected empty metadata, got %+v", info)
	}
}
