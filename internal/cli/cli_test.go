package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mnatlas/mn-parks/internal/park"
	"github.com/mnatlas/mn-parks/internal/scraper"
)

const testIndexHTML = `<html><body>
<a href="/state_parks/park.html?id=spk1">Zippel Bay</a>
<a href="/state_parks/park.html?id=spk2">Afton</a>
<a href="/state_parks/park.html?id=spk3">Missing</a>
<a href="/state_parks/park.html?id=spk1">Zippel Bay again</a>
<a href="/about/contact.html">Contact</a>
</body></html>`

func parkPage(name, highlight string) string {
	return fmt.Sprintf(`<html><body>
<h1>%s</h1>
<h2>Park highlights</h2>
<ul><li>%s</li></ul>
<h2>Park hours</h2>
<p>8 a.m. to 10 p.m. daily.</p>
</body></html>`, name, highlight)
}

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/state_parks/list_alpha.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testIndexHTML)
	})
	mux.HandleFunc("/state_parks/park.html", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "spk1":
			fmt.Fprint(w, parkPage("Zippel Bay State Park", "Lake of the Woods shoreline"))
		case "spk2":
			fmt.Fprint(w, parkPage("Afton State Park", "St. Croix River views"))
		default:
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type stubImages struct {
	byName map[string]*park.Image
	calls  []string
}

func (s *stubImages) LookupImage(parkName string) *park.Image {
	s.calls = append(s.calls, parkName)
	return s.byName[parkName]
}

func TestScrapeAll(t *testing.T) {
	server := newTestSite(t)
	sc := scraper.NewWithURLs(server.URL, server.URL+"/state_parks/list_alpha.html")

	images := &stubImages{byName: map[string]*park.Image{
		"Afton State Park": {
			ThumbnailURL:  "https://upload.wikimedia.org/thumb/afton.jpg",
			SourcePageURL: "https://en.wikipedia.org/wiki/Afton_State_Park",
			PageTitle:     "Afton State Park",
		},
	}}

	var progress bytes.Buffer
	records, failures, err := scrapeAll(sc, images, 0, 0, &progress)
	if err != nil {
		t.Fatalf("scrapeAll failed: %v", err)
	}

	// One of the three deduplicated links 404s; the run continues
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if !strings.Contains(failures[0].URL, "id=spk3") {
		t.Errorf("unexpected failed URL: %q", failures[0].URL)
	}

	// Sorted by park name regardless of fetch order
	if records[0].ParkName != "Afton State Park" || records[1].ParkName != "Zippel Bay State Park" {
		t.Errorf("records out of order: %q, %q", records[0].ParkName, records[1].ParkName)
	}

	// official_url is unique and non-empty across the collection
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.OfficialURL == "" {
			t.Error("official_url should never be empty")
		}
		if seen[rec.OfficialURL] {
			t.Errorf("duplicate official_url: %q", rec.OfficialURL)
		}
		seen[rec.OfficialURL] = true
	}

	if records[0].Image == nil || records[0].Image.PageTitle != "Afton State Park" {
		t.Errorf("expected image attached to Afton record, got %+v", records[0].Image)
	}
	if records[1].Image != nil {
		t.Errorf("expected no image for Zippel Bay, got %+v", records[1].Image)
	}

	// Lookup runs only for successfully scraped pages
	if len(images.calls) != 2 {
		t.Errorf("expected 2 image lookups, got %d: %v", len(images.calls), images.calls)
	}

	out := progress.String()
	if !strings.Contains(out, "Found 3 park links.") {
		t.Errorf("missing link count in progress output:\n%s", out)
	}
	if !strings.Contains(out, "[1/3]") || !strings.Contains(out, "[3/3]") {
		t.Errorf("missing per-page progress lines:\n%s", out)
	}
}

func TestScrapeAllLimit(t *testing.T) {
	server := newTestSite(t)
	sc := scraper.NewWithURLs(server.URL, server.URL+"/state_parks/list_alpha.html")

	var progress bytes.Buffer
	records, failures, err := scrapeAll(sc, nil, 0, 1, &progress)
	if err != nil {
		t.Fatalf("scrapeAll failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record with limit=1, got %d", len(records))
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %d", len(failures))
	}
	if records[0].ParkName != "Zippel Bay State Park" {
		t.Errorf("expected first index link to be scraped, got %q", records[0].ParkName)
	}
}

func TestScrapeAllIndexFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sc := scraper.NewWithURLs(server.URL, server.URL+"/state_parks/list_alpha.html")
	if _, _, err := scrapeAll(sc, nil, 0, 0, &bytes.Buffer{}); err == nil {
		t.Fatal("expected a fatal error when the index fetch fails")
	}
}
