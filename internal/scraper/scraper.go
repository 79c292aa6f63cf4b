package scraper

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/mnatlas/mn-parks/internal/park"
)

const (
	BaseURL   = "https://www.dnr.state.mn.us"
	IndexURL  = "https://www.dnr.state.mn.us/state_parks/list_alpha.html"
	UserAgent = "mn-parks/1.0 (github.com/mnatlas/mn-parks)"
	Timeout   = 30 * time.Second

	// detailMarker identifies per-park detail links on the A-Z index page.
	detailMarker = "state_parks/park.html?id="
)

var (
	highlightsHeading = regexp.MustCompile(`(?i)\bpark\s+highlights\b`)
	hoursHeading      = regexp.MustCompile(`(?i)\bpark\s+hours\b`)
	titleSuffix       = regexp.MustCompile(`\s*\|\s*Minnesota DNR.*$`)
	bulletSeparators  = regexp.MustCompile(`\s*\|\s*|;\s*|·\s*|•\s*`)
)

// Scraper handles fetching and parsing DNR park pages
type Scraper struct {
	client   *http.Client
	baseURL  string
	indexURL string
}

// New creates a Scraper against the live DNR site
func New() *Scraper {
	return NewWithURLs(BaseURL, IndexURL)
}

// NewWithURLs creates a Scraper against a different site root. Tests use this
// to point the scraper at a local server.
func NewWithURLs(baseURL, indexURL string) *Scraper {
	return &Scraper{
		client:   &http.Client{Timeout: Timeout},
		baseURL:  baseURL,
		indexURL: indexURL,
	}
}

// fetch retrieves a page and parses it into a document. The response body is
// decoded to UTF-8 based on the Content-Type header before parsing.
func (s *Scraper) fetch(pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// FetchIndexLinks fetches the A-Z index page and returns absolute links to
// each park detail page, deduplicated in first-seen order. Failure here is
// fatal to a run: there is no fallback source for the link list.
func (s *Scraper) FetchIndexLinks() ([]string, error) {
	doc, err := s.fetch(s.indexURL)
	if err != nil {
		return nil, err
	}
	return s.parseIndexLinks(doc)
}

// parseIndexLinks extracts detail-page links from the index document
func (s *Scraper) parseIndexLinks(doc *goquery.Document) ([]string, error) {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	seen := make(map[string]bool)
	links := make([]string, 0)
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, detailMarker) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})
	return links, nil
}

// FetchPark fetches and scrapes one park detail page. Errors are recoverable
// at the orchestration layer: the caller logs and skips the URL.
func (s *Scraper) FetchPark(pageURL string) (*park.Record, error) {
	doc, err := s.fetch(pageURL)
	if err != nil {
		return nil, err
	}
	return s.parsePark(doc, pageURL), nil
}

// parsePark extracts a park record from a detail-page document
func (s *Scraper) parsePark(doc *goquery.Document, pageURL string) *park.Record {
	name := parkName(doc, pageURL)
	highlights := parseHighlights(findSection(doc, highlightsHeading))
	hours := parseHours(findSection(doc, hoursHeading))
	return park.New(name, pageURL, highlights, hours)
}

// parkName resolves the display name: the first h1, falling back to the page
// title with the trailing site suffix stripped, falling back to the URL.
func parkName(doc *goquery.Document, pageURL string) string {
	if name := park.CleanSpaces(joinedText(doc.Find("h1").First(), " ")); name != "" {
		return name
	}
	title := joinedText(doc.Find("title").First(), " ")
	if name := park.CleanSpaces(titleSuffix.ReplaceAllString(title, "")); name != "" {
		return name
	}
	return pageURL
}

// findSection returns the content block following the first heading (h1-h6,
// document order) whose normalized text matches pattern. Script and style
// siblings between the heading and the content are skipped; other element
// types are not. A nil return means the section is absent, which callers
// treat as an expected outcome rather than an error.
func findSection(doc *goquery.Document, pattern *regexp.Regexp) *goquery.Selection {
	var section *goquery.Selection
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(i int, heading *goquery.Selection) bool {
		text := park.CleanSpaces(joinedText(heading, " "))
		if !pattern.MatchString(text) {
			return true
		}
		node := heading.Next()
		for node.Length() > 0 && (node.Is("script") || node.Is("style")) {
			node = node.Next()
		}
		if node.Length() > 0 {
			section = node
		}
		return false
	})
	return section
}

// parseHighlights extracts bullet points from the highlights section. The
// typical structure is a ul; when no list is present the section text is
// split on bullet-like separators instead. Always returns a non-nil slice.
func parseHighlights(section *goquery.Selection) []string {
	items := make([]string, 0)
	if section == nil {
		return items
	}

	list := section
	if !list.Is("ul, ol") {
		list = section.Find("ul, ol").First()
	}
	if list.Length() > 0 {
		list.Find("li").Each(func(i int, li *goquery.Selection) {
			if text := park.CleanSpaces(joinedText(li, " ")); text != "" {
				items = append(items, text)
			}
		})
		return items
	}

	text := park.CleanSpaces(joinedText(section, " | "))
	if text == "" {
		return items
	}
	for _, part := range bulletSeparators.Split(text, -1) {
		if part = park.CleanSpaces(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// parseHours extracts the freeform hours block. Park pages often put both
// park hours and ranger station hours together in one container, so the
// whole block is kept as a single string.
func parseHours(section *goquery.Selection) string {
	if section == nil {
		return ""
	}
	return park.CleanSpaces(html.UnescapeString(joinedText(section, " ")))
}

// joinedText extracts the visible text of a selection: each text node is
// trimmed, empty ones are dropped, and the rest are joined with sep.
func joinedText(sel *goquery.Selection, sep string) string {
	parts := make([]string, 0)
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, sep)
}

func collectText(n *xhtml.Node, parts *[]string) {
	if n.Type == xhtml.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
