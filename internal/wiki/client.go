package wiki

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mnatlas/mn-parks/internal/park"
)

const (
	// DefaultBaseURL is the English Wikipedia action API endpoint
	DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

	// Credit is the fixed attribution string attached to every image result
	Credit = "Image via Wikipedia/Wikimedia Commons (license varies by file)."

	thumbnailSize = 800
)

// Client queries the Wikipedia API for park page thumbnails.
// No authentication required - this is a public API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// NewClient creates a Wikipedia API client
func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: "mn-parks/1.0 (github.com/mnatlas/mn-parks)",
	}
}

// searchResponse is the subset of the API response we care about
type searchResponse struct {
	Query struct {
		Pages map[string]wikiPage `json:"pages"`
	} `json:"query"`
}

type wikiPage struct {
	Title     string `json:"title"`
	FullURL   string `json:"fullurl"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// candidateQueries builds the ordered search-query variants for a park name.
// The variants differ only in appended disambiguation suffixes, most specific
// first.
func candidateQueries(parkName string) []string {
	return []string{
		fmt.Sprintf("%s State Park (Minnesota)", parkName),
		fmt.Sprintf("%s, Minnesota", parkName),
		fmt.Sprintf("%s State Park Minnesota", parkName),
		fmt.Sprintf("%s State Park", parkName),
	}
}

// LookupImage attempts to find a representative image for a park. Candidates
// are tried in order and the first one whose top search hit carries a
// thumbnail wins. A nil return means no usable result was found; failures of
// individual candidates are never surfaced.
func (c *Client) LookupImage(parkName string) *park.Image {
	for _, query := range candidateQueries(parkName) {
		img, err := c.search(query)
		if err != nil {
			continue
		}
		if img != nil {
			return img
		}
	}
	return nil
}

// search issues one generator-based search request for the best-matching
// page plus thumbnail metadata. Returns nil with no error when the top hit
// has no thumbnail.
func (c *Client) search(query string) (*park.Image, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "pageimages|info")
	params.Set("inprop", "url")
	params.Set("piprop", "thumbnail|name")
	params.Set("pithumbsize", strconv.Itoa(thumbnailSize))
	params.Set("generator", "search")
	params.Set("gsrsearch", query)
	params.Set("gsrlimit", "1")
	params.Set("redirects", "1")
	params.Set("origin", "*")

	req, err := http.NewRequest("GET", c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	// gsrlimit=1 means at most one page in the map
	for _, page := range result.Query.Pages {
		if page.Thumbnail.Source == "" {
			return nil, nil
		}
		pageURL := page.FullURL
		if pageURL == "" && page.Title != "" {
			pageURL = "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(page.Title, " ", "_")
		}
		return &park.Image{
			ThumbnailURL:  page.Thumbnail.Source,
			SourcePageURL: pageURL,
			PageTitle:     page.Title,
			Credit:        Credit,
		}, nil
	}
	return nil, nil
}
