package park

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Record represents one scraped park detail page
type Record struct {
	ParkName    string   `json:"park_name"`
	OfficialURL string   `json:"official_url"`
	Highlights  []string `json:"highlights"`
	Hours       string   `json:"hours,omitempty"`
	Image       *Image   `json:"image,omitempty"`
	NameFull    string   `json:"name_full"`
	NameBare    string   `json:"name_bare"`
	SlugFull    string   `json:"slug_full"`
	SlugBare    string   `json:"slug_bare"`
}

// Image holds the best-effort Wikipedia image metadata for a park
type Image struct {
	ThumbnailURL  string `json:"thumbnail_url"`
	SourcePageURL string `json:"source_page_url"`
	PageTitle     string `json:"page_title"`
	Credit        string `json:"credit"`
}

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	nonAlnumRun   = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	parenthetical = regexp.MustCompile(`\s*\(.*?\)\s*`)
)

// CleanSpaces collapses runs of whitespace into single spaces and trims the ends.
func CleanSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// asciiFold decomposes to NFKD and drops combining marks and any remaining
// non-ASCII runes, approximating each rune by its closest ASCII form.
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Slugify generates a stable slug (ASCII-lowercase, dash-separated) for joins.
func Slugify(text string) string {
	folded, _, err := transform.String(asciiFold, text)
	if err != nil {
		folded = text
	}
	folded = nonAlnumRun.ReplaceAllString(folded, "-")
	return strings.ToLower(strings.Trim(folded, "-"))
}

// genericSuffixes are the category designators removed when deriving the bare
// name used to join against the DNR polygon layer.
var genericSuffixes = []string{
	"State Park",
	"State Recreation Area",
	"State Wayside",
	"Underground Mine",
}

// JoinNames derives the normalized join keys from a display name. The full
// name has parentheticals dropped, dash variants normalized, and whitespace
// collapsed; the bare name additionally has generic suffixes and residual
// punctuation removed.
func JoinNames(name string) (full, bare string) {
	n := parenthetical.ReplaceAllString(name, "")
	n = strings.NewReplacer("–", "-", "—", "-").Replace(n)
	full = CleanSpaces(n)

	bare = full
	for _, suffix := range genericSuffixes {
		bare = strings.ReplaceAll(bare, suffix, "")
	}
	bare = strings.TrimSpace(strings.Trim(bare, ", "))
	return full, bare
}

// New creates a Record with its join keys populated. A nil highlights slice
// is stored as an empty one so the collection always serializes the field as
// a list.
func New(name, officialURL string, highlights []string, hours string) *Record {
	if highlights == nil {
		highlights = []string{}
	}
	full, bare := JoinNames(name)
	return &Record{
		ParkName:    name,
		OfficialURL: officialURL,
		Highlights:  highlights,
		Hours:       hours,
		NameFull:    full,
		NameBare:    bare,
		SlugFull:    Slugify(full),
		SlugBare:    Slugify(bare),
	}
}
