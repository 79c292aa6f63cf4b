package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mnatlas/mn-parks/internal/park"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Failure records one skipped detail page
type Failure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// Summary reports the outcome of a scrape run
type Summary struct {
	ScrapedAt      time.Time `json:"scraped_at"`
	Total          int       `json:"total"`
	WithHighlights int       `json:"with_highlights"`
	WithHours      int       `json:"with_hours"`
	WithImages     int       `json:"with_images"`
	OutputPath     string    `json:"output_path"`
	Failures       []Failure `json:"failures,omitempty"`
}

// NewSummary computes the field-presence counts for a finished run
func NewSummary(records []*park.Record, failures []Failure, outputPath string) *Summary {
	s := &Summary{
		ScrapedAt:  time.Now().UTC(),
		Total:      len(records),
		OutputPath: outputPath,
		Failures:   failures,
	}
	for _, rec := range records {
		if len(rec.Highlights) > 0 {
			s.WithHighlights++
		}
		if rec.Hours != "" {
			s.WithHours++
		}
		if rec.Image != nil {
			s.WithImages++
		}
	}
	return s
}

// WriteSummary writes the run summary in the specified format
func WriteSummary(w io.Writer, s *Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case FormatText:
		return writeTextSummary(w, s)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeTextSummary(w io.Writer, s *Summary) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Done.")
	fmt.Fprintf(w, "  Parks total:     %d\n", s.Total)
	fmt.Fprintf(w, "  With highlights: %d\n", s.WithHighlights)
	fmt.Fprintf(w, "  With hours:      %d\n", s.WithHours)
	fmt.Fprintf(w, "  With images:     %d\n", s.WithImages)
	if len(s.Failures) > 0 {
		fmt.Fprintf(w, "  Skipped:         %d\n", len(s.Failures))
	}
	fmt.Fprintf(w, "\nSaved -> %s\n", s.OutputPath)
	return nil
}
