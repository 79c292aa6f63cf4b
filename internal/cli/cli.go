package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnatlas/mn-parks/internal/logger"
	"github.com/mnatlas/mn-parks/internal/park"
	"github.com/mnatlas/mn-parks/internal/scraper"
	"github.com/mnatlas/mn-parks/internal/storage"
	"github.com/mnatlas/mn-parks/internal/wiki"
)

const (
	ExitSuccess = 0
	ExitError   = 1

	// DefaultDelay is the politeness throttle between consecutive page fetches
	DefaultDelay = 700 * time.Millisecond

	DefaultOutput = "parks.json"
)

var (
	flagOut        string
	flagDelay      time.Duration
	flagLimit      int
	flagSkipImages bool
	flagFormat     string
	flagVerbose    bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mn-parks",
		Short: "Scrape Minnesota DNR state park pages",
		Long: `Scrapes the Minnesota DNR A-Z state park index, extracts each park's
name, highlights, and hours, enriches records with a best-effort Wikipedia
image lookup, and writes the sorted collection to a JSON file.`,
		RunE: runScrape,
	}

	cmd.Flags().StringVar(&flagOut, "out", DefaultOutput, "Output file for the park collection")
	cmd.Flags().DurationVar(&flagDelay, "delay", DefaultDelay, "Delay between consecutive page fetches")
	cmd.Flags().IntVar(&flagLimit, "limit", 0, "Scrape at most N parks (0 = all)")
	cmd.Flags().BoolVar(&flagSkipImages, "skip-images", false, "Skip the Wikipedia image lookup")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and a metrics dump")

	return cmd
}

// imageLookup is satisfied by *wiki.Client; tests substitute a stub
type imageLookup interface {
	LookupImage(parkName string) *park.Image
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	store, err := storage.New(flagOut)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	var images imageLookup
	if !flagSkipImages {
		images = wiki.NewClient()
	}

	records, failures, err := scrapeAll(scraper.New(), images, flagDelay, flagLimit, os.Stdout)
	if err != nil {
		return err
	}

	if err := store.SaveCollection(records); err != nil {
		return fmt.Errorf("saving collection: %w", err)
	}

	summary := NewSummary(records, failures, store.Path())
	if err := WriteSummary(os.Stdout, summary, format); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if flagVerbose {
		data, _ := json.MarshalIndent(logger.GetMetricsSnapshot(), "", "  ")
		fmt.Fprintf(os.Stderr, "metrics: %s\n", data)
	}

	return nil
}

// scrapeAll drives the index collector and, for each resulting link, the page
// extractor. A failed index fetch is fatal; a failed page fetch is logged and
// skipped. The fixed delay applies between consecutive fetches whether or not
// the previous one succeeded. Records come back sorted by park name, equal
// names keeping their fetch order.
func scrapeAll(sc *scraper.Scraper, images imageLookup, delay time.Duration, limit int, progress io.Writer) ([]*park.Record, []Failure, error) {
	fmt.Fprintln(progress, "Fetching A-Z index...")
	links, err := sc.FetchIndexLinks()
	if err != nil {
		return nil, nil, fmt.Errorf("fetching index: %w", err)
	}
	fmt.Fprintf(progress, "Found %d park links.\n", len(links))

	if limit > 0 && limit < len(links) {
		links = links[:limit]
	}

	records := make([]*park.Record, 0, len(links))
	failures := make([]Failure, 0)
	for i, link := range links {
		fmt.Fprintf(progress, "[%d/%d] %s\n", i+1, len(links), link)

		start := time.Now()
		rec, err := sc.FetchPark(link)
		logger.RecordTiming("scrape.fetch", time.Since(start))
		if err != nil {
			logger.IncrCounter("scrape.pages.failed")
			logger.Warn("failed to scrape park page", logger.Fields{
				"url":   link,
				"error": err.Error(),
			})
			failures = append(failures, Failure{URL: link, Error: err.Error()})
			time.Sleep(delay)
			continue
		}
		logger.IncrCounter("scrape.pages.ok")

		if images != nil {
			rec.Image = images.LookupImage(rec.ParkName)
			if rec.Image != nil {
				logger.IncrCounter("scrape.images.found")
			}
		}

		records = append(records, rec)
		time.Sleep(delay)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ParkName < records[j].ParkName
	})
	return records, failures, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
