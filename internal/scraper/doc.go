// Package scraper provides HTTP fetching and HTML parsing for Minnesota DNR
// state park pages.
//
// The scraper fetches the public A-Z index page to collect park detail links,
// then extracts the park name, "Park highlights" list, and "Park hours" text
// from each detail page. Section content is located by matching heading text
// against a case-insensitive pattern and taking the heading's next sibling
// element, which tolerates the inconsistent markup shapes across park pages.
package scraper
