// Package wiki provides a best-effort Wikipedia image lookup for parks.
//
// For each park name a small ordered set of query variants is tried against
// the Wikipedia search API until one yields a page with a thumbnail. Lookup
// failure is an expected outcome and is never surfaced as an error: records
// simply go without an image.
package wiki
