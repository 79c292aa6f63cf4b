// Package park provides the record type for scraped Minnesota state park
// pages and the name normalization used to derive join keys.
//
// Each record carries the display name and official DNR URL alongside four
// derived keys: a cleaned full name, a bare name with generic category
// suffixes stripped, and ASCII dash-slugs of each. The slugs are stable
// identifiers for joining scraped records against external geographic
// datasets keyed by park name.
package park
