package parser

// LinkMatcher extracts the three kinds of catalog links from page text.
// Empty input yields empty results.
type LinkMatcher interface {
	// Seasons returns distinct season paths, sorted lexicographically.
	Seasons(html string) []string
	// Episodes returns distinct episode paths, sorted lexicographically.
	Episodes(html string) []string
	// Redirects returns distinct redirect paths in page order.
	Redirects(html string) []string
}
