package models

// Series identifies a crawl target: a human-provided name and the catalog page listing its seasons
type Series struct {
	Name    string `json:"name"`
	RootURL string `json:"url"`
}

// Season is a discovered season link. Index is the 1-based position in discovery order
// and drives the output file name.
type Season struct {
	Index int    `json:"index"`
	Path  string `json:"path"` // Relative path as found on the root page
	URL   string `json:"url"`  // Path resolved against the root URL
}

// Episode is a discovered episode link within one season
type Episode struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// EpisodeLinks is the outcome of fetching one episode page
type EpisodeLinks struct {
	Episode Episode  `json:"episode"`
	Links   []string `json:"links"` // Absolute redirect links, after selection policy
	Failed  bool     `json:"failed"`
}
