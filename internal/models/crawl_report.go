package models

// SeasonOutcome summarizes what happened to one season during a crawl
type SeasonOutcome struct {
	Season      Season `json:"season"`
	File        string `json:"file"`
	Episodes    int    `json:"episodes"`
	Saved       int    `json:"saved"`
	NoEpisodes  bool   `json:"noEpisodes"`
	FetchFailed bool   `json:"fetchFailed"`
}

// CrawlReport is returned by a finished (or cancelled) crawl
type CrawlReport struct {
	RunID     string          `json:"runId"`
	Series    Series          `json:"series"`
	Seasons   []SeasonOutcome `json:"seasons"`
	Cancelled bool            `json:"cancelled"`
}

// TotalSaved returns how many links were appended across all seasons
func (r *CrawlReport) TotalSaved() int {
	total := 0
	for _, s := range r.Seasons {
		total += s.Saved
	}
	return total
}

// SeasonPreview is the informational episode count shown before scraping
type SeasonPreview struct {
	Season   Season `json:"season"`
	Episodes int    `json:"episodes"`
}
