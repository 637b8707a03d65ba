package models

// ResumeState is the persisted record of the last fresh crawl
type ResumeState struct {
	URL  string `mapstructure:"url" json:"url"`
	Name string `mapstructure:"name" json:"name"`
}

// Series converts the record back into the crawl target it was saved from
func (r ResumeState) Series() Series {
	return Series{Name: r.Name, RootURL: r.URL}
}

// NewResumeState builds the record for a series
func NewResumeState(s Series) ResumeState {
	return ResumeState{URL: s.RootURL, Name: s.Name}
}
