package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Belphemur/SeriesDumpster/internal/config"
	"github.com/PuerkitoBio/goquery"
)

// Default link patterns for the s.to catalog layout
const (
	DefaultSeasonPattern   = `^/serie/stream/[^"]*/staffel-\d+$`
	DefaultEpisodePattern  = `^/serie/stream/[^"]*/staffel-\d+/episode-\d+$`
	DefaultRedirectPattern = `/redirect/\d+`
)

// Patterns overrides the default link patterns. Empty fields keep the default.
type Patterns struct {
	Season   string
	Episode  string
	Redirect string
}

// RegexLinkMatcher matches anchor hrefs against the season and episode patterns and
// scans the raw page text for redirects.
type RegexLinkMatcher struct {
	season   *regexp.Regexp
	episode  *regexp.Regexp
	redirect *regexp.Regexp
}

// NewLinkMatcher compiles the given patterns
func NewLinkMatcher(patterns Patterns) (*RegexLinkMatcher, error) {
	season, err := compilePattern("season", patterns.Season, DefaultSeasonPattern)
	if err != nil {
		return nil, err
	}
	episode, err := compilePattern("episode", patterns.Episode, DefaultEpisodePattern)
	if err != nil {
		return nil, err
	}
	redirect, err := compilePattern("redirect", patterns.Redirect, DefaultRedirectPattern)
	if err != nil {
		return nil, err
	}
	return &RegexLinkMatcher{season: season, episode: episode, redirect: redirect}, nil
}

// NewDefaultLinkMatcher returns a matcher for the default catalog layout
func NewDefaultLinkMatcher() *RegexLinkMatcher {
	return &RegexLinkMatcher{
		season:   regexp.MustCompile(DefaultSeasonPattern),
		episode:  regexp.MustCompile(DefaultEpisodePattern),
		redirect: regexp.MustCompile(DefaultRedirectPattern),
	}
}

func compilePattern(name, pattern, fallback string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = fallback
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern %q: %w", name, pattern, err)
	}
	return re, nil
}

func (m *RegexLinkMatcher) Seasons(html string) []string {
	return m.matchAnchors(html, m.season)
}

func (m *RegexLinkMatcher) Episodes(html string) []string {
	return m.matchAnchors(html, m.episode)
}

func (m *RegexLinkMatcher) Redirects(html string) []string {
	if html == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var redirects []string
	for _, match := range m.redirect.FindAllString(html, -1) {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		redirects = append(redirects, match)
	}
	return redirects
}

// matchAnchors walks every <a href> of the document and keeps the distinct hrefs
// matching pattern, sorted lexicographically.
func (m *RegexLinkMatcher) matchAnchors(html string, pattern *regexp.Regexp) []string {
	if html == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href := strings.TrimSpace(anchor.AttrOr("href", ""))
		if !pattern.MatchString(href) {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	sort.Strings(links)
	return links
}
