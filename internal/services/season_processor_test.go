package services

import (
	"context"
	"sort"
	"testing"

	"github.com/Belphemur/SeriesDumpster/internal/apperrors"
	"github.com/Belphemur/SeriesDumpster/internal/models"
	"github.com/Belphemur/SeriesDumpster/internal/parser"
	"github.com/Belphemur/SeriesDumpster/internal/testutil"
)

// mapFetcher serves pages from memory and fails for unknown URLs
type mapFetcher map[string]string

func (m mapFetcher) Fetch(_ context.Context, pageURL string) (string, error) {
	body, ok := m[pageURL]
	if !ok {
		return "", apperrors.NewFetchFailedError(pageURL, 1, &apperrors.ErrUnexpectedStatus{URL: pageURL, StatusCode: 404})
	}
	return body, nil
}

func (m mapFetcher) Close() error { return nil }

func TestSeasonProcessor_StreamEpisodes(t *testing.T) {
	const host = "http://catalog.test"
	fetcher := mapFetcher{
		host + episode1: testutil.EpisodePageHTML("/redirect/1"),
		host + episode2: testutil.EpisodePageHTML("/redirect/2", "/redirect/3"),
	}
	p := NewSeasonProcessor(fetcher, parser.NewDefaultLinkMatcher(), models.RedirectAll, testDomain, nil)

	episodes := []models.Episode{
		{Path: episode1, URL: host + episode1},
		{Path: episode2, URL: host + episode2},
		{Path: "/missing", URL: host + "/missing"},
	}

	results, err := testutil.CollectStream(context.Background(), p.StreamEpisodes(context.Background(), episodes))
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected one result per episode, got %d", len(results))
	}

	var links []string
	failed := 0
	for _, r := range results {
		links = append(links, r.Links...)
		if r.Failed {
			failed++
		}
	}
	sort.Strings(links)
	if len(links) != 3 || links[0] != "https://s.to/redirect/1" || links[2] != "https://s.to/redirect/3" {
		t.Errorf("Unexpected links %v", links)
	}
	if failed != 1 {
		t.Errorf("Expected one failed episode, got %d", failed)
	}
}

func TestSeasonProcessor_ProcessSeason_Dedup(t *testing.T) {
	const host = "http://catalog.test"
	fetcher := mapFetcher{
		host + season1Path: testutil.SeasonPageHTML(episode1, episode2),
		host + episode1:    testutil.EpisodePageHTML("/redirect/1", "/redirect/2"),
		host + episode2:    testutil.EpisodePageHTML("/redirect/2", "/redirect/3"),
	}
	reporter := &recordingReporter{}
	p := NewSeasonProcessor(fetcher, parser.NewDefaultLinkMatcher(), models.RedirectAll, testDomain, reporter)

	season := models.Season{Index: 1, Path: season1Path, URL: host + season1Path}
	existing := map[string]struct{}{"https://s.to/redirect/1": {}}

	links, outcome := p.ProcessSeason(context.Background(), season, existing)

	sort.Strings(links)
	want := []string{"https://s.to/redirect/2", "https://s.to/redirect/3"}
	if len(links) != len(want) || links[0] != want[0] || links[1] != want[1] {
		t.Errorf("ProcessSeason() = %v, want %v", links, want)
	}
	if outcome.Episodes != 2 || outcome.NoEpisodes || outcome.FetchFailed {
		t.Errorf("Unexpected outcome %+v", outcome)
	}
	if !reporter.has("Episode 1/2") || !reporter.has("Episode 2/2") {
		t.Errorf("Expected incremental progress, got %v", reporter.events)
	}
}

func TestSeasonProcessor_ProcessSeason_EmptyCases(t *testing.T) {
	const host = "http://catalog.test"
	fetcher := mapFetcher{
		host + season2Path: testutil.SeasonPageHTML(),
	}
	p := NewSeasonProcessor(fetcher, parser.NewDefaultLinkMatcher(), models.RedirectAll, testDomain, nil)

	links, outcome := p.ProcessSeason(context.Background(), models.Season{Index: 2, URL: host + season2Path}, nil)
	if len(links) != 0 || !outcome.NoEpisodes {
		t.Errorf("Expected no links and NoEpisodes, got %v %+v", links, outcome)
	}

	links, outcome = p.ProcessSeason(context.Background(), models.Season{Index: 3, URL: host + "/serie/stream/foo/staffel-3"}, nil)
	if len(links) != 0 || !outcome.FetchFailed {
		t.Errorf("Expected no links and FetchFailed, got %v %+v", links, outcome)
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()
	got, err := resolveURL("https://s.to/serie/stream/foo?x=1", "/serie/stream/foo/staffel-1")
	if err != nil {
		t.Fatalf("resolveURL failed: %v", err)
	}
	if got != "https://s.to/serie/stream/foo/staffel-1" {
		t.Errorf("resolveURL() = %q", got)
	}
}
