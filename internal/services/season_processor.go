package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/Belphemur/SeriesDumpster/internal/client"
	"github.com/Belphemur/SeriesDumpster/internal/config"
	"github.com/Belphemur/SeriesDumpster/internal/models"
	"github.com/Belphemur/SeriesDumpster/internal/parser"
)

// SeasonProcessor turns one season page into the redirect links of its episodes
type SeasonProcessor struct {
	fetcher   client.Fetcher
	matcher   parser.LinkMatcher
	selection models.RedirectSelection
	domain    string
	reporter  Reporter
}

// NewSeasonProcessor creates a SeasonProcessor. Redirect paths are made absolute with domain.
func NewSeasonProcessor(fetcher client.Fetcher, matcher parser.LinkMatcher, selection models.RedirectSelection, domain string, reporter Reporter) *SeasonProcessor {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &SeasonProcessor{
		fetcher:   fetcher,
		matcher:   matcher,
		selection: selection,
		domain:    domain,
		reporter:  reporter,
	}
}

// Episodes fetches the season page and returns its episodes resolved against the season URL
func (p *SeasonProcessor) Episodes(ctx context.Context, season models.Season) ([]models.Episode, error) {
	html, err := p.fetcher.Fetch(ctx, season.URL)
	if err != nil {
		return nil, err
	}

	paths := p.matcher.Episodes(html)
	episodes := make([]models.Episode, 0, len(paths))
	for _, path := range paths {
		episodeURL, err := resolveURL(season.URL, path)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, models.Episode{Path: path, URL: episodeURL})
	}
	return episodes, nil
}

// StreamEpisodes fetches every episode concurrently and emits one result per episode in
// completion order. Throttling is left to the fetcher's permit pool. The channel is closed
// once every episode has been emitted.
func (p *SeasonProcessor) StreamEpisodes(ctx context.Context, episodes []models.Episode) <-chan models.StreamResult[models.EpisodeLinks] {
	out := make(chan models.StreamResult[models.EpisodeLinks], len(episodes))

	var wg sync.WaitGroup
	for _, episode := range episodes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out <- models.StreamResult[models.EpisodeLinks]{Value: p.episodeLinks(ctx, episode)}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// episodeLinks never fails: an unreachable episode page is marked Failed and contributes nothing.
func (p *SeasonProcessor) episodeLinks(ctx context.Context, episode models.Episode) models.EpisodeLinks {
	result := models.EpisodeLinks{Episode: episode}

	html, err := p.fetcher.Fetch(ctx, episode.URL)
	if err != nil {
		result.Failed = true
		return result
	}

	for _, path := range p.selection.Apply(p.matcher.Redirects(html)) {
		result.Links = append(result.Links, p.domain+path)
	}
	return result
}

// ProcessSeason collects the links of a season that are neither in existing nor already
// produced by an earlier episode of this run. Links are returned in episode completion order.
// The outcome carries the episode count and the no-episodes and fetch-failed flags.
func (p *SeasonProcessor) ProcessSeason(ctx context.Context, season models.Season, existing map[string]struct{}) ([]string, models.SeasonOutcome) {
	logger := config.GetLogger()
	outcome := models.SeasonOutcome{Season: season}

	logger.Info().Int("season", season.Index).Str("url", season.URL).Msg("Processing season")

	episodes, err := p.Episodes(ctx, season)
	if err != nil {
		logger.Error().Err(err).Int("season", season.Index).Msg("Failed to fetch season page")
		outcome.FetchFailed = true
		return nil, outcome
	}

	outcome.Episodes = len(episodes)
	if len(episodes) == 0 {
		logger.Warn().Int("season", season.Index).Msg("No episodes found for this season")
		outcome.NoEpisodes = true
		p.reporter.NoEpisodes(season)
		return nil, outcome
	}

	seen := make(map[string]struct{})
	var links []string
	done := 0
	for result := range p.StreamEpisodes(ctx, episodes) {
		done++
		p.reporter.EpisodeDone(done, len(episodes))

		for _, link := range result.Value.Links {
			if _, ok := existing[link]; ok {
				continue
			}
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
		}
	}

	logger.Debug().Int("season", season.Index).Int("newLinks", len(links)).Msg("Season processed")
	return links, outcome
}

// resolveURL resolves path against the scheme and host of base
func resolveURL(base, path string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", path, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
