package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Belphemur/SeriesDumpster/internal/apperrors"
	"github.com/Belphemur/SeriesDumpster/internal/client"
	"github.com/Belphemur/SeriesDumpster/internal/config"
	"github.com/Belphemur/SeriesDumpster/internal/metrics"
	"github.com/Belphemur/SeriesDumpster/internal/models"
	"github.com/Belphemur/SeriesDumpster/internal/parser"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// CrawlRequest starts a crawl either from user input or from the resume record
type CrawlRequest struct {
	Series models.Series
	Resume bool
}

// CrawlOptions toggles the optional stages of a crawl
type CrawlOptions struct {
	Preview             bool
	ConfirmBeforeScrape bool
	Selection           models.RedirectSelection
	// Domain absolutizes redirect paths, e.g. https://s.to
	Domain string
}

// Crawler drives a crawl through season discovery, preview, confirmation and the
// per-season loop. It is the only writer of season files.
type Crawler struct {
	fetcher   client.Fetcher
	matcher   parser.LinkMatcher
	processor *SeasonProcessor
	links     LinkStore
	state     StateStore
	confirmer Confirmer
	reporter  Reporter
	options   CrawlOptions
}

// NewCrawler wires a Crawler. confirmer may be nil when ConfirmBeforeScrape is off.
func NewCrawler(fetcher client.Fetcher, matcher parser.LinkMatcher, links LinkStore, state StateStore, confirmer Confirmer, reporter Reporter, options CrawlOptions) *Crawler {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Crawler{
		fetcher:   fetcher,
		matcher:   matcher,
		processor: NewSeasonProcessor(fetcher, matcher, options.Selection, options.Domain, reporter),
		links:     links,
		state:     state,
		confirmer: confirmer,
		reporter:  reporter,
		options:   options,
	}
}

// Crawl runs one crawl. A declined confirmation returns a report with Cancelled set and no error.
func (c *Crawler) Crawl(ctx context.Context, req CrawlRequest) (*models.CrawlReport, error) {
	runID := uuid.NewString()
	logger := config.GetLogger().With().Str("run", runID).Logger()

	series, err := c.initSeries(req)
	if err != nil {
		return nil, err
	}
	report := &models.CrawlReport{RunID: runID, Series: series}

	logger.Info().Str("series", series.Name).Str("url", series.RootURL).Bool("resume", req.Resume).Msg("Starting crawl")

	seasons, err := c.discoverSeasons(ctx, series)
	if err != nil {
		logger.Error().Err(err).Str("url", series.RootURL).Msg("Crawl aborted")
		if !errors.Is(err, context.Canceled) {
			sentry.CaptureException(err)
		}
		return nil, err
	}
	c.reporter.SeasonsFound(len(seasons))

	if c.options.Preview {
		if err := c.preview(ctx, seasons); err != nil {
			report.Cancelled = true
			return report, err
		}
	}

	if c.options.ConfirmBeforeScrape && c.confirmer != nil {
		ok, err := c.confirmer.Confirm(ctx, fmt.Sprintf("Scrape %d seasons of %s?", len(seasons), series.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to confirm crawl: %w", err)
		}
		if !ok {
			logger.Info().Msg("Crawl declined before scraping")
			c.reporter.Warn("Scrape cancelled")
			report.Cancelled = true
			return report, nil
		}
	}

	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			return report, err
		}

		outcome, err := c.scrapeSeason(ctx, series, season)
		if err != nil {
			return report, err
		}
		report.Seasons = append(report.Seasons, outcome)
	}

	logger.Info().Int("seasons", len(report.Seasons)).Int("saved", report.TotalSaved()).Msg("Crawl finished")
	c.reporter.Finished(report)
	return report, nil
}

// initSeries resolves the crawl target. A fresh target is persisted before any network activity.
func (c *Crawler) initSeries(req CrawlRequest) (models.Series, error) {
	if req.Resume {
		state, err := c.state.Load()
		if err != nil {
			if errors.Is(err, &apperrors.ErrNotFound{}) {
				c.reporter.Warn("No previous scrape to resume")
			}
			return models.Series{}, err
		}
		return state.Series(), nil
	}

	if err := validateSeries(req.Series); err != nil {
		return models.Series{}, err
	}
	if err := c.state.Save(req.Series); err != nil {
		return models.Series{}, fmt.Errorf("failed to save resume state: %w", err)
	}
	return req.Series, nil
}

func validateSeries(series models.Series) error {
	if series.Name == "" {
		return errors.New("series name is required")
	}
	rootURL, err := url.Parse(series.RootURL)
	if err != nil || rootURL.Scheme == "" || rootURL.Host == "" {
		return fmt.Errorf("series URL %q must be absolute", series.RootURL)
	}
	return nil
}

func (c *Crawler) discoverSeasons(ctx context.Context, series models.Series) ([]models.Season, error) {
	html, err := c.fetcher.Fetch(ctx, series.RootURL)
	if err != nil {
		return nil, err
	}

	paths := c.matcher.Seasons(html)
	if len(paths) == 0 {
		return nil, &apperrors.ErrNoSeasons{URL: series.RootURL}
	}

	seasons := make([]models.Season, 0, len(paths))
	for i, path := range paths {
		seasonURL, err := resolveURL(series.RootURL, path)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, models.Season{Index: i + 1, Path: path, URL: seasonURL})
	}
	return seasons, nil
}

// preview reports the episode count of every season. An unreachable season counts zero episodes.
func (c *Crawler) preview(ctx context.Context, seasons []models.Season) error {
	for _, season := range seasons {
		episodes, _ := c.processor.Episodes(ctx, season)
		if err := ctx.Err(); err != nil {
			return err
		}
		c.reporter.SeasonPreview(models.SeasonPreview{Season: season, Episodes: len(episodes)})
	}
	return nil
}

func (c *Crawler) scrapeSeason(ctx context.Context, series models.Series, season models.Season) (models.SeasonOutcome, error) {
	file := c.links.SeasonFile(series.Name, season.Index)
	existing, err := c.links.Load(file)
	if err != nil {
		return models.SeasonOutcome{Season: season, File: file}, fmt.Errorf("failed to load existing links: %w", err)
	}

	c.reporter.SeasonStarted(season)
	links, outcome := c.processor.ProcessSeason(ctx, season, existing)
	outcome.File = file

	if len(links) > 0 {
		if err := c.links.Append(file, links); err != nil {
			return outcome, fmt.Errorf("failed to save links of season %d: %w", season.Index, err)
		}
		outcome.Saved = len(links)
		metrics.LinksSavedTotal.Add(float64(len(links)))
		c.reporter.LinksSaved(len(links), file)
	}

	metrics.SeasonsProcessedTotal.WithLabelValues(outcomeLabel(outcome)).Inc()
	return outcome, nil
}

func outcomeLabel(outcome models.SeasonOutcome) string {
	switch {
	case outcome.FetchFailed:
		return "fetch_failed"
	case outcome.NoEpisodes:
		return "no_episodes"
	case outcome.Saved > 0:
		return "saved"
	default:
		return "up_to_date"
	}
}
