package services

import (
	"context"

	"github.com/Belphemur/SeriesDumpster/internal/models"
)

// Reporter receives the user-visible progress of a crawl
type Reporter interface {
	SeasonsFound(count int)
	SeasonPreview(preview models.SeasonPreview)
	SeasonStarted(season models.Season)
	EpisodeDone(done, total int)
	NoEpisodes(season models.Season)
	LinksSaved(count int, path string)
	Finished(report *models.CrawlReport)
	Warn(message string)
}

// Confirmer asks the user whether a crawl should proceed past the preview
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// LinkStore persists the links of each season
type LinkStore interface {
	SeasonFile(series string, index int) string
	Load(path string) (map[string]struct{}, error)
	Append(path string, links []string) error
}

// StateStore persists the resume record
type StateStore interface {
	Save(series models.Series) error
	Load() (models.ResumeState, error)
}

// Dispatcher hands an aggregate link file to the external downloader
type Dispatcher interface {
	Dispatch(ctx context.Context, listFile string, workers int) error
}

// NopReporter discards every progress event
type NopReporter struct{}

func (NopReporter) SeasonsFound(int) {}
func (NopReporter) SeasonPreview(models.SeasonPreview) {}
func (NopReporter) SeasonStarted(models.Season) {}
func (NopReporter) EpisodeDone(int, int) {}
func (NopReporter) NoEpisodes(models.Season) {}
func (NopReporter) LinksSaved(int, string) {}
func (NopReporter) Finished(*models.CrawlReport) {}
func (NopReporter) Warn(string) {}
