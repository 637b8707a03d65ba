package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Belphemur/SeriesDumpster/internal/config"
	"github.com/getsentry/sentry-go"
	"github.com/samber/lo"
)

// ErrNothingSelected is returned when a download is requested without any file
var ErrNothingSelected = errors.New("no link files selected")

// AggregateStore lists saved link files and manages the temporary aggregate
type AggregateStore interface {
	ListLinkFiles() ([]string, error)
	WriteAggregate(files []string) (string, error)
	Remove(path string) error
}

// DownloadBridge merges saved link files and hands them to the external downloader
type DownloadBridge struct {
	store      AggregateStore
	dispatcher Dispatcher
	workers    int
}

// NewDownloadBridge creates a DownloadBridge running the downloader with workers workers
func NewDownloadBridge(store AggregateStore, dispatcher Dispatcher, workers int) *DownloadBridge {
	if workers <= 0 {
		workers = 1
	}
	return &DownloadBridge{store: store, dispatcher: dispatcher, workers: workers}
}

// ListFiles returns every saved link file in the order they are offered for selection
func (b *DownloadBridge) ListFiles() ([]string, error) {
	return b.store.ListLinkFiles()
}

// SelectFiles interprets a user selection against files: "all" (any case) keeps every file,
// otherwise a comma separated list of 1-based indices. Invalid and out of range entries
// are dropped silently.
func SelectFiles(files []string, selection string) []string {
	selection = strings.TrimSpace(selection)
	if strings.EqualFold(selection, "all") {
		return files
	}

	return lo.FilterMap(strings.Split(selection, ","), func(entry string, _ int) (string, bool) {
		index, err := strconv.Atoi(strings.TrimSpace(entry))
		if err != nil || index < 1 || index > len(files) {
			return "", false
		}
		return files[index-1], true
	})
}

// MergeAndDispatch concatenates files into a temporary aggregate, runs the downloader on it
// and removes the aggregate whatever the downloader's outcome.
func (b *DownloadBridge) MergeAndDispatch(ctx context.Context, files []string) error {
	logger := config.GetLogger()
	if len(files) == 0 {
		return ErrNothingSelected
	}

	aggregate, err := b.store.WriteAggregate(files)
	if err != nil {
		return fmt.Errorf("failed to merge link files: %w", err)
	}
	defer func() {
		if err := b.store.Remove(aggregate); err != nil {
			logger.Warn().Err(err).Str("path", aggregate).Msg("Failed to remove aggregate file")
		}
	}()

	logger.Info().Str("path", aggregate).Int("files", len(files)).Int("workers", b.workers).Msg("Starting downloader")
	if err := b.dispatcher.Dispatch(ctx, aggregate, b.workers); err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("downloader failed: %w", err)
	}
	return nil
}
