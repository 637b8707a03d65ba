// Package menu runs the interactive main loop of the tool.
package menu

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/Belphemur/SeriesDumpster/internal/apperrors"
	"github.com/Belphemur/SeriesDumpster/internal/config"
	"github.com/Belphemur/SeriesDumpster/internal/models"
	"github.com/Belphemur/SeriesDumpster/internal/services"
)

// Crawler runs a crawl
type Crawler interface {
	Crawl(ctx context.Context, req services.CrawlRequest) (*models.CrawlReport, error)
}

// Downloads lists saved link files and hands a selection to the downloader
type Downloads interface {
	ListFiles() ([]string, error)
	MergeAndDispatch(ctx context.Context, files []string) error
}

const (
	optionScrape   = "Dumpsterdive finest series out of thrash direct into your backpack"
	optionResume   = "Resume the last dive"
	optionDownload = "Upcycle found goodies"
	optionExit     = "Exit"
)

var options = []string{optionScrape, optionResume, optionDownload, optionExit}

// Menu is the interactive main loop
type Menu struct {
	prompter  Prompter
	crawler   Crawler
	downloads Downloads
	console   *Console
}

// New creates a Menu
func New(prompter Prompter, crawler Crawler, downloads Downloads, console *Console) *Menu {
	return &Menu{prompter: prompter, crawler: crawler, downloads: downloads, console: console}
}

// Run shows the menu until the user exits, interrupts or ctx is done. Failures of a single
// action are reported and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		m.console.Title("=== Series Container & Dumpster Driver ===")
		choice, err := m.prompter.Select("Select option:", options)
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}

		var actionErr error
		switch {
		// survey only returns listed indices; scripted prompters may not
		case choice < 0 || choice >= len(options):
			m.console.Warn("Invalid option!")
			continue
		case options[choice] == optionScrape:
			actionErr = m.scrape(ctx)
		case options[choice] == optionResume:
			actionErr = m.resume(ctx)
		case options[choice] == optionDownload:
			actionErr = m.download(ctx)
		case options[choice] == optionExit:
			return nil
		}

		if actionErr != nil {
			if errors.Is(actionErr, terminal.InterruptErr) {
				continue
			}
			m.report(actionErr)
		}
	}
}

func (m *Menu) report(err error) {
	logger := config.GetLogger()
	logger.Debug().Err(err).Msg("Menu action failed")

	switch {
	case errors.Is(err, &apperrors.ErrNotFound{}):
		// already reported as a warning by the crawler
	case errors.Is(err, &apperrors.ErrNoSeasons{}):
		m.console.Warn("No seasons found.")
	case errors.Is(err, context.Canceled):
		m.console.Warn("Interrupted.")
	default:
		m.console.Error(err)
	}
}

func (m *Menu) scrape(ctx context.Context) error {
	rootURL, err := m.prompter.Input("Enter the main series page URL:")
	if err != nil {
		return err
	}
	name, err := m.prompter.Input("Enter series name for folder:")
	if err != nil {
		return err
	}

	series := models.Series{Name: strings.TrimSpace(name), RootURL: strings.TrimSpace(rootURL)}
	_, err = m.crawler.Crawl(ctx, services.CrawlRequest{Series: series})
	return err
}

func (m *Menu) resume(ctx context.Context) error {
	_, err := m.crawler.Crawl(ctx, services.CrawlRequest{Resume: true})
	return err
}

func (m *Menu) download(ctx context.Context) error {
	files, err := m.downloads.ListFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		m.console.Warn("No txt files found.")
		return nil
	}

	m.console.Info("\nSaved txt files:")
	m.console.List(files)

	selection, err := m.prompter.Input("Enter numbers (comma-separated) or 'all':")
	if err != nil {
		return err
	}

	selected := services.SelectFiles(files, selection)
	if len(selected) == 0 {
		m.console.Warn("Nothing selected.")
		return nil
	}

	m.console.Info("Starting downloader ...")
	return m.downloads.MergeAndDispatch(ctx, selected)
}
