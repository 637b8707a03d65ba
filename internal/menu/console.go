package menu

import (
	"fmt"
	"io"
	"sync"

	"github.com/Belphemur/SeriesDumpster/internal/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Console prints user-facing progress. It satisfies services.Reporter.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a Console writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, line)
}

// Title prints a menu heading
func (c *Console) Title(text string) {
	c.println("\n" + titleStyle.Render(text))
}

// Info prints a plain message
func (c *Console) Info(text string) {
	c.println(text)
}

// Error prints a failure
func (c *Console) Error(err error) {
	c.println(errorStyle.Render("Error: " + err.Error()))
}

// List prints entries numbered from 1
func (c *Console) List(entries []string) {
	for i, entry := range entries {
		c.println(fmt.Sprintf("%s %s", faintStyle.Render(fmt.Sprintf("%d:", i+1)), entry))
	}
}

func (c *Console) Warn(message string) {
	c.println(warnStyle.Render(message))
}

func (c *Console) SeasonsFound(count int) {
	c.println(titleStyle.Render(fmt.Sprintf("Found %d seasons", count)))
}

func (c *Console) SeasonPreview(preview models.SeasonPreview) {
	c.println(fmt.Sprintf("  Season %d: %d episodes", preview.Season.Index, preview.Episodes))
}

func (c *Console) SeasonStarted(season models.Season) {
	c.println(fmt.Sprintf("\nProcessing season -> %s", season.URL))
}

// EpisodeDone rewrites the progress line in place and ends it on the last episode
func (c *Console) EpisodeDone(done, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, "\rEpisodes %d/%d", done, total)
	if done == total {
		_, _ = fmt.Fprintln(c.out)
	}
}

func (c *Console) NoEpisodes(models.Season) {
	c.println(warnStyle.Render("No episodes found for this season."))
}

func (c *Console) LinksSaved(count int, path string) {
	c.println(successStyle.Render(fmt.Sprintf("Saved %d links -> %s", count, path)))
}

func (c *Console) Finished(report *models.CrawlReport) {
	c.println(successStyle.Render("\nFinished scraping!") + faintStyle.Render(fmt.Sprintf(" (%d new links)", report.TotalSaved())))
}
