package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belphemur/SeriesDumpster/internal/client"
	"github.com/Belphemur/SeriesDumpster/internal/config"
	"github.com/Belphemur/SeriesDumpster/internal/menu"
	"github.com/Belphemur/SeriesDumpster/internal/metrics"
	"github.com/Belphemur/SeriesDumpster/internal/models"
	"github.com/Belphemur/SeriesDumpster/internal/parser"
	"github.com/Belphemur/SeriesDumpster/internal/services"
	"github.com/Belphemur/SeriesDumpster/internal/store"
	"github.com/getsentry/sentry-go"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:           "dumpster",
	Short:         "Collect episode redirect links from s.to and feed them to a downloader",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level (trace, debug, info, warn, error)")
	lo.Must0(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))

	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "Directory holding the season link files")
	lo.Must0(viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("output-dir")))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := config.GetLogger()
		logger.Fatal().Err(err).Msg("Application failed")
	}
}

func run(cmd *cobra.Command, _ []string) error {
	// Flags are bound now, read the configuration again so they take effect
	if err := config.Reload(); err != nil {
		return err
	}
	cfg := config.GetConfig()
	logger := config.GetLogger()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("an interactive terminal is required")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, AttachStacktrace: true}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize sentry, continuing without error reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	logger.Debug().
		Str("site_domain", cfg.Domain()).
		Str("output_dir", cfg.OutputDir()).
		Str("layout", cfg.Output.Layout).
		Int("concurrency", cfg.Fetch.Concurrency).
		Msg("Application started with configuration")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	pageCache, err := client.NewPageCache(cfg)
	if err != nil {
		return err
	}
	fetcher := client.NewFetcher(cfg, pageCache)
	defer fetcher.Close()

	matcher, err := parser.NewLinkMatcher(parser.Patterns{
		Season:   cfg.Patterns.Season,
		Episode:  cfg.Patterns.Episode,
		Redirect: cfg.Patterns.Redirect,
	})
	if err != nil {
		return err
	}

	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(cfg.OutputDir(), 0o755); err != nil {
		return err
	}
	links := store.NewLinkStore(osFs, cfg.OutputDir(), models.ParseLayout(cfg.Output.Layout))
	state := store.NewStateStore(osFs, cfg.StatePath())

	prompter := menu.NewSurveyPrompter()
	console := menu.NewConsole(os.Stdout)

	crawler := services.NewCrawler(fetcher, matcher, links, state, menu.NewConfirmer(prompter), console, services.CrawlOptions{
		Preview:             cfg.Crawl.Preview,
		ConfirmBeforeScrape: cfg.Crawl.ConfirmBeforeScrape,
		Selection:           models.ParseRedirectSelection(cfg.RedirectSelection),
		Domain:              cfg.Domain(),
	})
	downloads := services.NewDownloadBridge(links, services.NewProcessDispatcher(cfg.Downloader.Command, cfg.Downloader.Args), cfg.Downloader.Workers)

	return menu.New(prompter, crawler, downloads, console).Run(ctx)
}
