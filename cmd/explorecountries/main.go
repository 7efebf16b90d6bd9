package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/explorecountries/internal/api"
	"github.com/thesavant42/explorecountries/internal/config"
	"github.com/thesavant42/explorecountries/internal/imagecache"
	"github.com/thesavant42/explorecountries/internal/store"
	"github.com/thesavant42/explorecountries/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		ui.PrintError(err.Error())
		return 2
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	filter := cfg.Filter
	if cfg.ChooseFilter {
		criterion, err := ui.PromptForFilter(filter.Criterion)
		if err != nil {
			ui.PrintError(err.Error())
			return 1
		}
		filter.Criterion = criterion
	}

	client := api.NewClient(cfg.Timeout, logger.WithPrefix("API"))
	st := store.New(client, cfg.CountriesURL,
		store.WithLogger(logger.WithPrefix("store")),
		store.WithFilter(filter),
	)

	logger.Info("Starting", "url", cfg.CountriesURL, "filter", filter.Criterion, "search", filter.SearchText, "plain", cfg.Plain)

	if cfg.Plain {
		return runPlain(ctx, st, cfg)
	}

	images := imagecache.New(client, cfg.ImageCacheSize, imagecache.WithLogger(logger.WithPrefix("images")))
	if err := ui.RunBrowser(ctx, st, images, logger); err != nil {
		ui.PrintError(fmt.Sprintf("Interactive mode failed: %v", err))
		return 1
	}

	stats := images.Stats()
	logger.Info("Image cache",
		"entries", images.Len(),
		"hits", stats.Hits,
		"misses", stats.Misses,
		"fetches", stats.Fetches,
		"failures", stats.Failures,
	)
	return 0
}

// runPlain fetches once and prints the visible list to stdout
func runPlain(ctx context.Context, st *store.Store, cfg *config.Config) int {
	var fetchErr error
	if err := ui.RunWithSpinner("Fetching countries...", func() {
		fetchErr = st.FetchAll(ctx)
	}); err != nil {
		ui.PrintError(err.Error())
		return 1
	}
	if fetchErr != nil {
		ui.PrintError(api.UserMessage(fetchErr))
		return 1
	}

	visible := st.Visible()
	switch cfg.Format {
	case config.FormatMarkdown:
		if err := ui.WriteMarkdown(os.Stdout, visible, st.Filter(), time.Now()); err != nil {
			ui.PrintError(err.Error())
			return 1
		}
	default:
		ui.PrintCountryTable(os.Stdout, visible, st.Filter())
	}
	return 0
}

// newLogger logs to stderr in plain mode and to the log file otherwise, so
// log lines never land on the TUI
func newLogger(cfg *config.Config) (*log.Logger, func()) {
	if cfg.Plain {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Level:           cfg.LogLevel,
		})
		return logger, func() {}
	}

	logger, f, err := api.NewFileLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Logging disabled: %v", err))
		logger = log.New(os.Stderr)
		logger.SetLevel(log.FatalLevel)
		return logger, func() {}
	}
	return logger, func() { f.Close() }
}
