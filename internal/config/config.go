// Package config resolves runtime settings from a .env file, the environment
// and command line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/thesavant42/explorecountries/internal/api"
	"github.com/thesavant42/explorecountries/internal/imagecache"
	"github.com/thesavant42/explorecountries/internal/models"
)

// Environment variable names
const (
	EnvCountriesURL   = "COUNTRIES_URL"
	EnvHTTPTimeout    = "HTTP_TIMEOUT"
	EnvImageCacheSize = "IMAGE_CACHE_SIZE"
	EnvLogFile        = "LOG_FILE"
	EnvLogLevel       = "LOG_LEVEL"
)

const (
	DefaultLogFile  = "explorecountries.log"
	DefaultLogLevel = "info"
)

// Format selects how plain mode prints the country list
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
)

// Config holds everything main needs to wire the application
type Config struct {
	CountriesURL   string
	Timeout        time.Duration
	ImageCacheSize int
	LogFile        string
	LogLevel       log.Level

	Filter       models.CountryFilter
	ChooseFilter bool
	Plain        bool
	Format       Format
}

// Load reads .env if present, then parses args over the environment
func Load(args []string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()
	return Parse(args, os.Getenv, os.Stderr)
}

// Parse resolves a Config from getenv and args. Usage and flag errors are
// written to output.
func Parse(args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	timeout := api.DefaultTimeout
	if v := strings.TrimSpace(getenv(EnvHTTPTimeout)); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		timeout = d
	}

	cacheSize := imagecache.DefaultCapacity
	if v := strings.TrimSpace(getenv(EnvImageCacheSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvImageCacheSize, err)
		}
		cacheSize = n
	}

	fs := flag.NewFlagSet("explorecountries", flag.ContinueOnError)
	fs.SetOutput(output)

	urlFlag := fs.String("url", envOr(getenv, EnvCountriesURL, api.DefaultCountriesURL), "Countries endpoint")
	timeoutFlag := fs.Duration("timeout", timeout, "HTTP request timeout")
	cacheFlag := fs.Int("image-cache", cacheSize, "Maximum number of decoded flag images kept in memory")
	logFlag := fs.String("log", envOr(getenv, EnvLogFile, DefaultLogFile), "Log file path (plain mode logs to stderr)")
	levelFlag := fs.String("log-level", envOr(getenv, EnvLogLevel, DefaultLogLevel), "Log level: debug, info, warn, error")
	filterFlag := fs.String("filter", "all", "Population filter: all, <1M, <5M, <10M or any threshold such as 250K")
	searchFlag := fs.String("search", "", "Initial country name search")
	chooseFlag := fs.Bool("choose-filter", false, "Pick the population filter from a menu before starting")
	plainFlag := fs.Bool("plain", false, "Fetch once, print the list and exit")
	formatFlag := fs.String("format", string(FormatTable), "Plain mode output: table or markdown")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		CountriesURL:   strings.TrimSpace(*urlFlag),
		Timeout:        *timeoutFlag,
		ImageCacheSize: *cacheFlag,
		LogFile:        strings.TrimSpace(*logFlag),
		ChooseFilter:   *chooseFlag,
		Plain:          *plainFlag,
		Format:         Format(strings.ToLower(strings.TrimSpace(*formatFlag))),
	}

	if cfg.CountriesURL == "" {
		return nil, fmt.Errorf("countries URL cannot be empty")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.ImageCacheSize <= 0 {
		return nil, fmt.Errorf("image cache size must be positive, got %d", cfg.ImageCacheSize)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(*levelFlag)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	cfg.LogLevel = level

	criterion, err := models.ParseCriterion(*filterFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to parse filter: %w", err)
	}
	cfg.Filter = models.CountryFilter{SearchText: *searchFlag, Criterion: criterion}

	switch cfg.Format {
	case FormatTable, FormatMarkdown:
	default:
		return nil, fmt.Errorf("unknown format %q: use table or markdown", *formatFlag)
	}

	return cfg, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parseTimeout accepts a Go duration ("45s", "1m") or a bare number of seconds
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
