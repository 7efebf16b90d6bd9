package config

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/explorecountries/internal/api"
	"github.com/thesavant42/explorecountries/internal/imagecache"
	"github.com/thesavant42/explorecountries/internal/models"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, env(nil), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, api.DefaultCountriesURL, cfg.CountriesURL)
	assert.Equal(t, api.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, imagecache.DefaultCapacity, cfg.ImageCacheSize)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
	assert.Equal(t, models.CountryFilter{}, cfg.Filter)
	assert.Equal(t, FormatTable, cfg.Format)
	assert.False(t, cfg.Plain)
	assert.False(t, cfg.ChooseFilter)
}

func TestParseEnvironment(t *testing.T) {
	cfg, err := Parse(nil, env(map[string]string{
		EnvCountriesURL:   "http://localhost:8080/countries",
		EnvHTTPTimeout:    "45",
		EnvImageCacheSize: "64",
		EnvLogFile:        "/tmp/countries.log",
		EnvLogLevel:       "DEBUG",
	}), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/countries", cfg.CountriesURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 64, cfg.ImageCacheSize)
	assert.Equal(t, "/tmp/countries.log", cfg.LogFile)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	vars := map[string]string{
		EnvCountriesURL:   "http://env.example/countries",
		EnvHTTPTimeout:    "1m",
		EnvImageCacheSize: "64",
		EnvLogLevel:       "debug",
	}
	cfg, err := Parse([]string{
		"-url", "http://flag.example/countries",
		"-timeout", "5s",
		"-image-cache", "8",
		"-log-level", "warn",
		"-filter", "<5M",
		"-search", "aus",
		"-plain",
		"-format", "Markdown",
	}, env(vars), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example/countries", cfg.CountriesURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 8, cfg.ImageCacheSize)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel)
	assert.Equal(t, models.CountryFilter{SearchText: "aus", Criterion: models.Under5M}, cfg.Filter)
	assert.True(t, cfg.Plain)
	assert.Equal(t, FormatMarkdown, cfg.Format)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		vars map[string]string
	}{
		{name: "bad env timeout", vars: map[string]string{EnvHTTPTimeout: "soon"}},
		{name: "bad env cache size", vars: map[string]string{EnvImageCacheSize: "lots"}},
		{name: "zero timeout", args: []string{"-timeout", "0s"}},
		{name: "negative cache", args: []string{"-image-cache", "-1"}},
		{name: "empty url", args: []string{"-url", "  "}},
		{name: "unknown log level", args: []string{"-log-level", "chatty"}},
		{name: "bad filter", args: []string{"-filter", "tiny"}},
		{name: "negative filter", args: []string{"-filter", "-5M"}},
		{name: "unknown format", args: []string{"-format", "csv"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, env(tt.vars), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"-h"}, env(nil), io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30", 30 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
		{"2m", 2 * time.Minute},
	}
	for _, tt := range tests {
		got, err := parseTimeout(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
