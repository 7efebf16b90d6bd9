package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/thesavant42/explorecountries/internal/models"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultCountriesURL is the upstream countries endpoint
	DefaultCountriesURL = "https://api.sampleapis.com/countries/countries"
	DefaultTimeout      = 30 * time.Second
	userAgent           = "explorecountries/1.0"
	maxBodyBytes        = 32 << 20
)

// ErrResponseTooLarge is wrapped in a KindTransport FetchError when a body
// exceeds the read limit
var ErrResponseTooLarge = errors.New("response too large")

// Client performs single GET requests against the countries service and the
// image hosts it links to. It never retries; that is the store's job.
type Client struct {
	httpClient *http.Client
	logger     *log.Logger
	maxBody    int64
}

// NewClient creates a client with the given timeout (DefaultTimeout when <= 0).
// logger may be nil.
func NewClient(timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}

	// Cookies are scoped per eTLD+1
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		httpClient.Jar = jar
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		maxBody:    maxBodyBytes,
	}
}

// NewFileLogger opens logPath for appending and returns a logger writing to
// it. Close the returned file when done.
func NewFileLogger(logPath string, level log.Level) (*log.Logger, *os.File, error) {
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
	return logger, f, nil
}

// FetchCountries issues one GET against url and decodes the countries payload.
// Every failure is a *FetchError.
func (c *Client) FetchCountries(ctx context.Context, url string) ([]models.Country, error) {
	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return nil, err
	}

	countries, err := ParseCountriesFromJSON(body)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Decode failed", "url", url, "bytes", len(body), "error", err)
		}
		return nil, &FetchError{Kind: KindDecode, URL: url, Err: err}
	}

	if c.logger != nil {
		c.logger.Info("Fetched countries", "url", url, "count", len(countries))
	}
	return countries, nil
}

// FetchBytes downloads the raw body behind url, used for flag and emblem images.
// Errors follow the FetchCountries taxonomy, without KindDecode.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, "image/*")
}

// get performs the request and classifies transport, status and empty-body failures
func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to create request", "url", url, "error", err)
		}
		return nil, &FetchError{Kind: KindTransport, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Request-ID", requestID)

	if c.logger != nil {
		c.logger.Info("GET", "endpoint", url, "request_id", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "url", url, "request_id", requestID, "error", err)
		}
		return nil, &FetchError{Kind: KindTransport, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "request_id", requestID, "response", string(snippet))
		}
		return nil, &FetchError{Kind: KindHTTPStatus, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to read response", "url", url, "request_id", requestID, "error", err)
		}
		return nil, &FetchError{Kind: KindTransport, URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		if c.logger != nil {
			c.logger.Error("Response too large", "url", url, "request_id", requestID, "limit", c.maxBody)
		}
		return nil, &FetchError{Kind: KindTransport, URL: url, Err: fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		if c.logger != nil {
			c.logger.Warn("Empty response body", "url", url, "request_id", requestID, "status", resp.StatusCode)
		}
		return nil, &FetchError{Kind: KindNoData, URL: url}
	}

	if c.logger != nil {
		c.logger.Debug("Response", "url", url, "request_id", requestID, "status", resp.StatusCode, "bytes", len(body))
	}
	return body, nil
}
