// Package store owns the fetched country list and the filtered view of it.
//
// FetchAll and the filter setters may be called from different goroutines.
// Each state change and its notifications happen under one publish lock, so
// listeners see lists in the same order the state changed and the last list
// published always matches the current filter. Listeners may read the store
// back but must not call FetchAll or a setter from inside a hook.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/explorecountries/internal/api"
	"github.com/thesavant42/explorecountries/internal/events"
	"github.com/thesavant42/explorecountries/internal/models"
)

// MaxAttempts bounds FetchAll: the first request plus two immediate retries
const MaxAttempts = 3

// ErrFetchInProgress is returned by FetchAll while another FetchAll is running
var ErrFetchInProgress = errors.New("fetch already in progress")

// State of the fetch state machine
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Fetcher retrieves the full country list. *api.Client satisfies it.
type Fetcher interface {
	FetchCountries(ctx context.Context, url string) ([]models.Country, error)
}

// Store holds all fetched countries and the subset currently visible
type Store struct {
	fetcher  Fetcher
	url      string
	notifier *events.Notifier
	logger   *log.Logger

	// pub orders state changes with their notifications; taken before mu
	pub sync.Mutex

	mu         sync.Mutex
	state      State
	all        []models.Country
	visible    []models.Country
	filter     models.CountryFilter
	retryCount int
	lastErr    string
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for fetch attempts
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithNotifier shares an existing notifier instead of creating one
func WithNotifier(n *events.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithFilter sets the filter in place before the first fetch
func WithFilter(f models.CountryFilter) Option {
	return func(s *Store) { s.filter = f }
}

// New creates an idle store that fetches from url
func New(fetcher Fetcher, url string, opts ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		url:     url,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = events.NewNotifier(s.logger)
	}
	return s
}

// Subscribe registers a listener for list, error and loading notifications
func (s *Store) Subscribe(l events.Listener) (unsubscribe func()) {
	return s.notifier.Subscribe(l)
}

// FetchAll downloads the country list, retrying immediately on any failure
// until MaxAttempts requests have been made.
//
// Notifications: loading(true) first; on success loading(false) then the new
// visible list; on failure loading(false) then the user-facing message. The
// previously loaded list is kept on failure. The returned error is the last
// fetch error.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return ErrFetchInProgress
	}
	s.state = StateLoading
	s.retryCount = 0
	s.mu.Unlock()

	s.pub.Lock()
	s.notifier.LoadingChanged(true)
	s.pub.Unlock()

	countries, attempts, err := s.fetchWithRetry(ctx)

	s.pub.Lock()
	defer s.pub.Unlock()

	if err != nil {
		msg := api.UserMessage(err)

		s.mu.Lock()
		s.state = StateFailed
		s.lastErr = msg
		s.mu.Unlock()

		if s.logger != nil {
			s.logger.Error("Fetch failed", "attempts", attempts, "kind", api.KindOf(err), "error", err)
		}
		s.notifier.LoadingChanged(false)
		s.notifier.ErrorOccurred(msg)
		return err
	}

	s.mu.Lock()
	s.retryCount = 0
	s.all = countries
	s.state = StateLoaded
	s.lastErr = ""
	s.visible = Visible(s.all, s.filter)
	visible := s.visible
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Countries loaded", "attempts", attempts, "total", len(countries), "visible", len(visible))
	}
	s.notifier.LoadingChanged(false)
	s.notifier.ListChanged(visible)
	return nil
}

// fetchWithRetry runs the request loop and reports how many requests it made.
// backoff calls the operation and the notify hook on this goroutine, in turn.
func (s *Store) fetchWithRetry(ctx context.Context) ([]models.Country, int, error) {
	attempts := 0
	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, MaxAttempts-1), ctx)
	countries, err := backoff.RetryNotifyWithData(func() ([]models.Country, error) {
		attempts++
		if s.logger != nil {
			s.logger.Debug("Fetching countries", "url", s.url, "attempt", attempts)
		}
		return s.fetcher.FetchCountries(ctx, s.url)
	}, policy, func(err error, _ time.Duration) {
		s.mu.Lock()
		s.retryCount++
		retry := s.retryCount
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Warn("Fetch failed, retrying", "retry", retry, "kind", api.KindOf(err), "error", err)
		}
	})
	return countries, attempts, err
}

// SetCriterion changes the population filter and publishes the new list
func (s *Store) SetCriterion(c models.Criterion) {
	s.update(func(f *models.CountryFilter) { f.Criterion = c })
}

// SetSearchText changes the name search and publishes the new list
func (s *Store) SetSearchText(text string) {
	s.update(func(f *models.CountryFilter) { f.SearchText = text })
}

// SetFilter replaces criterion and search text together, publishing once
func (s *Store) SetFilter(filter models.CountryFilter) {
	s.update(func(f *models.CountryFilter) { *f = filter })
}

func (s *Store) update(change func(*models.CountryFilter)) {
	s.pub.Lock()
	defer s.pub.Unlock()

	s.mu.Lock()
	change(&s.filter)
	s.visible = Visible(s.all, s.filter)
	visible := s.visible
	s.mu.Unlock()

	s.notifier.ListChanged(visible)
}

// Visible returns a copy of the visible countries
func (s *Store) Visible() []models.Country {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Country(nil), s.visible...)
}

// All returns a copy of every fetched country in server order
func (s *Store) All() []models.Country {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Country(nil), s.all...)
}

// Filter returns the active filter
func (s *Store) Filter() models.CountryFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// State returns the fetch state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RetryCount returns how many retries the current or last FetchAll made.
// It is 0 after a success.
func (s *Store) RetryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retryCount
}

// LastError returns the message of the last failed FetchAll, or ""
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// CriterionCounts reports per-preset counts for the current search text
func (s *Store) CriterionCounts() []CriterionCount {
	s.mu.Lock()
	all, search := s.all, s.filter.SearchText
	s.mu.Unlock()
	return CountByCriterion(all, search)
}
