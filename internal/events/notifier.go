// Package events carries state-change notifications from the country store
// to presentation code.
package events

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/explorecountries/internal/models"
)

// Listener receives store notifications. Nil hooks are skipped.
// Hooks run synchronously on the publishing goroutine.
type Listener struct {
	OnListChanged    func(visible []models.Country)
	OnErrorOccurred  func(message string)
	OnLoadingChanged func(isLoading bool)
}

// Notifier fans notifications out to listeners in subscription order
type Notifier struct {
	mu        sync.RWMutex
	nextID    int64
	listeners map[int64]Listener
	logger    *log.Logger
}

// NewNotifier creates a notifier. logger may be nil; it receives recovered listener panics.
func NewNotifier(logger *log.Logger) *Notifier {
	return &Notifier{
		listeners: make(map[int64]Listener),
		logger:    logger,
	}
}

// Subscribe registers l and returns a func that removes it again.
// Calling the returned func more than once is harmless.
func (n *Notifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners[id] = l
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

// Len returns the number of registered listeners
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// ListChanged publishes the new visible list. Each listener gets its own copy.
func (n *Notifier) ListChanged(visible []models.Country) {
	for _, l := range n.snapshot() {
		if l.OnListChanged == nil {
			continue
		}
		list := append([]models.Country(nil), visible...)
		n.deliver("list_changed", func() { l.OnListChanged(list) })
	}
}

// ErrorOccurred publishes a user-facing error message
func (n *Notifier) ErrorOccurred(message string) {
	for _, l := range n.snapshot() {
		if l.OnErrorOccurred == nil {
			continue
		}
		n.deliver("error_occurred", func() { l.OnErrorOccurred(message) })
	}
}

// LoadingChanged publishes the loading flag
func (n *Notifier) LoadingChanged(isLoading bool) {
	for _, l := range n.snapshot() {
		if l.OnLoadingChanged == nil {
			continue
		}
		n.deliver("loading_changed", func() { l.OnLoadingChanged(isLoading) })
	}
}

// snapshot copies the listeners in subscription order so hooks run without the
// lock held and may subscribe or unsubscribe themselves.
func (n *Notifier) snapshot() []Listener {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ids := make([]int64, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = n.listeners[id]
	}
	return out
}

// deliver runs one hook, converting a panic into a logged error
func (n *Notifier) deliver(signal string, hook func()) {
	defer func() {
		if r := recover(); r != nil && n.logger != nil {
			n.logger.Error("Listener panicked", "signal", signal, "error", fmt.Sprint(r))
		}
	}()
	hook()
}
