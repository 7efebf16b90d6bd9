package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/explorecountries/internal/events"
	"github.com/thesavant42/explorecountries/internal/models"
	"github.com/thesavant42/explorecountries/internal/store"
)

// Store notifications as Bubble Tea messages
type (
	listChangedMsg struct{ visible []models.Country }
	fetchErrorMsg  struct{ message string }
	loadingMsg     struct{ loading bool }
)

// forwarder queues store notifications and hands them to send one at a time,
// in publish order. The store may publish from inside Update, where a direct
// Program.Send would block, so the listener only enqueues.
type forwarder struct {
	mu      sync.Mutex
	pending []tea.Msg
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

func newForwarder() *forwarder {
	return &forwarder{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (f *forwarder) listener() events.Listener {
	return events.Listener{
		OnListChanged:    func(v []models.Country) { f.push(listChangedMsg{visible: v}) },
		OnErrorOccurred:  func(msg string) { f.push(fetchErrorMsg{message: msg}) },
		OnLoadingChanged: func(b bool) { f.push(loadingMsg{loading: b}) },
	}
}

func (f *forwarder) push(msg tea.Msg) {
	f.mu.Lock()
	f.pending = append(f.pending, msg)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *forwarder) pop() (tea.Msg, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return nil, false
	}
	msg := f.pending[0]
	f.pending = f.pending[1:]
	return msg, true
}

func (f *forwarder) run(send func(tea.Msg)) {
	defer close(f.stopped)
	for {
		select {
		case <-f.done:
			return
		case <-f.wake:
		}
		for {
			msg, ok := f.pop()
			if !ok {
				break
			}
			send(msg)
		}
	}
}

// Forward subscribes to s and delivers its notifications to p with
// Program.Send. The returned func unsubscribes and waits for the forwarding
// goroutine to exit.
func Forward(p *tea.Program, s *store.Store) (stop func()) {
	return forward(p.Send, s)
}

func forward(send func(tea.Msg), s *store.Store) (stop func()) {
	f := newForwarder()
	unsubscribe := s.Subscribe(f.listener())
	go f.run(send)

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			close(f.done)
			<-f.stopped
		})
	}
}
