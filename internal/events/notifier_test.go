package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/explorecountries/internal/models"
)

// recorder appends every signal it sees to a shared log
func recorder(name string, trail *[]string) Listener {
	return Listener{
		OnListChanged:    func(v []models.Country) { *trail = append(*trail, name+":list") },
		OnErrorOccurred:  func(msg string) { *trail = append(*trail, name+":error:"+msg) },
		OnLoadingChanged: func(b bool) { *trail = append(*trail, name+":loading") },
	}
}

func TestDeliveryFollowsSubscriptionOrder(t *testing.T) {
	n := NewNotifier(nil)
	var trail []string
	for _, name := range []string{"a", "b", "c"} {
		n.Subscribe(recorder(name, &trail))
	}

	n.LoadingChanged(true)
	n.ErrorOccurred("boom")

	assert.Equal(t, []string{
		"a:loading", "b:loading", "c:loading",
		"a:error:boom", "b:error:boom", "c:error:boom",
	}, trail)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	n := NewNotifier(nil)
	var trail []string
	unsubscribe := n.Subscribe(recorder("a", &trail))
	n.Subscribe(recorder("b", &trail))

	unsubscribe()
	unsubscribe()
	require.Equal(t, 1, n.Len())

	n.LoadingChanged(false)
	assert.Equal(t, []string{"b:loading"}, trail)
}

func TestNilHooksAreSkipped(t *testing.T) {
	n := NewNotifier(nil)
	var got []bool
	n.Subscribe(Listener{OnLoadingChanged: func(b bool) { got = append(got, b) }})

	assert.NotPanics(t, func() {
		n.ListChanged(nil)
		n.ErrorOccurred("x")
		n.LoadingChanged(true)
	})
	assert.Equal(t, []bool{true}, got)
}

// TestPanickingListenerDoesNotStopDelivery verifies one bad subscriber cannot starve the rest
func TestPanickingListenerDoesNotStopDelivery(t *testing.T) {
	n := NewNotifier(nil)
	n.Subscribe(Listener{OnErrorOccurred: func(string) { panic("render failed") }})
	var got string
	n.Subscribe(Listener{OnErrorOccurred: func(msg string) { got = msg }})

	assert.NotPanics(t, func() { n.ErrorOccurred("Failed to decode data.") })
	assert.Equal(t, "Failed to decode data.", got)
}

func TestListenersReceiveCopies(t *testing.T) {
	n := NewNotifier(nil)
	var first []models.Country
	n.Subscribe(Listener{OnListChanged: func(v []models.Country) {
		first = v
		v[0].Name = "mutated"
	}})
	var second []models.Country
	n.Subscribe(Listener{OnListChanged: func(v []models.Country) { second = v }})

	src := []models.Country{{Name: "Austria"}}
	n.ListChanged(src)

	assert.Equal(t, "mutated", first[0].Name)
	assert.Equal(t, "Austria", second[0].Name)
	assert.Equal(t, "Austria", src[0].Name)
}

func TestListenerMayUnsubscribeDuringDelivery(t *testing.T) {
	n := NewNotifier(nil)
	calls := 0
	var unsubscribe func()
	unsubscribe = n.Subscribe(Listener{OnLoadingChanged: func(bool) {
		calls++
		unsubscribe()
	}})

	n.LoadingChanged(true)
	n.LoadingChanged(false)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, n.Len())
}
