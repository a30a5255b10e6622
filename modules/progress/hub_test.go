package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDuringDisconnectDoesNotPanic(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					hub.Publish(Event{Type: EventStageDone, CorrelationID: "corr-1", Stage: "render"})
				}
			}
		}()
	}

	// Clients connecting and dropping while the worker publishes: a send on a
	// channel closed by removeClient would panic and fail the test.
	for i := 0; i < 200; i++ {
		c := &client{send: make(chan Event, 1)}
		hub.addClient("corr-1", c)
		hub.removeClient("corr-1", c)
	}

	close(done)
	wg.Wait()
}

func TestPublishDropsWhenClientBufferFull(t *testing.T) {
	hub := NewHub()
	c := &client{send: make(chan Event, 1)}
	hub.addClient("corr-1", c)

	hub.Publish(Event{Type: EventStageStarted, CorrelationID: "corr-1"})
	hub.Publish(Event{Type: EventStageDone, CorrelationID: "corr-1"}) // dropped, buffer full

	first := <-c.send
	assert.Equal(t, EventStageStarted, first.Type)
	assert.Empty(t, c.send, "the second event must be dropped, not queued")

	hub.removeClient("corr-1", c)
	_, open := <-c.send
	assert.False(t, open, "removeClient must close the send channel")
}

func TestPublishOnlyReachesMatchingCorrelation(t *testing.T) {
	hub := NewHub()
	mine := &client{send: make(chan Event, 4)}
	other := &client{send: make(chan Event, 4)}
	hub.addClient("corr-1", mine)
	hub.addClient("corr-2", other)

	hub.Publish(Event{Type: EventSetReady, CorrelationID: "corr-1"})

	assert.Len(t, mine.send, 1)
	assert.Empty(t, other.send)
}
