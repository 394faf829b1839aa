package realtime

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	received []Event
	failNext bool
	closed   bool
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return errors.New("connexion fermée")
	}
	f.received = append(f.received, v.(Event))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event{}, f.received...)
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	c1, c2 := &fakeConn{}, &fakeConn{}
	hub.Subscribe(c1)
	hub.Subscribe(c2)

	hub.Broadcast(Event{Type: EventNewOrder, Data: "order-1"})

	require.Len(t, c1.events(), 1)
	require.Len(t, c2.events(), 1)
	assert.Equal(t, EventNewOrder, c1.events()[0].Type)
}

func TestBroadcastRemovesDeadSubscriber(t *testing.T) {
	hub := NewHub()
	alive, dead := &fakeConn{}, &fakeConn{failNext: true}
	hub.Subscribe(alive)
	hub.Subscribe(dead)
	require.Equal(t, 2, hub.Count())

	hub.Broadcast(Event{Type: EventNewOrder, Data: "order-1"})

	assert.Equal(t, 1, hub.Count(), "l'abonné mort est retiré")
	assert.True(t, dead.closed)

	// l'abonné sain continue de recevoir
	hub.Broadcast(Event{Type: EventNewOrder, Data: "order-2"})
	assert.Len(t, alive.events(), 2)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}
	sub := hub.Subscribe(c)

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Count())

	hub.Broadcast(Event{Type: EventNewOrder})
	assert.Empty(t, c.events())
}

func TestBroadcastWithoutSubscribersIsSafe(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.Broadcast(Event{Type: EventNewOrder})
	})
}

// overlapConn détecte deux WriteJSON simultanés sur la même connexion,
// ce que gorilla/websocket sanctionne par un panic en production.
type overlapConn struct {
	inFlight int32
	overlaps int32
	writes   int32
}

func (o *overlapConn) WriteJSON(v any) error {
	if atomic.AddInt32(&o.inFlight, 1) > 1 {
		atomic.AddInt32(&o.overlaps, 1)
	}
	time.Sleep(time.Millisecond) // élargit la fenêtre de collision
	atomic.AddInt32(&o.inFlight, -1)
	atomic.AddInt32(&o.writes, 1)
	return nil
}

func (o *overlapConn) Close() error { return nil }

func TestBroadcastSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub()
	conn := &overlapConn{}
	hub.Subscribe(conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(Event{Type: EventNewOrder})
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&conn.overlaps),
		"deux diffusions simultanées ne doivent jamais écrire en parallèle sur la même connexion")
	assert.EqualValues(t, 8, atomic.LoadInt32(&conn.writes))
}

func TestConcurrentSubscribeAndBroadcast(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := hub.Subscribe(&fakeConn{})
			hub.Unsubscribe(sub)
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast(Event{Type: EventNewOrder})
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.Count())
}
