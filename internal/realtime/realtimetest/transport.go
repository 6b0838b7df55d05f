// Package realtimetest provides an in-memory realtime transport for tests.
package realtimetest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"rendezvous/internal/realtime"
)

var errDropped = errors.New("realtimetest: connection dropped")

// Transport plays the server side of a realtime.Channel. Every Dial opens a
// fresh connection; Drop kills the current one.
type Transport struct {
	mu      sync.Mutex
	current *conn
	sent    []realtime.Envelope
	dials   int
	DialErr error
}

func NewTransport() *Transport {
	return &Transport{}
}

func (t *Transport) Dial(ctx context.Context) (realtime.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.DialErr != nil {
		return nil, t.DialErr
	}
	c := &conn{t: t, in: make(chan realtime.Envelope, 64), closed: make(chan struct{})}
	t.current = c
	t.dials++
	return c, nil
}

// Push delivers an event to the client as if the server had sent it.
func (t *Transport) Push(event string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	t.mu.Lock()
	c := t.current
	t.mu.Unlock()
	if c == nil {
		return errDropped
	}
	select {
	case c.in <- realtime.Envelope{Event: event, Data: b}:
		return nil
	case <-c.closed:
		return errDropped
	}
}

func (t *Transport) Drop() {
	t.mu.Lock()
	c := t.current
	t.current = nil
	t.mu.Unlock()
	if c != nil {
		_ = c.Close()
	}
}

func (t *Transport) Dials() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}

func (t *Transport) Sent() []realtime.Envelope {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]realtime.Envelope(nil), t.sent...)
}

func (t *Transport) SentEvents(event string) []realtime.Envelope {
	var out []realtime.Envelope
	for _, e := range t.Sent() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type conn struct {
	t      *Transport
	in     chan realtime.Envelope
	closed chan struct{}
	once   sync.Once
}

func (c *conn) Send(e realtime.Envelope) error {
	select {
	case <-c.closed:
		return errDropped
	default:
	}
	c.t.mu.Lock()
	c.t.sent = append(c.t.sent, e)
	c.t.mu.Unlock()
	return nil
}

func (c *conn) Receive() (realtime.Envelope, error) {
	select {
	case e := <-c.in:
		return e, nil
	case <-c.closed:
		return realtime.Envelope{}, errDropped
	}
}

func (c *conn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// WaitFor polls cond until it holds or two seconds pass.
func WaitFor(tb testing.TB, what string, cond func() bool) {
	tb.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	tb.Fatalf("timed out waiting for %s", what)
}

// Start runs ch against t until the test ends and waits for the first connect.
func Start(tb testing.TB, ch *realtime.Channel, t *Transport) {
	tb.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ch.Run(ctx)
	}()
	tb.Cleanup(func() {
		cancel()
		<-done
	})
	WaitFor(tb, "connect", ch.Connected)
}
