package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrNotConnected = errors.New("realtime: not connected")
	ErrClosed       = errors.New("realtime: channel closed")
)

// Conn is one live transport connection.
type Conn interface {
	Send(Envelope) error
	Receive() (Envelope, error)
	Close() error
}

type Transport interface {
	Dial(ctx context.Context) (Conn, error)
}

type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

type Handler func(data json.RawMessage)

type subscription struct {
	id uint64
	fn Handler
}

type hook struct {
	id uint64
	fn func()
}

// Channel is the single long-lived realtime connection of the client. It is
// built once by its owner and shared by reference; consumers register and
// deregister handlers but never close it.
type Channel struct {
	transport  Transport
	log        *slog.Logger
	retryDelay time.Duration

	mu       sync.Mutex
	conn     Conn
	state    State
	nextID   uint64
	handlers map[string][]subscription
	hooks    []hook

	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*Channel)

func WithLogger(l *slog.Logger) Option {
	return func(c *Channel) {
		if l != nil {
			c.log = l
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

func New(t Transport, opts ...Option) *Channel {
	c := &Channel{
		transport:  t,
		log:        slog.Default(),
		retryDelay: 2 * time.Second,
		handlers:   make(map[string][]subscription),
		done:       make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run keeps the channel connected until ctx is done or Close is called.
// Lost connections are redialled after the retry delay.
func (c *Channel) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return nil
		default:
		}
		conn, err := c.transport.Dial(ctx)
		if err != nil {
			c.log.Warn("realtime dial failed", "error", err, "retry_in", c.retryDelay)
		} else {
			c.serve(ctx, conn)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return nil
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Channel) serve(ctx context.Context, conn Conn) {
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		_ = conn.Close()
		return
	default:
	}
	c.conn = conn
	c.state = Connected
	hooks := append([]hook(nil), c.hooks...)
	c.mu.Unlock()
	c.log.Info("realtime connected")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-c.done:
		case <-stop:
			return
		}
		_ = conn.Close()
	}()

	for _, h := range hooks {
		h.fn()
	}
	for {
		env, err := conn.Receive()
		if err != nil {
			c.log.Info("realtime disconnected", "error", err)
			break
		}
		c.dispatch(env)
	}

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.state = Disconnected
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Channel) dispatch(env Envelope) {
	c.mu.Lock()
	subs := append([]subscription(nil), c.handlers[env.Event]...)
	c.mu.Unlock()
	if len(subs) == 0 {
		c.log.Debug("realtime event dropped", "event", env.Event)
		return
	}
	for _, s := range subs {
		s.fn(env.Data)
	}
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) Connected() bool {
	return c.State() == Connected
}

// Emit sends one event. It does not wait for any reply.
func (c *Channel) Emit(event string, payload any) error {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = b
	}
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Send(Envelope{Event: event, Data: data})
}

// On registers fn for event. The returned func removes it and is safe to call
// more than once.
func (c *Channel) On(event string, fn Handler) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[event] = append(c.handlers[event], subscription{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			subs := c.handlers[event]
			for i, s := range subs {
				if s.id == id {
					c.handlers[event] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(c.handlers[event]) == 0 {
				delete(c.handlers, event)
			}
		})
	}
}

// OnConnect runs fn on every (re)connect, and once right away if the channel
// is already connected.
func (c *Channel) OnConnect(fn func()) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.hooks = append(c.hooks, hook{id: id, fn: fn})
	connected := c.state == Connected
	c.mu.Unlock()

	if connected {
		fn()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, h := range c.hooks {
				if h.id == id {
					c.hooks = append(c.hooks[:i:i], c.hooks[i+1:]...)
					break
				}
			}
		})
	}
}

// Close tears the connection down for good. Only the owner calls it.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.state = Disconnected
		c.mu.Unlock()
		if conn != nil {
			err = conn.Close()
		}
	})
	return err
}
