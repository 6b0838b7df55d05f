package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"rendezvous/internal/domain"
	"rendezvous/internal/realtime"
)

type fakeStore struct {
	mu   sync.Mutex
	sess *domain.OrderSession
	puts int
}

func (f *fakeStore) Put(s *domain.OrderSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sess = &cp
	f.puts++
	return nil
}

func (f *fakeStore) Get() (*domain.OrderSession, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sess == nil {
		return nil, false
	}
	cp := *f.sess
	return &cp, true
}

func (f *fakeStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sess = nil
	return nil
}

type fakeAuth struct {
	user       *domain.Identity
	sessionErr error
	signInErr  error
	guest      *domain.Identity
	renamed    []string
	signIns    int
}

func (f *fakeAuth) Session(ctx context.Context, token string) (*domain.Identity, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.user, nil
}

func (f *fakeAuth) SignInAnonymous(ctx context.Context) (*domain.Identity, string, error) {
	f.signIns++
	if f.signInErr != nil {
		return nil, "", f.signInErr
	}
	g := f.guest
	if g == nil {
		g = &domain.Identity{ID: "anon-1", IsAnonymous: true}
	}
	return g, "anon-token", nil
}

func (f *fakeAuth) UpdateUser(ctx context.Context, token, name string) error {
	f.renamed = append(f.renamed, name)
	return nil
}

type fakeCatalog struct {
	cats      []domain.Category
	tables    []domain.Table
	err       error
	tablesErr error
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]domain.Category, error) {
	return f.cats, f.err
}

func (f *fakeCatalog) Tables(ctx context.Context) ([]domain.Table, error) {
	return f.tables, f.tablesErr
}

type emitted struct {
	event string
	data  json.RawMessage
}

// recordingChannel is an EventChannel that never connects to anything.
type recordingChannel struct {
	mu        sync.Mutex
	connected bool
	emitErr   error
	emits     []emitted
	block     chan struct{}
	entered   chan struct{}
}

func (c *recordingChannel) Emit(event string, payload any) error {
	if c.entered != nil {
		select {
		case c.entered <- struct{}{}:
		default:
		}
	}
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.emitErr != nil {
		return c.emitErr
	}
	b, _ := json.Marshal(payload)
	c.emits = append(c.emits, emitted{event: event, data: b})
	return nil
}

func (c *recordingChannel) On(event string, fn realtime.Handler) func() { return func() {} }

func (c *recordingChannel) OnConnect(fn func()) func() { return func() {} }

func (c *recordingChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *recordingChannel) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, e := range c.emits {
		out = append(out, e.event)
	}
	return out
}

var errDown = errors.New("upstream down")
