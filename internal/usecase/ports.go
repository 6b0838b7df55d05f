package usecase

import (
	"context"

	"rendezvous/internal/domain"
	"rendezvous/internal/realtime"
)

type SessionStore interface {
	Put(*domain.OrderSession) error
	Get() (*domain.OrderSession, bool)
	Clear() error
}

type AuthClient interface {
	Session(ctx context.Context, token string) (*domain.Identity, error)
	SignInAnonymous(ctx context.Context) (*domain.Identity, string, error)
	UpdateUser(ctx context.Context, token, name string) error
}

type CatalogClient interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Tables(ctx context.Context) ([]domain.Table, error)
}

// EventChannel is the part of realtime.Channel the ordering flows use. None
// of them may close it.
type EventChannel interface {
	Emit(event string, payload any) error
	On(event string, fn realtime.Handler) func()
	OnConnect(fn func()) func()
	Connected() bool
}
