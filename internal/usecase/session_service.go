package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rendezvous/internal/domain"
	"rendezvous/internal/realtime"
)

// Entry is what the customer arrives with: the query parameters of the
// ordering entry point and, if they signed in, a bearer token.
type Entry struct {
	TableID string        `json:"table"`
	QrType  domain.QrType `json:"type"`
	Token   string        `json:"-"`
}

type SessionService struct {
	Store   SessionStore
	Auth    AuthClient
	Catalog *CatalogService
	Log     *slog.Logger
	Now     func() time.Time
}

// Resolve establishes the identity every later realtime event is scoped to
// and persists it. A failed guest sign-in is returned as is; no identity is
// made up in its place.
func (s *SessionService) Resolve(ctx context.Context, e Entry) (*domain.OrderSession, error) {
	qr := e.QrType
	if qr == "" {
		qr = domain.QrDineIn
	}
	if !qr.Valid() {
		return nil, ErrBadRequest("invalid qr type")
	}
	tableID := strings.TrimSpace(e.TableID)
	label := ""
	if tableID != "" && s.Catalog != nil {
		label = s.Catalog.TableLabel(ctx, tableID)
	}

	user, err := s.Auth.Session(ctx, e.Token)
	if err != nil {
		s.logger().Warn("session lookup failed, continuing as guest", "error", err)
		user = nil
	}

	sess := &domain.OrderSession{TableID: tableID, QrType: qr}
	switch {
	case user != nil && !user.IsAnonymous:
		sess.CustomerName = SignedInName(user.Name, tableID, label)
		sess.UserID = user.ID
	case user != nil:
		name := GuestName(tableID, label, qr)
		if user.Name != name {
			if err := s.Auth.UpdateUser(ctx, e.Token, name); err != nil {
				return nil, &ErrUnavailable{Op: "rename guest", Err: err}
			}
		}
		sess.CustomerName = name
		sess.UserID = user.ID
		sess.IsAnonymous = true
	default:
		name := GuestName(tableID, label, qr)
		guest, token, err := s.Auth.SignInAnonymous(ctx)
		if err != nil {
			return nil, &ErrUnavailable{Op: "guest sign-in", Err: err}
		}
		if err := s.Auth.UpdateUser(ctx, token, name); err != nil {
			return nil, &ErrUnavailable{Op: "rename guest", Err: err}
		}
		sess.CustomerName = name
		sess.UserID = guest.ID
		sess.IsAnonymous = true
	}
	sess.SessionID = realtime.ScopeFor(*sess).ID()
	sess.CreatedAt = s.now()

	if err := s.Store.Put(sess); err != nil {
		return nil, err
	}
	s.logger().Info("ordering session started",
		"customer", sess.CustomerName, "table_id", sess.TableID, "qr_type", sess.QrType, "anonymous", sess.IsAnonymous)
	return sess, nil
}

func (s *SessionService) Current() (*domain.OrderSession, bool) {
	return s.Store.Get()
}

func (s *SessionService) End() error {
	return s.Store.Clear()
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *SessionService) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// GuestName is the display name given to a guest arriving through qr at
// tableID.
func GuestName(tableID, label string, qr domain.QrType) string {
	switch {
	case label != "":
		return "Customer " + label
	case tableID != "":
		return "Customer " + tableDisplay(tableID)
	case qr == domain.QrWalkIn:
		return "Walk-In Customer"
	case qr == domain.QrDriveThru:
		return "Drive-Thru Customer"
	}
	return "Guest"
}

func SignedInName(userName, tableID, label string) string {
	if userName == "" {
		userName = "Guest"
	}
	switch {
	case label != "":
		return "Customer " + label + " (" + userName + ")"
	case tableID != "":
		return "Customer " + tableDisplay(tableID) + " (" + userName + ")"
	}
	return userName
}

// EntryLabel is the heading shown on the entry screen.
func EntryLabel(tableID, label string, qr domain.QrType) string {
	switch {
	case qr == domain.QrWalkIn:
		return "Walk-In Order"
	case qr == domain.QrDriveThru:
		return "Drive-Thru Order"
	case label != "":
		return "Table: " + label
	case tableID != "":
		return "Table: " + tableDisplay(tableID)
	}
	return "Dine-In Order"
}

// tableDisplay turns "table-5" into "table #5".
func tableDisplay(tableID string) string {
	return strings.Replace(tableID, "-", " #", 1)
}
