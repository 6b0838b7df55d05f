package realtime

import "rendezvous/internal/domain"

type ScopeKind int

const (
	ScopeSession ScopeKind = iota + 1
	ScopeTable
)

// Scope addresses chat traffic either to a session or to a table.
type Scope struct {
	kind ScopeKind
	id   string
}

func SessionScope(id string) Scope { return Scope{kind: ScopeSession, id: id} }

func TableScope(id string) Scope { return Scope{kind: ScopeTable, id: id} }

// ScopeFor picks the table room when the session knows its table and a
// per-guest room otherwise.
func ScopeFor(s domain.OrderSession) Scope {
	if s.TableID != "" {
		return TableScope(s.TableID)
	}
	if s.SessionID != "" {
		return SessionScope(s.SessionID)
	}
	return SessionScope(GuestSessionID(s.CustomerName))
}

func GuestSessionID(customerName string) string {
	return "guest-session-" + customerName
}

func (s Scope) Kind() ScopeKind { return s.kind }

func (s Scope) ID() string { return s.id }

func (s Scope) IsZero() bool { return s.kind == 0 || s.id == "" }

type Action string

const (
	ActionJoin          Action = "join"
	ActionLeave         Action = "leave"
	ActionHistory       Action = "history"
	ActionHistoryResult Action = "history:result"
	ActionSend          Action = "send"
	ActionReceive       Action = "receive"
)

// Event is the only place chat event names are built.
func (s Scope) Event(a Action) string {
	if s.kind == ScopeTable {
		return "chat:table:" + string(a)
	}
	return "chat:" + string(a)
}

func (s Scope) Payload() map[string]any {
	if s.kind == ScopeTable {
		return map[string]any{"tableId": s.id}
	}
	return map[string]any{"sessionId": s.id}
}

// Matches reports whether an inbound payload carrying these ids is addressed
// to this scope.
func (s Scope) Matches(sessionID, tableID string) bool {
	if s.kind == ScopeTable {
		return tableID == s.id
	}
	return sessionID == s.id
}

func (s Scope) String() string {
	if s.kind == ScopeTable {
		return "table:" + s.id
	}
	return "session:" + s.id
}
