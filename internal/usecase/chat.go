package usecase

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"rendezvous/internal/domain"
	"rendezvous/internal/realtime"
)

// ChatRoom is the customer side of the staff chat for one scope.
type ChatRoom struct {
	ch           EventChannel
	scope        realtime.Scope
	customerName string
	log          *slog.Logger

	mu       sync.Mutex
	messages []domain.ChatMessage
	offs     []func()
}

func NewChatRoom(ch EventChannel, scope realtime.Scope, customerName string, log *slog.Logger) *ChatRoom {
	if log == nil {
		log = slog.Default()
	}
	return &ChatRoom{
		ch:           ch,
		scope:        scope,
		customerName: customerName,
		log:          log.With("scope", scope.String()),
	}
}

func (r *ChatRoom) Scope() realtime.Scope { return r.scope }

// Open joins the room and asks for its history, now if connected and again
// after every reconnect.
func (r *ChatRoom) Open() {
	offs := []func(){
		r.ch.On(r.scope.Event(realtime.ActionHistoryResult), r.onHistory),
		r.ch.On(r.scope.Event(realtime.ActionReceive), r.onReceive),
	}
	r.mu.Lock()
	r.offs = append(r.offs, offs...)
	r.mu.Unlock()

	off := r.ch.OnConnect(r.join)
	r.mu.Lock()
	r.offs = append(r.offs, off)
	r.mu.Unlock()
}

func (r *ChatRoom) join() {
	if err := r.ch.Emit(r.scope.Event(realtime.ActionJoin), r.scope.Payload()); err != nil {
		r.log.Warn("chat join failed", "error", err)
		return
	}
	if err := r.ch.Emit(r.scope.Event(realtime.ActionHistory), r.scope.Payload()); err != nil {
		r.log.Warn("chat history request failed", "error", err)
	}
}

func (r *ChatRoom) onHistory(data json.RawMessage) {
	var ev realtime.ChatHistoryEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		r.log.Warn("bad chat history payload", "error", err)
		return
	}
	if !r.scope.Matches(ev.SessionID, ev.TableID) {
		return
	}
	r.mu.Lock()
	r.messages = append([]domain.ChatMessage{}, ev.Messages...)
	r.mu.Unlock()
}

func (r *ChatRoom) onReceive(data json.RawMessage) {
	var ev realtime.ChatReceiveEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		r.log.Warn("bad chat message payload", "error", err)
		return
	}
	if !r.scope.Matches(ev.SessionID, ev.TableID) {
		return
	}
	r.mu.Lock()
	r.messages = append(r.messages, ev.Message)
	r.mu.Unlock()
}

func (r *ChatRoom) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrBadRequest("message required")
	}
	p := realtime.ChatSendPayload{
		Message:    text,
		SenderName: r.customerName,
		SenderRole: domain.SenderCustomer,
	}
	if r.scope.Kind() == realtime.ScopeTable {
		p.TableID = r.scope.ID()
	} else {
		p.SessionID = r.scope.ID()
	}
	if err := r.ch.Emit(r.scope.Event(realtime.ActionSend), p); err != nil {
		return &ErrUnavailable{Op: "send chat message", Err: err}
	}
	return nil
}

// Messages returns the conversation in receipt order.
func (r *ChatRoom) Messages() []domain.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ChatMessage{}, r.messages...)
}

// Close leaves the room if the channel is up; nothing is retried otherwise.
func (r *ChatRoom) Close() {
	if r.ch.Connected() {
		if err := r.ch.Emit(r.scope.Event(realtime.ActionLeave), r.scope.Payload()); err != nil {
			r.log.Debug("chat leave not delivered", "error", err)
		}
	}
	r.mu.Lock()
	offs := r.offs
	r.offs = nil
	r.mu.Unlock()
	for _, off := range offs {
		off()
	}
}
