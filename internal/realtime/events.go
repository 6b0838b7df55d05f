package realtime

import (
	"encoding/json"

	"rendezvous/internal/domain"
)

// Order events shared with the order server.
const (
	EventOrderSubmit        = "customer:order"
	EventOrderSubmitted     = "order:submitted"
	EventOrderGet           = "order:get"
	EventOrderGetResult     = "order:get:result"
	EventOrderStatusChanged = "order:status:changed"
	EventPaymentSuccess     = "order:payment:success"
	EventTableSessionJoin   = "table:session:join"
)

// Envelope is one frame on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type OrderStatusEvent struct {
	OrderID     string             `json:"orderId"`
	QueueStatus domain.QueueStatus `json:"queueStatus"`
	OrderNumber string             `json:"orderNumber,omitempty"`
}

type ChatHistoryEvent struct {
	SessionID string               `json:"sessionId,omitempty"`
	TableID   string               `json:"tableId,omitempty"`
	Messages  []domain.ChatMessage `json:"messages"`
}

type ChatReceiveEvent struct {
	SessionID string             `json:"sessionId,omitempty"`
	TableID   string             `json:"tableId,omitempty"`
	Message   domain.ChatMessage `json:"message"`
}

type ChatSendPayload struct {
	TableID    string            `json:"tableId,omitempty"`
	SessionID  string            `json:"sessionId,omitempty"`
	Message    string            `json:"message"`
	SenderName string            `json:"senderName"`
	SenderRole domain.SenderRole `json:"senderRole"`
}
