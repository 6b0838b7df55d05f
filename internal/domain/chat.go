package domain

import "time"

type SenderRole string

const (
	SenderCustomer SenderRole = "customer"
	SenderStaff    SenderRole = "staff"
)

type ChatMessage struct {
	ID         string     `json:"_id"`
	SessionID  string     `json:"sessionId,omitempty"`
	TableID    string     `json:"tableId,omitempty"`
	SenderID   string     `json:"senderId"`
	SenderName string     `json:"senderName"`
	SenderRole SenderRole `json:"senderRole"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"createdAt"`
}
