package domain

import "time"

// Identity is what the auth server reports for the current bearer token.
type Identity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type QrType string

const (
	QrDineIn    QrType = "dine-in"
	QrWalkIn    QrType = "walk-in"
	QrDriveThru QrType = "drive-thru"
)

func (q QrType) Valid() bool {
	return q == QrDineIn || q == QrWalkIn || q == QrDriveThru
}

type OrderSession struct {
	CustomerName string    `json:"customerName"`
	TableID      string    `json:"tableId,omitempty"`
	QrType       QrType    `json:"qrType"`
	IsAnonymous  bool      `json:"isAnonymous"`
	UserID       string    `json:"userId,omitempty"`
	SessionID    string    `json:"sessionId,omitempty"`
	LastOrderID  string    `json:"lastOrderId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
